package main

import (
	"bufio"
	"flag"
	"os"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/contactdesk/contacts-service/internal/config"
)

// Usage example on the command line:
// > DBUSER=contacts DBPWD=secret DBHOST=localhost:3306 DBNAME=contacts go run ./cmd/migration -file=scripts/database.sql
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	db, err := sqlx.Open("mysql", cfg.DSN())
	if err != nil {
		panic(err)
	}
	defer db.Close()

	filePtr := flag.String("file", "scripts/database.sql", "the sql file to execute")
	flag.Parse()

	readFile, err := os.Open(*filePtr) // nosemgrep
	if err != nil {
		panic(err)
	}
	defer readFile.Close()

	fileScanner := bufio.NewScanner(readFile)
	fileScanner.Split(bufio.ScanLines)
	builder := strings.Builder{}
	for fileScanner.Scan() {
		line := fileScanner.Text()
		builder.WriteString(line)
		builder.WriteString(" ")
		if strings.Contains(line, ";") {
			sql := builder.String()
			db.MustExec(sql)
			builder = strings.Builder{}
		}
	}
}
