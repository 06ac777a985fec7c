package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	"github.com/contactdesk/contacts-service/internal/config"
	"github.com/contactdesk/contacts-service/internal/logger"
	"github.com/contactdesk/contacts-service/internal/repository"
	"github.com/contactdesk/contacts-service/internal/server"
	"github.com/contactdesk/contacts-service/internal/service"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=contacts DBPWD=secret DBHOST=localhost:3306 DBNAME=contacts go run ./cmd/service
func main() {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "could not load configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	sqlDB, err := openDatabase(cfg)
	if err != nil {
		log.Error("could not connect to database", "error", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	db := sqlx.NewDb(sqlDB, "mysql")
	contactRepo, err := repository.NewContactRepository(db)
	if err != nil {
		log.Error("could not prepare statements", "error", err)
		os.Exit(1)
	}
	contactService := service.NewContactService(contactRepo)
	router := server.New(contactService, cfg, log).SetupHttpRouter()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "mode", cfg.Mode)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", "error", err)
	}
	log.Info("server stopped")
}

// openDatabase opens the connection pool with the configured bounds and
// verifies connectivity before the server starts accepting requests.
func openDatabase(cfg *config.Config) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", cfg.DSN())
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}
