package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// main polls the health endpoint until the service answers, for use in
// scripts that must wait for the stack to come up.
func main() {
	url := os.Getenv("API_BASE_URL")
	if url == "" {
		url = "http://localhost:8080"
	}
	totalWaitTime := 0
	for {
		res, err := http.Get(url + "/health")
		if err == nil {
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				break
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		totalWaitTime += 5
		fmt.Printf("Waiting %d seconds\n", totalWaitTime)
		time.Sleep(5 * time.Second)
	}
}
