// Package main provides the tasks command-line client.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// TASKS_SERVER may come from a local .env file
	_ = godotenv.Load()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
