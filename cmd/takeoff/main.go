package main

import (
	"os"

	"github.com/joho/godotenv"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// A .env file is optional; ambient environment wins either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		// Malformed .env is worth failing loudly over
		rootCmd.PrintErrf("Error loading .env file: %v\n", err)
		os.Exit(1)
	}

	Execute()
}
