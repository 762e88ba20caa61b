package main

import (
	"github.com/joho/godotenv"

	"github.com/seedlist/enricher/cmd"
)

func main() {
	// A missing .env file is fine; real deployments use environment variables.
	_ = godotenv.Load()
	cmd.Execute()
}
