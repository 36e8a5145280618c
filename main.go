package main

import (
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"eventwise/cmd"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
