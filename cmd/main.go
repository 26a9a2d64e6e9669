package main

import (
	"flag"
	"log/slog"

	"github.com/joho/godotenv"

	"msgboard/server"
)

func main() {
	envType := flag.String("env", "dev", "set the env type to dev or prod or staging")
	flag.Parse()

	// Optional .env file, mostly for local development overrides.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	slog.Info("Running in", "env", *envType)

	server.Run(envType)
}
