package main

import (
	"context"
	"os"

	"catalog_portal/internal/client/apiclient"
	"catalog_portal/internal/client/cli"
	"catalog_portal/internal/client/config"
	"catalog_portal/internal/client/session"
	"catalog_portal/internal/client/storage"
	"catalog_portal/internal/platform/logger"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()
	logger.InitTo(os.Stderr, cfg.LogLevel, "text")

	db, err := storage.Open(ctx, cfg.DSN)
	if err != nil {
		logger.Log.Fatalf("Could not open local storage: %v", err)
	}

	store := session.New(storage.NewMetadataRepository(db), session.NewJWTDecoder(cfg.JWTKey))
	app := cli.NewApp(store, apiclient.New(cfg.APIBaseURL, nil), os.Stdin, os.Stdout, os.Stderr)

	code := app.Run(ctx, os.Args[1:])
	db.Close()
	os.Exit(code)
}
