package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/mmiru8/nailshop-api/internal/app"
	"github.com/mmiru8/nailshop-api/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := app.LoadConfig()
	lg := logger.New(logger.Options{
		Service: "nailshop-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	srv, cleanup, err := app.NewServer(cfg, lg)
	if err != nil {
		log.Fatalf("init: %v", err)
	}
	defer cleanup()

	lg.Info("listening", "port", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
