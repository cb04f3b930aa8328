package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/hushdrop/hushdrop/internal/server"
	"github.com/hushdrop/hushdrop/internal/server/config"
)

func main() {

	// Optional .env for local development.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
