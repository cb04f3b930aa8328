package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hushdrop/hushdrop/internal/cli"
)

func main() {

	_ = godotenv.Load()

	serverURL := os.Getenv("HUSHDROP_SERVER")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	app := cli.NewApp(serverURL, os.Getenv("HUSHDROP_ADMIN_SECRET"), os.Stdout, os.Stderr)

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

}
