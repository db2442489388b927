package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/yungbote/learnpath-backend/internal/app"
)

func main() {
	// Real environment wins over .env.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}

	runErr := a.Run(ctx)
	if runErr != nil {
		a.Log.Error("Server failed", "error", runErr)
	} else {
		a.Log.Info("Server stopped")
	}
	if err := a.Close(); err != nil {
		fmt.Printf("Shutdown error: %v\n", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
