package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/app"
	"github.com/DevByte-Community/Community-API-Backend-sub000/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg); err != nil {
		log.Fatalf("app: %v", err)
	}
}
