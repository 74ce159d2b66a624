package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Secrets like HYDRATOR_TENANT_CLIENTSECRET are typically kept in a
	// local .env file. Missing file is fine.
	_ = godotenv.Load()

	Execute(ctx)
}
