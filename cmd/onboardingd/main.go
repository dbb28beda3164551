package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ledgerline/onboarding/internal/config"
	"github.com/ledgerline/onboarding/internal/server"
)

func main() {
	cfg := config.NewConfig()

	srv := server.NewServer(cfg)
	go func() {
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}

	log.Println("Server stopped")
}
