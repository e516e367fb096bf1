package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/voyageprep/voyage-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		a.Log.Info("Shutting down...")
		a.Shutdown()
	}()

	if err := a.Start(); err != nil {
		a.Log.Error("Server failed", "error", err)
		a.Shutdown()
		os.Exit(1)
	}
}
