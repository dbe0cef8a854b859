package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ostrauer/briefshelf-backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		a.Close()
		os.Exit(0)
	}()

	a.Log.Info("server listening", "port", a.Cfg.Port)
	if err := a.Run(); err != nil {
		a.Log.Error("server stopped", "error", err)
	}
}
