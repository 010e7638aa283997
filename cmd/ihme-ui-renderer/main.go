package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ONSdigital/go-ns/log"
	"github.com/kbeame/ihme-ui/api"
	"github.com/kbeame/ihme-ui/config"
	"github.com/kbeame/ihme-ui/health"
)

func main() {
	log.Namespace = "ihme-ui-renderer"

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	cfg, err := config.Get()
	if err != nil {
		log.Error(err, nil)
		os.Exit(1)
	}
	cfg.Log()

	serverErrors := make(chan error, 1)
	api.CreateRendererAPI(cfg.BindAddr, cfg.CORSAllowedOrigins, serverErrors, api.RenderDefaults{
		Width:    cfg.DefaultWidth,
		ZoomStep: cfg.ZoomStep,
	})

	// block until the server fails or the process is told to stop
	select {
	case err := <-serverErrors:
		log.ErrorC("http server error", err, nil)
	case sig := <-signals:
		log.Debug("shutdown signal received", log.Data{"signal": sig.String()})
	}

	log.Info(fmt.Sprintf("shutting down with timeout %s", cfg.ShutdownTimeout), nil)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	if err := api.Close(ctx); err != nil {
		log.Error(err, nil)
	}
	cancel()

	// flush the timing summary on the way out
	health.LogTime()
	log.Info("shutdown complete", nil)
	os.Exit(1)
}
