package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/lawnchairsociety/dungeongen/internal/config"
	"github.com/lawnchairsociety/dungeongen/internal/logger"
	"github.com/lawnchairsociety/dungeongen/internal/server"
	"github.com/lawnchairsociety/dungeongen/internal/store"
)

func main() {
	configFile := flag.String("config", "data/dungeongen.yaml", "Path to config YAML file")
	listen := flag.String("listen", "", "Listen address (default: from config)")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("Warning: %v", err)
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *listen != "" {
		cfg.Service.Listen = *listen
	}
	if err := logger.Initialize(cfg.Logging); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logger.Info("Starting level service")

	var st *store.Store
	if cfg.Store.Enabled {
		st, err = store.OpenWithConfig(cfg.Store.Config)
		if err != nil {
			log.Fatalf("Failed to open level store: %v", err)
		}
		defer st.Close()
		logger.Info("Level store opened", "driver", cfg.Store.Driver)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, st)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("Level service error", "error", err)
		log.Fatalf("Level service error: %v", err)
	}
	logger.Info("Level service stopped", "levels_served", srv.Served())
}
