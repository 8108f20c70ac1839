package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kbahtiar/folio/internal/api"
	"github.com/kbahtiar/folio/internal/config"
	"github.com/kbahtiar/folio/internal/pkg/supabase"
	"github.com/kbahtiar/folio/pkg/database"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	db, err := database.NewClients(cfg.Redis)
	if err != nil {
		slog.Error("Failed to initialize redis client", "error", err)
		os.Exit(1)
	}
	defer db.Redis.Close()
	slog.Info("✅ Connected to Redis")

	sb, err := supabase.New(cfg.Supabase)
	if err != nil {
		slog.Error("Failed to initialize Supabase gateway", "error", err)
		os.Exit(1)
	}
	slog.Info("✅ Supabase gateway ready")

	server := api.NewServer(cfg, db, sb, slog.Default())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go server.RunSweeper(ctx)

	go func() {
		slog.Info("🚀 Server running", "port", cfg.Server.Port)
		if err := server.Start(); err != nil {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("🛑 Server shutting down...")
	if err := server.Shutdown(cfg.Server.ShutdownTimeout); err != nil {
		slog.Error("Shutdown error", "error", err)
	}
}
