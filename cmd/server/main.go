package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kavia-common/tic-tac-toe-classic/internal/api/controller"
	"github.com/kavia-common/tic-tac-toe-classic/internal/bot"
	"github.com/kavia-common/tic-tac-toe-classic/internal/config"
	"github.com/kavia-common/tic-tac-toe-classic/internal/logger"
	"github.com/kavia-common/tic-tac-toe-classic/internal/server"
	"github.com/kavia-common/tic-tac-toe-classic/internal/session"
	"github.com/kavia-common/tic-tac-toe-classic/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()

	logger.Init(slog.LevelDebug)

	// Create the session registry with the heuristic opponent
	manager := session.NewManager(bot.NewHeuristic(nil), cfg.OpponentDelay, cfg.SessionTTL)
	go manager.Run(ctx)
	defer manager.Close()

	// Create the Gin-based server
	sessions := controller.NewSessionController(manager, cfg)
	srv := server.NewServer(manager, sessions)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "port", cfg.Port, "environment", cfg.EnvLabel)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}
