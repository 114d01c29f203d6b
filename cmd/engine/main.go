package main

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/api/controller"
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"ctchen222/terminal-tic-tac-toe/internal/config"
	"ctchen222/terminal-tic-tac-toe/internal/db"
	"ctchen222/terminal-tic-tac-toe/internal/events"
	"ctchen222/terminal-tic-tac-toe/internal/logger"
	"ctchen222/terminal-tic-tac-toe/internal/repository"
	"ctchen222/terminal-tic-tac-toe/internal/server"
	"ctchen222/terminal-tic-tac-toe/internal/telemetry"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	cfg := config.MustLoad(*configPath)

	// The engine has no terminal UI, so it logs to stderr.
	if _, err := logger.Init("", cfg.Log.Level); err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		slog.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	// Initialize SQLite DB
	var history repository.HistoryRepository
	if cfg.History.Path != "" {
		conn, err := db.Connect(ctx, cfg.History.Path)
		if err != nil {
			slog.Error("failed to open history database", "db.path", cfg.History.Path, "error", err)
			os.Exit(1)
		}
		defer conn.Close()
		history = repository.NewHistoryRepository(conn)
	}

	// Initialize Redis
	var cache bot.SearchCache
	if cfg.Redis.Addr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			slog.Error("failed to initialize redis", "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		if cfg.Search.Cache {
			cache = repository.NewSearchCache(rdb, cfg.Redis.CacheTTL)
		}
		go func() {
			if err := events.Subscribe(ctx, rdb, logEvent); err != nil {
				slog.Error("event subscriber stopped", "error", err)
			}
		}()
	}

	calculator, err := bot.NewCalculator(cache, bot.Options{Prune: cfg.Search.Prune})
	if err != nil {
		slog.Error("failed to create calculator", "error", err)
		os.Exit(1)
	}

	srv := server.NewServer(controller.NewEngineController(calculator, history))

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           otelhttp.NewHandler(srv.Engine(), "engine"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("http server started", "http.addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("ListenAndServe failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("server exiting")
}

// logEvent records match results published by terminal games.
func logEvent(ctx context.Context, e events.Event) {
	if e.Type != events.TypeMatchFinished {
		return
	}
	var payload events.MatchFinishedPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		slog.WarnContext(ctx, "malformed match_finished payload", "error", err)
		return
	}
	slog.InfoContext(ctx, "match finished",
		"match.id", payload.MatchID,
		"match.mode", payload.Mode,
		"match.winner", payload.Winner,
		"match.moves", payload.Moves,
	)
}
