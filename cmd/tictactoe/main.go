package main

import (
	"context"
	"ctchen222/terminal-tic-tac-toe/internal/bot"
	"ctchen222/terminal-tic-tac-toe/internal/config"
	"ctchen222/terminal-tic-tac-toe/internal/db"
	"ctchen222/terminal-tic-tac-toe/internal/events"
	"ctchen222/terminal-tic-tac-toe/internal/logger"
	"ctchen222/terminal-tic-tac-toe/internal/match"
	"ctchen222/terminal-tic-tac-toe/internal/player"
	"ctchen222/terminal-tic-tac-toe/internal/repository"
	"ctchen222/terminal-tic-tac-toe/internal/telemetry"
	"ctchen222/terminal-tic-tac-toe/internal/tui"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/logrusorgru/aurora"
)

func main() {
	configPath := flag.String("config", "config.yml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// deps are the optional services a game can use.
type deps struct {
	history   repository.HistoryRepository
	cache     bot.SearchCache
	publisher events.Publisher
	cleanup   []func() error
}

func (d *deps) close() {
	for _, fn := range d.cleanup {
		_ = fn()
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	closeLog, err := logger.Init(cfg.Log.File, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()

	// Initialize telemetry
	shutdown, err := telemetry.InitOtel(ctx, telemetry.Options{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Error("error shutting down telemetry", "error", err)
		}
	}()

	d := connect(ctx, cfg)
	defer d.close()

	calculator, err := bot.NewCalculator(d.cache, bot.Options{Prune: cfg.Search.Prune})
	if err != nil {
		return err
	}
	difficulty, err := bot.ParseDifficulty(cfg.Game.Difficulty)
	if err != nil {
		return err
	}

	term, err := tui.Open()
	if err != nil {
		return err
	}
	res, roster, err := play(ctx, term, cfg, d, calculator, difficulty)
	term.Close()

	if err != nil {
		select {
		case <-term.Quit():
			slog.Info("game quit by the user")
			return nil
		default:
			return err
		}
	}

	tui.PrintSummary(os.Stdout, aurora.NewAurora(os.Getenv("NO_COLOR") == ""), res.Board, roster, res.Message())
	return nil
}

// connect opens the history database and redis when configured. Either
// being unavailable only disables the feature.
func connect(ctx context.Context, cfg *config.Config) *deps {
	d := &deps{}

	if cfg.History.Path != "" {
		conn, err := db.Connect(ctx, cfg.History.Path)
		if err != nil {
			slog.Warn("match history disabled", "db.path", cfg.History.Path, "error", err)
		} else {
			d.history = repository.NewHistoryRepository(conn)
			d.cleanup = append(d.cleanup, conn.Close)
		}
	}

	if cfg.Redis.Addr != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.Addr)
		if err != nil {
			slog.Warn("redis features disabled", "redis.addr", cfg.Redis.Addr, "error", err)
		} else {
			if cfg.Search.Cache {
				d.cache = repository.NewSearchCache(rdb, cfg.Redis.CacheTTL)
			}
			d.publisher = events.NewRedisPublisher(rdb)
			d.cleanup = append(d.cleanup, rdb.Close)
		}
	}
	return d
}

func play(ctx context.Context, term *tui.Terminal, cfg *config.Config, d *deps, calculator *bot.Calculator, difficulty bot.Difficulty) (match.Result, *player.Roster, error) {
	ctx, cancel := term.WithQuit(ctx)
	defer cancel()

	setup, err := term.RunSetup(ctx)
	if err != nil {
		return match.Result{}, nil, err
	}

	movers := make([]match.Mover, len(setup.Roster.Players))
	for i, seat := range setup.Roster.Players {
		if seat.Kind == player.Computer {
			movers[i] = bot.NewBot(calculator, difficulty, cfg.Game.ComputerDelay)
		} else {
			movers[i] = tui.NewHumanMover(term, setup.Roster)
		}
	}

	display := tui.NewDisplay(term, setup.Roster)
	opts := []match.Option{match.WithObserver(display)}
	if d.history != nil {
		opts = append(opts, match.WithHistory(d.history))
	}
	if d.publisher != nil {
		opts = append(opts, match.WithPublisher(d.publisher))
	}

	m, err := match.New(setup.Mode, setup.Roster, cfg.Board.Size, setup.First, movers, opts...)
	if err != nil {
		return match.Result{}, nil, err
	}
	res, err := m.Run(ctx)
	if err != nil {
		return match.Result{}, nil, err
	}

	if err := display.ShowResult(ctx, res.Board, res.Message()); err != nil {
		return match.Result{}, nil, err
	}
	return res, setup.Roster, nil
}
