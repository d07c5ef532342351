package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/safar/go-storefront/internal/config"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/store"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := store.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.String("backend", cfg.Store.Backend), zap.Error(err))
	}
	defer backend.Close()

	logger.Info("store opened", zap.String("backend", cfg.Store.Backend))

	bus := events.NewBus(logger)
	defer bus.Close()
	feed, _ := bus.Subscribe(64)
	go logEvents(feed, logger)

	a := newApp(ctx, cfg, backend, bus, logger, os.Stdout)

	if len(os.Args) > 1 {
		if err := a.run(ctx, os.Args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	shell(ctx, a)
}

// shell reads one command per line until EOF or "quit". The memory backend
// only keeps state for the life of the process, so this is how it is used.
func shell(ctx context.Context, a *app) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stdout, "> ")
	for scanner.Scan() {
		args := strings.Fields(scanner.Text())
		if len(args) == 1 && (args[0] == "quit" || args[0] == "exit") {
			return
		}
		if len(args) > 0 {
			if err := a.run(ctx, args); err != nil {
				fmt.Fprintf(os.Stdout, "error: %v\n", err)
			}
		}
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(os.Stdout, "> ")
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse LOG_LEVEL: %w", err)
	}
	zc.Level = level
	zc.OutputPaths = []string{"stderr"}

	return zc.Build()
}

// logEvents drains feed until the bus is closed.
func logEvents(feed <-chan events.Event, logger *zap.Logger) {
	for e := range feed {
		logger.Debug("event",
			zap.String("kind", string(e.Kind)),
			zap.String("subject", e.Subject),
			zap.Time("at", e.At))
	}
}
