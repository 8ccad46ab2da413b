// kds-server runs the kitchen display board: the in-memory order store, its
// order generator and minute tick, the HTTP API and the websocket stream.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/kiwari-pos/kds/internal/config"
	"github.com/kiwari-pos/kds/internal/menu"
	"github.com/kiwari-pos/kds/internal/notify"
	"github.com/kiwari-pos/kds/internal/router"
	"github.com/kiwari-pos/kds/internal/service"
	"github.com/kiwari-pos/kds/internal/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flagSet := pflag.NewFlagSet("kds-server", pflag.ContinueOnError)
	configPath := flagSet.String("config", os.Getenv("KDS_CONFIG"), "YAML config file")
	port := flagSet.String("port", "", "listen port")
	menuFile := flagSet.String("menu", "", "YAML menu file (default: built-in menu)")
	seed := flagSet.Bool("seed", true, "load the opening tickets")
	randSeed := flagSet.Uint64("rand-seed", 0, "generator seed, 0 for random")
	logLevel := flagSet.String("log-level", "", "debug, info, warn or error")
	amqpURL := flagSet.String("amqp-url", "", "publish events to this RabbitMQ URL")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if flagSet.Changed("port") {
		cfg.Port = *port
	}
	if flagSet.Changed("menu") {
		cfg.MenuFile = *menuFile
	}
	if flagSet.Changed("seed") {
		cfg.Seed = *seed
	}
	if flagSet.Changed("rand-seed") {
		cfg.RandSeed = *randSeed
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if flagSet.Changed("amqp-url") {
		cfg.AMQPURL = *amqpURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	catalog := menu.Default()
	if cfg.MenuFile != "" {
		if catalog, err = menu.LoadFile(cfg.MenuFile); err != nil {
			return err
		}
	}

	opts := service.Options{
		Menu:             catalog,
		Logger:           logger,
		FirstOrderNumber: cfg.FirstOrderNumber,
		GenerateMinDelay: cfg.GenerateMinDelay,
		GenerateMaxDelay: cfg.GenerateMaxDelay,
		TickInterval:     cfg.TickInterval,
	}
	if cfg.RandSeed != 0 {
		opts.Rand = rand.New(rand.NewPCG(cfg.RandSeed, cfg.RandSeed))
	}
	store, err := service.NewOrderStore(opts)
	if err != nil {
		return err
	}
	if cfg.Seed {
		if err := store.Seed(service.SeedOrders(time.Now())); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger)
	go hub.Run(ctx)
	store.Subscribe(hub)

	var publisherDone chan struct{}
	if cfg.AMQPURL != "" {
		publisher, err := notify.Dial(cfg.AMQPURL, cfg.AMQPExchange, logger)
		if err != nil {
			return err
		}
		defer publisher.Close()
		store.Subscribe(publisher)

		publisherDone = make(chan struct{})
		go func() {
			defer close(publisherDone)
			publisher.Run(ctx)
		}()
		logger.Info("publishing events", "exchange", cfg.AMQPExchange)
	}

	if err := store.Start(ctx); err != nil {
		return err
	}
	defer store.Stop()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(cfg, store, hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "port", cfg.Port, "orders", len(store.Orders()), "menu_items", catalog.Len())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	// Stop generating before the listener goes so no event races the close.
	store.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}

	if publisherDone != nil {
		stop()
		<-publisherDone
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
