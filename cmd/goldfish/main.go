package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/magefree/mage-goldfish/internal/config"
	"github.com/magefree/mage-goldfish/internal/game"
	"github.com/magefree/mage-goldfish/internal/optimizer"
	"github.com/magefree/mage-goldfish/internal/report"
	"github.com/magefree/mage-goldfish/internal/watch"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"
)

var (
	configPath    = flag.String("config", "configs/config.yaml", "path to configuration file")
	deckRangePath = flag.String("deckrange", "", "deck range YAML to optimize (overrides optimizer.deck_range)")
	decklistPath  = flag.String("decklist", "", "evaluate a single decklist file instead of optimizing")
	watchAddr     = flag.String("watch", "", "serve live epoch reports on this address (overrides watch.address)")
	version       = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting goldfish",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *decklistPath != "" {
		err = evaluate(ctx, cfg, *decklistPath, logger)
	} else {
		err = optimize(ctx, cfg, logger)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("interrupted")
			return
		}
		logger.Error("goldfish failed", zap.Error(err))
		os.Exit(1)
	}
}

func newEvaluator(cfg *config.Config, logger *zap.Logger) *optimizer.Evaluator {
	e := optimizer.NewEvaluator(cfg.Optimizer.Seed, logger)
	e.Trials = cfg.Optimizer.Trials
	if cfg.Optimizer.Workers > 0 {
		e.Workers = cfg.Optimizer.Workers
	}
	e.MaxTurns = cfg.Search.MaxTurns
	e.LeafLimit = cfg.Search.LeafLimit
	e.MaxDepth = cfg.Search.MaxDepth
	e.Options = game.Options{
		OpeningHand:   cfg.Search.OpeningHand,
		OpponentLife:  cfg.Search.OpponentLife,
		EventLog:      cfg.Search.EventLog,
		AllowDeferral: cfg.Search.AllowDeferral,
	}
	return e
}

func evaluate(ctx context.Context, cfg *config.Config, path string, logger *zap.Logger) error {
	text, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read decklist: %w", err)
	}

	e := newEvaluator(cfg, logger)
	logger.Info("evaluating decklist",
		zap.String("decklist", path),
		zap.Int("trials", e.Trials),
		zap.Int("max_turns", e.MaxTurns),
	)
	ev, err := e.Evaluate(ctx, string(text), 0)
	if err != nil {
		return err
	}
	report.New(os.Stdout, language.English).Evaluation(ev, cfg.Optimizer.TopLines)
	return nil
}

func optimize(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	path := cfg.Optimizer.DeckRange
	if *deckRangePath != "" {
		path = *deckRangePath
	}
	deckRange, err := optimizer.LoadDeckRange(path)
	if err != nil {
		return fmt.Errorf("load deck range: %w", err)
	}
	e := newEvaluator(cfg, logger)
	if err := deckRange.Validate(e.Pool); err != nil {
		return fmt.Errorf("deck range %s: %w", path, err)
	}

	opt := optimizer.New(deckRange, e, logger)
	opt.Epochs = cfg.Optimizer.Epochs
	opt.TopLines = cfg.Optimizer.TopLines

	printer := report.New(os.Stdout, language.English)
	opt.Observers = append(opt.Observers, printer.Observer(opt.Epochs))

	addr := cfg.Watch.Address
	if *watchAddr != "" {
		addr = *watchAddr
	}
	if cfg.Watch.Enabled || *watchAddr != "" {
		hub := watch.NewHub(opt, logger)
		hub.WriteTimeout = cfg.Watch.WriteTimeout
		hub.PingInterval = cfg.Watch.PingInterval
		go hub.Run(ctx)
		go func() {
			if err := hub.ListenAndServe(ctx, addr); err != nil {
				logger.Error("watch server error", zap.Error(err))
			}
		}()
		opt.Observers = append(opt.Observers, hub)
	}

	logger.Info("optimizing deck range",
		zap.String("deck_range", path),
		zap.Int("cards", deckRange.Size()),
		zap.Int("epochs", opt.Epochs),
		zap.Int("trials", e.Trials),
		zap.Int("workers", e.Workers),
	)
	final, err := opt.Run(ctx)
	printer.Range(final)
	return err
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
