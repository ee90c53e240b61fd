package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/amirphl/set-cross/internal/backtest"
	"github.com/amirphl/set-cross/internal/chart"
	"github.com/amirphl/set-cross/internal/config"
	"github.com/amirphl/set-cross/internal/market"
	"github.com/amirphl/set-cross/internal/utils"
	"go.uber.org/zap"
)

func main() {
	cfg := config.MustLoadConfig()

	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	utils.SetLogger(logger)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("Run failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	logger.Info("Starting set-cross",
		zap.String("symbol", cfg.Symbol),
		zap.String("source", cfg.Source),
		zap.String("from", cfg.From.Format(config.DateLayout)),
		zap.String("ma", cfg.MAType),
		zap.Int("fast", cfg.FastPeriod),
		zap.Int("slow", cfg.SlowPeriod))

	src, err := market.New(cfg)
	if err != nil {
		return err
	}
	frame, err := market.FetchFrame(ctx, src, cfg.Symbol, cfg.From.Time, cfg.To.Time)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	logger.Info("Loaded history", zap.Int("bars", frame.Len()))

	bt := backtest.CrossBacktest{
		MAType:      cfg.MAType,
		FastPeriod:  cfg.FastPeriod,
		SlowPeriod:  cfg.SlowPeriod,
		RSIPeriod:   cfg.RSIPeriod,
		EntryMarker: cfg.EntryMarker,
		ExitMarker:  cfg.ExitMarker,
		Strict:      cfg.StrictAlternation,
	}
	report, err := bt.Run(frame)
	if err != nil {
		return err
	}

	for _, t := range report.Trades {
		logger.Info("Trade",
			zap.String("entry_date", t.EntryDate),
			zap.Float64("entry_price", t.EntryPrice),
			zap.String("exit_date", t.ExitDate),
			zap.Float64("exit_price", t.ExitPrice),
			zap.Float64("profit", t.Profit))
	}
	logger.Info("Cross profit",
		zap.String("symbol", report.Symbol),
		zap.Int("crosses", report.Events.Len()),
		zap.Int("trades", len(report.Trades)),
		zap.Float64("profit", report.Profit))

	if cfg.TradesOut != "" {
		if err := writeTrades(cfg.TradesOut, report); err != nil {
			return fmt.Errorf("writing trades: %w", err)
		}
		logger.Info("Trades written", zap.String("path", cfg.TradesOut), zap.Int("trades", len(report.Trades)))
	}

	if cfg.ChartMode == "none" {
		return nil
	}
	return renderChart(cfg, report, logger)
}

func writeTrades(path string, report backtest.Report) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteTradesCSV(out); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func renderChart(cfg config.Config, report backtest.Report, logger *zap.Logger) error {
	f := report.Frame
	if cfg.HeikinAshi {
		var err error
		if f, err = f.HeikenAshi(); err != nil {
			return err
		}
	}

	// Oscillators live on another scale, so they only make sense in their own panel.
	indicators := slices.Clone(report.MovingAverages)
	mode := chart.Mode(cfg.ChartMode)
	if mode == chart.Subplot && len(report.Oscillators) > 0 {
		indicators = slices.Clone(report.Oscillators)
	}

	ch, err := chart.Build(mode, f, indicators, chart.NewPalette(cfg.Palette))
	if err != nil {
		return fmt.Errorf("building chart: %w", err)
	}

	out, err := os.Create(cfg.ChartOut)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := ch.Render(out); err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}
	logger.Info("Chart written", zap.String("path", cfg.ChartOut), zap.Int("rows", f.Len()))
	return nil
}
