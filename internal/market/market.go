// Package market fetches historical daily candles from a data provider.
package market

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/amirphl/set-cross/internal/candle"
	"github.com/amirphl/set-cross/internal/config"
)

var ErrNoData = errors.New("no data")

// Source is a provider of historical candles.
type Source interface {
	Name() string
	// FetchHistory returns candles sorted by date ascending. The end day is
	// included; a zero end means through the latest available bar.
	FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]candle.Candle, error)
}

// New returns the source named by cfg.Source.
func New(cfg config.Config) (Source, error) {
	switch cfg.Source {
	case "", "yahoo":
		return NewYahooSource(cfg.Suffix, cfg.Interval), nil
	case "wallex":
		return NewWallexSource(cfg.WallexAPIKey, cfg.Interval), nil
	default:
		return nil, fmt.Errorf("unsupported market source: %s", cfg.Source)
	}
}

// FetchFrame fetches history and loads it into a frame.
func FetchFrame(ctx context.Context, src Source, symbol string, start, end time.Time) (candle.Frame, error) {
	candles, err := src.FetchHistory(ctx, symbol, start, end)
	if err != nil {
		return candle.Frame{}, err
	}
	return candle.NewFrame(symbol, candles)
}

// until returns the exclusive upper bound for a request ending on end.
// Providers stamp daily bars after midnight UTC, so the bound is the start of
// the following day.
func until(end time.Time) time.Time {
	if end.IsZero() {
		return time.Now().UTC()
	}
	day := end.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}

// finalize drops invalid bars, bars at or after bound, and duplicate dates,
// keeping the later one.
func finalize(candles []candle.Candle, bound time.Time) []candle.Candle {
	sort.SliceStable(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })
	out := candles[:0]
	for _, c := range candles {
		if err := c.Validate(); err != nil || !c.Date.Before(bound) {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Date.Equal(c.Date) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}
