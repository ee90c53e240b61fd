package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirphl/set-cross/internal/candle"
	"github.com/amirphl/set-cross/internal/tfutils"
	"github.com/amirphl/set-cross/internal/utils"
	wallex "github.com/wallexchange/wallex-go"
	"go.uber.org/zap"
)

// candleClient is the part of the Wallex SDK client this package uses.
type candleClient interface {
	Candles(symbol, resolution string, from, to time.Time) ([]*wallex.Candle, error)
}

// WallexSource reads crypto candles from the Wallex exchange.
type WallexSource struct {
	client   candleClient
	interval string
}

func NewWallexSource(apiKey, interval string) *WallexSource {
	if interval == "" {
		interval = "1d"
	}
	return &WallexSource{
		client:   wallex.New(wallex.ClientOptions{APIKey: apiKey}),
		interval: interval,
	}
}

func (w *WallexSource) Name() string { return "wallex" }

// NormalizeSymbol turns "BTC-USDT" into "BTCUSDT".
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.ReplaceAll(symbol, "-", ""))
}

func (w *WallexSource) FetchHistory(ctx context.Context, symbol string, start, end time.Time) ([]candle.Candle, error) {
	resolution := tfutils.WallexResolution(w.interval)
	if resolution == "" {
		return nil, fmt.Errorf("unsupported interval: %s", w.interval)
	}
	bound := until(end)

	// The SDK takes no context, so only check it before the call.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	utils.GetLogger().Debug("Market | fetching history",
		zap.String("source", w.Name()),
		zap.String("symbol", symbol),
		zap.Time("start", start),
		zap.Time("until", bound))

	wallexCandles, err := w.client.Candles(NormalizeSymbol(symbol), resolution, start, bound)
	if err != nil {
		return nil, fmt.Errorf("fetching candles for %s: %w", symbol, err)
	}

	candles := make([]candle.Candle, 0, len(wallexCandles))
	for _, wc := range wallexCandles {
		if wc == nil {
			continue
		}
		open, _ := strconv.ParseFloat(string(wc.Open), 64)
		high, _ := strconv.ParseFloat(string(wc.High), 64)
		low, _ := strconv.ParseFloat(string(wc.Low), 64)
		cl, _ := strconv.ParseFloat(string(wc.Close), 64)
		volume, _ := strconv.ParseFloat(string(wc.Volume), 64)

		ts := wc.Timestamp.UTC()
		candles = append(candles, candle.Candle{
			Date:   time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  cl,
			Volume: volume,
			Symbol: symbol,
			Source: w.Name(),
		})
	}

	candles = finalize(candles, bound)
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, symbol)
	}
	return candles, nil
}
