// Package backtest
package backtest

import (
	"fmt"
	"io"

	"github.com/amirphl/set-cross/internal/candle"
	"github.com/amirphl/set-cross/internal/indicator"
	"github.com/amirphl/set-cross/internal/profit"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// CrossColumn holds the cross label of each row.
const CrossColumn = "Cross"

// CrossBacktest buys on every golden cross of a fast over a slow moving
// average and sells on the next death cross.
type CrossBacktest struct {
	MAType      string // sma or ema
	FastPeriod  int
	SlowPeriod  int
	RSIPeriod   int // extra RSI column for charting, 0 disables
	EntryMarker string
	ExitMarker  string
	Strict      bool
}

// TradeReport is a profit.Trade with the dates of both legs.
type TradeReport struct {
	profit.Trade
	EntryDate string `json:"entry_date"`
	ExitDate  string `json:"exit_date"`
}

type Report struct {
	Symbol string
	// MovingAverages lists the moving average columns added to Frame, fast first.
	MovingAverages []string
	// Oscillators lists other indicator columns, drawn in their own panel.
	Oscillators []string
	Frame       candle.Frame // input plus indicator and Cross columns
	Events      candle.Frame // rows of Frame with a cross
	Trades      []TradeReport
	Profit      float64
}

func (b CrossBacktest) markers() (string, string) {
	entry, exit := b.EntryMarker, b.ExitMarker
	if entry == "" {
		entry = profit.DefaultEntryMarker
	}
	if exit == "" {
		exit = profit.DefaultExitMarker
	}
	return entry, exit
}

// Run adds the indicators to f, labels the crosses, and prices every
// entry/exit pair at its close.
func (b CrossBacktest) Run(f candle.Frame) (Report, error) {
	fastMA, err := indicator.NewMovingAverage(b.MAType, b.FastPeriod)
	if err != nil {
		return Report{}, err
	}
	slowMA, err := indicator.NewMovingAverage(b.MAType, b.SlowPeriod)
	if err != nil {
		return Report{}, err
	}
	if b.FastPeriod >= b.SlowPeriod {
		return Report{}, fmt.Errorf("fast period %d must be smaller than slow period %d", b.FastPeriod, b.SlowPeriod)
	}

	closes, err := f.Floats(candle.ColClose)
	if err != nil {
		return Report{}, err
	}
	fast, err := fastMA.Calculate(closes)
	if err != nil {
		return Report{}, err
	}
	slow, err := slowMA.Calculate(closes)
	if err != nil {
		return Report{}, err
	}
	if f, err = f.WithFloats(fastMA.Name(), fast); err != nil {
		return Report{}, err
	}
	if f, err = f.WithFloats(slowMA.Name(), slow); err != nil {
		return Report{}, err
	}

	report := Report{Symbol: f.Symbol, MovingAverages: []string{fastMA.Name(), slowMA.Name()}}

	if b.RSIPeriod > 0 {
		rsi := indicator.RSI{Period: b.RSIPeriod}
		values, err := rsi.Calculate(closes)
		if err != nil {
			return Report{}, err
		}
		if f, err = f.WithFloats(rsi.Name(), values); err != nil {
			return Report{}, err
		}
		report.Oscillators = append(report.Oscillators, rsi.Name())
	}

	entry, exit := b.markers()
	labels, err := indicator.Crosses(fast, slow, entry+" Cross", exit+" Cross")
	if err != nil {
		return Report{}, err
	}
	if f, err = f.WithLabels(CrossColumn, labels); err != nil {
		return Report{}, err
	}
	report.Frame = f

	events, err := f.Filter(CrossColumn)
	if err != nil {
		return Report{}, err
	}
	report.Events = events
	report.Trades = []TradeReport{}
	if events.Len() < 2 {
		return report, nil
	}

	prices, err := events.Floats(candle.ColClose)
	if err != nil {
		return Report{}, err
	}
	signals, err := events.Labels(CrossColumn)
	if err != nil {
		return Report{}, err
	}
	dates, err := events.Labels(candle.ColDate)
	if err != nil {
		return Report{}, err
	}

	res, err := profit.Evaluate(prices, signals,
		profit.WithEntryMarker(entry),
		profit.WithExitMarker(exit),
		profit.WithStrictAlternation(b.Strict),
	)
	if err != nil {
		return Report{}, fmt.Errorf("pricing %s crosses: %w", f.Symbol, err)
	}

	for _, t := range res.Trades {
		report.Trades = append(report.Trades, TradeReport{
			Trade:     t,
			EntryDate: dates[t.EntryIndex],
			ExitDate:  dates[t.ExitIndex],
		})
	}
	report.Profit = res.Total
	return report, nil
}

// WriteTradesCSV writes one row per trade.
func (r Report) WriteTradesCSV(w io.Writer) error {
	n := len(r.Trades)
	entryDates := make([]string, n)
	exitDates := make([]string, n)
	entryPrices := make([]float64, n)
	exitPrices := make([]float64, n)
	profits := make([]float64, n)
	for i, t := range r.Trades {
		entryDates[i] = t.EntryDate
		exitDates[i] = t.ExitDate
		entryPrices[i] = t.EntryPrice
		exitPrices[i] = t.ExitPrice
		profits[i] = t.Profit
	}
	df := dataframe.New(
		series.New(entryDates, series.String, "EntryDate"),
		series.New(entryPrices, series.Float, "EntryPrice"),
		series.New(exitDates, series.String, "ExitDate"),
		series.New(exitPrices, series.Float, "ExitPrice"),
		series.New(profits, series.Float, "Profit"),
	)
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}
