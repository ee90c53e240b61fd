// Package profit computes the realized profit of an alternating entry/exit
// cross signal, e.g. golden cross buys closed by the next death cross.
package profit

import (
	"errors"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/floats"
)

const (
	DefaultEntryMarker = "Golden"
	DefaultExitMarker  = "Death"
)

var ErrInvalidInput = errors.New("invalid input")

// Trade is one entry/exit pair. Indices point into the caller's input.
type Trade struct {
	EntryIndex int     `json:"entry_index"`
	ExitIndex  int     `json:"exit_index"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	Profit     float64 `json:"profit"`
}

type Result struct {
	Trades []Trade `json:"trades"`
	Total  float64 `json:"total"`
}

type options struct {
	entry  string
	exit   string
	strict bool
}

type Option func(*options)

// WithEntryMarker sets the substring that marks a buy signal.
func WithEntryMarker(marker string) Option {
	return func(o *options) { o.entry = marker }
}

// WithExitMarker sets the substring that marks a sell signal.
func WithExitMarker(marker string) Option {
	return func(o *options) { o.exit = marker }
}

// WithStrictAlternation makes every label, not only the first and last, be
// checked against the marker its position expects.
func WithStrictAlternation(strict bool) Option {
	return func(o *options) { o.strict = strict }
}

// ProfitFromCross returns the summed profit of buying at every entry signal
// and selling at the following exit signal.
func ProfitFromCross(prices []float64, signals []string, opts ...Option) (float64, error) {
	res, err := Evaluate(prices, signals, opts...)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// Evaluate is ProfitFromCross with the per-trade breakdown.
func Evaluate(prices []float64, signals []string, opts ...Option) (Result, error) {
	o := options{entry: DefaultEntryMarker, exit: DefaultExitMarker}
	for _, opt := range opts {
		opt(&o)
	}

	if len(prices) != len(signals) {
		return Result{}, fmt.Errorf("%w: %d prices but %d signals", ErrInvalidInput, len(prices), len(signals))
	}
	if len(prices) < 2 {
		return Result{}, fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidInput, len(prices))
	}

	// At most one element is dropped on each side.
	lo, hi := 0, len(prices)
	if !strings.Contains(signals[lo], o.entry) {
		lo++
	}
	if !strings.Contains(signals[hi-1], o.exit) {
		hi--
	}
	if lo >= hi {
		return Result{Trades: []Trade{}}, nil
	}

	if !strings.Contains(signals[lo], o.entry) {
		return Result{}, fmt.Errorf("%w: signal %d (%q) is not an entry after trimming", ErrInvalidInput, lo, signals[lo])
	}
	if !strings.Contains(signals[hi-1], o.exit) {
		return Result{}, fmt.Errorf("%w: signal %d (%q) is not an exit after trimming", ErrInvalidInput, hi-1, signals[hi-1])
	}
	if (hi-lo)%2 != 0 {
		return Result{}, fmt.Errorf("%w: %d signals left after trimming, entries and exits do not pair up", ErrInvalidInput, hi-lo)
	}

	if o.strict {
		for i := lo; i < hi; i++ {
			want := o.entry
			if (i-lo)%2 == 1 {
				want = o.exit
			}
			if !strings.Contains(signals[i], want) {
				return Result{}, fmt.Errorf("%w: signal %d (%q) breaks alternation, expected %q", ErrInvalidInput, i, signals[i], want)
			}
		}
	}

	n := (hi - lo) / 2
	entries := make([]float64, n)
	exits := make([]float64, n)
	for k := range n {
		entries[k] = prices[lo+2*k]
		exits[k] = prices[lo+2*k+1]
	}

	diffs := make([]float64, n)
	floats.SubTo(diffs, exits, entries)

	trades := make([]Trade, n)
	for k := range n {
		trades[k] = Trade{
			EntryIndex: lo + 2*k,
			ExitIndex:  lo + 2*k + 1,
			EntryPrice: entries[k],
			ExitPrice:  exits[k],
			Profit:     diffs[k],
		}
	}

	return Result{Trades: trades, Total: floats.Sum(diffs)}, nil
}
