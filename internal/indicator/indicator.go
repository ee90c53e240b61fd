// Package indicator computes technical indicators over closing prices.
// Output slices are index-aligned with their input; rows inside the
// warm-up window are NaN.
package indicator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/markcheno/go-talib"
)

var ErrInvalidPeriod = errors.New("invalid period")

// Indicator is the interface for all technical indicators.
type Indicator interface {
	Name() string
	Calculate(values []float64) ([]float64, error)
}

type SMA struct{ Period int }

func (s SMA) Name() string { return "SMA" + strconv.Itoa(s.Period) }

func (s SMA) Calculate(values []float64) ([]float64, error) {
	if s.Period <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, s.Name())
	}
	if len(values) < s.Period {
		return nanSlice(len(values)), nil
	}
	return withWarmup(talib.Sma(values, s.Period), s.Period-1), nil
}

type EMA struct{ Period int }

func (e EMA) Name() string { return "EMA" + strconv.Itoa(e.Period) }

func (e EMA) Calculate(values []float64) ([]float64, error) {
	if e.Period <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, e.Name())
	}
	if len(values) < e.Period {
		return nanSlice(len(values)), nil
	}
	return withWarmup(talib.Ema(values, e.Period), e.Period-1), nil
}

type RSI struct{ Period int }

func (r RSI) Name() string { return "RSI" + strconv.Itoa(r.Period) }

func (r RSI) Calculate(values []float64) ([]float64, error) {
	if r.Period <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPeriod, r.Name())
	}
	out := CalculateRSI(values, r.Period)
	if out == nil {
		return nanSlice(len(values)), nil
	}
	return out, nil
}

// NewMovingAverage returns an SMA or EMA by kind name.
func NewMovingAverage(kind string, period int) (Indicator, error) {
	switch strings.ToLower(kind) {
	case "sma":
		return SMA{Period: period}, nil
	case "ema":
		return EMA{Period: period}, nil
	default:
		return nil, fmt.Errorf("unsupported moving average: %s", kind)
	}
}

// talib leaves the lookback rows at zero.
func withWarmup(out []float64, lookback int) []float64 {
	for i := 0; i < lookback && i < len(out); i++ {
		out[i] = math.NaN()
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
