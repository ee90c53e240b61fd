// Package candle frame
package candle

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

const (
	ColDate   = "Date"
	ColOpen   = "Open"
	ColHigh   = "High"
	ColLow    = "Low"
	ColClose  = "Close"
	ColVolume = "Volume"
)

var ErrUnknownColumn = errors.New("unknown column")

// Frame is a date-ordered price table. Besides the OHLCV columns it carries
// any number of float indicator columns and string label columns.
// Every method returns a new Frame; the receiver is never modified.
type Frame struct {
	Symbol string
	df     dataframe.DataFrame
}

// NewFrame builds a frame from candles sorted by date ascending.
func NewFrame(symbol string, candles []Candle) (Frame, error) {
	n := len(candles)
	dates := make([]string, n)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		if i > 0 && !c.Date.After(candles[i-1].Date) {
			return Frame{}, fmt.Errorf("candle %d (%s) is not after candle %d", i, c.Date.Format(DateLayout), i-1)
		}
		dates[i] = c.Date.Format(DateLayout)
		opens[i] = c.Open
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
		volumes[i] = c.Volume
	}

	df := dataframe.New(
		series.New(dates, series.String, ColDate),
		series.New(opens, series.Float, ColOpen),
		series.New(highs, series.Float, ColHigh),
		series.New(lows, series.Float, ColLow),
		series.New(closes, series.Float, ColClose),
		series.New(volumes, series.Float, ColVolume),
	)
	if df.Err != nil {
		return Frame{}, fmt.Errorf("building frame: %w", df.Err)
	}
	return Frame{Symbol: symbol, df: df}, nil
}

func (f Frame) Len() int { return f.df.Nrow() }

func (f Frame) Names() []string { return f.df.Names() }

func (f Frame) Has(name string) bool { return slices.Contains(f.df.Names(), name) }

// WithFloats adds or replaces a float column.
func (f Frame) WithFloats(name string, values []float64) (Frame, error) {
	return f.mutate(series.New(values, series.Float, name), len(values))
}

// WithLabels adds or replaces a string column.
func (f Frame) WithLabels(name string, labels []string) (Frame, error) {
	return f.mutate(series.New(labels, series.String, name), len(labels))
}

func (f Frame) mutate(s series.Series, n int) (Frame, error) {
	if n != f.Len() {
		return Frame{}, fmt.Errorf("column %s has %d rows, frame has %d", s.Name, n, f.Len())
	}
	df := f.df.Mutate(s)
	if df.Err != nil {
		return Frame{}, fmt.Errorf("adding column %s: %w", s.Name, df.Err)
	}
	return Frame{Symbol: f.Symbol, df: df}, nil
}

func (f Frame) Floats(name string) ([]float64, error) {
	if !f.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return f.df.Col(name).Float(), nil
}

func (f Frame) Labels(name string) ([]string, error) {
	if !f.Has(name) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return f.df.Col(name).Records(), nil
}

func (f Frame) Dates() ([]time.Time, error) {
	records, err := f.Labels(ColDate)
	if err != nil {
		return nil, err
	}
	dates := make([]time.Time, len(records))
	for i, r := range records {
		d, err := time.Parse(DateLayout, r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		dates[i] = d
	}
	return dates, nil
}

// Filter keeps the rows whose label column is not empty.
func (f Frame) Filter(labelCol string) (Frame, error) {
	labels, err := f.Labels(labelCol)
	if err != nil {
		return Frame{}, err
	}
	rows := make([]int, 0, len(labels))
	for i, l := range labels {
		if l != "" {
			rows = append(rows, i)
		}
	}
	if len(rows) == 0 {
		// gota refuses an empty subset, so rebuild the columns by hand.
		return f.empty(), nil
	}
	df := f.df.Subset(rows)
	if df.Err != nil {
		return Frame{}, fmt.Errorf("filtering on %s: %w", labelCol, df.Err)
	}
	return Frame{Symbol: f.Symbol, df: df}, nil
}

func (f Frame) empty() Frame {
	cols := make([]series.Series, 0, f.df.Ncol())
	for _, name := range f.df.Names() {
		cols = append(cols, series.New([]string{}, f.df.Col(name).Type(), name))
	}
	return Frame{Symbol: f.Symbol, df: dataframe.New(cols...)}
}

// Candles converts the OHLCV columns back to candles.
func (f Frame) Candles() ([]Candle, error) {
	dates, err := f.Dates()
	if err != nil {
		return nil, err
	}
	cols := make(map[string][]float64, 5)
	for _, name := range []string{ColOpen, ColHigh, ColLow, ColClose} {
		if cols[name], err = f.Floats(name); err != nil {
			return nil, err
		}
	}
	volumes := make([]float64, len(dates))
	if f.Has(ColVolume) {
		volumes = f.df.Col(ColVolume).Float()
	}

	candles := make([]Candle, len(dates))
	for i := range dates {
		candles[i] = Candle{
			Date:   dates[i],
			Open:   cols[ColOpen][i],
			High:   cols[ColHigh][i],
			Low:    cols[ColLow][i],
			Close:  cols[ColClose][i],
			Volume: volumes[i],
			Symbol: f.Symbol,
		}
	}
	return candles, nil
}
