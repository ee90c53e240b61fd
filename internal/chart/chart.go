// Package chart renders candlestick charts with indicator lines as
// interactive HTML pages.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/amirphl/set-cross/internal/candle"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

type Mode string

const (
	// Overlay draws indicators on the price panel.
	Overlay Mode = "overlay"
	// Subplot draws indicators in their own panel above the price panel.
	Subplot Mode = "subplot"
)

var ErrUnknownColumn = errors.New("unknown indicator column")

// Chart is a single echarts instance. In subplot mode it holds two grids that
// share one date axis and one zoom slider.
type Chart struct {
	kline *charts.Kline
	grids int
}

// Render writes the chart as a standalone HTML page.
func (c *Chart) Render(w io.Writer) error {
	return c.kline.Render(w)
}

// Panels returns the number of stacked grids.
func (c *Chart) Panels() int { return c.grids }

// Build dispatches on mode.
func Build(mode Mode, f candle.Frame, indicators []string, p Palette) (*Chart, error) {
	switch mode {
	case Overlay:
		return Candlestick(f, indicators, p)
	case Subplot:
		return CandlestickSubplot(f, indicators, p)
	default:
		return nil, fmt.Errorf("unsupported chart mode: %s", mode)
	}
}

// Candlestick draws one price panel with every indicator overlaid on it.
func Candlestick(f candle.Frame, indicators []string, p Palette) (*Chart, error) {
	dates, price, err := pricePanel(f, "600px", opts.DataZoom{Type: "slider", Start: 0, End: 100})
	if err != nil {
		return nil, err
	}
	if len(indicators) > 0 {
		lines, err := indicatorLines(f, dates, indicators, p)
		if err != nil {
			return nil, err
		}
		price.Overlap(lines)
	}
	return &Chart{kline: price, grids: 1}, nil
}

// CandlestickSubplot draws the indicators in a grid stacked above the price
// grid. Both grids belong to one chart: the second x axis carries the same
// dates and the zoom slider drives both axes.
func CandlestickSubplot(f candle.Frame, indicators []string, p Palette) (*Chart, error) {
	if len(indicators) == 0 {
		return Candlestick(f, nil, p)
	}
	dates, price, err := pricePanel(f, "800px", opts.DataZoom{Type: "slider", Start: 0, End: 100, XAxisIndex: []int{0, 1}})
	if err != nil {
		return nil, err
	}
	lines, err := indicatorLines(f, dates, indicators, p,
		charts.WithLineChartOpts(opts.LineChart{XAxisIndex: 1, YAxisIndex: 1}))
	if err != nil {
		return nil, err
	}

	// grid 0 is the price, grid 1 the indicators on top
	price.SetGlobalOptions(charts.WithGridOpts(
		opts.Grid{Left: "8%", Right: "4%", Top: "40%", Bottom: "12%"},
		opts.Grid{Left: "8%", Right: "4%", Top: "8%", Height: "24%"},
	))
	price.ExtendXAxis(opts.XAxis{GridIndex: 1, Data: dates})
	price.ExtendYAxis(opts.YAxis{GridIndex: 1, Scale: true})
	price.Overlap(lines)
	return &Chart{kline: price, grids: 2}, nil
}

func pricePanel(f candle.Frame, height string, zoom opts.DataZoom) ([]string, *charts.Kline, error) {
	dates, err := f.Labels(candle.ColDate)
	if err != nil {
		return nil, nil, err
	}
	cols := make(map[string][]float64, 4)
	for _, name := range []string{candle.ColOpen, candle.ColHigh, candle.ColLow, candle.ColClose} {
		if cols[name], err = f.Floats(name); err != nil {
			return nil, nil, err
		}
	}

	data := make([]opts.KlineData, len(dates))
	for i := range dates {
		// echarts order: open, close, low, high
		data[i] = opts.KlineData{Value: [4]float64{
			cols[candle.ColOpen][i], cols[candle.ColClose][i], cols[candle.ColLow][i], cols[candle.ColHigh][i],
		}}
	}

	k := charts.NewKLine()
	k.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: f.Symbol}),
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: height}),
		charts.WithYAxisOpts(opts.YAxis{Scale: true}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(zoom),
	)
	k.SetXAxis(dates).AddSeries("Price", data)
	return dates, k, nil
}

func indicatorLines(f candle.Frame, dates []string, indicators []string, p Palette, extra ...charts.SeriesOpts) (*charts.Line, error) {
	line := charts.NewLine()
	line.SetXAxis(dates)
	for i, name := range indicators {
		if !f.Has(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
		}
		color, err := p.Color(i)
		if err != nil {
			return nil, fmt.Errorf("indicator %s: %w", name, err)
		}
		values, err := f.Floats(name)
		if err != nil {
			return nil, err
		}
		seriesOpts := append([]charts.SeriesOpts{
			charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 1}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		}, extra...)
		line.AddSeries(name, lineData(values), seriesOpts...)
	}
	return line, nil
}

// lineData maps NaN to "-", which echarts draws as a gap. NaN itself cannot
// be encoded as JSON.
func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			data[i] = opts.LineData{Value: "-"}
			continue
		}
		data[i] = opts.LineData{Value: v}
	}
	return data
}
