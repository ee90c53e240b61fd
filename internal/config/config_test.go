package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Flags(t *testing.T) {
	cfg, err := Load([]string{
		"-symbol", "PTT",
		"-from", "2015-01-01",
		"-to", "2020-06-30",
		"-ma", "ema",
		"-fast", "12",
		"-slow", "26",
		"-palette", "Blue, Orange ,,Gold",
		"-strict",
		"-trades-out", "trades.csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "PTT", cfg.Symbol)
	assert.Equal(t, "yahoo", cfg.Source)
	assert.Equal(t, ".BK", cfg.Suffix)
	assert.Equal(t, time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), cfg.From.Time)
	assert.Equal(t, time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), cfg.To.Time)
	assert.Equal(t, "ema", cfg.MAType)
	assert.Equal(t, 12, cfg.FastPeriod)
	assert.Equal(t, 26, cfg.SlowPeriod)
	assert.Equal(t, []string{"Blue", "Orange", "Gold"}, cfg.Palette)
	assert.True(t, cfg.StrictAlternation)
	assert.Equal(t, "Golden", cfg.EntryMarker)
	assert.Equal(t, "Death", cfg.ExitMarker)
	assert.Equal(t, "PTT.html", cfg.ChartOut)
	assert.Equal(t, "trades.csv", cfg.TradesOut)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{"-symbol", "AOT"})
	require.NoError(t, err)

	assert.True(t, cfg.To.IsZero())
	assert.Equal(t, 50, cfg.FastPeriod)
	assert.Equal(t, 200, cfg.SlowPeriod)
	assert.Equal(t, "overlay", cfg.ChartMode)
	assert.Nil(t, cfg.Palette)
	assert.Empty(t, cfg.TradesOut)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
symbol: "SCC"
from: "2018-03-01"
to: "2019-03-01"
ma_type: "ema"
fast_period: 10
slow_period: 30
rsi_period: 14
palette: ["Red", "Green"]
chart_mode: "subplot"
trades_out: "SCC-trades.csv"
`), 0o644))

	cfg, err := Load([]string{"-config", path, "-symbol", "PTT"})
	require.NoError(t, err)

	assert.Equal(t, "SCC", cfg.Symbol)
	assert.Equal(t, time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC), cfg.From.Time)
	assert.Equal(t, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), cfg.To.Time)
	assert.Equal(t, 10, cfg.FastPeriod)
	assert.Equal(t, 14, cfg.RSIPeriod)
	assert.Equal(t, []string{"Red", "Green"}, cfg.Palette)
	assert.Equal(t, "subplot", cfg.ChartMode)
	assert.Equal(t, "SCC.html", cfg.ChartOut)
	assert.Equal(t, "SCC-trades.csv", cfg.TradesOut)
	assert.Equal(t, "yahoo", cfg.Source, "unset keys keep flag values")
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "Missing symbol", args: []string{}},
		{name: "Bad from date", args: []string{"-symbol", "PTT", "-from", "01/01/2015"}},
		{name: "Bad to date", args: []string{"-symbol", "PTT", "-to", "tomorrow"}},
		{name: "Fast not below slow", args: []string{"-symbol", "PTT", "-fast", "200", "-slow", "50"}},
		{name: "Unknown moving average", args: []string{"-symbol", "PTT", "-ma", "wma"}},
		{name: "Unknown chart mode", args: []string{"-symbol", "PTT", "-chart", "3d"}},
		{name: "Same markers", args: []string{"-symbol", "PTT", "-entry-marker", "X", "-exit-marker", "X"}},
		{name: "From after to", args: []string{"-symbol", "PTT", "-from", "2020-01-01", "-to", "2019-01-01"}},
		{name: "Unknown source", args: []string{"-symbol", "PTT", "-source", "bloomberg"}},
		{name: "Unknown interval", args: []string{"-symbol", "PTT", "-interval", "5m"}},
		{name: "Missing config file", args: []string{"-symbol", "PTT", "-config", "/does/not/exist.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.args)
			assert.Error(t, err)
		})
	}
}

func TestValidate_IntervalMessage(t *testing.T) {
	_, err := Load([]string{"-symbol", "PTT", "-interval", "4h"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported interval "4h"`)
	assert.Contains(t, err.Error(), "1d, 1w, 1M")
}

func TestLoad_BadYAMLDate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("symbol: PTT\nfrom: \"March 2018\"\n"), 0o644))

	_, err := Load([]string{"-config", path})
	assert.Error(t, err)
}
