package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/amirphl/set-cross/internal/backtest"
	"github.com/amirphl/set-cross/internal/profit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTrades(t *testing.T) {
	report := backtest.Report{
		Symbol: "PTT",
		Trades: []backtest.TradeReport{{
			Trade:     profit.Trade{EntryIndex: 0, ExitIndex: 1, EntryPrice: 12, ExitPrice: 15, Profit: 3},
			EntryDate: "2023-01-12",
			ExitDate:  "2023-01-20",
		}},
		Profit: 3,
	}

	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, writeTrades(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "EntryDate,EntryPrice,ExitDate,ExitPrice,Profit")
	assert.Contains(t, string(data), "2023-01-12")

	assert.Error(t, writeTrades(filepath.Join(t.TempDir(), "missing", "trades.csv"), report))
}
