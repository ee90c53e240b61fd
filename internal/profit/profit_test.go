package profit

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfitFromCross(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		signals  []string
		expected float64
	}{
		{
			name:     "Two round trips",
			prices:   []float64{10, 15, 12, 20},
			signals:  []string{"Golden", "x", "x", "Death"},
			expected: 13,
		},
		{
			name:     "Leading element trimmed",
			prices:   []float64{100, 10, 15},
			signals:  []string{"x", "Golden", "Death"},
			expected: 5,
		},
		{
			name:     "Trailing element trimmed",
			prices:   []float64{10, 15, 100},
			signals:  []string{"Golden", "Death", "x"},
			expected: 5,
		},
		{
			name:     "Losing trade",
			prices:   []float64{10, 5},
			signals:  []string{"Golden", "Death"},
			expected: -5,
		},
		{
			name:     "Both ends trimmed",
			prices:   []float64{1, 10, 15, 12, 11, 99},
			signals:  []string{"Death Cross", "Golden Cross", "Death Cross", "Golden Cross", "Death Cross", "Golden Cross"},
			expected: 4,
		},
		{
			name:     "Nothing left after trimming",
			prices:   []float64{1, 2},
			signals:  []string{"x", "y"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProfitFromCross(tt.prices, tt.signals)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestProfitFromCross_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		signals []string
		opts    []Option
	}{
		{name: "Empty", prices: nil, signals: nil},
		{name: "Single point", prices: []float64{1}, signals: []string{"Golden"}},
		{name: "Length mismatch", prices: []float64{1, 2, 3}, signals: []string{"Golden", "Death"}},
		{
			name:    "Odd length after trimming",
			prices:  []float64{10, 11, 12},
			signals: []string{"Golden", "Golden", "Death"},
		},
		{
			name:    "Still no entry after one trim",
			prices:  []float64{10, 11, 12, 13},
			signals: []string{"x", "y", "Golden", "Death"},
		},
		{
			name:    "Still no exit after one trim",
			prices:  []float64{10, 11, 12, 13},
			signals: []string{"Golden", "Death", "y", "x"},
		},
		{
			name:    "Strict alternation violated",
			prices:  []float64{10, 15, 12, 20},
			signals: []string{"Golden", "Golden", "Death", "Death"},
			opts:    []Option{WithStrictAlternation(true)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProfitFromCross(tt.prices, tt.signals, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProfitFromCross_LenientPairsByPosition(t *testing.T) {
	prices := []float64{10, 15, 12, 20}
	signals := []string{"Golden", "Golden", "Death", "Death"}

	got, err := ProfitFromCross(prices, signals)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, got, 1e-9)
}

func TestProfitFromCross_StrictAlternationAccepted(t *testing.T) {
	prices := []float64{5, 10, 15, 12, 20}
	signals := []string{"Death Cross", "Golden Cross", "Death Cross", "Golden Cross", "Death Cross"}

	got, err := ProfitFromCross(prices, signals, WithStrictAlternation(true))
	require.NoError(t, err)
	assert.InDelta(t, 13.0, got, 1e-9)
}

func TestProfitFromCross_CustomMarkers(t *testing.T) {
	prices := []float64{10, 20, 30, 25}
	signals := []string{"buy", "sell", "buy", "sell"}

	got, err := ProfitFromCross(prices, signals, WithEntryMarker("buy"), WithExitMarker("sell"))
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)

	_, err = ProfitFromCross(prices, signals)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProfitFromCross_Deterministic(t *testing.T) {
	prices := []float64{100, 10, 15, 12, 20}
	signals := []string{"x", "Golden", "Death", "Golden", "Death"}
	pricesCopy := append([]float64(nil), prices...)
	signalsCopy := append([]string(nil), signals...)

	first, err := ProfitFromCross(prices, signals)
	require.NoError(t, err)
	second, err := ProfitFromCross(prices, signals)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, pricesCopy, prices)
	assert.Equal(t, signalsCopy, signals)
}

func TestProfitFromCross_Concurrent(t *testing.T) {
	// shared by every subtest; run with -race
	prices := []float64{100, 10, 15, 12, 20}
	signals := []string{"x", "Golden", "Death", "Golden", "Death"}

	for i := range 16 {
		t.Run(fmt.Sprintf("Caller %d", i), func(t *testing.T) {
			t.Parallel()
			got, err := ProfitFromCross(prices, signals, WithStrictAlternation(i%2 == 0))
			require.NoError(t, err)
			assert.InDelta(t, 13.0, got, 1e-9)

			res, err := Evaluate(prices, signals)
			require.NoError(t, err)
			assert.Len(t, res.Trades, 2)
		})
	}
}

func TestProfitFromCross_TrimInvariance(t *testing.T) {
	prices := []float64{10, 15, 12, 20}
	signals := []string{"Golden", "Death", "Golden", "Death"}

	base, err := ProfitFromCross(prices, signals)
	require.NoError(t, err)

	padded, err := ProfitFromCross(
		append([]float64{999}, append(append([]float64(nil), prices...), -999)...),
		append([]string{"none"}, append(append([]string(nil), signals...), "none")...),
	)
	require.NoError(t, err)
	assert.InDelta(t, base, padded, 1e-9)
}

func TestEvaluate_Trades(t *testing.T) {
	res, err := Evaluate([]float64{100, 10, 15, 12, 20}, []string{"x", "Golden", "Death", "Golden", "Death"})
	require.NoError(t, err)
	require.Len(t, res.Trades, 2)

	assert.Equal(t, Trade{EntryIndex: 1, ExitIndex: 2, EntryPrice: 10, ExitPrice: 15, Profit: 5}, res.Trades[0])
	assert.Equal(t, Trade{EntryIndex: 3, ExitIndex: 4, EntryPrice: 12, ExitPrice: 20, Profit: 8}, res.Trades[1])
	assert.InDelta(t, 13.0, res.Total, 1e-9)
}

func TestEvaluate_MinimalPair(t *testing.T) {
	res, err := Evaluate([]float64{3, 4}, []string{"Golden", "Death"})
	require.NoError(t, err)
	assert.Len(t, res.Trades, 1)
	assert.InDelta(t, 1.0, res.Total, 1e-9)
}
