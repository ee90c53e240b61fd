// Package candle
package candle

// GenerateHeikenAshiCandles smooths raw candles into Heiken Ashi candles.
// Input candles must be sorted by date ascending.
func GenerateHeikenAshiCandles(rawCandles []Candle) []Candle {
	if len(rawCandles) == 0 {
		return nil
	}

	haCandles := make([]Candle, len(rawCandles))
	var prev *Candle
	for i, c := range rawCandles {
		haCandles[i] = nextHeikenAshi(prev, c)
		prev = &haCandles[i]
	}
	return haCandles
}

func nextHeikenAshi(prevHA *Candle, raw Candle) Candle {
	ha := raw // copy base fields
	ha.Close = (raw.Open + raw.High + raw.Low + raw.Close) / 4
	if prevHA == nil {
		ha.Open = (raw.Open + raw.Close) / 2
	} else {
		ha.Open = (prevHA.Open + prevHA.Close) / 2
	}
	ha.High = max(raw.High, ha.Open, ha.Close)
	ha.Low = min(raw.Low, ha.Open, ha.Close)
	ha.Source = "heiken_ashi"
	return ha
}

// HeikenAshi returns a copy of the frame with its OHLC columns replaced by
// Heiken Ashi values. Other columns are kept.
func (f Frame) HeikenAshi() (Frame, error) {
	raw, err := f.Candles()
	if err != nil {
		return Frame{}, err
	}
	ha := GenerateHeikenAshiCandles(raw)
	cols := map[string][]float64{
		ColOpen:  make([]float64, len(ha)),
		ColHigh:  make([]float64, len(ha)),
		ColLow:   make([]float64, len(ha)),
		ColClose: make([]float64, len(ha)),
	}
	for i, c := range ha {
		cols[ColOpen][i] = c.Open
		cols[ColHigh][i] = c.High
		cols[ColLow][i] = c.Low
		cols[ColClose][i] = c.Close
	}
	out := f
	for _, name := range []string{ColOpen, ColHigh, ColLow, ColClose} {
		if out, err = out.WithFloats(name, cols[name]); err != nil {
			return Frame{}, err
		}
	}
	return out, nil
}
