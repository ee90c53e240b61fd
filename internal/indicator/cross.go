package indicator

import (
	"fmt"
	"math"
)

const (
	GoldenCross = "Golden Cross"
	DeathCross  = "Death Cross"
)

// Crosses labels every row where fast crosses slow: golden when fast moves
// above slow, death when it moves below, "" otherwise. A touch without a
// change of side is not a cross, so labels always alternate. Rows where
// either input is NaN are skipped.
func Crosses(fast, slow []float64, golden, death string) ([]string, error) {
	if len(fast) != len(slow) {
		return nil, fmt.Errorf("fast has %d values, slow has %d", len(fast), len(slow))
	}
	labels := make([]string, len(fast))
	lastSide := 0
	for i := range fast {
		if math.IsNaN(fast[i]) || math.IsNaN(slow[i]) {
			continue
		}
		side := 0
		switch d := fast[i] - slow[i]; {
		case d > 0:
			side = 1
		case d < 0:
			side = -1
		}
		if side == 0 {
			continue
		}
		if lastSide != 0 && side != lastSide {
			if side > 0 {
				labels[i] = golden
			} else {
				labels[i] = death
			}
		}
		lastSide = side
	}
	return labels, nil
}
