// Package tfutils maps bar intervals to the names each data source expects.
package tfutils

import (
	"fmt"
	"strings"
	"time"
)

// ParseInterval parses an interval string ("1d", "1w", "1M") to time.Duration.
// A month is counted as 30 days.
func ParseInterval(interval string) (time.Duration, error) {
	d := GetIntervalDuration(interval)
	if d == 0 {
		return 0, fmt.Errorf("unsupported interval %q, want one of %s", interval, strings.Join(GetSupportedIntervals(), ", "))
	}
	return d, nil
}

// GetIntervalDuration returns the duration for a given interval
func GetIntervalDuration(interval string) time.Duration {
	switch interval {
	case "1d":
		return 24 * time.Hour
	case "1w":
		return 7 * 24 * time.Hour
	case "1M":
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// GetSupportedIntervals returns all supported intervals
func GetSupportedIntervals() []string {
	return []string{"1d", "1w", "1M"}
}

// YahooInterval returns the chart API interval name.
func YahooInterval(interval string) string {
	switch interval {
	case "1d":
		return "1d"
	case "1w":
		return "1wk"
	case "1M":
		return "1mo"
	default:
		return ""
	}
}

// WallexResolution returns the candle resolution name.
func WallexResolution(interval string) string {
	switch interval {
	case "1d":
		return "1D"
	case "1w":
		return "1W"
	case "1M":
		return "1M"
	default:
		return ""
	}
}
