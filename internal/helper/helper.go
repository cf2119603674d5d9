// Package helper holds small timeframe conversions shared by the config
// and exchange layers.
package helper

import (
	"fmt"
	"strings"
	"time"
)

// NormTF collapses user-typed timeframe spellings to their canonical form.
func NormTF(raw string) string {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "candle")
	switch s {
	case "60m", "1h":
		return "1h"
	default:
		return s
	}
}

// TFDuration maps a canonical timeframe to its bar length, zero when
// unknown.
func TFDuration(tf string) time.Duration {
	switch NormTF(tf) {
	case "1m":
		return time.Minute
	case "3m":
		return 3 * time.Minute
	case "5m":
		return 5 * time.Minute
	case "15m":
		return 15 * time.Minute
	case "30m":
		return 30 * time.Minute
	case "1h":
		return time.Hour
	case "2h":
		return 2 * time.Hour
	case "4h":
		return 4 * time.Hour
	case "1d":
		return 24 * time.Hour
	default:
		return 0
	}
}

// OKXBar converts a canonical timeframe to the exchange's bar parameter,
// which capitalizes hours and days.
func OKXBar(tf string) (string, error) {
	switch NormTF(tf) {
	case "1m", "3m", "5m", "15m", "30m":
		return NormTF(tf), nil
	case "1h":
		return "1H", nil
	case "2h":
		return "2H", nil
	case "4h":
		return "4H", nil
	case "6h":
		return "6H", nil
	case "12h":
		return "12H", nil
	case "1d":
		return "1D", nil
	case "1w":
		return "1W", nil
	}
	return "", fmt.Errorf("unsupported timeframe: %q", tf)
}
