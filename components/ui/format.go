package ui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// AbbreviateCount renders metric values with the fixed K/M thresholds used by
// every metric display: >= 1,000,000 renders as "x.xM", >= 1,000 as "x.xK",
// and anything below as a grouped integer.
func AbbreviateCount(n float64) string {
	abs := math.Abs(n)
	switch {
	case abs >= 1_000_000:
		return trimSign(n, fmt.Sprintf("%.1fM", abs/1_000_000))
	case abs >= 1_000:
		return trimSign(n, fmt.Sprintf("%.1fK", abs/1_000))
	default:
		return trimSign(n, GroupInt(int64(math.Round(abs))))
	}
}

func trimSign(n float64, formatted string) string {
	if n < 0 {
		return "-" + formatted
	}
	return formatted
}

// GroupInt formats an integer with thousands separators.
func GroupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// FormatPercent renders a ratio as a one-decimal percentage string.
func FormatPercent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

// ShortDate renders the axis label format shared by every time-series chart.
func ShortDate(t time.Time) string {
	return t.Format("Jan 2")
}
