package httpapi

import (
	"fmt"
	"time"
)

// parseAnchor accepts "2006-01" or a full RFC 3339 timestamp.
func parseAnchor(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("httpapi: invalid anchor %q", raw)
}
