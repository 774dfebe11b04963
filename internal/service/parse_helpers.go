package service

import (
	"encoding/json"
	"strconv"
	"strings"
)

// parseAmount converts an untyped gateway value into a float64.
//
// The gateway is inconsistent about numeric fields: the same field can
// arrive as a JSON number, a numeric string, or be absent entirely. This
// helper keeps the resilient default-to-zero behavior while reporting
// whether the default was taken, so malformed data can be logged instead of
// silently swallowed.
//
// Returns:
//   - float64: The parsed value, or 0 when parsing was not possible
//   - bool: true when the value was defaulted (absent or malformed)
func parseAmount(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, true
	case float64:
		return v, false
	case float32:
		return float64(v), false
	case int:
		return float64(v), false
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, true
		}
		return parsed, false
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, true
		}
		return parsed, false
	default:
		return 0, true
	}
}
