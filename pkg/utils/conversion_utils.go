package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// FlexibleNumber accepts a JSON number, a numeric string, an empty string or
// null. Anything that does not parse as a finite number decodes to 0, which
// mirrors how form input is coerced on the client.
type FlexibleNumber float64

// UnmarshalJSON never fails for scalar input; only objects and arrays are rejected.
func (n *FlexibleNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*n = 0
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = FlexibleNumber(ParseFloatOrZero(s))
		return nil
	case '{', '[':
		return errors.New("number expected, got object or array")
	case 't', 'f':
		return nil
	default:
		*n = FlexibleNumber(ParseFloatOrZero(string(data)))
		return nil
	}
}

// Float64 returns the value as a float64.
func (n FlexibleNumber) Float64() float64 {
	return float64(n)
}

// Int truncates the value toward zero.
func (n FlexibleNumber) Int() int {
	return int(n)
}

// ParseFloatOrZero converts s to a finite float64, returning 0 when s is
// empty, non-numeric, NaN or infinite.
func ParseFloatOrZero(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseBool reads a truthy query flag such as "true", "1" or "yes".
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "y", "yes":
		return true
	default:
		return false
	}
}
