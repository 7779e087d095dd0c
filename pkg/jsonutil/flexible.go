package jsonutil

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleIntValue converts a json.RawMessage to an int, tolerating clients
// that send numbers as strings. Widget embeds read positions and viewport
// sizes off the DOM, where both shapes occur in the wild. Fractional numbers
// are truncated; null, absent or non-numeric input returns nil.
func FlexibleIntValue(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		v := int(numVal)
		return &v
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64); err == nil {
			v := int(f)
			return &v
		}
	}

	return nil
}

// TrimmedOrNil trims the pointed-to string and returns nil when the result
// is empty. Untrusted bodies represent "absent" as either a missing field or
// an empty string; persistence wants NULL for both.
func TrimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Deref returns the pointed-to string or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
