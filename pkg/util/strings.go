package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseFloat parses numeric text strictly: surrounding spaces are ignored,
// anything else that is not a finite number is an error.
func ParseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}
