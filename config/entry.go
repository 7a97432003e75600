package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseEntry parses a hex entry-point string such as "0x0010" into a 16-bit
// word value. An empty string reports ok=false so callers can fall back to
// the program image's own entry point.
func ParseEntry(s string) (value uint16, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 16)
	if err != nil {
		return 0, false, fmt.Errorf("invalid entry override %q: %w", s, err)
	}
	return uint16(n), true, nil
}
