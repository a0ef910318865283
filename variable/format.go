// SPDX-License-Identifier: MIT
// Package variable - display formats of dates.

package variable

import (
	"fmt"
	"strings"
)

// DateFormat converts engine time (signed years, BC negative) into a
// display scale.
type DateFormat int

const (
	// FormatBCAD keeps engine time: negative BC, positive AD.
	FormatBCAD DateFormat = iota
	// FormatCalBP counts years before 1950.
	FormatCalBP
	// FormatCalB2K counts years before 2000.
	FormatCalB2K
	// FormatPlain is used for durations and gaps; no conversion.
	FormatPlain
)

var formatNames = map[DateFormat]string{
	FormatBCAD:   "bc-ad",
	FormatCalBP:  "cal-bp",
	FormatCalB2K: "cal-b2k",
	FormatPlain:  "plain",
}

// String returns the configuration name of f.
func (f DateFormat) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("DateFormat(%d)", int(f))
}

// ParseDateFormat maps a configuration name to a DateFormat.
// The empty string selects FormatBCAD.
func ParseDateFormat(s string) (DateFormat, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return FormatBCAD, nil
	}
	for f, name := range formatNames {
		if name == key {
			return f, nil
		}
	}
	return 0, fmt.Errorf("ParseDateFormat(%q): %w", s, ErrUnknownFormat)
}

// Apply converts engine time t to the display scale.
func (f DateFormat) Apply(t float64) float64 {
	switch f {
	case FormatCalBP:
		return 1950 - t
	case FormatCalB2K:
		return 2000 - t
	default:
		return t
	}
}

// Reversed reports whether the scale runs against engine time.
func (f DateFormat) Reversed() bool { return f == FormatCalBP || f == FormatCalB2K }
