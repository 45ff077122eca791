// Package sizespec resolves human-readable size tokens ("5M", "600K",
// "2mbit") into bit budgets.
//
// Units are decimal. Byte units are multiplied by eight; bit units are
// taken as-is. A missing or unknown unit is treated as bytes and reported
// through Spec.Warning. Parse never fails loudly: a token either resolves or
// it does not, which lets the argument grammar use it as a classifier.
package sizespec

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Spec is a resolved size token.
type Spec struct {
	Token   string
	Value   float64
	Unit    string
	Bits    uint64
	Warning string
}

type unit struct {
	multiplier float64
	bits       bool
}

var units = map[string]unit{
	"k":    {multiplier: 1e3},
	"kb":   {multiplier: 1e3},
	"kbit": {multiplier: 1e3, bits: true},
	"kbps": {multiplier: 1e3, bits: true},
	"m":    {multiplier: 1e6},
	"mb":   {multiplier: 1e6},
	"mbit": {multiplier: 1e6, bits: true},
	"mbps": {multiplier: 1e6, bits: true},
	"g":    {multiplier: 1e9},
	"gb":   {multiplier: 1e9},
	"gbit": {multiplier: 1e9, bits: true},
	"gbps": {multiplier: 1e9, bits: true},
}

// Parse resolves s into a Spec. The second return value is false when the
// numeric prefix is missing or not a non-negative real number.
func Parse(s string) (Spec, bool) {
	token := strings.TrimSpace(s)
	// Casers carry state, so each call folds with its own.
	folded := cases.Fold().String(token)

	split := numericPrefixLen(folded)
	value, err := strconv.ParseFloat(folded[:split], 64)
	if err != nil || value < 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return Spec{}, false
	}
	suffix := folded[split:]

	spec := Spec{Token: token, Value: value, Unit: suffix}
	u, known := units[suffix]
	switch {
	case suffix == "":
		u = unit{multiplier: 1}
		spec.Warning = "no unit, assuming bytes"
	case !known:
		u = unit{multiplier: 1}
		spec.Warning = fmt.Sprintf("unknown size unit %q, assuming bytes", suffix)
	}

	bits := value * u.multiplier
	if !u.bits {
		bits *= 8
	}
	spec.Bits = toUint64(bits)
	return spec, true
}

// Bits returns the bit budget for s.
func Bits(s string) (uint64, bool) {
	spec, ok := Parse(s)
	if !ok {
		return 0, false
	}
	return spec.Bits, true
}

// IsSize reports whether s resolves to a size.
func IsSize(s string) bool {
	_, ok := Parse(s)
	return ok
}

// numericPrefixLen returns the length of the leading run of digits and
// decimal points. Prefixes with more than one point are left for ParseFloat
// to reject.
func numericPrefixLen(s string) int {
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return i
		}
	}
	return len(s)
}

func toUint64(v float64) uint64 {
	if v >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(v)
}
