// Package theme holds the design tokens shared by every page: the color
// roles, the prose typography scale and the helpers that render them as CSS
// or as a Tailwind theme extension.
package theme

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// BasePx is the root font size that 1rem stands for.
const BasePx = 16

// Rem converts a pixel size to rem: px/16 with seven fractional digits,
// trailing zeros trimmed and a bare ".0" dropped.
//
//	Rem(17) == "1.0625rem"
//	Rem(16) == "1rem"
func Rem(px float64) string {
	return round(px/BasePx) + "rem"
}

var fixedScale = big.NewRat(10_000_000, 1)

// round mirrors Number.toFixed(7) followed by the two trailing zero
// replacements of the tailwind typography plugin. toFixed rounds the exact
// binary value and breaks ties away from zero, so 0.00390625 becomes
// 0.0039063 where strconv would pick the even 0.0039062.
func round(v float64) string {
	if v == 0 {
		// covers negative zero, which toFixed prints unsigned
		return "0"
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	r := new(big.Rat).SetFloat64(math.Abs(v))
	r.Mul(r, fixedScale)
	r.Add(r, big.NewRat(1, 2))
	digits := new(big.Int).Quo(r.Num(), r.Denom()).String()
	if len(digits) < 8 {
		digits = strings.Repeat("0", 8-len(digits)) + digits
	}
	s := digits[:len(digits)-7] + "." + digits[len(digits)-7:]
	if v < 0 {
		s = "-" + s
	}
	s = strings.TrimRight(s, "0")
	if strings.HasSuffix(s, ".") {
		s += "0"
	}
	return strings.TrimSuffix(s, ".0")
}
