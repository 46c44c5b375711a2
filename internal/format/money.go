package format

import (
	"math"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// WanPerYi is the number of 萬 in one 億.
const WanPerYi = 10000

// Round rounds v half away from zero to the given number of decimal places
// using decimal arithmetic, so that 2.675 rounds to 2.68 rather than 2.67.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// FormatWan formats an amount expressed in 萬 with thousands separators and
// one decimal, e.g. 12345.67 -> "12,345.7 萬".
func FormatWan(v float64) string {
	return groupFixed(v, 1) + " 萬"
}

// FormatAmount picks the most readable unit for an amount in 萬: values of
// one 億 or more are shown in 億 with two decimals, smaller ones in 萬.
func FormatAmount(v float64) string {
	if math.Abs(v) >= WanPerYi {
		return decimal.NewFromFloat(v / WanPerYi).StringFixed(2) + " 億"
	}
	return FormatWan(v)
}

// FormatPing formats a floor area in 坪 with one decimal.
func FormatPing(v float64) string {
	return groupFixed(v, 1) + " 坪"
}

// groupFixed rounds v to places decimals, keeping trailing zeros, and
// groups the integer part with thousands separators.
func groupFixed(v float64, places int32) string {
	s := decimal.NewFromFloat(v).StringFixed(places)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + FormatNumberString(intPart)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// FormatPercent formats a value already expressed in percent.
func FormatPercent(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}

// FormatRatio formats a fraction (0.42) as a percent ("42.0%").
func FormatRatio(v float64) string {
	return FormatPercent(v*100, 1)
}

// FormatUnitPrice formats a unit price in 萬/坪.
func FormatUnitPrice(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + " 萬/坪"
}

// FormatNumberString inserts thousands separators into a decimal integer
// string. Strings that are not integers are returned unchanged.
func FormatNumberString(s string) string {
	if s == "" {
		return ""
	}
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return s
	}
	return humanize.BigComma(n)
}

// FormatSigned prefixes non-negative amounts with "+".
func FormatSigned(v float64) string {
	s := FormatAmount(v)
	if v >= 0 {
		return "+" + s
	}
	return s
}
