package report

import (
	"fmt"
	"strconv"
	"strings"
)

// Money renders a dollar amount like "$1,234.56". Nil means the provider
// had no value.
func Money(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return "$" + groupThousands(fmt.Sprintf("%.2f", *value))
}

// Pct renders a signed percentage like "+3.25%".
func Pct(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", *value)
}

// Ratio renders a valuation ratio with one decimal.
func Ratio(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", *value)
}

// MarketCap renders a market cap in trillions, billions or millions.
func MarketCap(value *int64) string {
	if value == nil {
		return "n/a"
	}
	v := float64(*value)
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return "$" + groupThousands(strconv.FormatInt(*value, 10))
}

// Shares renders a share count with thousands separators.
func Shares(value *int64) string {
	if value == nil {
		return "n/a"
	}
	return groupThousands(strconv.FormatInt(*value, 10))
}

// groupThousands inserts commas into the integer part of a formatted
// number, preserving sign and decimals.
func groupThousands(number string) string {
	sign := ""
	if strings.HasPrefix(number, "-") {
		sign = "-"
		number = number[1:]
	}
	intPart, decPart := number, ""
	if i := strings.IndexByte(number, '.'); i >= 0 {
		intPart, decPart = number[:i], number[i:]
	}

	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	return sign + b.String() + decPart
}
