package css

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

var romanSymbols = []struct {
	value  int
	symbol string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

// CounterText renders a list marker. With appendSuffix set, ordinal styles
// get ". " and bullet styles a trailing space.
func CounterText(value int, style ListStyleType, appendSuffix bool) string {
	suffix, space := "", ""
	if appendSuffix {
		suffix, space = ". ", " "
	}

	switch style {
	case ListNone:
		return ""
	case ListDisc:
		return "•" + space
	case ListCircle:
		return "◦" + space
	case ListSquare:
		return "◾" + space
	case ListDecimalLeadingZero:
		s := decimal(value) + suffix
		if len(s) < 4 {
			s = "0" + s
		}
		return s
	case ListUpperRoman:
		return roman(value, suffix)
	case ListLowerRoman:
		return lowerCaser.String(roman(value, suffix))
	case ListLowerGreek:
		return alphabetic(value, 'α', 'ω') + suffix
	case ListLowerAlpha:
		return alphabetic(value, 'a', 'z') + suffix
	case ListUpperAlpha:
		return alphabetic(value, 'A', 'Z') + suffix
	default:
		return decimal(value) + suffix
	}
}

func decimal(value int) string { return strconv.Itoa(value) }

// roman falls back to decimal outside 1..3999.
func roman(value int, suffix string) string {
	if value < 1 || value > 3999 {
		return decimal(value) + suffix
	}
	var b strings.Builder
	for _, s := range romanSymbols {
		for value >= s.value {
			b.WriteString(s.symbol)
			value -= s.value
		}
	}
	return b.String() + suffix
}

// alphabetic is bijective base-n numbering over [first, last]: a..z, aa,
// ab, and so on.
func alphabetic(value int, first, last rune) string {
	sign := ""
	if value < 0 {
		sign, value = "-", -value
	}
	if value == 0 {
		return sign + string(first)
	}
	n := int(last-first) + 1
	var out []rune
	for value > 0 {
		value--
		out = append([]rune{first + rune(value%n)}, out...)
		value /= n
	}
	return sign + string(out)
}
