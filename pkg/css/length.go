package css

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// LengthPercentage is a resolved length: an absolute pixel part plus a
// percentage of some reference size. A plain length has Pct == 0, a plain
// percentage has Px == 0, and calc(p% ± n px) sets both.
type LengthPercentage struct {
	Px  float64
	Pct float64
}

var (
	Zero           = LengthPercentage{}
	FiftyPercent   = LengthPercentage{Pct: 50}
	HundredPercent = LengthPercentage{Pct: 100}
)

// Px returns a plain pixel length.
func Px(v float64) LengthPercentage { return LengthPercentage{Px: v} }

// Percent returns a plain percentage.
func Percent(v float64) LengthPercentage { return LengthPercentage{Pct: v} }

// Absolute resolves the value against the reference size base.
func (l LengthPercentage) Absolute(base float64) float64 {
	return l.Pct/100*base + l.Px
}

// IsZero reports whether the value resolves to 0 for every base.
func (l LengthPercentage) IsZero() bool { return l.Px == 0 && l.Pct == 0 }

func (l LengthPercentage) String() string {
	switch {
	case l.Pct == 0:
		return formatNumber(l.Px) + "px"
	case l.Px == 0:
		return formatNumber(l.Pct) + "%"
	case l.Px < 0:
		return fmt.Sprintf("calc(%s%% - %spx)", formatNumber(l.Pct), formatNumber(-l.Px))
	}
	return fmt.Sprintf("calc(%s%% + %spx)", formatNumber(l.Pct), formatNumber(l.Px))
}

// AbsoluteTuple resolves an x/y pair against width and height.
func AbsoluteTuple(t [2]LengthPercentage, width, height float64) (float64, float64) {
	return t[0].Absolute(width), t[1].Absolute(height)
}

// emSize is the font size assumed for em and rem units in values that
// reach the painter unresolved.
const emSize = 16

// ParseLengthPercentage reads lengths ("12px", "1.5em", "0"),
// percentages ("50%") and two-term calc() expressions
// ("calc(100% - 10px)").
func ParseLengthPercentage(s string) (LengthPercentage, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if name, args, ok := splitFunction(s); ok && name == "calc" {
		return parseCalc(strings.Join(args, " "))
	}
	if strings.HasSuffix(s, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
		if err != nil {
			return Zero, fmt.Errorf("invalid percentage %q: %w", s, err)
		}
		return Percent(v), nil
	}
	v, err := ParseLength(s)
	if err != nil {
		return Zero, err
	}
	return Px(v), nil
}

// ParseLength reads an absolute length in px, em, rem, pt or a bare number.
func ParseLength(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	n := numberPrefix(s)
	v, err := strconv.ParseFloat(s[:n], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q: %w", s, err)
	}
	switch unit := s[n:]; unit {
	case "", "px":
		return v, nil
	case "em", "rem":
		return v * emSize, nil
	case "pt":
		return v * 4 / 3, nil
	case "pc":
		return v * 16, nil
	case "in":
		return v * 96, nil
	case "cm":
		return v * 96 / 2.54, nil
	case "mm":
		return v * 96 / 25.4, nil
	default:
		return 0, fmt.Errorf("unsupported length unit %q in %q", unit, s)
	}
}

// numberPrefix returns the length of the leading CSS number in s.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (isDigit(s[i]) || s[i] == '.') {
		i++
	}
	if i < len(s) && s[i] == 'e' {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && isDigit(s[j]) {
			for j < len(s) && isDigit(s[j]) {
				j++
			}
			i = j
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func parseCalc(expr string) (LengthPercentage, error) {
	fields := strings.Fields(expr)
	var out LengthPercentage
	sign := 1.0
	for _, f := range fields {
		switch f {
		case "+":
			sign = 1
			continue
		case "-":
			sign = -1
			continue
		}
		term, err := ParseLengthPercentage(f)
		if err != nil {
			return Zero, fmt.Errorf("calc(%s): %w", expr, err)
		}
		out.Px += sign * term.Px
		out.Pct += sign * term.Pct
		sign = 1
	}
	return out, nil
}

// ParseAngle reads deg, rad, grad and turn values and returns radians.
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	units := []struct {
		suffix string
		scale  float64
	}{
		{"deg", math.Pi / 180},
		{"grad", math.Pi / 200},
		{"rad", 1},
		{"turn", 2 * math.Pi},
	}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil {
				return 0, fmt.Errorf("invalid angle %q: %w", s, err)
			}
			return v * u.scale, nil
		}
	}
	if s == "0" {
		return 0, nil
	}
	return 0, fmt.Errorf("invalid angle %q", s)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
