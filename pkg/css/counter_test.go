package css

import "testing"

func TestCounterText(t *testing.T) {
	tests := []struct {
		value int
		style ListStyleType
		want  string
	}{
		{1, ListDecimal, "1. "},
		{12, ListDecimal, "12. "},
		{3, ListDecimalLeadingZero, "03. "},
		{12, ListDecimalLeadingZero, "12. "},
		{4, ListUpperRoman, "IV. "},
		{1994, ListUpperRoman, "MCMXCIV. "},
		{9, ListLowerRoman, "ix. "},
		{4000, ListUpperRoman, "4000. "},
		{1, ListLowerAlpha, "a. "},
		{26, ListLowerAlpha, "z. "},
		{27, ListLowerAlpha, "aa. "},
		{28, ListUpperAlpha, "AB. "},
		{2, ListLowerGreek, "β. "},
		{1, ListDisc, "• "},
		{1, ListCircle, "◦ "},
		{1, ListSquare, "◾ "},
		{1, ListNone, ""},
	}
	for _, tt := range tests {
		if got := CounterText(tt.value, tt.style, true); got != tt.want {
			t.Errorf("CounterText(%d, %s) = %q, want %q", tt.value, tt.style, got, tt.want)
		}
	}
}

func TestCounterTextWithoutSuffix(t *testing.T) {
	if got := CounterText(5, ListDecimal, false); got != "5" {
		t.Errorf("got %q", got)
	}
	if got := CounterText(1, ListDisc, false); got != "•" {
		t.Errorf("got %q", got)
	}
}
