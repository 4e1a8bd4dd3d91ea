package money

import "testing"

func TestFormat_BrazilianConvention(t *testing.T) {
	cases := []struct {
		value float64
		want  string
	}{
		{1.9504, "R$ 1,95"},
		{0, "R$ 0,00"},
		{1234.5, "R$ 1.234,50"},
		{1234567.891, "R$ 1.234.567,89"},
		{-39.008, "-R$ 39,01"},
	}

	for _, tc := range cases {
		if got := Format(tc.value, "pt-BR", "BRL"); got != tc.want {
			t.Fatalf("Format(%v) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestFormat_DefaultConventionAndUnknownCurrency(t *testing.T) {
	if got := Format(1234.5, "en-US", "USD"); got != "$ 1,234.50" {
		t.Fatalf("Format = %q", got)
	}
	if got := Format(10, "en-US", "XYZ"); got != "XYZ 10.00" {
		t.Fatalf("Format = %q", got)
	}
}
