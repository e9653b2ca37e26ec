package core

import "testing"

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34", 12.34, true},
		{"12,34", 12.34, true},
		{" 100 ", 100, true},
		{"0.01", 0.01, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"0", 0, false},
		{"0,00", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseValue(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("case %d (%q): got %v, %v; want %v", i, tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{1, "R$ 1,00"},
		{12.34, "R$ 12,34"},
		{1234.5, "R$ 1.234,50"},
		{1234567.89, "R$ 1.234.567,89"},
		{-60, "-R$ 60,00"},
	}
	for i, tc := range cases {
		if got := FormatBRL(tc.in); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}
