package core

import "testing"

func TestFormatGrouped(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "0"},
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{85000, "85,000"},
		{850000, "850,000"},
		{1550000, "1,550,000"},
		{1234567890, "1,234,567,890"},
		{-4000, "-4,000"},
	}
	for _, tc := range cases {
		if got := FormatGrouped(tc.in); got != tc.out {
			t.Fatalf("FormatGrouped(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestFormatINR(t *testing.T) {
	cases := []struct {
		in  int64
		out string
	}{
		{0, "₹0"},
		{850000, "₹850,000"},
		{-4000, "-₹4,000"},
	}
	for _, tc := range cases {
		if got := FormatINR(tc.in); got != tc.out {
			t.Fatalf("FormatINR(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}
