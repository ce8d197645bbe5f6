package money

import "testing"

func TestFormatUSDC(t *testing.T) {
	cases := []struct {
		amount uint64
		want   string
	}{
		{0, "0"},
		{1, "0.000001"},
		{1_500_000, "1.5"},
		{50_000, "0.05"},
		{1_000_000_000, "1000"},
	}
	for _, tc := range cases {
		if got := FormatUSDC(tc.amount); got != tc.want {
			t.Errorf("FormatUSDC(%d) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
