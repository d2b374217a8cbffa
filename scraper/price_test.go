package scraper

import "testing"

func TestNormalizePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"$2.5M", 2_500_000},
		{"$3.2M", 3_200_000},
		{"$1.2 million", 1_200_000},
		{"2 Million", 2_000_000},
		{"1,750,000", 1_750_000},
		{"$950,000", 950_000},
		{"  $1,500,000 ", 1_500_000},
		{"Contact Agent", 0},
		{"", 0},
	}

	for _, c := range cases {
		if got := NormalizePrice(c.in); got != c.want {
			t.Errorf("NormalizePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}
