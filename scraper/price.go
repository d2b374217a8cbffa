package scraper

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	millionPattern  = regexp.MustCompile(`[$£€]?\s*(\d+\.?\d*)\s*[mM](?:illion)?`)
	digitRunPattern = regexp.MustCompile(`[\d.]+`)
)

// NormalizePrice converts a price string to its numeric value.
//
// "$2.5M" and "$2.5 million" become 2500000; "1,750,000" becomes 1750000.
// When the text carries no "m"/"million" marker, every digit run is
// concatenated in order and parsed as a decimal. Text without digits, or
// digits that do not form a valid number, yield 0.
func NormalizePrice(text string) float64 {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")

	if strings.Contains(strings.ToLower(text), "m") {
		if m := millionPattern.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v * 1_000_000
			}
		}
	}

	runs := digitRunPattern.FindAllString(text, -1)
	if len(runs) == 0 {
		return 0
	}

	v, err := strconv.ParseFloat(strings.Join(runs, ""), 64)
	if err != nil {
		return 0
	}
	return v
}
