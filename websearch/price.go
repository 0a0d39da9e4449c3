package websearch

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// priceRe captures "$11.49", "$1,299.00", "USD 11.49" and bare "11.49 USD"
// forms. The first match in the text wins.
var priceRe = regexp.MustCompile(`(?i)(?:\$|USD\s?)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)|([0-9][0-9,]*\.[0-9]{2})\s?USD`)

// ExtractPrice pulls the first plausible price out of free text. Returns
// nil when no price is present or the amount is implausible for a consumer
// product listing.
func ExtractPrice(text string) *float64 {
	m := priceRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	raw = strings.ReplaceAll(raw, ",", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	// Two decimal places keeps "$11.4899" noise from leaking through.
	f, _ := d.Round(2).Float64()
	if f <= 0 || f > 1_000_000 {
		return nil
	}
	return &f
}
