package market

import (
	"fmt"
	"sort"
	"strings"
)

// rates are quoted against 1 USD. Static table, good enough for rough
// classroom conversions.
var rates = map[string]float64{
	"USD": 1.0,
	"INR": 84.5,
	"EUR": 0.95,
	"GBP": 0.79,
	"JPY": 150.0,
	"BTC": 0.000022,
}

// Convert translates an amount between two supported currencies.
func Convert(amount float64, from, to string) (string, error) {
	fromC := strings.ToUpper(strings.TrimSpace(from))
	toC := strings.ToUpper(strings.TrimSpace(to))

	fromRate, okFrom := rates[fromC]
	toRate, okTo := rates[toC]
	if !okFrom || !okTo {
		return "", fmt.Errorf("currency not supported, available: %s", strings.Join(SupportedCurrencies(), ", "))
	}

	result := (amount / fromRate) * toRate
	return fmt.Sprintf("💱 %g %s = %.2f %s", amount, fromC, result, toC), nil
}

// SupportedCurrencies lists the conversion table's currencies, sorted.
func SupportedCurrencies() []string {
	out := make([]string, 0, len(rates))
	for c := range rates {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
