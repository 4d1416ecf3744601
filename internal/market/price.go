// Package market provides crypto price lookups and a static currency
// converter.
package market

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// PriceClient fetches spot prices from the CoinGecko simple-price API,
// which needs no API key.
type PriceClient struct {
	baseURL string
	client  *http.Client
}

func NewPriceClient() *PriceClient {
	return &PriceClient{
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type coinQuote struct {
	USD       float64 `json:"usd"`
	Change24h float64 `json:"usd_24h_change"`
}

// Quote returns a formatted one-line quote for a coin id (e.g. "bitcoin").
func (c *PriceClient) Quote(ctx context.Context, symbol string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(symbol))
	if id == "" {
		return "", fmt.Errorf("empty symbol")
	}

	url := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd&include_24hr_change=true", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("price request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("price API returned status %d", resp.StatusCode)
	}

	var payload map[string]coinQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("error decoding price response: %w", err)
	}

	quote, ok := payload[id]
	if !ok {
		return fmt.Sprintf("Couldn't find price for %s", strings.ToUpper(symbol)), nil
	}

	return FormatQuote(strings.ToUpper(symbol), quote.USD, quote.Change24h), nil
}

// FormatQuote renders a price line with a 24h change indicator.
func FormatQuote(symbol string, price, change float64) string {
	emoji := "🟢"
	if change < 0 {
		emoji = "🔴"
	}
	return fmt.Sprintf("%s: $%.2f %s %.2f%%", symbol, price, emoji, change)
}
