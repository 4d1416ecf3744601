package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		amount   float64
		from, to string
		want     string
	}{
		{100, "USD", "INR", "💱 100 USD = 8450.00 INR"},
		{84.5, "inr", "usd", "💱 84.5 INR = 1.00 USD"},
		{1, "USD", "USD", "💱 1 USD = 1.00 USD"},
	}
	for _, tt := range tests {
		got, err := Convert(tt.amount, tt.from, tt.to)
		if err != nil {
			t.Fatalf("Convert(%v, %s, %s) failed: %v", tt.amount, tt.from, tt.to, err)
		}
		if got != tt.want {
			t.Errorf("Convert(%v, %s, %s) = %q, want %q", tt.amount, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestConvertRejectsUnknownCurrency(t *testing.T) {
	if _, err := Convert(1, "USD", "XYZ"); err == nil {
		t.Fatal("expected error for unsupported currency")
	}
}

func TestFormatQuote(t *testing.T) {
	up := FormatQuote("BTC", 64250.5, 2.31)
	if !strings.Contains(up, "🟢") || !strings.Contains(up, "$64250.50") {
		t.Errorf("positive change formatting wrong: %q", up)
	}

	down := FormatQuote("ETH", 3100, -1.2)
	if !strings.Contains(down, "🔴") {
		t.Errorf("negative change formatting wrong: %q", down)
	}
}

func TestQuoteParsesAPIResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.RawQuery, "ids=bitcoin") {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"bitcoin":{"usd":64250.5,"usd_24h_change":2.31}}`))
	}))
	defer server.Close()

	c := NewPriceClient()
	c.baseURL = server.URL

	got, err := c.Quote(context.Background(), "Bitcoin")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !strings.Contains(got, "BITCOIN") || !strings.Contains(got, "$64250.50") {
		t.Errorf("Quote = %q", got)
	}
}

func TestQuoteUnknownCoin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewPriceClient()
	c.baseURL = server.URL

	got, err := c.Quote(context.Background(), "notacoin")
	if err != nil {
		t.Fatalf("Quote failed: %v", err)
	}
	if !strings.Contains(got, "Couldn't find price") {
		t.Errorf("Quote = %q, want not-found message", got)
	}
}
