package market

import (
	"fmt"
	"time"
)

// GainerRecord is one row of the provider's top gainers snapshot
type GainerRecord struct {
	Ticker    string  `json:"ticker"`
	Price     float64 `json:"price"`
	ChangePct float64 `json:"change_pct"`
	Volume    int64   `json:"volume"`
}

// CompanyDetails holds reference data for a ticker
type CompanyDetails struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	MarketCap       float64 `json:"market_cap"`
	PrimaryExchange string  `json:"primary_exchange"`
}

// Headline is a single news item tied to a ticker
type Headline struct {
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Source      string    `json:"source"`
}

// FormatVolume renders a share count with a K/M/B suffix.
func FormatVolume(vol int64) string {
	v := float64(vol)
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("%.1fK", v/1e3)
	}
	return fmt.Sprintf("%d", vol)
}

// Quote is the latest national best bid and offer
type Quote struct {
	BidPrice float64 `json:"bid_price"`
	AskPrice float64 `json:"ask_price"`
	BidSize  float64 `json:"bid_size"`
	AskSize  float64 `json:"ask_size"`
}

// Bar is one OHLCV aggregate
type Bar struct {
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
	VWAP      float64   `json:"vwap"`
	Timestamp time.Time `json:"timestamp"`
}
