package polygon

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"gainerscan/pkg/market"
)

const (
	quotePath = "/v3/quotes/{ticker}/last"
	aggsPath  = "/v2/aggs/ticker/{ticker}/range/1/{timespan}/{from}/{to}"

	minuteBarLimit = 5000
	dailyBarLimit  = 120
)

type quoteResponse struct {
	Status  string      `json:"status"`
	Results quoteResult `json:"results"`
}

type quoteResult struct {
	BidPrice float64 `json:"bp"`
	AskPrice float64 `json:"ap"`
	BidSize  float64 `json:"bs"`
	AskSize  float64 `json:"as"`
}

type aggsResponse struct {
	Status  string   `json:"status"`
	Results []aggBar `json:"results"`
}

type aggBar struct {
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
	VWAP      float64 `json:"vw"`
	Timestamp int64   `json:"t"`
}

// LastQuote fetches the latest NBBO for ticker.
func (c *Client) LastQuote(ctx context.Context, ticker string) (market.Quote, error) {
	var raw quoteResponse
	err := c.get(ctx, "last quote", quotePath, &raw, func(r *resty.Request) {
		r.SetPathParam("ticker", ticker)
	})
	if err != nil {
		return market.Quote{}, err
	}
	return market.Quote{
		BidPrice: raw.Results.BidPrice,
		AskPrice: raw.Results.AskPrice,
		BidSize:  raw.Results.BidSize,
		AskSize:  raw.Results.AskSize,
	}, nil
}

// MinuteBars returns one-minute bars in [from, to], oldest first.
func (c *Client) MinuteBars(ctx context.Context, ticker string, from, to time.Time) ([]market.Bar, error) {
	return c.bars(ctx, "minute bars", ticker, "minute",
		strconv.FormatInt(from.UnixMilli(), 10),
		strconv.FormatInt(to.UnixMilli(), 10),
		"asc", minuteBarLimit)
}

// DailyBars returns daily bars for the New York calendar dates spanning from and
// to, newest first.
func (c *Client) DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]market.Bar, error) {
	return c.bars(ctx, "daily bars", ticker, "day",
		from.In(market.NewYork).Format(time.DateOnly),
		to.In(market.NewYork).Format(time.DateOnly),
		"desc", dailyBarLimit)
}

func (c *Client) bars(ctx context.Context, endpoint, ticker, timespan, from, to, order string, limit int) ([]market.Bar, error) {
	var raw aggsResponse
	err := c.get(ctx, endpoint, aggsPath, &raw, func(r *resty.Request) {
		r.SetPathParams(map[string]string{
			"ticker":   ticker,
			"timespan": timespan,
			"from":     from,
			"to":       to,
		})
		r.SetQueryParams(map[string]string{
			"adjusted": "true",
			"sort":     order,
			"limit":    strconv.Itoa(limit),
		})
	})
	if err != nil {
		return nil, err
	}

	bars := make([]market.Bar, 0, len(raw.Results))
	for _, b := range raw.Results {
		bars = append(bars, market.Bar{
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
			VWAP:      b.VWAP,
			Timestamp: time.UnixMilli(b.Timestamp).UTC(),
		})
	}
	return bars, nil
}
