package polygon

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"gainerscan/pkg/market"
)

type detailsResponse struct {
	Status  string        `json:"status"`
	Results detailsResult `json:"results"`
}

type detailsResult struct {
	Ticker          string  `json:"ticker"`
	Name            string  `json:"name"`
	MarketCap       float64 `json:"market_cap"`
	PrimaryExchange string  `json:"primary_exchange"`
}

// TickerDetails fetches the company reference record for ticker.
func (c *Client) TickerDetails(ctx context.Context, ticker string) (market.CompanyDetails, error) {
	var raw detailsResponse
	err := c.get(ctx, "ticker details", detailsPath, &raw, func(r *resty.Request) {
		r.SetPathParam("ticker", ticker)
	})
	if err != nil {
		return market.CompanyDetails{}, err
	}

	details := market.CompanyDetails{
		Ticker:          raw.Results.Ticker,
		Name:            raw.Results.Name,
		MarketCap:       raw.Results.MarketCap,
		PrimaryExchange: raw.Results.PrimaryExchange,
	}
	if details.Ticker == "" {
		details.Ticker = ticker
	}
	return details, nil
}

type newsResponse struct {
	Status  string       `json:"status"`
	Results []newsResult `json:"results"`
}

type newsResult struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	ArticleURL   string        `json:"article_url"`
	PublishedUTC string        `json:"published_utc"`
	Tickers      []string      `json:"tickers"`
	Publisher    newsPublisher `json:"publisher"`
}

type newsPublisher struct {
	Name string `json:"name"`
}

func (c *Client) Name() string {
	return "Polygon"
}

// Headlines returns up to limit articles mentioning ticker published at or after
// since, newest first.
func (c *Client) Headlines(ctx context.Context, ticker string, since time.Time, limit int) ([]market.Headline, error) {
	var raw newsResponse
	err := c.get(ctx, "news", newsPath, &raw, func(r *resty.Request) {
		r.SetQueryParams(map[string]string{
			"ticker":            ticker,
			"published_utc.gte": since.UTC().Format(time.RFC3339),
			"order":             "desc",
			"sort":              "published_utc",
			"limit":             strconv.Itoa(limit),
		})
	})
	if err != nil {
		return nil, err
	}

	headlines := make([]market.Headline, 0, len(raw.Results))
	for _, item := range raw.Results {
		// unparsable timestamps leave PublishedAt zero
		publishedAt, _ := time.Parse(time.RFC3339, item.PublishedUTC)
		headlines = append(headlines, market.Headline{
			Title:       item.Title,
			Publisher:   item.Publisher.Name,
			URL:         item.ArticleURL,
			PublishedAt: publishedAt,
			Source:      c.Name(),
		})
	}
	if limit > 0 && len(headlines) > limit {
		headlines = headlines[:limit]
	}
	return headlines, nil
}
