package news

import (
	"context"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/go-faster/errors"

	"gainerscan/pkg/market"
)

type alpacaNewsClient interface {
	GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error)
}

// AlpacaSource reads headlines from the Alpaca market data news API.
type AlpacaSource struct {
	client alpacaNewsClient
}

func NewAlpacaSource(apiKey, apiSecret string) *AlpacaSource {
	return &AlpacaSource{
		client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
	}
}

func (a *AlpacaSource) Name() string {
	return "Alpaca"
}

func (a *AlpacaSource) Headlines(ctx context.Context, ticker string, since time.Time, limit int) ([]market.Headline, error) {
	// the SDK call takes no context
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	items, err := a.client.GetNews(marketdata.GetNewsRequest{
		Symbols:    []string{ticker},
		Start:      since,
		Sort:       marketdata.SortDesc,
		TotalLimit: limit,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "alpaca news %s", ticker)
	}

	headlines := make([]market.Headline, 0, len(items))
	for _, item := range items {
		headlines = append(headlines, market.Headline{
			Title:       item.Headline,
			Publisher:   item.Source,
			URL:         item.URL,
			PublishedAt: item.CreatedAt,
			Source:      a.Name(),
		})
	}
	return headlines, nil
}
