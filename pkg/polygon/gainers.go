package polygon

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"gainerscan/pkg/market"
)

type snapshotResponse struct {
	Status  string           `json:"status"`
	Tickers []tickerSnapshot `json:"tickers"`
}

type tickerSnapshot struct {
	Ticker           string      `json:"ticker"`
	TodaysChange     float64     `json:"todaysChange"`
	TodaysChangePerc float64     `json:"todaysChangePerc"`
	Day              snapshotAgg `json:"day"`
	Min              snapshotAgg `json:"min"`
	PrevDay          snapshotAgg `json:"prevDay"`
	LastTrade        *lastTrade  `json:"lastTrade"`
	Updated          int64       `json:"updated"`
}

type snapshotAgg struct {
	Open   float64 `json:"o"`
	High   float64 `json:"h"`
	Low    float64 `json:"l"`
	Close  float64 `json:"c"`
	Volume float64 `json:"v"`
	VWAP   float64 `json:"vw"`
	// AccumVolume is only populated on the minute aggregate.
	AccumVolume float64 `json:"av"`
}

type lastTrade struct {
	Price     float64 `json:"p"`
	Size      float64 `json:"s"`
	Timestamp int64   `json:"t"`
}

// Gainers returns today's top gaining U.S. stocks, largest percent change first.
func (c *Client) Gainers(ctx context.Context) ([]market.GainerRecord, error) {
	var raw snapshotResponse
	if err := c.get(ctx, "gainers", gainersPath, &raw); err != nil {
		return nil, err
	}

	records := make([]market.GainerRecord, 0, len(raw.Tickers))
	for _, t := range raw.Tickers {
		rec, ok := t.record()
		if !ok {
			c.logger.Debug("skipping gainer without price", zap.String("ticker", t.Ticker))
			continue
		}
		records = append(records, rec)
	}

	// provider order breaks ties
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].ChangePct > records[j].ChangePct
	})
	return records, nil
}

func (t tickerSnapshot) record() (market.GainerRecord, bool) {
	price := 0.0
	switch {
	case t.LastTrade != nil && t.LastTrade.Price > 0:
		price = t.LastTrade.Price
	case t.Day.Close > 0:
		price = t.Day.Close
	case t.Min.Close > 0:
		price = t.Min.Close
	}
	if t.Ticker == "" || price <= 0 {
		return market.GainerRecord{}, false
	}

	volume := t.Day.Volume
	if volume == 0 {
		volume = t.Min.AccumVolume
	}

	return market.GainerRecord{
		Ticker:    t.Ticker,
		Price:     price,
		ChangePct: t.TodaysChangePerc,
		Volume:    int64(volume),
	}, true
}
