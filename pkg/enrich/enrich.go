package enrich

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gainerscan/pkg/market"
	"gainerscan/pkg/news"
	"gainerscan/pkg/riskmanagement"
	"gainerscan/pkg/scoring"
	"gainerscan/pkg/tradeplan"
)

const (
	// NewsScanLimit is how many recent articles feed the catalyst score. Only
	// NewsLimit of them are kept for display.
	NewsScanLimit = 50
	// BenchmarkTicker sets the market backdrop score.
	BenchmarkTicker = "SPY"
	// HighLookback is the window for the T1/T2 resistance targets.
	HighLookback = 30 * 24 * time.Hour
)

// Error reports a failed lookup for one ticker. It never aborts a run.
type Error struct {
	Ticker string
	Step   string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("enrich %s: %s: %v", e.Ticker, e.Step, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type DetailsFetcher interface {
	TickerDetails(ctx context.Context, ticker string) (market.CompanyDetails, error)
}

// MarketData supplies the quote and bar history behind the conviction score.
type MarketData interface {
	LastQuote(ctx context.Context, ticker string) (market.Quote, error)
	MinuteBars(ctx context.Context, ticker string, from, to time.Time) ([]market.Bar, error)
	DailyBars(ctx context.Context, ticker string, from, to time.Time) ([]market.Bar, error)
}

type Options struct {
	TopN         int
	RiskPct      float64
	RewardPct    float64
	NewsLookback time.Duration
	// NewsLimit of zero skips the headline lookup.
	NewsLimit      int
	AccountSize    float64
	AccountRiskPct float64
	// PremarketStart is the pre-market open as an offset from New York midnight.
	PremarketStart   time.Duration
	RankByConviction bool
}

type Enricher struct {
	details DetailsFetcher
	news    news.Source
	market  MarketData
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
}

func New(details DetailsFetcher, source news.Source, opts Options, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		details: details,
		news:    source,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// WithMarketData turns on conviction scoring backed by md.
func (e *Enricher) WithMarketData(md MarketData) *Enricher {
	e.market = md
	return e
}

// window is the time frame shared by every row of one run.
type window struct {
	now            time.Time
	newsSince      time.Time
	premarketStart time.Time
	backdrop       float64
}

// Enrich builds one row per gainer, limited to the top N, fetching details and
// headlines one ticker at a time. Lookup failures degrade the affected row only; they
// are logged and returned combined so the caller can report them.
func (e *Enricher) Enrich(ctx context.Context, gainers []market.GainerRecord) ([]tradeplan.Row, error) {
	if e.opts.TopN > 0 && len(gainers) > e.opts.TopN {
		gainers = gainers[:e.opts.TopN]
	}

	now := e.now()
	w := window{
		now:            now,
		newsSince:      now.Add(-e.opts.NewsLookback),
		premarketStart: market.SessionStart(now, e.opts.PremarketStart),
	}

	rows := make([]tradeplan.Row, 0, len(gainers))
	var errs error

	if e.market != nil && len(gainers) > 0 {
		backdrop, err := e.backdrop(ctx, w)
		if err != nil {
			e.degraded(BenchmarkTicker, err)
			errs = multierr.Append(errs, err)
		}
		w.backdrop = backdrop
	}

	for _, g := range gainers {
		row, err := e.row(ctx, g, w)
		if err != nil {
			e.degraded(g.Ticker, err)
			errs = multierr.Append(errs, err)
		}
		rows = append(rows, row)
	}

	if e.opts.RankByConviction {
		tradeplan.SortByConviction(rows)
	}
	return rows, errs
}

func (e *Enricher) degraded(ticker string, err error) {
	for _, rowErr := range multierr.Errors(err) {
		e.logger.Warn("enrichment degraded", zap.String("ticker", ticker), zap.Error(rowErr))
	}
}

func (e *Enricher) backdrop(ctx context.Context, w window) (float64, error) {
	bars, err := e.market.MinuteBars(ctx, BenchmarkTicker, w.premarketStart, w.now)
	if err != nil {
		return scoring.MarketScore(nil), &Error{Ticker: BenchmarkTicker, Step: "market", Err: err}
	}
	return scoring.MarketScore(bars), nil
}

func (e *Enricher) row(ctx context.Context, g market.GainerRecord, w window) (tradeplan.Row, error) {
	plan := tradeplan.Calculate(g.Price, e.opts.RiskPct, e.opts.RewardPct)
	row := tradeplan.Row{
		GainerRecord: g,
		Plan:         plan,
		Shares:       riskmanagement.MaxShares(e.opts.AccountSize, e.opts.AccountRiskPct, plan),
		Headlines:    []string{},
	}

	var errs error

	if e.details != nil {
		details, err := e.details.TickerDetails(ctx, g.Ticker)
		if err != nil {
			errs = multierr.Append(errs, &Error{Ticker: g.Ticker, Step: "details", Err: err})
		} else {
			row.Name = details.Name
		}
	}

	if e.news != nil && e.opts.NewsLimit > 0 {
		headlines, err := e.news.Headlines(ctx, g.Ticker, w.newsSince, max(e.opts.NewsLimit, NewsScanLimit))
		if err != nil {
			errs = multierr.Append(errs, &Error{Ticker: g.Ticker, Step: "news", Err: err})
		}
		titles := make([]string, 0, len(headlines))
		for _, h := range headlines {
			if title := news.CleanTitle(h.Title); title != "" {
				titles = append(titles, title)
			}
		}
		row.Catalyst = news.CatalystScore(titles)
		if len(titles) > e.opts.NewsLimit {
			titles = titles[:e.opts.NewsLimit]
		}
		row.Headlines = titles
	}

	if e.market != nil {
		card, err := e.score(ctx, g, row.Catalyst, w)
		errs = multierr.Append(errs, err)
		row.Score = card
	}

	return row, errs
}

// score fills a scorecard; each failed lookup leaves its component at zero.
func (e *Enricher) score(ctx context.Context, g market.GainerRecord, catalyst float64, w window) (*scoring.Scorecard, error) {
	card := &scoring.Scorecard{
		Momentum: scoring.MomentumScore(g.ChangePct),
		News:     catalyst,
		Market:   w.backdrop,
	}
	var errs error

	if q, err := e.market.LastQuote(ctx, g.Ticker); err != nil {
		errs = multierr.Append(errs, &Error{Ticker: g.Ticker, Step: "quote", Err: err})
	} else {
		card.Liquidity = scoring.LiquidityScore(q)
		if spread, ok := scoring.SpreadPct(q); ok {
			card.SpreadPct = &spread
		}
	}

	if bars, err := e.market.MinuteBars(ctx, g.Ticker, w.premarketStart, w.now); err != nil {
		errs = multierr.Append(errs, &Error{Ticker: g.Ticker, Step: "premarket", Err: err})
	} else {
		card.Premarket = scoring.SummarizePremarket(bars, g.Price)
		card.Flow = scoring.FlowScore(card.Premarket)
	}

	if bars, err := e.market.DailyBars(ctx, g.Ticker, w.now.Add(-HighLookback), w.now); err != nil {
		errs = multierr.Append(errs, &Error{Ticker: g.Ticker, Step: "history", Err: err})
	} else {
		card.T1, card.T2 = scoring.Targets(bars)
	}

	card.Grade()
	return card, errs
}
