package scoring

import (
	"math"

	"github.com/shopspring/decimal"

	"gainerscan/pkg/market"
)

type Conviction string

const (
	High   Conviction = "High"
	Medium Conviction = "Medium"
	Low    Conviction = "Low"
)

// Rank orders convictions for sorting; unknown values rank below Low.
func (c Conviction) Rank() int {
	switch c {
	case High:
		return 3
	case Medium:
		return 2
	case Low:
		return 1
	}
	return 0
}

const (
	maxSpreadPct       = 5.0
	fullDepthShares    = 2000.0
	fullFlowVolume     = 5_000_000.0
	aboveVWAPBonus     = 0.1
	neutralMarket      = 0.5
	fullMomentumPct    = 50.0
	secondTargetMarkup = 1.05
)

// Premarket summarises the minute bars since the pre-market open.
type Premarket struct {
	Price  float64
	VWAP   float64
	Volume float64
}

// Scorecard holds every input of the confidence blend plus the values shown next to it.
type Scorecard struct {
	Momentum  float64
	News      float64
	Flow      float64
	Liquidity float64
	Market    float64

	Confidence float64
	Conviction Conviction

	Premarket Premarket
	// SpreadPct is nil when the quote has no usable bid/ask.
	SpreadPct *float64
	T1        decimal.NullDecimal
	T2        decimal.NullDecimal
}

// Grade computes Confidence and Conviction from the component scores.
func (s *Scorecard) Grade() {
	s.Confidence = Confidence(s.Momentum, s.News, s.Flow, s.Liquidity, s.Market)
	s.Conviction = ConvictionFor(s.Confidence)
}

// SpreadPct is the ask over bid premium in percent.
func SpreadPct(q market.Quote) (float64, bool) {
	if q.BidPrice <= 0 || q.AskPrice <= 0 {
		return 0, false
	}
	return (q.AskPrice - q.BidPrice) / q.BidPrice * 100, true
}

// LiquidityScore averages a spread score (0% -> 1, 5% or wider -> 0) and a depth
// score (2000 shares across both sides -> 1).
func LiquidityScore(q market.Quote) float64 {
	spreadScore := 0.0
	if spread, ok := SpreadPct(q); ok {
		spreadScore = math.Max(0, 1-spread/maxSpreadPct)
	}
	sizeScore := math.Min((q.BidSize+q.AskSize)/fullDepthShares, 1)
	return (spreadScore + sizeScore) / 2
}

// SummarizePremarket sums volume and computes a close-weighted VWAP. lastPrice,
// when positive, overrides the final bar close.
func SummarizePremarket(bars []market.Bar, lastPrice float64) Premarket {
	var p Premarket
	weighted := 0.0
	for _, b := range bars {
		p.Volume += b.Volume
		weighted += b.Close * b.Volume
	}
	if p.Volume > 0 {
		p.VWAP = weighted / p.Volume
	}
	if len(bars) > 0 {
		p.Price = bars[len(bars)-1].Close
	}
	if lastPrice > 0 {
		p.Price = lastPrice
	}
	return p
}

// FlowScore scales pre-market volume against 5M shares and adds a bonus when
// price holds at or above VWAP.
func FlowScore(p Premarket) float64 {
	score := math.Min(p.Volume/fullFlowVolume, 1)
	if p.Price > 0 && p.VWAP > 0 && p.Price >= p.VWAP {
		score = math.Min(score+aboveVWAPBonus, 1)
	}
	return score
}

// MarketScore maps the benchmark's move across bars from -0.5% to +0.5% onto 0..1.
// Missing data is neutral.
func MarketScore(bars []market.Bar) float64 {
	if len(bars) == 0 {
		return neutralMarket
	}
	first := bars[0].Open
	if first == 0 {
		first = bars[0].Close
	}
	last := bars[len(bars)-1].Close
	if first == 0 || last == 0 {
		return neutralMarket
	}
	pct := (last - first) / first * 100
	return clamp(pct + 0.5)
}

// MomentumScore rates the session gain; a 50% gainer scores 1.
func MomentumScore(changePct float64) float64 {
	return clamp(changePct / fullMomentumPct)
}

// Confidence blends the component scores into 0..100.
func Confidence(momentum, news, flow, liquidity, market float64) float64 {
	return (0.35*momentum + 0.25*news + 0.20*flow + 0.10*liquidity + 0.10*market) * 100
}

func ConvictionFor(confidence float64) Conviction {
	switch {
	case confidence >= 75:
		return High
	case confidence >= 55:
		return Medium
	}
	return Low
}

// Targets derives T1 (the highest high across bars) and T2 (5% above it), both in cents.
func Targets(bars []market.Bar) (t1, t2 decimal.NullDecimal) {
	high := 0.0
	for _, b := range bars {
		high = math.Max(high, b.High)
	}
	if high <= 0 {
		return t1, t2
	}
	h := decimal.NewFromFloat(high)
	t1 = decimal.NewNullDecimal(h.Round(2))
	t2 = decimal.NewNullDecimal(h.Mul(decimal.NewFromFloat(secondTargetMarkup)).Round(2))
	return t1, t2
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
