package tradeplan

import (
	"sort"

	"github.com/shopspring/decimal"

	"gainerscan/pkg/market"
	"gainerscan/pkg/scoring"
)

const (
	DefaultRiskPct   = 0.05
	DefaultRewardPct = 0.10
)

// Plan is an entry/stop/target triple. Values are exact; round only for display.
type Plan struct {
	Entry  decimal.Decimal
	Stop   decimal.Decimal
	Target decimal.Decimal
}

// Calculate derives a plan from the current price:
// entry = price, stop = entry*(1-riskPct), target = entry*(1+rewardPct).
func Calculate(price, riskPct, rewardPct float64) Plan {
	one := decimal.NewFromInt(1)
	entry := decimal.NewFromFloat(price)
	return Plan{
		Entry:  entry,
		Stop:   entry.Mul(one.Sub(decimal.NewFromFloat(riskPct))),
		Target: entry.Mul(one.Add(decimal.NewFromFloat(rewardPct))),
	}
}

// RiskPerShare is the distance between entry and stop.
func (p Plan) RiskPerShare() decimal.Decimal {
	return p.Entry.Sub(p.Stop).Abs()
}

// Row is one line of the snapshot report: a gainer with its plan and catalyst context.
type Row struct {
	market.GainerRecord
	Name      string
	Plan      Plan
	Shares    int64
	Catalyst  float64
	Headlines []string
	// Score is nil when market-data scoring is off.
	Score *scoring.Scorecard
}

// SortByConviction orders rows by conviction, then confidence, then pre-market
// volume, all descending. Unscored rows keep their relative order at the end.
func SortByConviction(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Score, rows[j].Score
		switch {
		case a == nil || b == nil:
			return a != nil && b == nil
		case a.Conviction != b.Conviction:
			return a.Conviction.Rank() > b.Conviction.Rank()
		case a.Confidence != b.Confidence:
			return a.Confidence > b.Confidence
		}
		return a.Premarket.Volume > b.Premarket.Volume
	})
}
