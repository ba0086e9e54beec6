package riskmanagement

import (
	"github.com/shopspring/decimal"

	"gainerscan/pkg/tradeplan"
)

// MaxShares sizes a position so that a stop-out at plan.Stop loses at most riskPerc
// percent of accSize. Returns 0 when there is no risk per share or no account to size against.
func MaxShares(accSize float64, riskPerc float64, plan tradeplan.Plan) int64 {
	riskPerShare := plan.RiskPerShare()
	if riskPerShare.IsZero() || accSize <= 0 || riskPerc <= 0 {
		return 0
	}
	maxRiskAmount := decimal.NewFromFloat(accSize).Mul(decimal.NewFromFloat(riskPerc)).Div(decimal.NewFromInt(100))
	return maxRiskAmount.Div(riskPerShare).Floor().IntPart()
}
