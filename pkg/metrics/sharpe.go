// Package metrics computes performance figures over fabricated PnL
// series. The numbers feeding it come from the advisor, not from a
// trading engine.
package metrics

import (
	"math"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
)

// tradingDaysPerYear annualizes daily-like return series.
const tradingDaysPerYear = 252

// SharpeRatio computes an annualized Sharpe-like ratio over
// period-over-period returns of a PnL series, rounded to two decimals.
// Fewer than two points yields 0. A zero standard deviation yields
// +Inf for a positive mean return and 0 otherwise.
func SharpeRatio(pnl []entity.PnlPoint) float64 {
	if len(pnl) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(pnl)-1)
	for i := 1; i < len(pnl); i++ {
		prev := pnl[i-1].Pnl
		if prev == 0 {
			returns = append(returns, pnl[i].Pnl)
			continue
		}
		returns = append(returns, (pnl[i].Pnl-prev)/math.Abs(prev))
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	avg := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		sq += (r - avg) * (r - avg)
	}
	stddev := math.Sqrt(sq / float64(len(returns)))

	if stddev == 0 {
		if avg > 0 {
			return math.Inf(1)
		}
		return 0
	}

	sharpe := (avg / stddev) * math.Sqrt(tradingDaysPerYear)
	return math.Round(sharpe*100) / 100
}
