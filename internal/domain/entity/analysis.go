package entity

import (
	"encoding/json"
	"math"
)

// StrategyAnalysis is the advisor's fabricated optimization narrative
// and backtest. The workflow core stores it verbatim; only the advisor
// and the presentation layer interpret it.
type StrategyAnalysis struct {
	Suggestions string          `json:"suggestions"`
	Rationale   string          `json:"rationale"`
	Backtest    BacktestMetrics `json:"backtest"`
}

type BacktestMetrics struct {
	TotalPnl     float64         `json:"totalPnl"`
	WinRate      float64         `json:"winRate"`
	ProfitFactor float64         `json:"profitFactor"`
	TotalTrades  int             `json:"totalTrades"`
	PnlData      []PnlPoint      `json:"pnlData"`
	PriceData    []PricePoint    `json:"priceData"`
	TradeLog     []TradeLogEntry `json:"tradeLog"`
	ChartEvents  []ChartEvent    `json:"chartEvents"`
	SharpeRatio  SharpeValue     `json:"sharpeRatio,omitempty"`
}

// SharpeValue carries the Sharpe ratio through JSON. The formula yields
// +Inf on a zero-volatility winning series, which plain float encoding
// rejects; it round-trips as the string "Infinity" instead.
type SharpeValue float64

func (v SharpeValue) MarshalJSON() ([]byte, error) {
	f := float64(v)
	if math.IsInf(f, 1) {
		return []byte(`"Infinity"`), nil
	}
	if math.IsInf(f, -1) || math.IsNaN(f) {
		return []byte("0"), nil
	}
	return json.Marshal(f)
}

func (v *SharpeValue) UnmarshalJSON(b []byte) error {
	if string(b) == `"Infinity"` {
		*v = SharpeValue(math.Inf(1))
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		// Tolerate other stringy junk from the model; treat as unset.
		*v = 0
		return nil
	}
	*v = SharpeValue(f)
	return nil
}

type PnlPoint struct {
	Day int     `json:"day"`
	Pnl float64 `json:"pnl"`
}

type PricePoint struct {
	Day   int     `json:"day"`
	Price float64 `json:"price"`
}

type TradeLogEntry struct {
	ID     int     `json:"id"`
	Type   string  `json:"type"` // BUY or SELL
	Asset  string  `json:"asset"`
	Price  float64 `json:"price"`
	Size   float64 `json:"size"`
	Pnl    float64 `json:"pnl"`
	Status string  `json:"status"` // Open or Closed
}

type ChartEvent struct {
	Day   int     `json:"day"`
	Type  string  `json:"type"`
	Price float64 `json:"price"`
}
