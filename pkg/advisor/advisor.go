// Package advisor asks a generative model to invent a plausible
// backtest and optimization narrative for a submitted strategy. No
// real backtesting happens anywhere in this system; the model's JSON
// is the "result".
package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/quantdeck/quantdeck/internal/domain/entity"
	"github.com/quantdeck/quantdeck/pkg/metrics"
)

var ErrUnavailable = errors.New("advisor unavailable")

// SampleHistoricalData is the canned OHLCV slice handed to the model as
// "historical data". A real application would fetch this from a market
// data source.
const SampleHistoricalData = `Date,Open,High,Low,Close,Volume
2023-01-01,16541.2,16630.0,16520.0,16625.1,126000
2023-01-02,16625.2,16750.0,16570.0,16720.5,145000
2023-01-03,16720.6,16800.0,16650.0,16780.2,139000
2023-01-04,16780.1,17000.0,16750.0,16950.3,189000
2023-01-05,16950.2,17200.0,16850.0,17150.8,210000`

const systemPrompt = `You are an AI-powered trading strategy advisor. Analyze the provided trading strategy and historical market data to suggest optimizations and improvements.

First, provide specific suggestions for optimizing the trading strategy. Include the rationale behind each suggestion, explaining why it may improve performance. Focus on aspects like parameter adjustments, risk management techniques, and alternative trading rules.

Second, run a plausible simulation of a backtest based on the strategy and historical data. Generate realistic performance metrics. Include 15-20 pnlData points, a corresponding priceData array representing a plausible market price movement over the same period, a tradeLog of the 5 most significant simulated trades, and a series of BUY and SELL chartEvents whose prices are consistent with priceData.

Respond with a single JSON object and nothing else, in this exact shape:
{
  "suggestions": string,
  "rationale": string,
  "backtest": {
    "totalPnl": number,
    "winRate": number,
    "profitFactor": number,
    "totalTrades": number,
    "pnlData": [{"day": number, "pnl": number}],
    "priceData": [{"day": number, "price": number}],
    "tradeLog": [{"id": number, "type": "BUY"|"SELL", "asset": string, "price": number, "size": number, "pnl": number, "status": "Open"|"Closed"}],
    "chartEvents": [{"day": number, "type": "BUY"|"SELL", "price": number}]
  }
}`

// Client wraps the model endpoint used to fabricate analyses.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// New builds a Client. baseURL may point at any OpenAI-compatible
// endpoint; leave it empty for the default.
func New(apiKey, baseURL, model string, timeout time.Duration) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{api: openai.NewClientWithConfig(cfg), model: model, timeout: timeout}
}

// Analyze fabricates a backtest for the given strategy code. The
// Sharpe ratio is computed locally from the returned PnL series rather
// than trusted from the model.
func (c *Client) Analyze(ctx context.Context, strategyCode, historicalData string) (*entity.StrategyAnalysis, error) {
	if historicalData == "" {
		historicalData = SampleHistoricalData
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(
				"Trading Strategy Code:\n%s\n\nHistorical Market Data:\n%s", strategyCode, historicalData)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ErrUnavailable)
	}

	analysis, err := decodeAnalysis(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	analysis.Backtest.SharpeRatio = entity.SharpeValue(metrics.SharpeRatio(analysis.Backtest.PnlData))
	return analysis, nil
}

func decodeAnalysis(content string) (*entity.StrategyAnalysis, error) {
	// Some models wrap JSON in a fenced block despite instructions.
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var out entity.StrategyAnalysis
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return nil, err
	}
	if out.Suggestions == "" || len(out.Backtest.PnlData) == 0 {
		return nil, errors.New("incomplete analysis payload")
	}
	if len(out.Backtest.TradeLog) > 5 {
		out.Backtest.TradeLog = out.Backtest.TradeLog[:5]
	}
	return &out, nil
}
