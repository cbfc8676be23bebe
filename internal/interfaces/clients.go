// Package interfaces defines service contracts for Stockdeck
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/stockdeck/internal/models"
)

// YahooClient provides access to the Yahoo Finance API.
type YahooClient interface {
	// GetDailyBars retrieves daily OHLCV bars for the given date range,
	// ascending by date.
	GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)

	// GetQuote retrieves the fast live quote for a symbol.
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)

	// GetEquity retrieves the fuller info payload (regular market price,
	// previous close, market cap, currency).
	GetEquity(ctx context.Context, symbol string) (*models.EquitySummary, error)

	// GetFundamentals retrieves financial-statement data: annual and
	// quarterly net income, market cap, insider holding and currency.
	GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalsPayload, error)
}
