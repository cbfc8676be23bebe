package interfaces

import (
	"context"

	"github.com/bobmcallan/stockdeck/internal/models"
)

// MarketService is the market data gateway. Every operation degrades to
// absent values instead of propagating provider errors.
type MarketService interface {
	// GetHistory returns daily bars for the trailing lookback window,
	// ascending by date. Returns nil when the provider returned no rows or
	// the call failed for any reason.
	GetHistory(ctx context.Context, symbol string, lookbackDays int) []models.Bar

	// GetLatestPrice tries a ranked list of price sources and returns the
	// first that succeeds. The bool is false when every source failed.
	GetLatestPrice(ctx context.Context, symbol string) (float64, bool)

	// GetFinancials returns the fundamentals summary for a symbol. Missing
	// line items yield nil fields; a total provider failure yields a
	// zero-value summary. Never fails.
	GetFinancials(ctx context.Context, symbol string) models.Financials
}

// ReportService builds ticker dashboard reports.
type ReportService interface {
	// BuildTickerReport runs the full analysis pipeline for one ticker and
	// optionally appends a holding when quantity and price are supplied.
	BuildTickerReport(ctx context.Context, req ReportRequest) (*models.TickerReport, error)
}

// ReportRequest carries the user input for a ticker report.
type ReportRequest struct {
	Symbol   string // ticker, trimmed and uppercased by the service
	Quantity string // optional; positive integer to record a holding
	Price    string // optional; positive decimal buy price
}
