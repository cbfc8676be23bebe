// Package report orchestrates the per-ticker dashboard pipeline: history,
// beta against the benchmark, chart, fundamentals and the optional ledger
// append.
package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/models"
	"github.com/bobmcallan/stockdeck/internal/services/market"
	"github.com/bobmcallan/stockdeck/internal/services/portfolio"
	"github.com/bobmcallan/stockdeck/internal/signals"
)

// ErrNoTicker indicates the request carried no ticker after trimming.
var ErrNoTicker = errors.New("please provide a ticker (select or type one)")

// ErrHistoryUnavailable indicates the primary ticker's price history could
// not be fetched; without it no meaningful report can be built.
type ErrHistoryUnavailable struct {
	Symbol string
}

func (e *ErrHistoryUnavailable) Error() string {
	return fmt.Sprintf("could not fetch historical data for %s, check ticker", e.Symbol)
}

// minOverlapDays is the minimum number of overlapping trading dates between
// the stock and benchmark series before beta is attempted. The beta
// computation applies its own, lower floor on aligned returns; both gates
// are kept.
const minOverlapDays = 30

// Service builds ticker dashboard reports.
type Service struct {
	market       interfaces.MarketService
	ledger       *portfolio.Ledger
	logger       *common.Logger
	lookbackDays int
}

// NewService creates a report service. lookbackDays governs the history
// window for both the chart and the beta computation.
func NewService(marketService interfaces.MarketService, ledger *portfolio.Ledger, lookbackDays int, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	if lookbackDays <= 0 {
		lookbackDays = 180
	}
	return &Service{
		market:       marketService,
		ledger:       ledger,
		logger:       logger,
		lookbackDays: lookbackDays,
	}
}

// BuildTickerReport runs the full analysis pipeline for one ticker. When both
// quantity and price parse as valid positive numbers a holding is appended to
// the ledger; parse failures are swallowed and the report still renders.
func (s *Service) BuildTickerReport(ctx context.Context, req interfaces.ReportRequest) (*models.TickerReport, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, ErrNoTicker
	}

	history := s.market.GetHistory(ctx, symbol, s.lookbackDays)
	if history == nil {
		return nil, &ErrHistoryUnavailable{Symbol: symbol}
	}

	benchmark := market.SelectBenchmark(symbol)
	beta := s.computeBeta(ctx, symbol, benchmark, history)

	plotURL, err := RenderPriceChart(symbol, history)
	if err != nil {
		// A report without a chart is still a report.
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Chart rendering failed")
		plotURL = ""
	}

	fin := s.market.GetFinancials(ctx, symbol)
	currency := fin.CurrencySymbol

	latestPrice, priceOK := s.market.GetLatestPrice(ctx, symbol)
	latestPriceDisplay := common.NotAvailable
	if priceOK {
		latestPriceDisplay = fmt.Sprintf("%.2f", latestPrice)
	}

	shortName := symbol
	quarterly := make([]models.QuarterlyProfit, 0, len(fin.Quarterly))
	for _, q := range fin.Quarterly {
		quarterly = append(quarterly, models.QuarterlyProfit{
			Label: q.Label,
			Value: common.FormatLargeNumber(q.Value, currency),
		})
	}

	betaDisplay := common.NotAvailable
	if beta != nil {
		betaDisplay = fmt.Sprintf("%.2f", *beta)
	}

	if req.Quantity != "" && req.Price != "" {
		s.ledger.Append(symbol, req.Quantity, req.Price, currency)
	}

	return &models.TickerReport{
		Symbol:           symbol,
		ShortName:        shortName,
		LatestPrice:      latestPriceDisplay,
		MarketCap:        common.FormatLargeNumber(fin.MarketCap, currency),
		NetIncome:        common.FormatLargeNumber(fin.NetIncome, currency),
		QuarterlyProfits: quarterly,
		Promoter:         common.FormatPercent(fin.InsiderHolding),
		Beta:             beta,
		BetaDisplay:      betaDisplay,
		PlotURL:          plotURL,
		Benchmark:        benchmark,
		Currency:         currency,
	}, nil
}

// computeBeta fetches the benchmark history and estimates beta. A missing
// benchmark series, fewer than minOverlapDays common trading dates, or a
// degenerate benchmark variance all yield an absent beta.
func (s *Service) computeBeta(ctx context.Context, symbol, benchmark string, history []models.Bar) *float64 {
	benchHistory := s.market.GetHistory(ctx, benchmark, s.lookbackDays)
	if benchHistory == nil {
		return nil
	}

	if overlapDays(history, benchHistory) < minOverlapDays {
		s.logger.Debug().
			Str("symbol", symbol).
			Str("benchmark", benchmark).
			Msg("Insufficient overlapping trading dates for beta")
		return nil
	}

	beta, ok := signals.Beta(history, benchHistory)
	if !ok {
		return nil
	}
	return &beta
}

// overlapDays counts calendar days present in both bar series.
func overlapDays(a, b []models.Bar) int {
	days := make(map[int64]struct{}, len(a))
	for _, bar := range a {
		days[bar.Day().Unix()] = struct{}{}
	}

	count := 0
	for _, bar := range b {
		if _, ok := days[bar.Day().Unix()]; ok {
			count++
		}
	}
	return count
}

// Ensure Service implements ReportService
var _ interfaces.ReportService = (*Service)(nil)
