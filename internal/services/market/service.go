// Package market implements the market data gateway. Provider failures of
// any kind — unknown tickers, outages, missing line items — degrade to
// absent values rather than propagating as errors.
package market

import (
	"context"
	"sort"
	"time"

	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/models"
)

// Service wraps the provider client with degrade-to-absent semantics.
type Service struct {
	client interfaces.YahooClient
	logger *common.Logger
}

// NewService creates a new market data gateway.
func NewService(client interfaces.YahooClient, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Service{
		client: client,
		logger: logger,
	}
}

// GetHistory returns daily bars for the trailing lookback window, ascending
// by date with duplicate days dropped. Returns nil when the provider
// returned no rows or the call failed.
func (s *Service) GetHistory(ctx context.Context, symbol string, lookbackDays int) []models.Bar {
	to := time.Now()
	from := to.AddDate(0, 0, -lookbackDays)

	bars, err := s.client.GetDailyBars(ctx, symbol, from, to)
	if err != nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("History fetch failed")
		return nil
	}
	if len(bars) == 0 {
		return nil
	}

	return normalizeBars(bars)
}

// normalizeBars sorts bars ascending by date and keeps the last bar seen for
// each calendar day.
func normalizeBars(bars []models.Bar) []models.Bar {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for _, b := range bars {
		if len(out) > 0 && out[len(out)-1].Day().Equal(b.Day()) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

// priceStrategy is one entry in the ranked latest-price lookup chain.
type priceStrategy struct {
	name  string
	fetch func(ctx context.Context, symbol string) (float64, bool)
}

// priceStrategies returns the ranked list of price sources, tried in order
// until one succeeds: live quote, regular-market/previous-close from the
// fuller info payload, then the most recent close from a short history
// window.
func (s *Service) priceStrategies() []priceStrategy {
	return []priceStrategy{
		{name: "live_quote", fetch: s.priceFromQuote},
		{name: "equity_info", fetch: s.priceFromEquity},
		{name: "recent_close", fetch: s.priceFromRecentClose},
	}
}

// GetLatestPrice tries each ranked price source in order and returns the
// first success. Returns (0, false) when every source failed.
func (s *Service) GetLatestPrice(ctx context.Context, symbol string) (float64, bool) {
	for _, strategy := range s.priceStrategies() {
		if price, ok := strategy.fetch(ctx, symbol); ok {
			s.logger.Debug().
				Str("symbol", symbol).
				Str("source", strategy.name).
				Float64("price", price).
				Msg("Latest price resolved")
			return price, true
		}
	}
	s.logger.Debug().Str("symbol", symbol).Msg("All price sources failed")
	return 0, false
}

func (s *Service) priceFromQuote(ctx context.Context, symbol string) (float64, bool) {
	q, err := s.client.GetQuote(ctx, symbol)
	if err != nil || q == nil || q.Price <= 0 {
		return 0, false
	}
	return q.Price, true
}

func (s *Service) priceFromEquity(ctx context.Context, symbol string) (float64, bool) {
	eq, err := s.client.GetEquity(ctx, symbol)
	if err != nil || eq == nil {
		return 0, false
	}
	if eq.RegularMarketPrice > 0 {
		return eq.RegularMarketPrice, true
	}
	if eq.PreviousClose > 0 {
		return eq.PreviousClose, true
	}
	return 0, false
}

// recentCloseWindow covers the last trading week, enough to span weekends
// and single-day holidays.
const recentCloseWindow = 5

func (s *Service) priceFromRecentClose(ctx context.Context, symbol string) (float64, bool) {
	bars := s.GetHistory(ctx, symbol, recentCloseWindow)
	for i := len(bars) - 1; i >= 0; i-- {
		if bars[i].Close > 0 {
			return bars[i].Close, true
		}
	}
	return 0, false
}

// maxQuarters is how many quarterly net-income figures the summary carries.
const maxQuarters = 4

// GetFinancials returns the fundamentals summary for a symbol. Missing line
// items yield nil fields; a total provider failure yields a zero-value
// summary with an empty quarterly slice. Never fails.
func (s *Service) GetFinancials(ctx context.Context, symbol string) models.Financials {
	fin := models.Financials{Quarterly: []models.QuarterlyFigure{}}

	payload, err := s.client.GetFundamentals(ctx, symbol)
	if err != nil || payload == nil {
		s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Fundamentals fetch failed")
		return fin
	}

	fin.Currency = payload.Currency
	fin.CurrencySymbol = models.CurrencySymbol(payload.Currency)
	fin.MarketCap = payload.MarketCap
	fin.InsiderHolding = payload.InsiderHolding

	// Annual net income: first column of the statement (most recent year).
	if len(payload.AnnualNetIncome) > 0 {
		fin.NetIncome = payload.AnnualNetIncome[0].Value
	}

	for i, q := range payload.QuarterNetIncome {
		if i >= maxQuarters {
			break
		}
		fin.Quarterly = append(fin.Quarterly, models.QuarterlyFigure{
			Label: quarterLabel(q.EndDate),
			Value: q.Value,
		})
	}

	return fin
}

// quarterLabel renders a statement column date as "Jan 2006"; zero dates
// fall back to an empty label.
func quarterLabel(endDate time.Time) string {
	if endDate.IsZero() {
		return ""
	}
	return endDate.Format("Jan 2006")
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
