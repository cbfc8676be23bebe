// Package portfolio maintains the in-memory holdings ledger. The ledger is
// append-only and volatile: entries are lost on restart and there is no
// update or delete operation.
package portfolio

import (
	"context"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/models"
)

// Ledger holds the ordered sequence of recorded holdings. A mutex guards the
// slice because the HTTP server mutates it from concurrent requests.
type Ledger struct {
	mu      sync.Mutex
	records []models.HoldingRecord

	market interfaces.MarketService
	logger *common.Logger
}

// NewLedger creates an empty ledger valued against the given market gateway.
func NewLedger(market interfaces.MarketService, logger *common.Logger) *Ledger {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Ledger{
		market: market,
		logger: logger,
	}
}

// Append parses and records a holding. Quantity must parse as a positive
// integer and price as a positive number; any parse failure or non-positive
// value is a silent no-op. Returns whether a record was added.
func (l *Ledger) Append(symbol, quantityRaw, priceRaw, currency string) bool {
	if quantityRaw == "" || priceRaw == "" {
		return false
	}

	quantity, err := strconv.ParseInt(quantityRaw, 10, 64)
	if err != nil || quantity <= 0 {
		l.logger.Debug().Str("symbol", symbol).Str("quantity", quantityRaw).Msg("Ignoring holding with invalid quantity")
		return false
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price <= 0 {
		l.logger.Debug().Str("symbol", symbol).Str("price", priceRaw).Msg("Ignoring holding with invalid price")
		return false
	}

	record := models.HoldingRecord{
		Symbol:   symbol,
		Quantity: quantity,
		BuyPrice: round2(price),
		Currency: currency,
	}

	l.mu.Lock()
	l.records = append(l.records, record)
	l.mu.Unlock()

	l.logger.Info().
		Str("symbol", record.Symbol).
		Int64("quantity", record.Quantity).
		Float64("buy_price", record.BuyPrice).
		Msg("Holding recorded")
	return true
}

// Len returns the number of recorded holdings.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// Snapshot values every holding against a fresh quote. An unavailable quote
// values the position at zero rather than failing the snapshot. The display
// currency is re-fetched per holding so it tracks the provider's current
// report; the append-time symbol is kept as a fallback.
func (l *Ledger) Snapshot(ctx context.Context) []models.EnrichedHolding {
	l.mu.Lock()
	records := make([]models.HoldingRecord, len(l.records))
	copy(records, l.records)
	l.mu.Unlock()

	enriched := make([]models.EnrichedHolding, 0, len(records))
	for _, r := range records {
		price, ok := l.market.GetLatestPrice(ctx, r.Symbol)
		if !ok {
			price = 0
		}
		price = round2(price)

		qty := decimal.NewFromInt(r.Quantity)
		currentValue := decimal.NewFromFloat(price).Mul(qty).Round(2)
		cost := decimal.NewFromFloat(r.BuyPrice).Mul(qty)
		pnl := currentValue.Sub(cost).Round(2)

		currency := l.market.GetFinancials(ctx, r.Symbol).CurrencySymbol
		if currency == "" {
			currency = r.Currency
		}

		enriched = append(enriched, models.EnrichedHolding{
			Symbol:       r.Symbol,
			Quantity:     r.Quantity,
			BuyPrice:     r.BuyPrice,
			CurrentPrice: price,
			CurrentValue: currentValue.InexactFloat64(),
			ProfitLoss:   pnl.InexactFloat64(),
			Currency:     currency,
		})
	}

	return enriched
}

func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
