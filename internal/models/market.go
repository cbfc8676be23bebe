// Package models defines data structures for Stockdeck
package models

import "time"

// Bar represents a single daily OHLCV row for one ticker.
type Bar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Day returns the bar's date truncated to a calendar day in UTC.
// Bars from different feeds align on this key.
func (b Bar) Day() time.Time {
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), 0, 0, 0, 0, time.UTC)
}

// Quote is a single live price snapshot for one ticker.
type Quote struct {
	Symbol    string  `json:"symbol"`
	ShortName string  `json:"short_name,omitempty"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency,omitempty"`
}

// EquitySummary carries the fuller info payload for a ticker: identity,
// regular-market pricing and capitalization. Fields the provider did not
// supply are zero.
type EquitySummary struct {
	Symbol             string  `json:"symbol"`
	ShortName          string  `json:"short_name,omitempty"`
	Currency           string  `json:"currency,omitempty"`
	RegularMarketPrice float64 `json:"regular_market_price,omitempty"`
	PreviousClose      float64 `json:"previous_close,omitempty"`
	MarketCap          float64 `json:"market_cap,omitempty"`
}

// QuarterlyFigure is one quarterly net-income data point with a
// human-readable period label (e.g. "Mar 2025").
type QuarterlyFigure struct {
	Label string   `json:"label"`
	Value *float64 `json:"value"`
}

// Financials summarizes fundamental figures for a ticker. Nil pointers mean
// "unavailable from provider", never an error.
type Financials struct {
	NetIncome      *float64          `json:"net_income"`               // most recent annual net income
	Quarterly      []QuarterlyFigure `json:"quarterly"`                // up to 4 most recent quarters, newest first
	MarketCap      *float64          `json:"market_cap"`
	InsiderHolding *float64          `json:"insider_holding"`          // fraction in [0,1]
	Currency       string            `json:"currency,omitempty"`       // ISO code as reported (e.g. "INR")
	CurrencySymbol string            `json:"currency_symbol,omitempty"` // display symbol ("₹", "$", "")
}

// FundamentalsPayload is the raw fundamentals data returned by the provider
// client before the gateway normalizes it into a Financials summary.
type FundamentalsPayload struct {
	Currency          string
	MarketCap         *float64
	InsiderHolding    *float64
	AnnualNetIncome   []StatementFigure // newest first
	QuarterNetIncome  []StatementFigure // newest first
}

// StatementFigure is one line-item value from a financial statement column.
type StatementFigure struct {
	EndDate time.Time
	Value   *float64
}

// CurrencySymbol maps an ISO currency code to its display symbol.
// Unrecognized codes map to the empty string.
func CurrencySymbol(code string) string {
	switch code {
	case "INR":
		return "₹"
	case "USD":
		return "$"
	default:
		return ""
	}
}
