package models

// HoldingRecord is a user-recorded position in the in-memory ledger.
// Records are append-only: no update or delete exists.
type HoldingRecord struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`  // > 0
	BuyPrice float64 `json:"buy_price"` // > 0, rounded to 2dp at append
	Currency string  `json:"currency"`  // display symbol captured at append time
}

// EnrichedHolding is a HoldingRecord plus valuation derived from a live
// quote. Recomputed fresh on every snapshot; never stored.
type EnrichedHolding struct {
	Symbol       string  `json:"symbol"`
	Quantity     int64   `json:"quantity"`
	BuyPrice     float64 `json:"buy_price"`
	CurrentPrice float64 `json:"current_price"`
	CurrentValue float64 `json:"current_value"`
	ProfitLoss   float64 `json:"pnl"`
	Currency     string  `json:"currency"`
}

// QuarterlyProfit is a formatted quarterly net-income entry for display.
type QuarterlyProfit struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TickerReport is the analysis result for one ticker, ready for rendering.
type TickerReport struct {
	Symbol           string            `json:"symbol"`
	ShortName        string            `json:"short_name"`
	LatestPrice      string            `json:"latest_price"` // 2dp, or "N/A"
	MarketCap        string            `json:"market_cap"`   // formatted with magnitude suffix
	NetIncome        string            `json:"net_income"`
	QuarterlyProfits []QuarterlyProfit `json:"quarterly_profits"`
	Promoter         string            `json:"promoter"` // formatted percent or "N/A"
	Beta             *float64          `json:"beta"`
	BetaDisplay      string            `json:"beta_display"`
	PlotURL          string            `json:"plot_url"` // base64 PNG, "" when rendering failed
	Benchmark        string            `json:"benchmark"`
	Currency         string            `json:"currency"`
}
