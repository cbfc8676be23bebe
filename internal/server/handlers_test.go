package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/stockdeck/internal/app"
	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/models"
	"github.com/bobmcallan/stockdeck/internal/services/portfolio"
	"github.com/bobmcallan/stockdeck/internal/services/report"
)

// stubMarket serves canned histories keyed by symbol plus one fixed price
// and fundamentals summary.
type stubMarket struct {
	histories map[string][]models.Bar
	price     float64
	priceOK   bool
	fin       models.Financials
}

func (s *stubMarket) GetHistory(_ context.Context, symbol string, _ int) []models.Bar {
	return s.histories[symbol]
}

func (s *stubMarket) GetLatestPrice(context.Context, string) (float64, bool) {
	return s.price, s.priceOK
}

func (s *stubMarket) GetFinancials(context.Context, string) models.Financials {
	return s.fin
}

// testBars builds n consecutive daily bars with a compounding up/down close
// pattern so beta and the chart both have data to work with.
func testBars(start float64, n int) []models.Bar {
	base := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	factors := []float64{1.011, 0.996, 1.018, 0.993, 1.004}

	bars := make([]models.Bar, n)
	c := start
	for i := 0; i < n; i++ {
		if i > 0 {
			c *= factors[i%len(factors)]
		}
		bars[i] = models.Bar{Date: base.AddDate(0, 0, i), Close: c}
	}
	return bars
}

// newTestHandler wires a server around a stub market gateway.
func newTestHandler() http.Handler {
	market := &stubMarket{
		histories: map[string][]models.Bar{
			"TCS.NS": testBars(3000, 60),
			"^NSEI":  testBars(22000, 60),
		},
		price:   3300,
		priceOK: true,
		fin:     models.Financials{Currency: "INR", CurrencySymbol: "₹"},
	}

	logger := common.NewSilentLogger()
	ledger := portfolio.NewLedger(market, logger)

	a := &app.App{
		Config:        common.NewDefaultConfig(),
		Logger:        logger,
		MarketService: market,
		ReportService: report.NewService(market, ledger, 60, logger),
		Ledger:        ledger,
		StartupTime:   time.Now(),
	}

	return NewServer(a).Handler()
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	handler := newTestHandler()

	rec := doJSON(t, handler, http.MethodGet, "/api/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/health = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}

	if rec := doJSON(t, handler, http.MethodPost, "/api/health", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /api/health = %d, want 405", rec.Code)
	}
}

func TestHandleVersion(t *testing.T) {
	rec := doJSON(t, newTestHandler(), http.MethodGet, "/api/version", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/version = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if _, ok := body["version"]; !ok {
		t.Error("response missing version field")
	}
}

func TestHandleTickers(t *testing.T) {
	rec := doJSON(t, newTestHandler(), http.MethodGet, "/api/tickers", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/tickers = %d, want 200", rec.Code)
	}

	var body struct {
		Tickers []string `json:"tickers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Tickers) == 0 {
		t.Error("tickers list is empty")
	}
}

func TestHandlePortfolio_Empty(t *testing.T) {
	rec := doJSON(t, newTestHandler(), http.MethodGet, "/api/portfolio", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /api/portfolio = %d, want 200", rec.Code)
	}

	var body struct {
		Portfolio []models.EnrichedHolding `json:"portfolio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Portfolio) != 0 {
		t.Errorf("portfolio = %v, want empty", body.Portfolio)
	}
}

func TestHandleReport_MethodNotAllowed(t *testing.T) {
	if rec := doJSON(t, newTestHandler(), http.MethodGet, "/api/report", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /api/report = %d, want 405", rec.Code)
	}
}

func TestHandleReport_EmptyTicker(t *testing.T) {
	rec := doJSON(t, newTestHandler(), http.MethodPost, "/api/report", map[string]string{"symbol": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /api/report with blank symbol = %d, want 400", rec.Code)
	}
}

func TestHandleReport_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/report", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	newTestHandler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("POST /api/report with invalid JSON = %d, want 400", rec.Code)
	}
}

func TestHandleReport_UnknownTicker(t *testing.T) {
	rec := doJSON(t, newTestHandler(), http.MethodPost, "/api/report", map[string]string{"symbol": "ZZZ"})
	if rec.Code != http.StatusBadGateway {
		t.Errorf("POST /api/report with unknown ticker = %d, want 502", rec.Code)
	}

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Error == "" {
		t.Error("error message is empty")
	}
}

func TestHandleReport_Success(t *testing.T) {
	handler := newTestHandler()

	rec := doJSON(t, handler, http.MethodPost, "/api/report", map[string]string{"symbol": "tcs.ns"})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/report = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Report    *models.TickerReport     `json:"report"`
		Portfolio []models.EnrichedHolding `json:"portfolio"`
		Tickers   []string                 `json:"tickers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}

	if body.Report == nil {
		t.Fatal("response missing report")
	}
	if body.Report.Symbol != "TCS.NS" {
		t.Errorf("report.symbol = %q, want TCS.NS", body.Report.Symbol)
	}
	if body.Report.Benchmark != "^NSEI" {
		t.Errorf("report.benchmark = %q, want ^NSEI", body.Report.Benchmark)
	}
	if body.Report.LatestPrice != "3300.00" {
		t.Errorf("report.latest_price = %q, want 3300.00", body.Report.LatestPrice)
	}
	if body.Report.PlotURL == "" {
		t.Error("report.plot_url is empty")
	}
	if len(body.Portfolio) != 0 {
		t.Errorf("portfolio = %v, want empty without quantity/price", body.Portfolio)
	}
	if len(body.Tickers) == 0 {
		t.Error("tickers list is empty")
	}
}

func TestHandleReport_RecordsHolding(t *testing.T) {
	handler := newTestHandler()

	rec := doJSON(t, handler, http.MethodPost, "/api/report", map[string]string{
		"symbol":   "TCS.NS",
		"quantity": "10",
		"price":    "3000",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /api/report = %d, body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Portfolio []models.EnrichedHolding `json:"portfolio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(body.Portfolio) != 1 {
		t.Fatalf("portfolio length = %d, want 1", len(body.Portfolio))
	}

	h := body.Portfolio[0]
	if h.CurrentValue != 33000 {
		t.Errorf("current_value = %v, want 33000", h.CurrentValue)
	}
	if h.ProfitLoss != 3000 {
		t.Errorf("pnl = %v, want 3000", h.ProfitLoss)
	}
	if h.Currency != "₹" {
		t.Errorf("currency = %q, want ₹", h.Currency)
	}

	// The holding survives for later portfolio reads on the same handler.
	rec = doJSON(t, handler, http.MethodGet, "/api/portfolio", nil)
	var portfolioBody struct {
		Portfolio []models.EnrichedHolding `json:"portfolio"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &portfolioBody); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if len(portfolioBody.Portfolio) != 1 {
		t.Errorf("portfolio length after report = %d, want 1", len(portfolioBody.Portfolio))
	}
}
