// Package common provides the in-process test environment for API tests.
package common

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bobmcallan/stockdeck/internal/app"
	appcommon "github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/models"
	"github.com/bobmcallan/stockdeck/internal/server"
	"github.com/bobmcallan/stockdeck/internal/services/portfolio"
	"github.com/bobmcallan/stockdeck/internal/services/report"
)

// Env is an in-process Stockdeck server backed by a canned market gateway,
// so API tests run without touching the provider.
type Env struct {
	Server *httptest.Server
	Market *StubMarket
}

// StubMarket serves canned histories keyed by symbol plus one fixed price
// and fundamentals summary.
type StubMarket struct {
	Histories map[string][]models.Bar
	Price     float64
	PriceOK   bool
	Fin       models.Financials
}

func (s *StubMarket) GetHistory(_ context.Context, symbol string, _ int) []models.Bar {
	return s.Histories[symbol]
}

func (s *StubMarket) GetLatestPrice(context.Context, string) (float64, bool) {
	return s.Price, s.PriceOK
}

func (s *StubMarket) GetFinancials(context.Context, string) models.Financials {
	return s.Fin
}

// DailyBars builds n consecutive daily bars with a compounding up/down
// close pattern.
func DailyBars(start float64, n int) []models.Bar {
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

// NewEnv starts a fresh server with an empty ledger and canned history for
// TCS.NS against the NIFTY benchmark. The server is torn down with the test.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	market := &StubMarket{
		Histories: map[string][]models.Bar{
			"TCS.NS": DailyBars(3000, 60),
			"^NSEI":  DailyBars(22000, 60),
		},
		Price:   3300,
		PriceOK: true,
		Fin:     models.Financials{Currency: "INR", CurrencySymbol: "₹"},
	}

	logger := appcommon.NewSilentLogger()
	ledger := portfolio.NewLedger(market, logger)

	a := &app.App{
		Config:        appcommon.NewDefaultConfig(),
		Logger:        logger,
		MarketService: market,
		ReportService: report.NewService(market, ledger, 60, logger),
		Ledger:        ledger,
		StartupTime:   time.Now(),
	}

	ts := httptest.NewServer(server.NewServer(a).Handler())
	t.Cleanup(ts.Close)

	return &Env{Server: ts, Market: market}
}

// HTTPRequest issues a request against the test server, JSON-encoding body
// when present.
func (e *Env) HTTPRequest(method, path string, body interface{}, headers map[string]string) (*http.Response, error) {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, e.Server.URL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return e.Server.Client().Do(req)
}
