package api

// API tests for the report and portfolio endpoints.
//
// Coverage:
//   - POST /api/report builds a full ticker report with beta, chart and
//     formatted fundamentals
//   - Supplying quantity and price records a holding; the response carries
//     the re-valued portfolio
//   - Invalid tickers map to 400 (missing) and 502 (no history)
//   - GET /api/portfolio reflects holdings recorded by earlier reports

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/stockdeck/tests/common"
)

// postReport is a test helper that POSTs to the report endpoint and decodes
// the response body.
func postReport(t *testing.T, env *common.Env, body map[string]interface{}) (map[string]interface{}, int) {
	t.Helper()
	resp, err := env.HTTPRequest(http.MethodPost, "/api/report", body, nil)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var result map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &result))
	return result, resp.StatusCode
}

func TestReport_TickerOnly(t *testing.T) {
	env := common.NewEnv(t)

	result, status := postReport(t, env, map[string]interface{}{"symbol": "tcs.ns"})
	require.Equal(t, http.StatusOK, status)

	report, ok := result["report"].(map[string]interface{})
	require.True(t, ok, "response should carry a report object")

	assert.Equal(t, "TCS.NS", report["symbol"])
	assert.Equal(t, "^NSEI", report["benchmark"])
	assert.Equal(t, "3300.00", report["latest_price"])
	assert.NotEmpty(t, report["plot_url"])
	assert.NotNil(t, report["beta"])
	assert.NotEqual(t, "N/A", report["beta_display"])

	portfolio, ok := result["portfolio"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, portfolio, "no holding should be recorded without quantity/price")

	tickers, ok := result["tickers"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, tickers)
}

func TestReport_RecordsHolding(t *testing.T) {
	env := common.NewEnv(t)

	result, status := postReport(t, env, map[string]interface{}{
		"symbol":   "TCS.NS",
		"quantity": "10",
		"price":    "3000",
	})
	require.Equal(t, http.StatusOK, status)

	portfolio, ok := result["portfolio"].([]interface{})
	require.True(t, ok)
	require.Len(t, portfolio, 1)

	holding := portfolio[0].(map[string]interface{})
	assert.Equal(t, "TCS.NS", holding["symbol"])
	assert.InDelta(t, 33000, holding["current_value"], 1e-6)
	assert.InDelta(t, 3000, holding["pnl"], 1e-6)
	assert.Equal(t, "₹", holding["currency"])
}

func TestReport_InvalidHoldingIgnored(t *testing.T) {
	env := common.NewEnv(t)

	result, status := postReport(t, env, map[string]interface{}{
		"symbol":   "TCS.NS",
		"quantity": "ten",
		"price":    "3000",
	})
	require.Equal(t, http.StatusOK, status, "report should still render")

	portfolio, ok := result["portfolio"].([]interface{})
	require.True(t, ok)
	assert.Empty(t, portfolio)
}

func TestReport_MissingTicker(t *testing.T) {
	env := common.NewEnv(t)

	result, status := postReport(t, env, map[string]interface{}{"symbol": ""})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, result["error"], "provide a ticker")
}

func TestReport_UnknownTicker(t *testing.T) {
	env := common.NewEnv(t)

	result, status := postReport(t, env, map[string]interface{}{"symbol": "BOGUS"})
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, result["error"], "BOGUS")
}

func TestPortfolio_ReflectsRecordedHoldings(t *testing.T) {
	env := common.NewEnv(t)

	_, status := postReport(t, env, map[string]interface{}{
		"symbol":   "TCS.NS",
		"quantity": "10",
		"price":    "3000",
	})
	require.Equal(t, http.StatusOK, status)

	resp, err := env.HTTPRequest(http.MethodGet, "/api/portfolio", nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))

	portfolio, ok := result["portfolio"].([]interface{})
	require.True(t, ok)
	require.Len(t, portfolio, 1)

	holding := portfolio[0].(map[string]interface{})
	assert.InDelta(t, 3300, holding["current_price"], 1e-6)
}

func TestHealthAndVersion(t *testing.T) {
	env := common.NewEnv(t)

	resp, err := env.HTTPRequest(http.MethodGet, "/api/health", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Correlation-ID"))

	resp, err = env.HTTPRequest(http.MethodGet, "/api/version", nil, nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body, "version")
}
