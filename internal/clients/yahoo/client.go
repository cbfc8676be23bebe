// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
	"github.com/piquette/finance-go/quote"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36"
)

// Client implements the YahooClient interface. Quote, equity and chart data
// go through the finance-go bindings; fundamentals use the quoteSummary
// endpoint directly since the bindings expose no statement modules.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	timeout    time.Duration
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL for quoteSummary requests
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the per-call timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// call runs fn under the rate limiter with the client timeout applied.
// The finance-go bindings are not context-aware, so fn runs in its own
// goroutine and the deadline is enforced on the select.
func (c *Client) call(ctx context.Context, op string, fn func() error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// GetDailyBars retrieves daily OHLCV bars for the given date range, ascending by date.
func (c *Client) GetDailyBars(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	var bars []models.Bar

	err := c.call(ctx, "chart "+symbol, func() error {
		params := &chart.Params{
			Symbol:   symbol,
			Start:    datetime.New(&from),
			End:      datetime.New(&to),
			Interval: datetime.OneDay,
		}

		iter := chart.Get(params)
		for iter.Next() {
			bar := iter.Bar()
			bars = append(bars, models.Bar{
				Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
				Open:   bar.Open.InexactFloat64(),
				High:   bar.High.InexactFloat64(),
				Low:    bar.Low.InexactFloat64(),
				Close:  bar.Close.InexactFloat64(),
				Volume: int64(bar.Volume),
			})
		}
		return iter.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get daily bars for %s: %w", symbol, err)
	}

	c.logger.Debug().Str("symbol", symbol).Int("bars", len(bars)).Msg("Yahoo chart request")
	return bars, nil
}

// GetQuote retrieves the fast live quote for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var q *finance.Quote

	err := c.call(ctx, "quote "+symbol, func() error {
		var err error
		q, err = quote.Get(symbol)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}
	if q == nil {
		return nil, fmt.Errorf("no quote returned for %s", symbol)
	}

	return &models.Quote{
		Symbol:    q.Symbol,
		ShortName: q.ShortName,
		Price:     q.RegularMarketPrice,
		Currency:  q.CurrencyID,
	}, nil
}

// GetEquity retrieves the fuller info payload for a symbol.
func (c *Client) GetEquity(ctx context.Context, symbol string) (*models.EquitySummary, error) {
	var eq *finance.Equity

	err := c.call(ctx, "equity "+symbol, func() error {
		var err error
		eq, err = equity.Get(symbol)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get equity for %s: %w", symbol, err)
	}
	if eq == nil {
		return nil, fmt.Errorf("no equity data returned for %s", symbol)
	}

	return &models.EquitySummary{
		Symbol:             eq.Symbol,
		ShortName:          eq.ShortName,
		Currency:           eq.CurrencyID,
		RegularMarketPrice: eq.RegularMarketPrice,
		PreviousClose:      eq.RegularMarketPreviousClose,
		MarketCap:          float64(eq.MarketCap),
	}, nil
}

// get performs a rate-limited GET against the quoteSummary API.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetFundamentals retrieves statement-level fundamentals via quoteSummary.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalsPayload, error) {
	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))

	params := url.Values{}
	params.Set("modules", "price,defaultKeyStatistics,incomeStatementHistory,incomeStatementHistoryQuarterly")

	var resp quoteSummaryResponse
	if err := c.get(ctx, path, params, &resp); err != nil {
		return nil, err
	}

	if resp.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quoteSummary error for %s: %s", symbol, resp.QuoteSummary.Error.Description)
	}
	if len(resp.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quoteSummary result for %s", symbol)
	}

	r := resp.QuoteSummary.Result[0]
	payload := &models.FundamentalsPayload{}

	if r.Price != nil {
		payload.Currency = r.Price.Currency
		payload.MarketCap = r.Price.MarketCap.value()
	}
	if r.DefaultKeyStatistics != nil {
		payload.InsiderHolding = r.DefaultKeyStatistics.HeldPercentInsiders.value()
	}
	if r.IncomeStatementHistory != nil {
		payload.AnnualNetIncome = statementFigures(r.IncomeStatementHistory.Statements)
	}
	if r.IncomeStatementHistoryQuarterly != nil {
		payload.QuarterNetIncome = statementFigures(r.IncomeStatementHistoryQuarterly.Statements)
	}

	return payload, nil
}

// statementFigures extracts the net-income line from statement columns,
// preserving the provider's newest-first ordering.
func statementFigures(statements []incomeStatement) []models.StatementFigure {
	figures := make([]models.StatementFigure, 0, len(statements))
	for _, st := range statements {
		fig := models.StatementFigure{Value: st.NetIncome.value()}
		if st.EndDate != nil && st.EndDate.Raw != 0 {
			fig.EndDate = time.Unix(st.EndDate.Raw, 0).UTC()
		}
		figures = append(figures, fig)
	}
	return figures
}

// rawValue is Yahoo's {raw, fmt} number envelope. Absent line items decode
// to a nil pointer.
type rawValue struct {
	Raw float64 `json:"raw"`
	Fmt string  `json:"fmt"`
}

func (v *rawValue) value() *float64 {
	if v == nil {
		return nil
	}
	raw := v.Raw
	return &raw
}

type rawDate struct {
	Raw int64  `json:"raw"`
	Fmt string `json:"fmt"`
}

type incomeStatement struct {
	EndDate   *rawDate  `json:"endDate"`
	NetIncome *rawValue `json:"netIncome"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price *struct {
				Currency  string    `json:"currency"`
				MarketCap *rawValue `json:"marketCap"`
			} `json:"price"`
			DefaultKeyStatistics *struct {
				HeldPercentInsiders *rawValue `json:"heldPercentInsiders"`
			} `json:"defaultKeyStatistics"`
			IncomeStatementHistory *struct {
				Statements []incomeStatement `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			IncomeStatementHistoryQuarterly *struct {
				Statements []incomeStatement `json:"incomeStatementHistoryQuarterly"`
			} `json:"incomeStatementHistoryQuarterly"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// Ensure Client implements YahooClient
var _ interfaces.YahooClient = (*Client)(nil)
