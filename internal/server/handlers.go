package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/stockdeck/internal/common"
	"github.com/bobmcallan/stockdeck/internal/interfaces"
	"github.com/bobmcallan/stockdeck/internal/models"
	"github.com/bobmcallan/stockdeck/internal/services/report"
)

// handleHealth responds to GET/HEAD /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET/HEAD /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleTickers returns the candidate ticker list for selection.
func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickers": s.app.Config.Dashboard.Tickers,
	})
}

// reportRequest is the POST /api/report body. Quantity and price are
// optional; when both are present and valid the holding is recorded.
type reportRequest struct {
	Symbol   string `json:"symbol"`
	Quantity string `json:"quantity,omitempty"`
	Price    string `json:"price,omitempty"`
}

// reportResponse bundles the ticker report with the refreshed portfolio and
// the candidate list, mirroring what the dashboard page renders.
type reportResponse struct {
	Report    *models.TickerReport     `json:"report"`
	Portfolio []models.EnrichedHolding `json:"portfolio"`
	Tickers   []string                 `json:"tickers"`
}

// handleReport handles POST /api/report: analyze a ticker and optionally
// record a holding.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req reportRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := s.app.ReportService.BuildTickerReport(r.Context(), interfaces.ReportRequest{
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	if err != nil {
		var histErr *report.ErrHistoryUnavailable
		switch {
		case errors.Is(err, report.ErrNoTicker):
			WriteError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &histErr):
			WriteError(w, http.StatusBadGateway, err.Error())
		default:
			s.logger.Error().Err(err).Msg("Report build failed")
			WriteError(w, http.StatusInternalServerError, "Failed to build report")
		}
		return
	}

	WriteJSON(w, http.StatusOK, reportResponse{
		Report:    result,
		Portfolio: s.app.Ledger.Snapshot(r.Context()),
		Tickers:   s.app.Config.Dashboard.Tickers,
	})
}

// handlePortfolio returns the current ledger snapshot valued at live prices.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"portfolio": s.app.Ledger.Snapshot(r.Context()),
	})
}
