package server

import "net/http"

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Dashboard
	mux.HandleFunc("/api/report", s.handleReport)
	mux.HandleFunc("/api/tickers", s.handleTickers)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
}
