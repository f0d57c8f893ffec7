// Package server exposes the REST API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tomhartley/ledgerd/internal/app"
	"github.com/tomhartley/ledgerd/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Ledger
	mux.HandleFunc("/api/accounts/", s.routeAccounts)
	mux.HandleFunc("/api/accounts", s.handleAccounts)
	mux.HandleFunc("/api/debts/", s.routeDebts)
	mux.HandleFunc("/api/debts", s.handleDebts)
	mux.HandleFunc("/api/bills/", s.routeBills)
	mux.HandleFunc("/api/bills", s.handleBills)
	mux.HandleFunc("/api/transactions/", s.routeTransactions)
	mux.HandleFunc("/api/transactions", s.handleTransactions)
	mux.HandleFunc("/api/transactions/import", s.handleTransactionImport)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/holdings", s.handleHoldings)
	mux.HandleFunc("/api/networth/history", s.handleNetWorthHistory)
	mux.HandleFunc("/api/networth/chart.png", s.handleNetWorthChart)

	// Market data
	mux.HandleFunc("/api/prices/backfill", s.handleBackfill)
	mux.HandleFunc("/api/prices/fill-gaps", s.handleFillGaps)
	mux.HandleFunc("/api/fx/rate", s.handleFXRate)
	mux.HandleFunc("/api/fx/refresh", s.handleFXRefresh)
}
