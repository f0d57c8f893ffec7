package server

import (
	"net/http"
	"strconv"

	"github.com/tomhartley/ledgerd/internal/common"
	"github.com/tomhartley/ledgerd/internal/services/portfolio"
)

// handlePortfolio handles GET /api/portfolio.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	valuation, err := s.app.PortfolioService.GetValuation(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, valuation)
}

// handleHoldings handles GET /api/holdings, the active/closed position split
// without the portfolio totals.
func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	valuation, err := s.app.PortfolioService.GetValuation(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"holdings":         valuation.Holdings,
		"closed_positions": valuation.ClosedPositions,
		"display_currency": valuation.DisplayCurrency,
	})
}

// historyDays parses the ?days= query parameter, defaulting to 30.
func historyDays(r *http.Request) int {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	return days
}

// handleNetWorthHistory handles GET /api/networth/history?days=N.
func (s *Server) handleNetWorthHistory(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	points, err := s.app.PortfolioService.GetNetWorthHistory(r.Context(), userID, historyDays(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, points)
}

// handleNetWorthChart handles GET /api/networth/chart.png?days=N.
func (s *Server) handleNetWorthChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	points, err := s.app.PortfolioService.GetNetWorthHistory(r.Context(), userID, historyDays(r))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	currency := common.ResolveDisplayCurrency(r.Context(), s.app.Config.DisplayCurrency)
	png, err := portfolio.RenderNetWorthChart(points, currency)
	if err != nil {
		WriteError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
