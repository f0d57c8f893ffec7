package server

import (
	"net/http"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
)

// backfillRequest is the body for POST /api/prices/backfill.
type backfillRequest struct {
	Symbols []string `json:"symbols"`
	From    string   `json:"from"`         // "2006-01-02"
	To      string   `json:"to,omitempty"` // defaults to today
}

// handleBackfill handles POST /api/prices/backfill.
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req backfillRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if len(req.Symbols) == 0 {
		WriteError(w, http.StatusBadRequest, "At least one symbol is required")
		return
	}

	from, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid from date, expected YYYY-MM-DD")
		return
	}
	var to time.Time
	if req.To != "" {
		to, err = time.Parse("2006-01-02", req.To)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid to date, expected YYYY-MM-DD")
			return
		}
	}

	summary := s.app.BackfillService.Backfill(r.Context(), req.Symbols, from, to)
	WriteJSON(w, http.StatusOK, summary)
}

// handleFillGaps handles POST /api/prices/fill-gaps.
func (s *Server) handleFillGaps(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID := common.ResolveUserID(r.Context())

	summary, err := s.app.BackfillService.FillGaps(r.Context(), userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// handleFXRate handles GET /api/fx/rate.
func (s *Server) handleFXRate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rate := s.app.FXService.GBPUSD(r.Context())
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pair": "GBPUSD",
		"rate": rate,
	})
}

// handleFXRefresh handles POST /api/fx/refresh.
func (s *Server) handleFXRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := s.app.FXService.Refresh(r.Context()); err != nil {
		WriteError(w, http.StatusBadGateway, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pair": "GBPUSD",
		"rate": s.app.FXService.GBPUSD(r.Context()),
	})
}
