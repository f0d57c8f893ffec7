package server

import (
	"net/http"
	"time"

	"github.com/tomhartley/ledgerd/internal/common"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"version": common.GetVersion(),
		"uptime":  time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleConfig handles GET /api/config. Secrets are never echoed; the
// EODHD key is reported only as configured or not.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":      cfg.Environment,
		"display_currency": cfg.DisplayCurrency,
		"server": map[string]interface{}{
			"host": cfg.Server.Host,
			"port": cfg.Server.Port,
		},
		"logging": map[string]string{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
		"eodhd_configured": cfg.Clients.EODHD.APIKey != "",
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}
