package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"StockScout/internal/model"
	"StockScout/internal/recorder"
	"StockScout/internal/report"
)

const (
	defaultHistoryLimit = 30
	maxHistoryLimit     = 500
)

type healthResponse struct {
	Status      string `json:"status"`
	LastUpdated string `json:"last_updated,omitempty"`
	Stocks      int    `json:"stocks"`
	Updating    bool   `json:"updating"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok"}
	if doc := s.results.Latest(); doc != nil {
		resp.LastUpdated = doc.LastUpdated
		resp.Stocks = len(doc.Stocks)
	}
	if s.refresher != nil {
		resp.Updating = s.refresher.Running()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// handleStocks returns the latest document, optionally filtered by region and cut to the top N.
func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	doc := s.results.Latest()
	if doc == nil {
		s.writeError(w, http.StatusServiceUnavailable, "no results published yet")
		return
	}

	out := doc
	if region := r.URL.Query().Get("region"); region != "" {
		filtered := &model.Document{LastUpdated: doc.LastUpdated, Stocks: []model.AnalysisResult{}}
		for _, st := range doc.Stocks {
			if strings.EqualFold(st.Region, region) {
				filtered.Stocks = append(filtered.Stocks, st)
			}
		}
		out = filtered
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		out = &model.Document{LastUpdated: out.LastUpdated, Stocks: report.Top(out, n)}
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	res, ok := s.results.Lookup(ticker)
	if !ok {
		s.writeError(w, http.StatusNotFound, ticker+" is not in the latest results")
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(chi.URLParam(r, "ticker"))
	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	points, err := s.results.History(ticker, limit)
	if err != nil {
		s.log.Error().Err(err).Str("symbol", ticker).Msg("load history failed")
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if points == nil {
		points = []recorder.ScorePoint{}
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":  ticker,
		"history": points,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.refresher == nil {
		s.writeError(w, http.StatusNotImplemented, "refresh is not available")
		return
	}
	if !s.refresher.Trigger() {
		s.writeError(w, http.StatusConflict, "update already running")
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
