// Package uiapi exposes the calculator over HTTP for the web UI. It is a
// thin wrapper: request decoding, rate resolution, and history saving live
// here; all arithmetic stays in the engine.
package uiapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/awaistahir/wattwise/internal/engine"
	"github.com/awaistahir/wattwise/internal/explain"
	"github.com/awaistahir/wattwise/internal/knowledge"
	"github.com/awaistahir/wattwise/internal/store"
)

type Server struct {
	kb    *knowledge.Base
	calc  *engine.Calculator
	store *store.Store // nil disables history
}

// NewServer creates a server over a loaded knowledge base. Passing a nil
// store disables the history endpoints.
func NewServer(kb *knowledge.Base, st *store.Store) *Server {
	return &Server{
		kb:    kb,
		calc:  engine.New(kb),
		store: st,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	// CORS for local development
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/appliances", s.handleGetAppliances)
		r.Get("/analogies", s.handleGetAnalogies)
		r.Get("/rates", s.handleGetRates)
		r.Post("/calculate", s.handleCalculate)
		r.Get("/history", s.handleGetHistory)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"version":    "1.0.0",
		"appliances": len(s.kb.Appliances()),
		"analogies":  len(s.kb.Analogies("")),
		"history":    s.store != nil,
	})
}

func (s *Server) handleGetAppliances(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.kb.Appliances())
}

func (s *Server) handleGetAnalogies(w http.ResponseWriter, r *http.Request) {
	category := knowledge.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		respondError(w, http.StatusBadRequest, "unknown category: "+string(category))
		return
	}
	respondJSON(w, http.StatusOK, s.kb.Analogies(category))
}

func (s *Server) handleGetRates(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.kb.Rates())
}

// CalculateRequest is the input boundary from the UI. City is resolved to
// a rate here when no explicit rate is given; the engine never sees it.
type CalculateRequest struct {
	Appliance       string   `json:"appliance,omitempty"`
	PowerWatts      *float64 `json:"power_watts,omitempty"`
	DurationMinutes float64  `json:"duration_minutes"`
	RatePerKWh      float64  `json:"rate_per_kwh,omitempty"`
	City            string   `json:"city,omitempty"`
}

type CalculateResponse struct {
	Result      engine.Result `json:"result"`
	Explanation string        `json:"explanation"`
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req CalculateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rate := req.RatePerKWh
	if rate == 0 && req.City != "" {
		cr, err := s.kb.LookupRate(req.City)
		if err != nil {
			respondError(w, http.StatusBadRequest, "unknown city: "+req.City)
			return
		}
		rate = cr.RatePerKWh
	}

	result, err := s.calc.Calculate(engine.UsageInput{
		Appliance:       req.Appliance,
		PowerWatts:      req.PowerWatts,
		DurationMinutes: req.DurationMinutes,
		RatePerKWh:      rate,
	})
	if err != nil {
		var iie *engine.InvalidInputError
		if errors.As(err, &iie) {
			respondJSON(w, http.StatusBadRequest, map[string]string{
				"error": iie.Error(),
				"field": iie.Field,
			})
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	explanation, err := explain.Compose(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if s.store != nil {
		if _, err := s.store.SaveCalculation(result, explanation); err != nil {
			log.Warn().Err(err).Msg("saving calculation to history")
		}
	}

	respondJSON(w, http.StatusOK, CalculateResponse{
		Result:      result,
		Explanation: explanation,
	})
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "history disabled")
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.store.RecentCalculations(limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
