// Package api is the thin HTTP layer in front of the analyzer: request
// validation, trace ids, health and metrics endpoints.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"trading-signalsv1/config"
	"trading-signalsv1/internal/logger"
	"trading-signalsv1/internal/model"
)

// Analyzer is satisfied by *analysis.Analyzer.
type Analyzer interface {
	Analyze(ctx context.Context, req model.Request) (model.Signal, error)
}

// Server holds the route dependencies. Health and Metrics may be nil.
type Server struct {
	Analyzer Analyzer
	Symbols  *config.SymbolMap
	Health   http.Handler
	Metrics  http.Handler
	Timeout  time.Duration // per-request budget, 0 = none
}

// NewRouter sets up HTTP routes for the API server.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(traceID)
	r.Use(requestLog)
	r.Use(middleware.Recoverer)
	r.Use(cors)
	if s.Timeout > 0 {
		r.Use(middleware.Timeout(s.Timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if s.Health == nil {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
			return
		}
		s.Health.ServeHTTP(w, r)
	})
	if s.Metrics != nil {
		r.Handle("/metrics", s.Metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/signal", s.handleSignal)
		r.Get("/signal/{symbol}", s.handleSignal)
		r.Get("/options", s.handleOptions)
	})

	return r
}

type errorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"traceId,omitempty"`
}

// handleSignal validates the query and returns the Signal JSON. Provider
// outages are not errors here: the Signal carries degraded/warnings instead.
func (s *Server) handleSignal(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := chi.URLParam(r, "symbol")
	if symbol == "" {
		symbol = q.Get("symbol")
	}

	req, err := parseRequest(symbol, q.Get("timeframe"), q.Get("signalType"), q.Get("riskTolerance"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), TraceID: logger.TraceID(r.Context())})
		return
	}

	sig, err := s.Analyzer.Analyze(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, model.ErrEmptySymbol) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error(), TraceID: logger.TraceID(r.Context())})
		return
	}
	writeJSON(w, http.StatusOK, sig)
}

func parseRequest(symbol, timeframe, signalType, risk string) (model.Request, error) {
	if symbol == "" {
		return model.Request{}, model.ErrEmptySymbol
	}
	tf, err := model.ParseTimeframe(timeframe)
	if err != nil {
		return model.Request{}, err
	}
	st, err := model.ParseSignalType(signalType)
	if err != nil {
		return model.Request{}, err
	}
	rt, err := model.ParseRiskTolerance(risk)
	if err != nil {
		return model.Request{}, err
	}
	return model.Request{Symbol: symbol, Timeframe: tf, SignalType: st, RiskTolerance: rt}, nil
}

type optionsResponse struct {
	Symbols        []string              `json:"symbols"`
	Timeframes     []model.Timeframe     `json:"timeframes"`
	SignalTypes    []model.SignalType    `json:"signalTypes"`
	RiskTolerances []model.RiskTolerance `json:"riskTolerances"`
}

// handleOptions lists the values the signal endpoint accepts.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if s.Symbols != nil {
		symbols = s.Symbols.Symbols()
		sort.Strings(symbols)
	}
	writeJSON(w, http.StatusOK, optionsResponse{
		Symbols:        symbols,
		Timeframes:     []model.Timeframe{model.TF15m, model.TF1h, model.TF4h, model.TF1d},
		SignalTypes:    []model.SignalType{model.SignalScalp, model.SignalSwing, model.SignalPosition},
		RiskTolerances: []model.RiskTolerance{model.RiskConservative, model.RiskModerate, model.RiskAggressive},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response failed", "error", err)
	}
}
