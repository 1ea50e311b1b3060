package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalyses "github.com/bryanwahyu/engine-checkup/internal/application/analyses"
	appreports "github.com/bryanwahyu/engine-checkup/internal/application/reports"
	appvehicles "github.com/bryanwahyu/engine-checkup/internal/application/vehicles"
	"github.com/bryanwahyu/engine-checkup/internal/domain/ai"
	"github.com/bryanwahyu/engine-checkup/internal/domain/analysis"
	"github.com/bryanwahyu/engine-checkup/internal/domain/reports"
	"github.com/bryanwahyu/engine-checkup/internal/domain/vehicles"
	"github.com/bryanwahyu/engine-checkup/internal/middleware"
)

// Options wires the router to its services and HTTP concerns.
type Options struct {
	Vehicles *appvehicles.Service
	Analyses *appanalyses.Service
	Reports  *appreports.Service

	Log            *zap.Logger
	AuthKeys       map[string]string // owner -> key; empty disables auth
	CORSOrigins    []string
	Limiter        *middleware.RateLimiter // optional
	MaxUploadBytes int64
	Checkers       map[string]middleware.HealthChecker
}

type Router struct {
	vehicles  *appvehicles.Service
	analyses  *appanalyses.Service
	reports   *appreports.Service
	log       *zap.Logger
	maxUpload int64
}

func NewRouter(opts Options) http.Handler {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 25 << 20
	}
	r := &Router{
		vehicles:  opts.Vehicles,
		analyses:  opts.Analyses,
		reports:   opts.Reports,
		log:       log,
		maxUpload: maxUpload,
	}

	mux := chi.NewRouter()
	mux.Use(chimw.RequestID)
	mux.Use(chimw.Recoverer)
	mux.Use(middleware.Logging(log))
	mux.Use(middleware.MetricsMiddleware)
	if len(opts.CORSOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		}))
	}
	if len(opts.AuthKeys) > 0 {
		mux.Use(middleware.APIKeyAuth(opts.AuthKeys))
	}
	if opts.Limiter != nil {
		mux.Use(middleware.RateLimit(opts.Limiter))
	}

	health := middleware.HealthHandler(opts.Checkers)
	mux.Get("/health", health)
	mux.Get("/healthz", health)
	mux.Get("/readyz", middleware.ReadinessHandler(opts.Checkers))
	mux.Get("/livez", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Route("/v1/{owner}", func(rt chi.Router) {
		rt.Use(middleware.RequireOwner(func(req *http.Request) string {
			return chi.URLParam(req, "owner")
		}))

		rt.Post("/vehicles", r.wrap(r.handleRegisterVehicle))
		rt.Get("/vehicles", r.wrap(r.handleListVehicles))
		rt.Get("/vehicles/{vehicleID}", r.wrap(r.handleGetVehicle))
		rt.Post("/vehicles/{vehicleID}/analyses", r.wrap(r.handleRecord))
		rt.Get("/vehicles/{vehicleID}/analyses", r.wrap(r.handleListAnalyses))
		rt.Get("/vehicles/{vehicleID}/dashboard", r.wrap(r.handleDashboard))

		rt.Get("/analyses/{id}", r.wrap(r.handleGetAnalysis))
		rt.Post("/analyses/{id}/reports", r.wrap(r.handleCreateReport))
		rt.Get("/analyses/{id}/reports", r.wrap(r.handleListReports))
		rt.Post("/analyses/{id}/reports/draft", r.wrap(r.handleDraftReport))

		rt.Get("/reports/{id}", r.wrap(r.handleGetReport))
		rt.Get("/classify", r.wrap(r.handleClassify))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks malformed input caught in the HTTP layer.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

func badRequestf(err error) error { return badRequest{msg: err.Error()} }

type errorBody struct {
	Error  string                    `json:"error"`
	Fields []reports.ValidationError `json:"fields,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		status, body := r.classifyError(err)
		if status >= http.StatusInternalServerError {
			r.log.Error("request failed",
				zap.String("path", req.URL.Path),
				zap.String("request_id", chimw.GetReqID(req.Context())),
				zap.Error(err),
			)
		}
		writeJSON(w, status, body)
	}
}

func (r *Router) classifyError(err error) (int, errorBody) {
	var verrs reports.ValidationErrors
	var br badRequest
	switch {
	case errors.As(err, &verrs):
		return http.StatusBadRequest, errorBody{Error: "invalid report", Fields: verrs}
	case errors.As(err, &br),
		errors.Is(err, analysis.ErrInvalidDuration),
		errors.Is(err, vehicles.ErrInvalid):
		return http.StatusBadRequest, errorBody{Error: err.Error()}
	case errors.Is(err, analysis.ErrNotFound),
		errors.Is(err, vehicles.ErrNotFound),
		errors.Is(err, reports.ErrNotFound):
		return http.StatusNotFound, errorBody{Error: err.Error()}
	case errors.Is(err, analysis.ErrAlreadyExists),
		errors.Is(err, reports.ErrAlreadyExists):
		return http.StatusConflict, errorBody{Error: err.Error()}
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests, errorBody{Error: "ai quota exceeded"}
	case errors.Is(err, ai.ErrNotConfigured),
		errors.Is(err, appanalyses.ErrNoAudioStore):
		return http.StatusNotImplemented, errorBody{Error: err.Error()}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal error"}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decodeJSON(req *http.Request, v any) error {
	dec := json.NewDecoder(req.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequestf(err)
	}
	return nil
}
