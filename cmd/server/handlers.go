package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/Simplici0/councilroi/internal/export"
	"github.com/Simplici0/councilroi/internal/logger"
	"github.com/Simplici0/councilroi/internal/metrics"
	"github.com/Simplici0/councilroi/internal/pricing"
	"github.com/Simplici0/councilroi/internal/ratelimit"
	"github.com/Simplici0/councilroi/internal/roi"
	"github.com/Simplici0/councilroi/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	log       *zap.Logger
	assembler *roi.Assembler
	store     *store.Store
	metrics   *metrics.Metrics
	defaults  roi.Projection
}

type reportRequest struct {
	Inputs       roi.Inputs       `json:"inputs"`
	Tier         string           `json:"tier,omitempty"`
	Features     pricing.Features `json:"features"`
	HorizonYears *int             `json:"horizonYears,omitempty"`
	DiscountRate *float64         `json:"discountRate,omitempty"`
}

type scenarioRequest struct {
	Title   string        `json:"title"`
	Notes   string        `json:"notes"`
	Request reportRequest `json:"request"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type validationResponse struct {
	Errors roi.ValidationErrors `json:"errors"`
}

type pricingResponse struct {
	Tiers            []pricing.Row `json:"tiers"`
	IncludedFeatures []string      `json:"includedFeatures"`
}

type recommendResponse struct {
	ApplicationsPerYear int          `json:"applicationsPerYear"`
	Tier                pricing.Tier `json:"tier"`
}

type scenariosResponse struct {
	Scenarios []store.Summary `json:"scenarios"`
}

// newRouter wires every route. limiter may be nil to disable rate limiting.
// Forwarding headers are not trusted, so clients are keyed by the peer address.
func newRouter(s *server, limiter ratelimit.Limiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(logger.Middleware(s.log, "http"))
	r.Use(middleware.Recoverer)
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(ratelimit.Middleware(limiter, s.log))
		}
		r.Get("/pricing", s.handlePricing)
		r.Get("/tiers/recommend", s.handleRecommendTier)
		r.Post("/roi/report", s.handleReport)
		r.Post("/scenarios", s.handleScenarioCreate)
		r.Get("/scenarios", s.handleScenarioList)
		r.Get("/scenarios/{id}", s.handleScenarioGet)
		r.Get("/scenarios/{id}/export", s.handleScenarioExport)
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

func (s *server) handlePricing(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, pricingResponse{
		Tiers:            s.assembler.Engine().Catalog().Rows(),
		IncludedFeatures: roi.IncludedFeatures(),
	})
}

func (s *server) handleRecommendTier(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("applications"))
	apps, err := strconv.Atoi(raw)
	if err != nil || apps < 1 {
		writeError(w, r, http.StatusBadRequest, "applications must be a whole number of at least 1")
		return
	}
	render.JSON(w, r, recommendResponse{ApplicationsPerYear: apps, Tier: roi.RecommendTier(apps)})
}

func (s *server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := decodeBody(w, r, reportRequestSchema, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, ok := s.assemble(w, r, req)
	if !ok {
		return
	}
	render.JSON(w, r, report)
}

func (s *server) handleScenarioCreate(w http.ResponseWriter, r *http.Request) {
	var req scenarioRequest
	if err := decodeBody(w, r, scenarioRequestSchema, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, ok := s.assemble(w, r, req.Request)
	if !ok {
		return
	}

	sc, err := s.store.Save(r.Context(), req.Title, req.Notes, report)
	if errors.Is(err, store.ErrTitleRequired) {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.log.Error("failed to save scenario", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to save scenario")
		return
	}
	s.metrics.ObserveScenarioSaved()

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, sc)
}

func (s *server) handleScenarioList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.log.Error("failed to list scenarios", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load scenarios")
		return
	}
	render.JSON(w, r, scenariosResponse{Scenarios: list})
}

func (s *server) handleScenarioGet(w http.ResponseWriter, r *http.Request) {
	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, sc)
}

func (s *server) handleScenarioExport(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("format")
	if raw == "" {
		raw = string(export.FormatCSV)
	}
	format, err := export.ParseFormat(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	sc, ok := s.loadScenario(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scenario-"+sc.ID+"."+string(format)))
	if err := export.Write(w, format, sc.Report); err != nil {
		s.log.Error("failed to export scenario", zap.String("id", sc.ID), zap.Error(err))
	}
}

func (s *server) loadScenario(w http.ResponseWriter, r *http.Request) (store.Scenario, bool) {
	sc, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, err.Error())
		return store.Scenario{}, false
	}
	if err != nil {
		s.log.Error("failed to load scenario", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to load scenario")
		return store.Scenario{}, false
	}
	return sc, true
}

// assemble resolves defaults, builds the report and writes any error response.
func (s *server) assemble(w http.ResponseWriter, r *http.Request, req reportRequest) (roi.Report, bool) {
	tier := roi.RecommendTier(req.Inputs.ApplicationsPerYear)
	if strings.TrimSpace(req.Tier) != "" {
		parsed, err := pricing.ParseTier(req.Tier)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return roi.Report{}, false
		}
		tier = parsed
	}

	p := s.defaults
	if req.HorizonYears != nil {
		p.HorizonYears = *req.HorizonYears
	}
	if req.DiscountRate != nil {
		p.DiscountRate = *req.DiscountRate
	}

	start := time.Now()
	report, err := s.assembler.Assemble(req.Inputs, tier, req.Features, p)

	var verrs roi.ValidationErrors
	var unknown *pricing.UnknownTierError
	switch {
	case errors.As(err, &verrs):
		s.log.Warn("report inputs rejected", zap.Strings("fields", verrs.Fields()))
		s.metrics.ObserveValidationFailures(verrs.Fields())
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, validationResponse{Errors: verrs})
		return roi.Report{}, false
	case errors.As(err, &unknown):
		writeError(w, r, http.StatusBadRequest, err.Error())
		return roi.Report{}, false
	case errors.Is(err, roi.ErrOutOfRange):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return roi.Report{}, false
	case err != nil:
		s.log.Error("failed to assemble report", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "failed to build report")
		return roi.Report{}, false
	}

	s.metrics.ObserveReport(string(report.Tier), report.Summary.Payback.Recoverable, time.Since(start))
	s.log.Debug("report assembled",
		zap.String("tier", string(report.Tier)),
		zap.Int64("net_annual_benefit", report.Summary.NetAnnualBenefit),
		zap.Int64("roi_percentage", report.Summary.ROIPercentage),
		zap.Bool("recoverable", report.Summary.Payback.Recoverable),
	)
	return report, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	if !json.Valid(body) {
		return errors.New("request body is not valid JSON")
	}
	if err := checkSchema(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: msg})
}
