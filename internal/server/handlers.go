package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/logging"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
)

// EvalInput is the part of a request body shared by the evaluation
// endpoints. Omitted fields fall back to the server defaults.
type EvalInput struct {
	// Site replaces the default site when present.
	Site *feasibility.Site `json:"site,omitempty"`
	// Scenario is a registered key or alias; "all" is accepted by
	// /api/v1/evaluate only.
	Scenario string `json:"scenario,omitempty"`
	// Params evaluates an ad-hoc custom scenario instead of Scenario.
	Params              *feasibility.Params `json:"params,omitempty"`
	TargetIRR           *float64            `json:"target_irr,omitempty"`
	TargetLandlordRatio *float64            `json:"target_landlord_ratio,omitempty"`
}

// BonusRequest is the body of POST /api/v1/bonus.
type BonusRequest struct {
	EvalInput
	From *int `json:"from,omitempty"`
	To   *int `json:"to,omitempty"`
	Step *int `json:"step,omitempty"`
}

// BonusResponse is the answer of POST /api/v1/bonus.
type BonusResponse struct {
	Scenario string                 `json:"scenario"`
	Rows     []feasibility.BonusRow `json:"rows"`
}

// SensitivityRequest is the body of POST /api/v1/sensitivity.
type SensitivityRequest struct {
	EvalInput
	Grid *feasibility.SensitivityRequest `json:"grid,omitempty"`
}

// SensitivityResponse is the answer of POST /api/v1/sensitivity.
type SensitivityResponse struct {
	Grid          feasibility.SensitivityGrid `json:"grid"`
	FeasibleCells int                         `json:"feasible_cells"`
}

// BoundaryResponse is the answer of POST /api/v1/boundary.
type BoundaryResponse struct {
	Scenario           string                `json:"scenario"`
	Boundary           feasibility.Boundary  `json:"boundary"`
	FeasibleSalesPrice feasibility.Threshold `json:"feasible_sales_price"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string   `json:"error"`
	Details   []string `json:"details,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"uptime_s": time.Since(s.startedAt).Seconds(),
		"system":   s.sampler.Get(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("metrics: method not allowed", logging.String("method", r.Method))
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"scenarios": s.registry.All()})
}

// handleEvaluate answers with a report.Report covering the requested
// scenarios.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}
	var req EvalInput
	if !s.decode(w, r, &req) {
		return
	}
	site, opts, err := s.resolve(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var scenarios []scenario.Scenario
	if req.Params != nil {
		if err := feasibility.ValidateParams(*req.Params); err != nil {
			s.writeError(w, r, err)
			return
		}
		scenarios = []scenario.Scenario{scenario.Custom(*req.Params)}
	} else {
		key := req.Scenario
		if key == "" {
			key = scenario.KeyOfficial
		}
		if key != scenario.KeyAll {
			if _, ok := s.registry.Get(key); !ok {
				s.writeError(w, r, apperrors.NewValidationError("scenario", "unknown scenario %q", key))
				return
			}
		}
		scenarios = orchestration.GetScenariosToRun(key, s.registry)
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	results := orchestration.ExecuteScenarios(ctx, scenarios, site, opts, orchestration.NullProgressReporter{}, io.Discard)
	for _, res := range results {
		s.metrics.RecordEvaluation(res.Scenario.Key, outcomeOf(res))
	}
	if err := ctx.Err(); err != nil {
		s.writeError(w, r, err)
		return
	}

	rep := report.New(site, opts, results)
	rep.Selected = scenarios[0].Key
	s.writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleBonus(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}
	var req BonusRequest
	if !s.decode(w, r, &req) {
		return
	}
	site, opts, err := s.resolve(req.EvalInput)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.single(req.EvalInput)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	rows, err := feasibility.BonusSweep(site, sc.Params, opts,
		intOr(req.From, feasibility.DefaultBonusFrom),
		intOr(req.To, feasibility.DefaultBonusTo),
		intOr(req.Step, feasibility.DefaultBonusStep))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BonusResponse{Scenario: sc.Key, Rows: rows})
}

func (s *Server) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}
	var req SensitivityRequest
	if !s.decode(w, r, &req) {
		return
	}
	site, opts, err := s.resolve(req.EvalInput)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	grid := feasibility.DefaultSensitivityRequest()
	if req.Grid != nil {
		grid = *req.Grid
	}

	ctx, cancel := s.requestContext(r)
	defer cancel()
	result, err := orchestration.RunSensitivity(ctx, site, grid, opts, orchestration.NullProgressReporter{}, io.Discard)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, SensitivityResponse{Grid: result, FeasibleCells: result.FeasibleCount()})
}

func (s *Server) handleBoundary(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodPost) {
		return
	}
	var req EvalInput
	if !s.decode(w, r, &req) {
		return
	}
	site, opts, err := s.resolve(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sc, err := s.single(req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := feasibility.FindBoundary(site, sc.Params, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, BoundaryResponse{Scenario: sc.Key, Boundary: b, FeasibleSalesPrice: b.FeasibleSalesPrice()})
}

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	out := make([]scenario.CaseResult, 0, len(scenario.CaseKeys()))
	for _, key := range scenario.CaseKeys() {
		c, _ := scenario.GetCase(key)
		res, err := scenario.EvaluateCase(c, s.opts)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		out = append(out, res)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"cases": out})
}

func (s *Server) handleCase(w http.ResponseWriter, r *http.Request) {
	if !s.allowMethod(w, r, http.MethodGet) {
		return
	}
	key := r.PathValue("key")
	c, ok := scenario.GetCase(key)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error:     "unknown case " + key,
			RequestID: RequestID(r.Context()),
		})
		return
	}
	res, err := scenario.EvaluateCase(c, s.opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// resolve merges a request with the server defaults and validates the
// result.
func (s *Server) resolve(in EvalInput) (feasibility.Site, feasibility.Options, error) {
	site, opts := s.site, s.opts
	if in.Site != nil {
		site = *in.Site
	}
	if in.TargetIRR != nil {
		opts.TargetIRR = *in.TargetIRR
	}
	if in.TargetLandlordRatio != nil {
		opts.TargetLandlordRatio = *in.TargetLandlordRatio
	}
	if err := errors.Join(feasibility.ValidateSite(site), feasibility.ValidateOptions(opts)); err != nil {
		return site, opts, err
	}
	return site, opts, nil
}

// single returns the one scenario a request targets.
func (s *Server) single(in EvalInput) (scenario.Scenario, error) {
	if in.Params != nil {
		if err := feasibility.ValidateParams(*in.Params); err != nil {
			return scenario.Scenario{}, err
		}
		return scenario.Custom(*in.Params), nil
	}
	key := in.Scenario
	if key == "" {
		key = scenario.KeyOfficial
	}
	sc, ok := s.registry.Get(key)
	if !ok {
		return scenario.Scenario{}, apperrors.NewValidationError("scenario", "unknown scenario %q", key)
	}
	return sc, nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.timeout)
}

// allowMethod answers 405 unless the request uses method.
func (s *Server) allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	s.writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
		Error:     "method not allowed",
		RequestID: RequestID(r.Context()),
	})
	return false
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	body := http.MaxBytesReader(w, r.Body, s.security.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	status := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	s.writeJSON(w, status, ErrorResponse{
		Error:     "invalid request body: " + err.Error(),
		RequestID: RequestID(r.Context()),
	})
	return false
}

// writeError maps err onto a status code: 400 for validation failures, 504
// for timeouts and 500 otherwise.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	var ve apperrors.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError && s.logger != nil {
		s.logger.Error("request failed", err, logging.String("request_id", RequestID(r.Context())))
	}
	s.writeJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		Details:   errorDetails(err),
		RequestID: RequestID(r.Context()),
	})
}

// errorDetails flattens a joined error into its messages.
func errorDetails(err error) []string {
	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return nil
	}
	var out []string
	for _, e := range joined.Unwrap() {
		if nested := errorDetails(e); nested != nil {
			out = append(out, nested...)
			continue
		}
		out = append(out, e.Error())
	}
	return out
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil && s.logger != nil {
		s.logger.Error("encoding response", err)
	}
}

func outcomeOf(res orchestration.ScenarioResult) string {
	switch {
	case res.Err != nil:
		return OutcomeError
	case res.Result.Feasible:
		return OutcomeFeasible
	default:
		return OutcomeInfeasible
	}
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
