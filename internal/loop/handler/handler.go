// Package handler wires the objection-loop endpoints.
package handler

//go:generate mockgen -source=handler.go -destination=mocks/handler_mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"revloop/internal/loop"
	"revloop/internal/loop/policy"
	"revloop/internal/loop/service"
	"revloop/internal/platform/middleware"
	"revloop/pkg/platform/httputil"
)

// Service defines the loop operations the handler needs.
type Service interface {
	Start(ctx context.Context, current, target float64) (*loop.State, error)
	Capture(ctx context.Context, input service.CaptureInput) (*loop.Objection, error)
	Analyze(ctx context.Context) (*loop.Analysis, error)
	ApplyPatches(ctx context.Context, categories []string) (*loop.PatchOutcome, error)
	CompleteIteration(ctx context.Context, frictionAfter float64) (*loop.Iteration, error)
	Pause(ctx context.Context) error
	Resume(ctx context.Context) error
	Status(ctx context.Context) *loop.Summary
	FrictionDeltaReport(ctx context.Context) (*loop.FrictionReport, error)
	Constraints() policy.Constraints
}

// Scheduler defines the schedule operations the handler needs.
type Scheduler interface {
	Start(ctx context.Context, targetTicks int) error
	Stop(ctx context.Context)
	Reset(ctx context.Context)
	Status(ctx context.Context) loop.SchedulerState
}

// Defaults are applied when a start request omits friction values or the
// schedule's tick budget. TickBudget is the configured iteration cap, so the
// loop and the autonomous schedule stay bounded by the same number.
type Defaults struct {
	Current    float64
	Target     float64
	TickBudget int
}

// Handler wires loop endpoints to the loop service and scheduler.
type Handler struct {
	service   Service
	scheduler Scheduler
	defaults  Defaults
	logger    *slog.Logger
}

// New constructs a loop handler.
func New(service Service, scheduler Scheduler, defaults Defaults, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		scheduler: scheduler,
		defaults:  defaults,
		logger:    logger,
	}
}

// Register mounts loop endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/loop/start", h.HandleStart)
	r.Post("/loop/objections", h.HandleCapture)
	r.Get("/loop/analysis", h.HandleAnalyze)
	r.Post("/loop/patches", h.HandleApplyPatches)
	r.Post("/loop/iterations/complete", h.HandleCompleteIteration)
	r.Post("/loop/pause", h.HandlePause)
	r.Post("/loop/resume", h.HandleResume)
	r.Get("/loop/status", h.HandleStatus)
	r.Get("/loop/friction-report", h.HandleFrictionReport)
	r.Get("/loop/constraints", h.HandleConstraints)

	r.Post("/scheduler/start", h.HandleScheduleStart)
	r.Post("/scheduler/stop", h.HandleScheduleStop)
	r.Post("/scheduler/reset", h.HandleScheduleReset)
	r.Get("/scheduler/status", h.HandleScheduleStatus)
}

// HandleStart handles POST /loop/start requests.
func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[StartRequest](w, r, h.logger)
	if !ok {
		return
	}

	current, target := h.defaults.Current, h.defaults.Target
	if req.CurrentFriction != nil {
		current = *req.CurrentFriction
	}
	if req.TargetFriction != nil {
		target = *req.TargetFriction
	}

	state, err := h.service.Start(ctx, current, target)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "loop started",
		"request_id", middleware.GetRequestID(ctx),
		"loop_id", state.ID.String(),
		"current", current,
		"target", target,
	)
	httputil.WriteJSON(w, http.StatusCreated, state)
}

// HandleCapture handles POST /loop/objections requests.
func (h *Handler) HandleCapture(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	req, ok := httputil.Decode[CaptureRequest](w, r, h.logger)
	if !ok {
		return
	}

	input := req.ToInput()
	input.ClientIP = middleware.GetClientIP(ctx)
	input.ClientAgent = middleware.GetClientAgent(ctx)

	objection, err := h.service.Capture(ctx, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "objection captured",
		"request_id", middleware.GetRequestID(ctx),
		"objection_id", objection.ID.String(),
		"category", objection.Category,
		"severity", objection.Severity.String(),
		"compliant", objection.Compliant,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, objection)
}

// HandleAnalyze handles GET /loop/analysis requests.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.service.Analyze(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, analysis)
}

// HandleApplyPatches handles POST /loop/patches requests.
func (h *Handler) HandleApplyPatches(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[PatchRequest](w, r, h.logger)
	if !ok {
		return
	}

	outcome, err := h.service.ApplyPatches(ctx, req.Categories)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "patches processed",
		"request_id", middleware.GetRequestID(ctx),
		"applied", len(outcome.Applied),
		"blocked", len(outcome.Blocked),
	)
	httputil.WriteJSON(w, http.StatusOK, outcome)
}

// HandleCompleteIteration handles POST /loop/iterations/complete requests.
func (h *Handler) HandleCompleteIteration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[CompleteIterationRequest](w, r, h.logger)
	if !ok {
		return
	}

	iteration, err := h.service.CompleteIteration(ctx, *req.FrictionAfter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "iteration completed",
		"request_id", middleware.GetRequestID(ctx),
		"sequence", iteration.Sequence,
		"friction_after", *req.FrictionAfter,
	)
	httputil.WriteJSON(w, http.StatusOK, iteration)
}

// HandlePause handles POST /loop/pause requests.
func (h *Handler) HandlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Pause(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(loop.StatusPaused)})
}

// HandleResume handles POST /loop/resume requests.
func (h *Handler) HandleResume(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Resume(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": string(loop.StatusRunning)})
}

// HandleStatus handles GET /loop/status requests.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Status(r.Context()))
}

// HandleFrictionReport handles GET /loop/friction-report requests.
func (h *Handler) HandleFrictionReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.FrictionDeltaReport(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

// HandleConstraints handles GET /loop/constraints requests.
func (h *Handler) HandleConstraints(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Constraints())
}

// HandleScheduleStart handles POST /scheduler/start requests.
func (h *Handler) HandleScheduleStart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[ScheduleStartRequest](w, r, h.logger)
	if !ok {
		return
	}

	targetTicks := req.TargetTicks
	if targetTicks == 0 {
		targetTicks = h.defaults.TickBudget
	}

	if err := h.scheduler.Start(ctx, targetTicks); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "schedule started",
		"request_id", middleware.GetRequestID(ctx),
		"target_ticks", targetTicks,
	)
	httputil.WriteJSON(w, http.StatusOK, h.scheduler.Status(ctx))
}

// HandleScheduleStop handles POST /scheduler/stop requests.
func (h *Handler) HandleScheduleStop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.scheduler.Stop(ctx)
	httputil.WriteJSON(w, http.StatusOK, h.scheduler.Status(ctx))
}

// HandleScheduleReset handles POST /scheduler/reset requests.
func (h *Handler) HandleScheduleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.scheduler.Reset(ctx)
	httputil.WriteJSON(w, http.StatusOK, h.scheduler.Status(ctx))
}

// HandleScheduleStatus handles GET /scheduler/status requests.
func (h *Handler) HandleScheduleStatus(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.scheduler.Status(r.Context()))
}
