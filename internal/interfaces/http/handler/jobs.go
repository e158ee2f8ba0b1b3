package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/infrastructure/scheduler"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JobController exposes the background scheduler
type JobController interface {
	Status() []scheduler.JobState
	RunNow(ctx context.Context, name string) error
}

// JobHandler serves /admin/jobs
type JobHandler struct {
	BaseHandler
	jobs JobController
}

// NewJobHandler creates a JobHandler
func NewJobHandler(jobs JobController) *JobHandler {
	return &JobHandler{jobs: jobs}
}

// RegisterRoutes mounts the job routes on rg
func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/admin/jobs")
	jobs.GET("", h.List)
	jobs.POST("/:name/run", h.Run)
}

// List godoc
// @ID           listJobs
// @Summary      List scheduled jobs
// @Description  Returns the schedule and last run of every background job
// @Tags         jobs
// @Produce      json
// @Success      200 {object} APIResponse[[]scheduler.JobState]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	h.Success(c, h.jobs.Status())
}

// Run godoc
// @ID           runJob
// @Summary      Run a job now
// @Description  Runs a background job in the request and returns its refreshed state
// @Tags         jobs
// @Produce      json
// @Param        name path string true "Job name"
// @Success      200 {object} APIResponse[scheduler.JobState]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/jobs/{name}/run [post]
func (h *JobHandler) Run(c *gin.Context) {
	name := c.Param("name")
	err := h.jobs.RunNow(c.Request.Context(), name)
	switch {
	case errors.Is(err, scheduler.ErrJobNotFound):
		h.NotFound(c, "Job not found: "+name)
		return
	case errors.Is(err, scheduler.ErrSchedulerNotRunning), errors.Is(err, scheduler.ErrJobAlreadyRunning):
		h.Error(c, http.StatusConflict, dto.ErrCodeConflict, err.Error())
		return
	case err != nil:
		logger.L(c.Request.Context()).Error("Manual job run failed", zap.String("job", name), zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "Job failed: "+err.Error())
		return
	}

	for _, state := range h.jobs.Status() {
		if state.Name == name {
			h.Success(c, state)
			return
		}
	}
	h.Success(c, scheduler.JobState{Name: name})
}
