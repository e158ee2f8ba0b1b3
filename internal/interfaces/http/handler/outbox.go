package handler

import (
	"context"

	"github.com/erp/fulfillment/internal/application/event"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OutboxAdmin manages events the relay gave up on
type OutboxAdmin interface {
	ListDead(ctx context.Context, tenantID uuid.UUID, filter event.OutboxFilter) (*event.OutboxListResult, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*event.OutboxEntryDTO, error)
	Requeue(ctx context.Context, tenantID, id uuid.UUID) (*event.OutboxEntryDTO, error)
	RequeueAll(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Stats(ctx context.Context, tenantID uuid.UUID) (*event.OutboxStatsDTO, error)
}

// OutboxHandler handles outbox management HTTP requests
type OutboxHandler struct {
	BaseHandler
	outbox OutboxAdmin
}

// NewOutboxHandler creates a new outbox handler
func NewOutboxHandler(outbox OutboxAdmin) *OutboxHandler {
	return &OutboxHandler{outbox: outbox}
}

// RegisterRoutes mounts the outbox routes on rg
func (h *OutboxHandler) RegisterRoutes(rg *gin.RouterGroup) {
	outbox := rg.Group("/admin/outbox")
	outbox.GET("/stats", h.GetStats)
	outbox.GET("/dead", h.GetDeadLetterEntries)
	outbox.POST("/dead/retry", h.RetryAllDeadEntries)
	outbox.GET("/entries/:id", h.GetEntry)
	outbox.POST("/entries/:id/retry", h.RetryDeadEntry)
}

// RetryAllResponse reports how many entries were requeued
// @Description Number of requeued entries
type RetryAllResponse struct {
	Count int64 `json:"count" example:"3"`
}

func (h *OutboxHandler) tenant(c *gin.Context) (uuid.UUID, bool) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return uuid.Nil, false
	}
	return tenantID, true
}

// GetDeadLetterEntries godoc
// @ID           listOutboxDeadEntries
// @Summary      List dead letter entries
// @Description  Get a paginated list of events the relay gave up on
// @Tags         outbox
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20) maximum(100)
// @Success      200 {object} APIResponse[event.OutboxListResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/dead [get]
func (h *OutboxHandler) GetDeadLetterEntries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter event.OutboxFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.outbox.ListDead(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetEntry godoc
// @ID           getOutboxEntry
// @Summary      Get an outbox entry by ID
// @Description  Retrieve a single outbox entry with its payload
// @Tags         outbox
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Outbox Entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/entries/{id} [get]
func (h *OutboxHandler) GetEntry(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.outbox.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryDeadEntry godoc
// @ID           retryOutboxEntry
// @Summary      Requeue a dead entry
// @Description  Moves a dead entry back to pending
// @Tags         outbox
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Outbox Entry ID" format(uuid)
// @Success      200 {object} APIResponse[event.OutboxEntryDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/entries/{id}/retry [post]
func (h *OutboxHandler) RetryDeadEntry(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	entry, err := h.outbox.Requeue(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// RetryAllDeadEntries godoc
// @ID           retryAllOutboxEntries
// @Summary      Requeue all dead entries
// @Description  Moves every dead entry of the tenant back to pending
// @Tags         outbox
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} APIResponse[RetryAllResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/dead/retry [post]
func (h *OutboxHandler) RetryAllDeadEntries(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	count, err := h.outbox.RequeueAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, RetryAllResponse{Count: count})
}

// GetStats godoc
// @ID           getOutboxStats
// @Summary      Get outbox statistics
// @Description  Counts outbox entries by status
// @Tags         outbox
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} APIResponse[event.OutboxStatsDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/outbox/stats [get]
func (h *OutboxHandler) GetStats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stats, err := h.outbox.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
