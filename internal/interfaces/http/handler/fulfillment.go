package handler

import (
	"context"
	"errors"
	"net/http"
	"path"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/infrastructure/logger"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FulfillmentService drives orders through fulfillment
type FulfillmentService interface {
	Allocate(ctx context.Context, cmd appfulfillment.AllocateCommand) (*appfulfillment.AllocationResult, error)
	Deallocate(ctx context.Context, cmd appfulfillment.DeallocateCommand) (*fulfillment.SalesOrder, error)
	Pick(ctx context.Context, cmd appfulfillment.PickCommand) (*appfulfillment.PickResult, error)
	SavePackages(ctx context.Context, cmd appfulfillment.SavePackagesCommand) (*appfulfillment.PackagesResult, error)
	Advance(ctx context.Context, cmd appfulfillment.AdvanceCommand) (*appfulfillment.TransitionResult, error)
	GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*appfulfillment.OrderView, error)
	RetryDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*fulfillment.FulfillmentDocument, error)
}

// DocumentOpener reads a stored document artifact
type DocumentOpener interface {
	Open(ctx context.Context, storagePath string) ([]byte, string, error)
}

// FulfillmentHandler serves /fulfillment/orders/:id
type FulfillmentHandler struct {
	BaseHandler
	service   FulfillmentService
	documents DocumentOpener
}

// NewFulfillmentHandler creates a fulfillment handler
func NewFulfillmentHandler(service FulfillmentService, documents DocumentOpener) *FulfillmentHandler {
	return &FulfillmentHandler{service: service, documents: documents}
}

// RegisterRoutes mounts the fulfillment routes on rg
func (h *FulfillmentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/fulfillment/orders/:id")
	orders.GET("", h.GetOrder)
	orders.POST("/allocations", h.Allocate)
	orders.DELETE("/allocations/:allocationId", h.Deallocate)
	orders.POST("/picks", h.Pick)
	orders.PUT("/packages", h.SavePackages)
	orders.POST("/transitions/:transition", h.Advance)
	orders.POST("/documents/:documentId/retry", h.RetryDocument)
	orders.GET("/documents/:documentId", h.DownloadDocument)
}

// actor resolves the caller and order id. On failure the response has been
// written and false is returned.
func (h *FulfillmentHandler) actor(c *gin.Context) (appfulfillment.Actor, uuid.UUID, bool) {
	tenantID, err := middleware.GetTenantUUID(c)
	if err != nil {
		h.Unauthorized(c, "Tenant identification required")
		return appfulfillment.Actor{}, uuid.Nil, false
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return appfulfillment.Actor{}, uuid.Nil, false
	}
	return appfulfillment.Actor{TenantID: tenantID, UserID: middleware.GetUserUUID(c)}, orderID, true
}

// GetOrder godoc
// @ID           getFulfillmentOrder
// @Summary      Get an order with its fulfillment records
// @Description  Returns the order with allocations, picks, packages, shipment, delivery and documents
// @Tags         fulfillment
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Success      200 {object} APIResponse[OrderViewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id} [get]
func (h *FulfillmentHandler) GetOrder(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	view, err := h.service.GetOrder(c.Request.Context(), actor.TenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderViewResponse(view))
}

// Allocate godoc
// @ID           allocateOrderItem
// @Summary      Allocate stock to an order line
// @Description  Reserves inventory for an order line while the order is in the allocate step
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        request body AllocateRequest true "Allocation request"
// @Success      201 {object} APIResponse[AllocationResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/allocations [post]
func (h *FulfillmentHandler) Allocate(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	var req AllocateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Allocate(c.Request.Context(), appfulfillment.AllocateCommand{
		Actor:           actor,
		OrderID:         orderID,
		OrderItemID:     uuid.MustParse(req.OrderItemID),
		InventoryItemID: uuid.MustParse(req.InventoryItemID),
		Quantity:        req.Quantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, AllocationResultResponse{
		Allocation: toAllocationResponse(result.Allocation),
		Order:      toOrderResponse(result.Order),
	})
}

// Deallocate godoc
// @ID           deallocateOrderItem
// @Summary      Release an allocation
// @Description  Releases a reservation while the order is still in the allocate step
// @Tags         fulfillment
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        allocationId path string true "Allocation ID" format(uuid)
// @Success      200 {object} APIResponse[OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/allocations/{allocationId} [delete]
func (h *FulfillmentHandler) Deallocate(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	allocationID, ok := h.ParseUUIDParam(c, "allocationId")
	if !ok {
		return
	}

	order, err := h.service.Deallocate(c.Request.Context(), appfulfillment.DeallocateCommand{
		Actor:        actor,
		OrderID:      orderID,
		AllocationID: allocationID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toOrderResponse(order))
}

// Pick godoc
// @ID           pickOrderItem
// @Summary      Record a pick
// @Description  Records a picked quantity with optional batch, lot and serial
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        request body PickRequest true "Pick request"
// @Success      201 {object} APIResponse[PickResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/picks [post]
func (h *FulfillmentHandler) Pick(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	var req PickRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.Pick(c.Request.Context(), appfulfillment.PickCommand{
		Actor:           actor,
		OrderID:         orderID,
		OrderItemID:     uuid.MustParse(req.OrderItemID),
		InventoryItemID: uuid.MustParse(req.InventoryItemID),
		Quantity:        req.Quantity,
		Details:         fulfillment.PickDetails{Batch: req.Batch, Lot: req.Lot, Serial: req.Serial},
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, PickResultResponse{
		Pick:         toPickResponse(result.Pick),
		Order:        toOrderResponse(result.Order),
		ReadyForPack: result.ReadyForPack,
	})
}

// SavePackages godoc
// @ID           saveOrderPackages
// @Summary      Replace the unshipped packages
// @Description  Replaces every unshipped package of the order. Saving the same list twice is a no-op
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        request body SavePackagesRequest true "Package list"
// @Success      200 {object} APIResponse[PackagesResultResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/packages [put]
func (h *FulfillmentHandler) SavePackages(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	var req SavePackagesRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.service.SavePackages(c.Request.Context(), appfulfillment.SavePackagesCommand{
		Actor:    actor,
		OrderID:  orderID,
		Packages: req.toSpecs(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PackagesResultResponse{
		Order:    toOrderResponse(result.Order),
		Packages: toPackageResponses(result.Packages),
	})
}

// Advance godoc
// @ID           advanceOrder
// @Summary      Advance the order through a transition
// @Description  Runs allocate, pick, pack, ship or deliver. A transition whose document failed answers 200 with document_pending set
// @Tags         fulfillment
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        transition path string true "Transition" Enums(allocate, pick, pack, ship, deliver)
// @Param        request body TransitionRequest false "Ship or deliver payload"
// @Success      200 {object} APIResponse[TransitionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/transitions/{transition} [post]
func (h *FulfillmentHandler) Advance(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	transition, err := fulfillment.ParseTransition(c.Param("transition"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req TransitionRequest
	if c.Request.ContentLength != 0 && !h.BindJSON(c, &req) {
		return
	}
	switch {
	case transition == fulfillment.TransitionShip && req.Ship == nil:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "ship payload is required")
		return
	case transition == fulfillment.TransitionDeliver && req.Deliver == nil:
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, "deliver payload is required")
		return
	}

	result, err := h.service.Advance(c.Request.Context(), appfulfillment.AdvanceCommand{
		Actor:      actor,
		OrderID:    orderID,
		Transition: transition,
		Ship:       req.Ship.toPayload(),
		Deliver:    req.Deliver.toPayload(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if result.DocumentPending {
		logger.L(c.Request.Context()).Warn("Transition committed with pending document",
			zap.String("order_id", orderID.String()),
			zap.String("transition", transition.String()),
			zap.String("document_error", result.DocumentError),
		)
	}
	h.Success(c, toTransitionResponse(result))
}

// orderDocument returns the document when it belongs to the order. On
// failure the response has been written and nil is returned.
func (h *FulfillmentHandler) orderDocument(c *gin.Context, actor appfulfillment.Actor, orderID uuid.UUID) *fulfillment.FulfillmentDocument {
	documentID, ok := h.ParseUUIDParam(c, "documentId")
	if !ok {
		return nil
	}
	view, err := h.service.GetOrder(c.Request.Context(), actor.TenantID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return nil
	}
	for _, doc := range view.Documents {
		if doc.ID == documentID {
			return doc
		}
	}
	h.NotFound(c, "Document not found")
	return nil
}

// RetryDocument godoc
// @ID           retryFulfillmentDocument
// @Summary      Retry document generation
// @Description  Regenerates a pending or failed document of the order
// @Tags         fulfillment
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        documentId path string true "Document ID" format(uuid)
// @Success      200 {object} APIResponse[DocumentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/documents/{documentId}/retry [post]
func (h *FulfillmentHandler) RetryDocument(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	doc := h.orderDocument(c, actor, orderID)
	if doc == nil {
		return
	}

	retried, err := h.service.RetryDocument(c.Request.Context(), actor.TenantID, doc.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toDocumentResponse(retried))
}

// DownloadDocument godoc
// @ID           downloadFulfillmentDocument
// @Summary      Download a stored document
// @Description  Streams the rendered PDF or HTML artifact
// @Tags         fulfillment
// @Produce      application/pdf,text/html
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Sales Order ID" format(uuid)
// @Param        documentId path string true "Document ID" format(uuid)
// @Success      200 {file} binary
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /fulfillment/orders/{id}/documents/{documentId} [get]
func (h *FulfillmentHandler) DownloadDocument(c *gin.Context) {
	actor, orderID, ok := h.actor(c)
	if !ok {
		return
	}
	doc := h.orderDocument(c, actor, orderID)
	if doc == nil {
		return
	}
	if doc.Status != fulfillment.DocumentStatusStored {
		h.Error(c, http.StatusConflict, dto.ErrCodeInvalidState, "Document has not been stored yet")
		return
	}

	data, contentType, err := h.documents.Open(c.Request.Context(), doc.StoragePath)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		logger.L(c.Request.Context()).Error("Failed to open document",
			zap.String("document_id", doc.ID.String()),
			zap.String("storage_path", doc.StoragePath),
			zap.Error(err),
		)
		h.InternalError(c, "Failed to read document")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+path.Base(doc.StoragePath)+`"`)
	c.Data(http.StatusOK, contentType, data)
}
