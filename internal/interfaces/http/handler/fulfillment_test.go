package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	appfulfillment "github.com/erp/fulfillment/internal/application/fulfillment"
	"github.com/erp/fulfillment/internal/domain/fulfillment"
	"github.com/erp/fulfillment/internal/domain/shared"
	"github.com/erp/fulfillment/internal/interfaces/http/dto"
	"github.com/erp/fulfillment/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// MockFulfillmentService implements FulfillmentService for testing
type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) Allocate(ctx context.Context, cmd appfulfillment.AllocateCommand) (*appfulfillment.AllocationResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.AllocationResult), args.Error(1)
}

func (m *MockFulfillmentService) Deallocate(ctx context.Context, cmd appfulfillment.DeallocateCommand) (*fulfillment.SalesOrder, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.SalesOrder), args.Error(1)
}

func (m *MockFulfillmentService) Pick(ctx context.Context, cmd appfulfillment.PickCommand) (*appfulfillment.PickResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.PickResult), args.Error(1)
}

func (m *MockFulfillmentService) SavePackages(ctx context.Context, cmd appfulfillment.SavePackagesCommand) (*appfulfillment.PackagesResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.PackagesResult), args.Error(1)
}

func (m *MockFulfillmentService) Advance(ctx context.Context, cmd appfulfillment.AdvanceCommand) (*appfulfillment.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.TransitionResult), args.Error(1)
}

func (m *MockFulfillmentService) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*appfulfillment.OrderView, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*appfulfillment.OrderView), args.Error(1)
}

func (m *MockFulfillmentService) RetryDocument(ctx context.Context, tenantID, documentID uuid.UUID) (*fulfillment.FulfillmentDocument, error) {
	args := m.Called(ctx, tenantID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.FulfillmentDocument), args.Error(1)
}

type stubOpener struct {
	data        []byte
	contentType string
	err         error
	opened      string
}

func (s *stubOpener) Open(_ context.Context, storagePath string) ([]byte, string, error) {
	s.opened = storagePath
	return s.data, s.contentType, s.err
}

var (
	testTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
	testUserID   = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
)

func setupFulfillmentTestRouter() (*gin.Engine, *MockFulfillmentService, *stubOpener) {
	router := gin.New()
	router.Use(middleware.TenantMiddleware(middleware.DefaultTenantConfig(true)))

	svc := new(MockFulfillmentService)
	opener := &stubOpener{}
	NewFulfillmentHandler(svc, opener).RegisterRoutes(router.Group("/api/v1"))
	return router, svc, opener
}

func createTestOrder(status fulfillment.OrderStatus, step fulfillment.Step) *fulfillment.SalesOrder {
	order, _ := fulfillment.NewSalesOrder(testTenantID, "SO-2026-00001", uuid.New(), time.Now())
	order.Status = status
	order.WorkflowState = step
	order.Items = []fulfillment.SalesOrderItem{{
		ID:                uuid.New(),
		OrderID:           order.ID,
		LineNumber:        1,
		ProductID:         uuid.New(),
		OrderedQuantity:   decimal.NewFromInt(10),
		AllocatedQuantity: decimal.Zero,
		PickedQuantity:    decimal.Zero,
		UnitPrice:         decimal.NewFromInt(5),
		LineTotal:         decimal.NewFromInt(50),
	}}
	return order
}

func doRequest(router *gin.Engine, method, url string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.TenantHeaderKey, testTenantID.String())
	req.Header.Set(middleware.UserHeaderKey, testUserID.String())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, code string) {
	t.Helper()
	response := decodeResponse(t, w)
	assert.False(t, response["success"].(bool))
	errMap, ok := response["error"].(map[string]any)
	require.True(t, ok, "expected error object")
	assert.Equal(t, code, errMap["code"])
}

func ordersURL(orderID uuid.UUID, suffix string) string {
	return "/api/v1/fulfillment/orders/" + orderID.String() + suffix
}

func TestFulfillmentHandler_GetOrder(t *testing.T) {
	t.Run("should return the order view", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusAllocated, fulfillment.StepPick)

		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(&appfulfillment.OrderView{
			Order: order,
			Allocations: []*fulfillment.Allocation{{
				ID: uuid.New(), OrderItemID: order.Items[0].ID, Quantity: decimal.NewFromInt(10),
			}},
		}, nil)

		w := doRequest(router, http.MethodGet, ordersURL(order.ID, ""), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		orderData := data["order"].(map[string]any)
		assert.Equal(t, "allocated", orderData["status"])
		assert.Equal(t, "pick", orderData["workflow_state"])
		assert.Len(t, data["allocations"], 1)
		assert.Empty(t, data["picks"])
		assert.Nil(t, data["shipment"])
		svc.AssertExpectations(t)
	})

	t.Run("should map not found", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		orderID := uuid.New()
		svc.On("GetOrder", mock.Anything, testTenantID, orderID).Return(nil, shared.ErrNotFound)

		w := doRequest(router, http.MethodGet, ordersURL(orderID, ""), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assertErrorCode(t, w, dto.ErrCodeNotFound)
	})

	t.Run("should reject malformed order id", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodGet, "/api/v1/fulfillment/orders/not-a-uuid", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInvalidInput)
		svc.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestFulfillmentHandler_Allocate(t *testing.T) {
	t.Run("should allocate and return 201", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusAllocated, fulfillment.StepAllocate)
		itemID := order.Items[0].ID
		inventoryID := uuid.New()

		svc.On("Allocate", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.AllocateCommand) bool {
			return cmd.TenantID == testTenantID &&
				cmd.UserID != nil && *cmd.UserID == testUserID &&
				cmd.OrderID == order.ID &&
				cmd.OrderItemID == itemID &&
				cmd.InventoryItemID == inventoryID &&
				cmd.Quantity.Equal(decimal.NewFromInt(4))
		})).Return(&appfulfillment.AllocationResult{
			Allocation: &fulfillment.Allocation{ID: uuid.New(), OrderItemID: itemID, InventoryItemID: inventoryID, Quantity: decimal.NewFromInt(4)},
			Order:      order,
		}, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/allocations"), AllocateRequest{
			OrderItemID:     itemID.String(),
			InventoryItemID: inventoryID.String(),
			Quantity:        decimal.NewFromInt(4),
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "4", data["allocation"].(map[string]any)["quantity"])
		svc.AssertExpectations(t)
	})

	t.Run("should reject non positive quantity", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodPost, ordersURL(uuid.New(), "/allocations"), AllocateRequest{
			OrderItemID:     uuid.New().String(),
			InventoryItemID: uuid.New().String(),
			Quantity:        decimal.Zero,
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "Allocate", mock.Anything, mock.Anything)
	})

	t.Run("should map insufficient stock to 422", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		orderID := uuid.New()
		svc.On("Allocate", mock.Anything, mock.Anything).Return(nil, &fulfillment.InsufficientStockError{
			InventoryItemID: uuid.New(),
			Available:       decimal.NewFromInt(1),
			Requested:       decimal.NewFromInt(4),
		})

		w := doRequest(router, http.MethodPost, ordersURL(orderID, "/allocations"), AllocateRequest{
			OrderItemID:     uuid.New().String(),
			InventoryItemID: uuid.New().String(),
			Quantity:        decimal.NewFromInt(4),
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInsufficientStock)
	})

	t.Run("should map illegal state to 409", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		orderID := uuid.New()
		svc.On("Allocate", mock.Anything, mock.Anything).Return(nil, &fulfillment.IllegalTransitionError{
			OrderID: orderID,
			Action:  string(fulfillment.OperationAllocateLine),
			Current: fulfillment.OrderState{Status: fulfillment.StatusPicked, Step: fulfillment.StepPack},
		})

		w := doRequest(router, http.MethodPost, ordersURL(orderID, "/allocations"), AllocateRequest{
			OrderItemID:     uuid.New().String(),
			InventoryItemID: uuid.New().String(),
			Quantity:        decimal.NewFromInt(1),
		})

		assert.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, dto.ErrCodeIllegalTransition)
	})
}

func TestFulfillmentHandler_Deallocate(t *testing.T) {
	router, svc, _ := setupFulfillmentTestRouter()
	order := createTestOrder(fulfillment.StatusCreated, fulfillment.StepAllocate)
	allocationID := uuid.New()

	svc.On("Deallocate", mock.Anything, appfulfillment.DeallocateCommand{
		Actor:        appfulfillment.Actor{TenantID: testTenantID, UserID: &testUserID},
		OrderID:      order.ID,
		AllocationID: allocationID,
	}).Return(order, nil)

	w := doRequest(router, http.MethodDelete, ordersURL(order.ID, "/allocations/"+allocationID.String()), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestFulfillmentHandler_Pick(t *testing.T) {
	router, svc, _ := setupFulfillmentTestRouter()
	order := createTestOrder(fulfillment.StatusPicked, fulfillment.StepPick)
	itemID := order.Items[0].ID

	svc.On("Pick", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.PickCommand) bool {
		return cmd.OrderItemID == itemID && cmd.Details.Lot == "L-7" && cmd.Details.Serial == "SN-1"
	})).Return(&appfulfillment.PickResult{
		Pick:         &fulfillment.Pick{ID: uuid.New(), OrderItemID: itemID, Quantity: decimal.NewFromInt(10), Lot: "L-7", Serial: "SN-1"},
		Order:        order,
		ReadyForPack: true,
	}, nil)

	w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/picks"), PickRequest{
		OrderItemID:     itemID.String(),
		InventoryItemID: uuid.New().String(),
		Quantity:        decimal.NewFromInt(10),
		Lot:             "L-7",
		Serial:          "SN-1",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeResponse(t, w)["data"].(map[string]any)
	assert.Equal(t, true, data["ready_for_pack"])
	assert.Equal(t, "L-7", data["pick"].(map[string]any)["lot"])
	svc.AssertExpectations(t)
}

func TestFulfillmentHandler_SavePackages(t *testing.T) {
	t.Run("should convert package specs", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusPicked, fulfillment.StepPack)
		itemID := order.Items[0].ID

		svc.On("SavePackages", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.SavePackagesCommand) bool {
			return len(cmd.Packages) == 2 &&
				cmd.Packages[0].Items[0].OrderItemID == itemID &&
				cmd.Packages[1].Weight.Equal(decimal.RequireFromString("1.5"))
		})).Return(&appfulfillment.PackagesResult{
			Order: order,
			Packages: []*fulfillment.Package{
				{ID: uuid.New(), PackageNumber: "PKG-SO-2026-00001-001"},
				{ID: uuid.New(), PackageNumber: "PKG-SO-2026-00001-002"},
			},
		}, nil)

		w := doRequest(router, http.MethodPut, ordersURL(order.ID, "/packages"), SavePackagesRequest{
			Packages: []PackageRequest{
				{Items: []PackageItemRequest{{OrderItemID: itemID.String(), Quantity: decimal.NewFromInt(6)}}},
				{Weight: decimal.RequireFromString("1.5"), Items: []PackageItemRequest{{OrderItemID: itemID.String(), Quantity: decimal.NewFromInt(4)}}},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		packages := data["packages"].([]any)
		require.Len(t, packages, 2)
		assert.Equal(t, "PKG-SO-2026-00001-002", packages[1].(map[string]any)["package_number"])
		svc.AssertExpectations(t)
	})

	t.Run("should allow an empty list", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusPicked, fulfillment.StepPack)
		svc.On("SavePackages", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.SavePackagesCommand) bool {
			return len(cmd.Packages) == 0
		})).Return(&appfulfillment.PackagesResult{Order: order}, nil)

		w := doRequest(router, http.MethodPut, ordersURL(order.ID, "/packages"), SavePackagesRequest{Packages: []PackageRequest{}})

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("should reject a package without items", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodPut, ordersURL(uuid.New(), "/packages"), SavePackagesRequest{
			Packages: []PackageRequest{{Barcode: "X"}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "SavePackages", mock.Anything, mock.Anything)
	})

	t.Run("should map over pack", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		svc.On("SavePackages", mock.Anything, mock.Anything).Return(nil, &fulfillment.OverPackError{
			ProductID: uuid.New(),
			Picked:    decimal.NewFromInt(10),
			Packed:    decimal.NewFromInt(12),
		})

		w := doRequest(router, http.MethodPut, ordersURL(uuid.New(), "/packages"), SavePackagesRequest{
			Packages: []PackageRequest{{Items: []PackageItemRequest{{OrderItemID: uuid.New().String(), Quantity: decimal.NewFromInt(12)}}}},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assertErrorCode(t, w, dto.ErrCodeOverPack)
	})
}

func TestFulfillmentHandler_Advance(t *testing.T) {
	t.Run("should advance without a body", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusAllocated, fulfillment.StepPick)

		svc.On("Advance", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.AdvanceCommand) bool {
			return cmd.Transition == fulfillment.TransitionAllocate && cmd.Ship == nil && cmd.Deliver == nil
		})).Return(&appfulfillment.TransitionResult{
			Order:         order,
			PreviousState: fulfillment.OrderState{Status: fulfillment.StatusAllocated, Step: fulfillment.StepAllocate},
			NextStep:      fulfillment.StepPick,
			Resolution:    fulfillment.ResolutionDefaultChain,
		}, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/transitions/allocate"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "allocate", data["previous_workflow_state"])
		assert.Equal(t, "pick", data["next_step"])
		assert.Equal(t, "default_chain", data["resolution"])
		assert.Equal(t, false, data["document_pending"])
		svc.AssertExpectations(t)
	})

	t.Run("should reject an unknown transition", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodPost, ordersURL(uuid.New(), "/transitions/teleport"), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInvalidInput)
		svc.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything)
	})

	t.Run("should require the ship payload", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodPost, ordersURL(uuid.New(), "/transitions/ship"), nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything)
	})

	t.Run("should pass ship assignments", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusShipped, fulfillment.StepDeliver)
		locationID := uuid.New()

		svc.On("Advance", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.AdvanceCommand) bool {
			return cmd.Ship != nil &&
				cmd.Ship.Details.Carrier == "DHL" &&
				len(cmd.Ship.Assignments) == 1 &&
				cmd.Ship.Assignments[0].LocationID == locationID
		})).Return(&appfulfillment.TransitionResult{
			Order:    order,
			NextStep: fulfillment.StepDeliver,
			Shipment: &fulfillment.Shipment{ID: uuid.New(), ShipmentNumber: "SHP-SO-2026-00001", Status: fulfillment.ShipmentStatusInTransit},
		}, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/transitions/ship"), TransitionRequest{
			Ship: &ShipRequest{
				Carrier:     "DHL",
				Assignments: []AssignmentRequest{{PackageNumber: "PKG-SO-2026-00001-001", LocationID: locationID.String()}},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "in_transit", data["shipment"].(map[string]any)["status"])
		svc.AssertExpectations(t)
	})

	t.Run("should validate the delivery mode", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()

		w := doRequest(router, http.MethodPost, ordersURL(uuid.New(), "/transitions/deliver"), TransitionRequest{
			Deliver: &DeliverRequest{Mode: "most"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assertErrorCode(t, w, dto.ErrCodeValidation)
		svc.AssertNotCalled(t, "Advance", mock.Anything, mock.Anything)
	})

	t.Run("should report a partial delivery with its return order", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusDelivered, fulfillment.StepComplete)
		itemID := order.Items[0].ID
		returnID := uuid.New()

		svc.On("Advance", mock.Anything, mock.MatchedBy(func(cmd appfulfillment.AdvanceCommand) bool {
			return cmd.Deliver != nil &&
				cmd.Deliver.Mode == fulfillment.DeliveryModePartial &&
				len(cmd.Deliver.Splits) == 1 &&
				cmd.Deliver.Splits[0].Rejected.Equal(decimal.NewFromInt(2))
		})).Return(&appfulfillment.TransitionResult{
			Order:         order,
			NextStep:      fulfillment.StepComplete,
			Delivery:      &fulfillment.Delivery{ID: uuid.New(), Status: fulfillment.DeliveryStatusPartial, ReturnOrderID: &returnID},
			ReturnOrderID: &returnID,
		}, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/transitions/deliver"), TransitionRequest{
			Deliver: &DeliverRequest{
				Mode:   "partial",
				Splits: []SplitRequest{{OrderItemID: itemID.String(), Accepted: decimal.NewFromInt(8), Rejected: decimal.NewFromInt(2)}},
			},
		})

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, returnID.String(), data["return_order_id"])
		assert.Equal(t, "partial", data["delivery"].(map[string]any)["status"])
		svc.AssertExpectations(t)
	})

	t.Run("should answer 200 when the document is pending", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		order := createTestOrder(fulfillment.StatusPacked, fulfillment.StepShip)
		docID := uuid.New()

		svc.On("Advance", mock.Anything, mock.Anything).Return(&appfulfillment.TransitionResult{
			Order:           order,
			NextStep:        fulfillment.StepShip,
			Document:        &fulfillment.FulfillmentDocument{ID: docID, Type: fulfillment.DocumentTypePack, Status: fulfillment.DocumentStatusFailed, Attempts: 1},
			DocumentPending: true,
			DocumentError:   "renderer unavailable",
		}, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/transitions/pack"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, true, data["document_pending"])
		assert.Equal(t, "renderer unavailable", data["document_error"])
		assert.Equal(t, "failed", data["document"].(map[string]any)["status"])
	})

	t.Run("should map a lost race to 409", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		orderID := uuid.New()
		svc.On("Advance", mock.Anything, mock.Anything).Return(nil, shared.ErrConcurrencyConflict)

		w := doRequest(router, http.MethodPost, ordersURL(orderID, "/transitions/pick"), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, dto.ErrCodeConcurrencyConflict)
	})

	t.Run("should hide uncoded errors", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		svc.On("Advance", mock.Anything, mock.Anything).Return(nil, errors.New("pq: connection refused"))

		w := doRequest(router, http.MethodPost, ordersURL(uuid.New(), "/transitions/pick"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInternal)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestFulfillmentHandler_Documents(t *testing.T) {
	order := createTestOrder(fulfillment.StatusShipped, fulfillment.StepDeliver)
	storedAt := time.Now()
	stored := &fulfillment.FulfillmentDocument{
		ID:          uuid.New(),
		OrderID:     order.ID,
		Type:        fulfillment.DocumentTypeShip,
		Status:      fulfillment.DocumentStatusStored,
		StoragePath: testTenantID.String() + "/SHIP/2026/10/SHP-0001.pdf",
		StoredAt:    &storedAt,
	}
	failed := &fulfillment.FulfillmentDocument{
		ID:      uuid.New(),
		OrderID: order.ID,
		Type:    fulfillment.DocumentTypePack,
		Status:  fulfillment.DocumentStatusFailed,
	}
	view := &appfulfillment.OrderView{Order: order, Documents: []*fulfillment.FulfillmentDocument{stored, failed}}

	t.Run("should retry a document of the order", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(view, nil)
		retried := *failed
		retried.Status = fulfillment.DocumentStatusStored
		retried.Attempts = 2
		svc.On("RetryDocument", mock.Anything, testTenantID, failed.ID).Return(&retried, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/documents/"+failed.ID.String()+"/retry"), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w)["data"].(map[string]any)
		assert.Equal(t, "stored", data["status"])
		assert.Equal(t, float64(2), data["attempts"])
		svc.AssertExpectations(t)
	})

	t.Run("should not retry a foreign document", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(view, nil)

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/documents/"+uuid.New().String()+"/retry"), nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		svc.AssertNotCalled(t, "RetryDocument", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("should surface a failed retry", func(t *testing.T) {
		router, svc, _ := setupFulfillmentTestRouter()
		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(view, nil)
		svc.On("RetryDocument", mock.Anything, testTenantID, failed.ID).
			Return(failed, &fulfillment.DocumentGenerationFailure{DocumentID: failed.ID, Cause: errors.New("render failed")})

		w := doRequest(router, http.MethodPost, ordersURL(order.ID, "/documents/"+failed.ID.String()+"/retry"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assertErrorCode(t, w, dto.ErrCodeDocumentGeneration)
	})

	t.Run("should download a stored document", func(t *testing.T) {
		router, svc, opener := setupFulfillmentTestRouter()
		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(view, nil)
		opener.data = []byte("%PDF-1.4")
		opener.contentType = "application/pdf"

		w := doRequest(router, http.MethodGet, ordersURL(order.ID, "/documents/"+stored.ID.String()), nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.Contains(w.Header().Get("Content-Disposition"), "SHP-0001.pdf"))
		assert.Equal(t, "%PDF-1.4", w.Body.String())
		assert.Equal(t, stored.StoragePath, opener.opened)
	})

	t.Run("should refuse to download an unstored document", func(t *testing.T) {
		router, svc, opener := setupFulfillmentTestRouter()
		svc.On("GetOrder", mock.Anything, testTenantID, order.ID).Return(view, nil)

		w := doRequest(router, http.MethodGet, ordersURL(order.ID, "/documents/"+failed.ID.String()), nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assertErrorCode(t, w, dto.ErrCodeInvalidState)
		assert.Empty(t, opener.opened)
	})
}

func TestFulfillmentHandler_RequiresTenant(t *testing.T) {
	router, svc, _ := setupFulfillmentTestRouter()

	req, _ := http.NewRequest(http.MethodGet, ordersURL(uuid.New(), ""), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	svc.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
}
