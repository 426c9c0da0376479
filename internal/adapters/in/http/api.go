package http

import (
	"fmt"
	"net/http"
	"time"

	"fulfillment/internal/core/application/views"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// Error codes of the API error body.
const (
	CodeInvalidRequest   = "InvalidRequest"
	CodeNotFound         = "NotFound"
	CodeAlreadyExists    = "AlreadyExists"
	CodeConflict         = "Conflict"
	CodeCapacityExceeded = "CapacityExceeded"
	CodeStoreFault       = "StoreFault"
	CodeInternal         = "Internal"
)

// Error defines model for Error.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewAssignment defines model for NewAssignment.
type NewAssignment struct {
	Category   string            `json:"category"`
	Team       string            `json:"team,omitempty"`
	SpecName   string            `json:"specName"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Quantity   int               `json:"quantity"`
}

// NewItem defines model for NewItem.
type NewItem struct {
	Name        string          `json:"name"`
	Assignments []NewAssignment `json:"assignments"`
}

// CostEstimate defines model for CostEstimate.
type CostEstimate struct {
	ItemsCost           decimal.Decimal `json:"itemsCost"`
	ShippingAndHandling decimal.Decimal `json:"shippingAndHandling"`
	Taxes               decimal.Decimal `json:"taxes"`
	AdditionalFees      decimal.Decimal `json:"additionalFees"`
}

// OrderEdit defines model for OrderEdit.
type OrderEdit struct {
	DispatcherName string        `json:"dispatcherName"`
	CustomerName   string        `json:"customerName"`
	Items          []NewItem     `json:"items"`
	CostEstimate   *CostEstimate `json:"costEstimate,omitempty"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	OrderNumber string `json:"orderNumber"`
	OrderEdit
}

// EntryInput defines model for EntryInput.
type EntryInput struct {
	EntryID  *string    `json:"entryId,omitempty"`
	Quantity int        `json:"quantity"`
	Date     *time.Time `json:"date,omitempty"`
	Author   string     `json:"author"`
}

// ProgressUpdate defines model for ProgressUpdate.
type ProgressUpdate struct {
	AssignmentID      string     `json:"assignmentId"`
	Entry             EntryInput `json:"entry"`
	NewTotalCompleted *int       `json:"newTotalCompleted,omitempty"`
	NewStatus         *string    `json:"newStatus,omitempty"`
}

// FulfillmentUpdate defines model for FulfillmentUpdate.
type FulfillmentUpdate struct {
	ItemID   *string          `json:"itemId,omitempty"`
	Updates  []ProgressUpdate `json:"updates,omitempty"`
	QCStatus *string          `json:"qc_status,omitempty"`
}

// QCVerdict defines model for QCVerdict.
type QCVerdict struct {
	QCStatus string `json:"qc_status"`
}

// AssignmentResult defines model for AssignmentResult.
type AssignmentResult struct {
	AssignmentID   string `json:"assignmentId"`
	NewStatus      string `json:"newStatus"`
	TotalCompleted int    `json:"totalCompleted"`
	Applied        bool   `json:"applied"`
}

// FulfillmentResult defines model for FulfillmentResult.
type FulfillmentResult struct {
	Order              views.OrderView    `json:"order"`
	UpdatedAssignments []AssignmentResult `json:"updatedAssignments"`
}

// DroppedProgress defines model for DroppedProgress.
type DroppedProgress struct {
	ItemName       string `json:"itemName"`
	AssignmentID   string `json:"assignmentId"`
	Category       string `json:"category"`
	SpecName       string `json:"specName"`
	TotalCompleted int    `json:"totalCompleted"`
}

// EditResult defines model for EditResult.
type EditResult struct {
	Order   views.OrderView   `json:"order"`
	Carried int               `json:"carried"`
	Dropped []DroppedProgress `json:"dropped"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	OrderType *string `form:"orderType,omitempty" json:"orderType,omitempty"`
}

// GetTeamOrdersParams defines parameters for GetTeamOrders.
type GetTeamOrdersParams struct {
	OrderType *string `form:"orderType,omitempty" json:"orderType,omitempty"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders, newest first
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// Register an order with its items and assignments
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Full snapshot of one order
	// (GET /api/v1/orders/{orderNumber})
	GetOrder(ctx echo.Context, orderNumber string) error
	// Replace the header and item tree of an order
	// (PUT /api/v1/orders/{orderNumber})
	EditOrder(ctx echo.Context, orderNumber string) error
	// Delete an order with its items, assignments and ledgers
	// (DELETE /api/v1/orders/{orderNumber})
	DeleteOrder(ctx echo.Context, orderNumber string) error
	// Record production progress and optionally a QC verdict in one transaction
	// (PATCH /api/v1/orders/{orderNumber}/fulfillment)
	ApplyFulfillmentUpdates(ctx echo.Context, orderNumber string) error
	// Customer progress view
	// (GET /api/v1/orders/{orderNumber}/progress)
	GetOrderProgress(ctx echo.Context, orderNumber string) error
	// Set the QC verdict of an order
	// (PUT /api/v1/orders/{orderNumber}/qc)
	SetQCVerdict(ctx echo.Context, orderNumber string) error
	// Orders with assignments of one category, trimmed to that category
	// (GET /api/v1/teams/{category}/orders)
	GetTeamOrders(ctx echo.Context, category string, params GetTeamOrdersParams) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	if err := runtime.BindQueryParameter("form", true, false, "orderType", ctx.QueryParams(), &params.OrderType); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderType: %s", err))
	}
	return w.Handler.ListOrders(ctx, params)
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderNumber)
}

// EditOrder converts echo context to params.
func (w *ServerInterfaceWrapper) EditOrder(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.EditOrder(ctx, orderNumber)
}

// DeleteOrder converts echo context to params.
func (w *ServerInterfaceWrapper) DeleteOrder(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.DeleteOrder(ctx, orderNumber)
}

// ApplyFulfillmentUpdates converts echo context to params.
func (w *ServerInterfaceWrapper) ApplyFulfillmentUpdates(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.ApplyFulfillmentUpdates(ctx, orderNumber)
}

// GetOrderProgress converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrderProgress(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.GetOrderProgress(ctx, orderNumber)
}

// SetQCVerdict converts echo context to params.
func (w *ServerInterfaceWrapper) SetQCVerdict(ctx echo.Context) error {
	orderNumber, err := bindOrderNumber(ctx)
	if err != nil {
		return err
	}
	return w.Handler.SetQCVerdict(ctx, orderNumber)
}

// GetTeamOrders converts echo context to params.
func (w *ServerInterfaceWrapper) GetTeamOrders(ctx echo.Context) error {
	var category string
	err := runtime.BindStyledParameterWithOptions("simple", "category", ctx.Param("category"), &category,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter category: %s", err))
	}

	var params GetTeamOrdersParams
	if err = runtime.BindQueryParameter("form", true, false, "orderType", ctx.QueryParams(), &params.OrderType); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderType: %s", err))
	}
	return w.Handler.GetTeamOrders(ctx, category, params)
}

func bindOrderNumber(ctx echo.Context) (string, error) {
	var orderNumber string
	err := runtime.BindStyledParameterWithOptions("simple", "orderNumber", ctx.Param("orderNumber"), &orderNumber,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderNumber: %s", err))
	}
	return orderNumber, nil
}

// EchoRouter is the subset of echo routing RegisterHandlers needs.
type EchoRouter interface {
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, and prepends BaseURL to the paths.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.DELETE(baseURL+"/api/v1/orders/:orderNumber", wrapper.DeleteOrder)
	router.GET(baseURL+"/api/v1/orders/:orderNumber", wrapper.GetOrder)
	router.PUT(baseURL+"/api/v1/orders/:orderNumber", wrapper.EditOrder)
	router.PATCH(baseURL+"/api/v1/orders/:orderNumber/fulfillment", wrapper.ApplyFulfillmentUpdates)
	router.GET(baseURL+"/api/v1/orders/:orderNumber/progress", wrapper.GetOrderProgress)
	router.PUT(baseURL+"/api/v1/orders/:orderNumber/qc", wrapper.SetQCVerdict)
	router.GET(baseURL+"/api/v1/teams/:category/orders", wrapper.GetTeamOrders)
}
