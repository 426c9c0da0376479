package http

import (
	"context"
	"net/http"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/application/views"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Use case ports of the server. The command and query handlers satisfy them.
type (
	OrderCreator interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	OrderEditor interface {
		Handle(ctx context.Context, cmd commands.EditOrderCommand) (commands.EditOrderResult, error)
	}
	OrderDeleter interface {
		Handle(ctx context.Context, cmd commands.DeleteOrderCommand) error
	}
	FulfillmentUpdater interface {
		Handle(ctx context.Context, cmd commands.ApplyFulfillmentUpdatesCommand) (commands.FulfillmentUpdateResult, error)
	}
	OrderGetter interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (views.OrderView, error)
	}
	OrderLister interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) ([]views.OrderView, error)
	}
	TeamOrderLister interface {
		Handle(ctx context.Context, query queries.GetTeamOrdersQuery) ([]views.OrderView, error)
	}
	ProgressGetter interface {
		Handle(ctx context.Context, query queries.GetOrderProgressQuery) (views.ProgressView, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder   OrderCreator
	EditOrder     OrderEditor
	DeleteOrder   OrderDeleter
	ApplyUpdates  FulfillmentUpdater
	GetOrder      OrderGetter
	ListOrders    OrderLister
	GetTeamOrders TeamOrderLister
	GetProgress   ProgressGetter
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	logger   *zap.Logger
	now      func() time.Time
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(handlers Handlers, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		handlers: handlers,
		logger:   logger.With(zap.String("component", "http_server")),
		now:      time.Now,
	}
}

// CreateOrder handles POST /api/v1/orders - registers a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: CodeInvalidRequest, Message: "Invalid request body"})
	}

	items, err := toItemInputs(body.Items)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(
		body.OrderNumber, body.DispatcherName, body.CustomerName, items, toCostEstimateInput(body.CostEstimate),
	)
	if err != nil {
		return s.writeError(ctx, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+created.Number().String())
	return ctx.JSON(http.StatusCreated, views.FromOrder(created))
}

// ListOrders handles GET /api/v1/orders - lists orders of one type.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	query, err := queries.NewListOrdersQuery(deref(params.OrderType))
	if err != nil {
		return s.writeError(ctx, err)
	}

	orders, err := s.handlers.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/v1/orders/{orderNumber} - returns the full snapshot.
func (s *Server) GetOrder(ctx echo.Context, orderNumber string) error {
	query, err := queries.NewGetOrderQuery(orderNumber)
	if err != nil {
		return s.writeError(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// EditOrder handles PUT /api/v1/orders/{orderNumber} - replaces the item tree.
func (s *Server) EditOrder(ctx echo.Context, orderNumber string) error {
	var body OrderEdit
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: CodeInvalidRequest, Message: "Invalid request body"})
	}

	items, err := toItemInputs(body.Items)
	if err != nil {
		return s.writeError(ctx, err)
	}

	cmd, err := commands.NewEditOrderCommand(
		orderNumber, body.DispatcherName, body.CustomerName, items, toCostEstimateInput(body.CostEstimate),
	)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.EditOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}

	dropped := make([]DroppedProgress, 0, len(result.Dropped))
	for _, d := range result.Dropped {
		dropped = append(dropped, DroppedProgress{
			ItemName:       d.ItemName,
			AssignmentID:   d.AssignmentID.String(),
			Category:       d.Category.String(),
			SpecName:       d.SpecName,
			TotalCompleted: d.TotalCompleted,
		})
	}
	return ctx.JSON(http.StatusOK, EditResult{
		Order:   views.FromOrder(result.Order),
		Carried: result.Carried,
		Dropped: dropped,
	})
}

// DeleteOrder handles DELETE /api/v1/orders/{orderNumber} - removes the whole order tree.
func (s *Server) DeleteOrder(ctx echo.Context, orderNumber string) error {
	cmd, err := commands.NewDeleteOrderCommand(orderNumber)
	if err != nil {
		return s.writeError(ctx, err)
	}

	if err = s.handlers.DeleteOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// ApplyFulfillmentUpdates handles PATCH /api/v1/orders/{orderNumber}/fulfillment -
// records ledger entries and an optional QC verdict atomically.
func (s *Server) ApplyFulfillmentUpdates(ctx echo.Context, orderNumber string) error {
	var body FulfillmentUpdate
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: CodeInvalidRequest, Message: "Invalid request body"})
	}

	cmd, err := s.toFulfillmentCommand(orderNumber, body)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.ApplyUpdates.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toFulfillmentResult(result))
}

// SetQCVerdict handles PUT /api/v1/orders/{orderNumber}/qc - sets the QC verdict alone.
func (s *Server) SetQCVerdict(ctx echo.Context, orderNumber string) error {
	var body QCVerdict
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{Code: CodeInvalidRequest, Message: "Invalid request body"})
	}

	verdict, err := order.ParseQCStatus(body.QCStatus)
	if err != nil {
		return s.writeError(ctx, err)
	}
	cmd, err := commands.NewSetQCVerdictCommand(orderNumber, verdict)
	if err != nil {
		return s.writeError(ctx, err)
	}

	result, err := s.handlers.ApplyUpdates.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, toFulfillmentResult(result))
}

// GetOrderProgress handles GET /api/v1/orders/{orderNumber}/progress - the customer view.
func (s *Server) GetOrderProgress(ctx echo.Context, orderNumber string) error {
	query, err := queries.NewGetOrderProgressQuery(orderNumber)
	if err != nil {
		return s.writeError(ctx, err)
	}

	progress, err := s.handlers.GetProgress.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, progress)
}

// GetTeamOrders handles GET /api/v1/teams/{category}/orders - one team's work list.
func (s *Server) GetTeamOrders(ctx echo.Context, category string, params GetTeamOrdersParams) error {
	query, err := queries.NewGetTeamOrdersQuery(category, deref(params.OrderType))
	if err != nil {
		return s.writeError(ctx, err)
	}

	orders, err := s.handlers.GetTeamOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.writeError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orders)
}

func (s *Server) toFulfillmentCommand(orderNumber string, body FulfillmentUpdate) (commands.ApplyFulfillmentUpdatesCommand, error) {
	var itemID *kernel.UUID
	if body.ItemID != nil {
		id, err := kernel.UUIDFromString(*body.ItemID)
		if err != nil {
			return commands.ApplyFulfillmentUpdatesCommand{}, errs.NewValueIsInvalidErrorWithCause("itemId", err)
		}
		itemID = &id
	}

	updates := make([]commands.ProgressUpdate, 0, len(body.Updates))
	for _, u := range body.Updates {
		update, err := s.toProgressUpdate(u)
		if err != nil {
			return commands.ApplyFulfillmentUpdatesCommand{}, err
		}
		updates = append(updates, update)
	}

	var verdict *order.QCStatus
	if body.QCStatus != nil {
		v, err := order.ParseQCStatus(*body.QCStatus)
		if err != nil {
			return commands.ApplyFulfillmentUpdatesCommand{}, err
		}
		verdict = &v
	}

	return commands.NewApplyFulfillmentUpdatesCommand(orderNumber, itemID, updates, verdict)
}

func (s *Server) toProgressUpdate(u ProgressUpdate) (commands.ProgressUpdate, error) {
	assignmentID, err := kernel.UUIDFromString(u.AssignmentID)
	if err != nil {
		return commands.ProgressUpdate{}, errs.NewValueIsInvalidErrorWithCause("assignmentId", err)
	}

	entryID := kernel.NewUUID()
	if u.Entry.EntryID != nil {
		if entryID, err = kernel.UUIDFromString(*u.Entry.EntryID); err != nil {
			return commands.ProgressUpdate{}, errs.NewValueIsInvalidErrorWithCause("entry.entryId", err)
		}
	}

	date := s.now()
	if u.Entry.Date != nil {
		date = *u.Entry.Date
	}

	entry, err := order.NewEntry(entryID, u.Entry.Quantity, date, u.Entry.Author)
	if err != nil {
		return commands.ProgressUpdate{}, err
	}

	update := commands.ProgressUpdate{
		AssignmentID:  assignmentID,
		Entry:         entry,
		ExpectedTotal: u.NewTotalCompleted,
	}
	if u.NewStatus != nil {
		status, parseErr := order.ParseStatus(*u.NewStatus)
		if parseErr != nil {
			return commands.ProgressUpdate{}, parseErr
		}
		update.ExpectedStatus = &status
	}
	return update, nil
}

func toItemInputs(items []NewItem) ([]commands.ItemInput, error) {
	out := make([]commands.ItemInput, 0, len(items))
	for _, item := range items {
		assignments := make([]commands.AssignmentInput, 0, len(item.Assignments))
		for _, a := range item.Assignments {
			category, err := kernel.ParseCategory(a.Category)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, commands.AssignmentInput{
				Category:   category,
				Team:       a.Team,
				SpecName:   a.SpecName,
				Attributes: a.Attributes,
				Quantity:   a.Quantity,
			})
		}
		out = append(out, commands.ItemInput{Name: item.Name, Assignments: assignments})
	}
	return out, nil
}

func toCostEstimateInput(c *CostEstimate) *commands.CostEstimateInput {
	if c == nil {
		return nil
	}
	return &commands.CostEstimateInput{
		ItemsCost:           c.ItemsCost,
		ShippingAndHandling: c.ShippingAndHandling,
		Taxes:               c.Taxes,
		AdditionalFees:      c.AdditionalFees,
	}
}

func toFulfillmentResult(result commands.FulfillmentUpdateResult) FulfillmentResult {
	updated := make([]AssignmentResult, 0, len(result.UpdatedAssignments))
	for _, a := range result.UpdatedAssignments {
		updated = append(updated, AssignmentResult{
			AssignmentID:   a.AssignmentID.String(),
			NewStatus:      a.Status.String(),
			TotalCompleted: a.TotalCompleted,
			Applied:        a.Applied,
		})
	}
	return FulfillmentResult{
		Order:              views.FromOrder(result.Order),
		UpdatedAssignments: updated,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
