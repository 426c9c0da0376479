package cmd

import (
	"context"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	logger     *zap.Logger
	uowFactory *postgres.GormUnitOfWorkFactory
}

// NewCompositionRoot wires the store, the optional change publisher and the use
// cases. publisher may be nil, which disables change notifications.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, publisher ports.EventPublisher, logger *zap.Logger) (CompositionRoot, error) {
	isolation, err := cfg.DB.IsolationLevel()
	if err != nil {
		return CompositionRoot{}, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		logger:     logger,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, isolation, publisher, logger),
	}, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateEditOrderCommandHandler() commands.EditOrderCommandHandler {
	return commands.NewEditOrderCommandHandler(c.uoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateApplyFulfillmentUpdatesCommandHandler() commands.ApplyFulfillmentUpdatesCommandHandler {
	return commands.NewApplyFulfillmentUpdatesCommandHandler(c.uoWFactory(), c.cfg.DB.MaxConflictRetries)
}

func (c *CompositionRoot) CreateReconcileRollupsCommandHandler() commands.ReconcileRollupsCommandHandler {
	return commands.NewReconcileRollupsCommandHandler(c.uoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetTeamOrdersQueryHandler() queries.GetTeamOrdersQueryHandler {
	return queries.NewGetTeamOrdersQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

func (c *CompositionRoot) CreateGetOrderProgressQueryHandler() queries.GetOrderProgressQueryHandler {
	return queries.NewGetOrderProgressQueryHandler(orderrepo.NewGormOrderReader(c.gormDB))
}

// CreateHTTPServer builds the echo instance with every API route.
func (c *CompositionRoot) CreateHTTPServer(ctx context.Context) (*echo.Echo, error) {
	createOrder := c.CreateCreateOrderCommandHandler()
	server := httpin.NewServer(httpin.Handlers{
		CreateOrder:   &createOrder,
		EditOrder:     c.CreateEditOrderCommandHandler(),
		DeleteOrder:   c.CreateDeleteOrderCommandHandler(),
		ApplyUpdates:  c.CreateApplyFulfillmentUpdatesCommandHandler(),
		GetOrder:      c.CreateGetOrderQueryHandler(),
		ListOrders:    c.CreateListOrdersQueryHandler(),
		GetTeamOrders: c.CreateGetTeamOrdersQueryHandler(),
		GetProgress:   c.CreateGetOrderProgressQueryHandler(),
	}, c.logger)
	return httpin.NewRouter(ctx, server, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateReconcileRollupsCommandHandler(), c.cfg.Jobs.ReconcileSchedule, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
