// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains a list of objects affected by a business
// transaction and coordinates writing out changes and resolving concurrency problems.
//
// Key Features:
//   - Transaction management across the order, item and assignment repositories
//   - Configurable isolation level for every transaction it opens
//   - Aggregate tracking for domain event publishing after commit
//   - Store errors translated to conflicts, duplicates and faults
//
// Usage Patterns:
//
//	factory := NewGormUnitOfWorkFactory(db, sql.LevelRepeatableRead, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	o, err := uow.OrderRepository().GetForUpdate(ctx, number)
//	if err != nil {
//	    return err
//	}
//	// mutate o, save through the repositories
//
//	return uow.Commit(ctx)
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Writers of the same order serialize on the order row lock taken by
//     OrderRepository.GetForUpdate; serialization failures surface as retryable
//     errs.ConflictError values so the caller can re-run the whole operation
//
// Event Publishing:
//
// Orders written through OrderRepository are tracked. After a successful commit
// the unit of work hands every raised FulfillmentChanged event to the configured
// publisher. A failed publication is logged and never reported as a failure of
// the committed transaction. Nothing is published after a rollback.
package postgres

import (
	"context"
	"database/sql"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate modified during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is implemented by aggregates that raise fulfillment events.
type eventSource interface {
	DomainEvents() []order.FulfillmentChanged
	ClearDomainEvents()
}

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	isolation sql.IsolationLevel
	publisher ports.EventPublisher
	logger    *zap.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// A nil publisher disables event publishing and a nil logger disables logging.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, sql.LevelRepeatableRead, notifier, logger)
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	isolation sql.IsolationLevel,
	publisher ports.EventPublisher,
	logger *zap.Logger,
) *GormUnitOfWorkFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormUnitOfWorkFactory{
		db:        db,
		isolation: isolation,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "unit_of_work")),
	}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
// Each instance maintains its own transaction state and aggregate tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		isolation:         f.isolation,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates database transactions and tracks aggregate changes
// for business operations. Implements the Unit of Work pattern using GORM's
// transaction capabilities to ensure data consistency and proper rollback handling.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	isolation         sql.IsolationLevel
	publisher         ports.EventPublisher
	logger            *zap.Logger
	trackedAggregates []trackedAggregate
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations will execute within this transaction context.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	tx := uow.db.WithContext(ctx).Begin(&sql.TxOptions{Isolation: uow.isolation})
	if tx.Error != nil {
		return pgerr.Translate("begin transaction", "", nil, tx.Error)
	}

	uow.tx = tx
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Commit finalizes all changes made within the current transaction and then
// publishes the events raised by the tracked aggregates.
//
// Returns error if no active transaction exists or if the commit operation fails.
// Serialization failures detected at commit are returned as retryable conflicts.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return pgerr.Translate("commit transaction", "", nil, err)
	}

	uow.publishTrackedEvents(ctx)
	return nil
}

// Rollback discards all changes made within the current transaction.
// Database returns to its state before the transaction began and tracked
// aggregates are forgotten without publishing.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// OrderRepository provides access to order persistence operations within the unit of work.
// Repository operations will execute within the current transaction if one is active,
// otherwise they use the main database connection for immediate execution.
//
// The returned repository tracks all orders that are added or updated.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

// ItemRepository provides access to item persistence operations within the unit of work.
func (uow *GormUnitOfWork) ItemRepository() ports.ItemRepository {
	return orderrepo.NewGormItemRepository(uow.conn())
}

// AssignmentRepository provides access to assignment persistence operations within the unit of work.
func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return orderrepo.NewGormAssignmentRepository(uow.conn())
}

// TrackAggregate registers a domain aggregate as modified within this unit of work.
// This method is called by repository implementations when aggregates are added
// or updated. Registering the same aggregate twice keeps a single entry.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	for i, tracked := range uow.trackedAggregates {
		if tracked.ID.IsEqual(id) {
			uow.trackedAggregates[i].Aggregate = aggregate
			return
		}
	}
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) publishTrackedEvents(ctx context.Context) {
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)

	for _, t := range tracked {
		source, ok := t.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events := source.DomainEvents()
		source.ClearDomainEvents()

		if uow.publisher == nil {
			continue
		}
		for _, event := range events {
			if err := uow.publisher.Publish(ctx, event); err != nil {
				uow.logger.Warn("failed to publish fulfillment change",
					zap.String("order_number", event.OrderNumber.String()),
					zap.String("kind", string(event.Kind)),
					zap.Error(err),
				)
			}
		}
	}
}
