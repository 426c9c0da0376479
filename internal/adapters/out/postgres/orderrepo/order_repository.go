package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

type discardTracker struct{}

func (discardTracker) TrackAggregate(kernel.UUID, any) {}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// NewGormOrderReader creates a repository for read paths that run outside a unit
// of work. Writes through it are not tracked, so they never publish events.
func NewGormOrderReader(db *gorm.DB) *GormOrderRepository {
	return NewGormOrderRepository(db, discardTracker{})
}

// Add saves a new order with its whole item tree.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if createErr := tx.Omit(clause.Associations).Create(&dto).Error; createErr != nil {
			return createErr
		}
		return insertTree(tx, aggregate)
	})
	if err != nil {
		return pgerr.Translate("add order", "order", aggregate.Number().String(), err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves the header of an existing order.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	// A map is used so zero values such as QCUnset are written too.
	result := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", dto.ID).Updates(map[string]any{
		"dispatcher_name": dto.DispatcherName,
		"customer_name":   dto.CustomerName,
		"status":          dto.Status,
		"qc_status":       dto.QCStatus,
		"categories":      dto.Categories,
		"cost_estimate":   dto.CostEstimate,
	})
	if result.Error != nil {
		return pgerr.Translate("update order", "order", dto.Number, result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundErrorWithCause("order", dto.Number, gorm.ErrRecordNotFound)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an order by number with its full item tree.
func (r *GormOrderRepository) Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := preloadTree(r.db.WithContext(ctx)).First(&dto, "number = ?", number.String()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number.String())
		}
		return nil, pgerr.Translate("get order", "order", number.String(), err)
	}

	return toDomain(dto)
}

// GetForUpdate retrieves the order header under a row lock.
func (r *GormOrderRepository) GetForUpdate(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "number = ?", number.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", number.String())
		}
		return nil, pgerr.Translate("lock order", "order", number.String(), err)
	}

	return toDomain(dto)
}

// ReplaceItems swaps the stored item tree for the aggregate's current one.
func (r *GormOrderRepository) ReplaceItems(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if deleteErr := deleteTree(tx, aggregate.ID()); deleteErr != nil {
			return deleteErr
		}
		return insertTree(tx, aggregate)
	})
	if err != nil {
		return pgerr.Translate("replace order items", "item", aggregate.Number().String(), err)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Delete removes the order with its items, assignments and ledger entries.
func (r *GormOrderRepository) Delete(ctx context.Context, number kernel.OrderNumber) error {
	if err := number.Validate(); err != nil {
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var dto OrderDTO
		if err := tx.Select("id").First(&dto, "number = ?", number.String()).Error; err != nil {
			return err
		}
		orderID, err := kernel.UUIDFromGoogle(dto.ID)
		if err != nil {
			return err
		}
		if err = deleteTree(tx, orderID); err != nil {
			return err
		}
		result := tx.Where("id = ?", dto.ID).Delete(&OrderDTO{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("order", number.String())
		}
		return pgerr.Translate("delete order", "order", number.String(), err)
	}

	return nil
}

// List retrieves full order trees matching the filter, newest first.
func (r *GormOrderRepository) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	var dtos []OrderDTO
	query := applyFilter(preloadTree(r.db.WithContext(ctx)), filter).Order("created_at DESC").Order("number")
	if err := query.Find(&dtos).Error; err != nil {
		return nil, pgerr.Translate("list orders", "order", "", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

// ListNumbers retrieves the numbers of matching orders, oldest first.
func (r *GormOrderRepository) ListNumbers(ctx context.Context, filter ports.OrderFilter) ([]kernel.OrderNumber, error) {
	var raw []string
	query := applyFilter(r.db.WithContext(ctx).Model(&OrderDTO{}), filter).Order("created_at").Order("number")
	if err := query.Pluck("number", &raw).Error; err != nil {
		return nil, pgerr.Translate("list order numbers", "order", "", err)
	}

	numbers := make([]kernel.OrderNumber, 0, len(raw))
	for _, s := range raw {
		n, err := kernel.NewOrderNumber(s)
		if err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}

	return numbers, nil
}

func applyFilter(db *gorm.DB, filter ports.OrderFilter) *gorm.DB {
	if len(filter.Statuses) > 0 {
		statuses := make([]int, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, int(s))
		}
		db = db.Where("status IN ?", statuses)
	}
	if filter.Category != "" {
		db = db.Where("? = ANY(categories)", filter.Category.String())
	}
	return db
}

func preloadTree(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Items.Assignments.Entries", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}

// insertTree writes the item tree of aggregate level by level.
func insertTree(tx *gorm.DB, aggregate *order.Order) error {
	items, assignments, entries := treeFromDomain(aggregate)
	if len(items) > 0 {
		if err := tx.Omit(clause.Associations).Create(&items).Error; err != nil {
			return err
		}
	}
	if len(assignments) > 0 {
		if err := tx.Omit(clause.Associations).Create(&assignments).Error; err != nil {
			return err
		}
	}
	if len(entries) > 0 {
		if err := tx.Create(&entries).Error; err != nil {
			return err
		}
	}
	return nil
}

// deleteTree removes everything below the order header. Deletion is explicit
// rather than relying on ON DELETE CASCADE so it holds on schemas created by hand.
func deleteTree(tx *gorm.DB, orderID kernel.UUID) error {
	items := tx.Model(&ItemDTO{}).Select("id").Where("order_id = ?", orderID.Bytes())
	assignments := tx.Model(&AssignmentDTO{}).Select("id").Where("item_id IN (?)", items)

	if err := tx.Where("assignment_id IN (?)", assignments).Delete(&EntryDTO{}).Error; err != nil {
		return err
	}
	if err := tx.Where("item_id IN (?)", items).Delete(&AssignmentDTO{}).Error; err != nil {
		return err
	}
	return tx.Where("order_id = ?", orderID.Bytes()).Delete(&ItemDTO{}).Error
}
