package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GormItemRepository implements ItemRepository using GORM.
type GormItemRepository struct {
	db *gorm.DB
}

// NewGormItemRepository creates a new GORM item repository.
func NewGormItemRepository(db *gorm.DB) *GormItemRepository {
	return &GormItemRepository{db: db}
}

// Get retrieves an item by ID with its assignments and ledgers.
func (r *GormItemRepository) Get(ctx context.Context, id kernel.UUID) (*order.Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ItemDTO
	if err := preloadAssignments(r.db.WithContext(ctx)).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("item", id.String())
		}
		return nil, pgerr.Translate("get item", "item", id.String(), err)
	}

	return itemToDomain(dto)
}

// ListByOrder retrieves all items of an order in position order.
func (r *GormItemRepository) ListByOrder(ctx context.Context, number kernel.OrderNumber) ([]*order.Item, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}

	var dtos []ItemDTO
	err := preloadAssignments(r.db.WithContext(ctx)).
		Where("order_number = ?", number.String()).
		Order("position").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Translate("list items", "item", number.String(), err)
	}

	items := make([]*order.Item, 0, len(dtos))
	for _, dto := range dtos {
		it, itemErr := itemToDomain(dto)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, it)
	}

	return items, nil
}

// UpdateTeamStatus persists the category statuses of an item.
func (r *GormItemRepository) UpdateTeamStatus(ctx context.Context, item *order.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Where("id = ?", item.ID().Bytes()).
		Update("team_status", datatypes.NewJSONType(teamStatusFromDomain(item)))
	if result.Error != nil {
		return pgerr.Translate("update item status", "item", item.ID().String(), result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("item", item.ID().String())
	}

	return nil
}

func preloadAssignments(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Assignments.Entries", func(db *gorm.DB) *gorm.DB { return db.Order("seq") })
}
