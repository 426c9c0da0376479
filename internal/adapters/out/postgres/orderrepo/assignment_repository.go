package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAssignmentRepository implements AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// GetForUpdate retrieves an assignment under a row lock. The ledger is read after
// the lock is granted so it reflects every committed entry.
func (r *GormAssignmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Assignment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	db := r.db.WithContext(ctx)

	var dto AssignmentDTO
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", id.String())
		}
		return nil, pgerr.Translate("lock assignment", "assignment", id.String(), err)
	}

	if err = db.Where("assignment_id = ?", dto.ID).Order("seq").Find(&dto.Entries).Error; err != nil {
		return nil, pgerr.Translate("load ledger", "assignment", id.String(), err)
	}

	return assignmentToDomain(dto)
}

// Save persists the ledger total, the status and the entries appended since load.
func (r *GormAssignmentRepository) Save(ctx context.Context, assignment *order.Assignment) error {
	if err := assignment.Validate(); err != nil {
		return err
	}

	newEntries := assignment.NewEntries()
	firstSeq := len(assignment.Entries()) - len(newEntries)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&AssignmentDTO{}).
			Where("id = ?", assignment.ID().Bytes()).
			Updates(map[string]any{
				"total_completed_qty": assignment.TotalCompleted(),
				"status":              int(assignment.Status()),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if len(newEntries) == 0 {
			return nil
		}
		rows := entriesFromDomain(assignment.ID(), newEntries, firstSeq)
		return tx.Create(&rows).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("assignment", assignment.ID().String())
		}
		return pgerr.Translate("save assignment", "entry", assignment.ID().String(), err)
	}

	assignment.MarkEntriesPersisted()
	return nil
}

// ListByItemCategory retrieves the assignments of one category of an item.
func (r *GormAssignmentRepository) ListByItemCategory(
	ctx context.Context,
	itemID kernel.UUID,
	category kernel.Category,
) ([]*order.Assignment, error) {
	if err := errors.Join(itemID.Validate(), category.Validate()); err != nil {
		return nil, err
	}

	var dtos []AssignmentDTO
	err := r.db.WithContext(ctx).
		Preload("Entries", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("item_id = ? AND category = ?", itemID.Bytes(), category.String()).
		Order("position").
		Find(&dtos).Error
	if err != nil {
		return nil, pgerr.Translate("list assignments", "assignment", itemID.String(), err)
	}

	assignments := make([]*order.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, aErr := assignmentToDomain(dto)
		if aErr != nil {
			return nil, aErr
		}
		assignments = append(assignments, a)
	}

	return assignments, nil
}
