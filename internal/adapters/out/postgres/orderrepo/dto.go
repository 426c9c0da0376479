// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order aggregate and its
// owned entities (items, assignments and ledger entries), handling the conversion
// between domain entities and database representations.
//
// The order tree is stored in four tables, each row referencing its parent:
//
//	orders  1-n  order_items  1-n  assignments  1-n  assignment_entries
//
// Rows are always written level by level with associations omitted, so GORM never
// upserts a child implicitly; reads use Preload ordered by position.
package orderrepo

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// OrderDTO represents the database structure for the order header.
// Categories duplicates the union of the item categories so per-team listings can
// filter with "? = ANY(categories)" without joining the whole tree.
type OrderDTO struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Number         string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	DispatcherName string         `gorm:"type:varchar(255);not null"`
	CustomerName   string         `gorm:"type:varchar(255);not null"`
	Status         int            `gorm:"type:smallint;not null;index"`
	QCStatus       int            `gorm:"column:qc_status;type:smallint;not null"`
	Categories     pq.StringArray `gorm:"type:text[]"`
	CostEstimate   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt      time.Time      `gorm:"not null"`
	UpdatedAt      time.Time
	Items          []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order headers.
func (OrderDTO) TableName() string {
	return "orders"
}

// CostEstimateDTO is the JSON document stored in orders.cost_estimate.
// Amounts are serialized as decimal strings to keep cents exact.
type CostEstimateDTO struct {
	ItemsCost           decimal.Decimal `json:"itemsCost"`
	ShippingAndHandling decimal.Decimal `json:"shippingAndHandling"`
	Taxes               decimal.Decimal `json:"taxes"`
	AdditionalFees      decimal.Decimal `json:"additionalFees"`
}

// ItemDTO represents one order line. TeamStatus maps category names to status names.
type ItemDTO struct {
	ID          uuid.UUID                             `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID                             `gorm:"type:uuid;not null;index"`
	OrderNumber string                                `gorm:"type:varchar(64);not null;index"`
	Position    int                                   `gorm:"not null"`
	Name        string                                `gorm:"type:varchar(255);not null"`
	TeamStatus  datatypes.JSONType[map[string]string] `gorm:"type:jsonb;not null"`
	Assignments []AssignmentDTO                       `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order items.
func (ItemDTO) TableName() string {
	return "order_items"
}

// SpecDTO is the JSON document stored in assignments.spec.
type SpecDTO struct {
	Name       string            `json:"name"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// AssignmentDTO represents one assignment with its ledger total. The check
// constraints repeat the capacity rule so that no writer can bypass it.
type AssignmentDTO struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	ItemID            uuid.UUID                   `gorm:"type:uuid;not null;index:idx_assignments_item_category,priority:1"`
	Category          string                      `gorm:"type:varchar(16);not null;index:idx_assignments_item_category,priority:2"`
	Team              string                      `gorm:"type:varchar(255);not null"`
	Spec              datatypes.JSONType[SpecDTO] `gorm:"type:jsonb;not null"`
	Quantity          int                         `gorm:"not null;check:chk_assignments_quantity,quantity > 0"`
	TotalCompletedQty int                         `gorm:"column:total_completed_qty;not null;default:0;check:chk_assignments_total,total_completed_qty >= 0 AND total_completed_qty <= quantity"`
	Status            int                         `gorm:"type:smallint;not null"`
	Position          int                         `gorm:"not null"`
	Entries           []EntryDTO                  `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for assignments.
func (AssignmentDTO) TableName() string {
	return "assignments"
}

// EntryDTO represents one ledger entry. The entry ID doubles as the idempotency
// key of the report that produced it.
type EntryDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	AssignmentID uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq          int       `gorm:"not null"`
	Quantity     int       `gorm:"not null;check:chk_entries_quantity,quantity > 0"`
	RecordedAt   time.Time `gorm:"not null"`
	Author       string    `gorm:"type:varchar(255);not null"`
}

// TableName specifies the database table name for ledger entries.
func (EntryDTO) TableName() string {
	return "assignment_entries"
}

// Models lists every table of the order tree in migration order.
func Models() []any {
	return []any{&OrderDTO{}, &ItemDTO{}, &AssignmentDTO{}, &EntryDTO{}}
}

// fromDomain converts the order header to its database representation.
// Items are mapped separately by treeFromDomain.
func fromDomain(o *order.Order) (OrderDTO, error) {
	categories := make(pq.StringArray, 0)
	for _, c := range o.Categories() {
		categories = append(categories, c.String())
	}

	var cost datatypes.JSON
	if ce := o.CostEstimate(); ce != nil {
		raw, err := json.Marshal(CostEstimateDTO{
			ItemsCost:           ce.ItemsCost(),
			ShippingAndHandling: ce.ShippingAndHandling(),
			Taxes:               ce.Taxes(),
			AdditionalFees:      ce.AdditionalFees(),
		})
		if err != nil {
			return OrderDTO{}, err
		}
		cost = raw
	}

	return OrderDTO{
		ID:             o.ID().Bytes(),
		Number:         o.Number().String(),
		DispatcherName: o.Dispatcher(),
		CustomerName:   o.Customer(),
		Status:         int(o.Status()),
		QCStatus:       int(o.QCStatus()),
		Categories:     categories,
		CostEstimate:   cost,
		CreatedAt:      o.CreatedAt(),
	}, nil
}

// treeFromDomain flattens the item tree of o into one slice per table.
func treeFromDomain(o *order.Order) ([]ItemDTO, []AssignmentDTO, []EntryDTO) {
	items := make([]ItemDTO, 0)
	assignments := make([]AssignmentDTO, 0)
	entries := make([]EntryDTO, 0)

	for _, it := range o.Items() {
		items = append(items, itemFromDomain(o.ID(), it))
		for pos, a := range it.AllAssignments() {
			assignments = append(assignments, assignmentFromDomain(a, pos))
			entries = append(entries, entriesFromDomain(a.ID(), a.Entries(), 0)...)
		}
	}

	return items, assignments, entries
}

func itemFromDomain(orderID kernel.UUID, it *order.Item) ItemDTO {
	return ItemDTO{
		ID:          it.ID().Bytes(),
		OrderID:     orderID.Bytes(),
		OrderNumber: it.OrderNumber().String(),
		Position:    it.Position(),
		Name:        it.Name(),
		TeamStatus:  datatypes.NewJSONType(teamStatusFromDomain(it)),
	}
}

func teamStatusFromDomain(it *order.Item) map[string]string {
	out := make(map[string]string)
	for c, s := range it.TeamStatus() {
		out[c.String()] = s.String()
	}
	return out
}

func assignmentFromDomain(a *order.Assignment, position int) AssignmentDTO {
	return AssignmentDTO{
		ID:       a.ID().Bytes(),
		ItemID:   a.ItemID().Bytes(),
		Category: a.Category().String(),
		Team:     a.Team(),
		Spec: datatypes.NewJSONType(SpecDTO{
			Name:       a.Spec().Name(),
			Attributes: a.Spec().Attributes(),
		}),
		Quantity:          a.Quantity(),
		TotalCompletedQty: a.TotalCompleted(),
		Status:            int(a.Status()),
		Position:          position,
	}
}

// entriesFromDomain maps ledger entries, numbering them from firstSeq.
func entriesFromDomain(assignmentID kernel.UUID, entries []order.Entry, firstSeq int) []EntryDTO {
	out := make([]EntryDTO, 0, len(entries))
	for i, e := range entries {
		out = append(out, EntryDTO{
			ID:           e.ID().Bytes(),
			AssignmentID: assignmentID.Bytes(),
			Seq:          firstSeq + i,
			Quantity:     e.Quantity(),
			RecordedAt:   e.RecordedAt(),
			Author:       e.Author(),
		})
	}
	return out
}

// toDomain rebuilds the order header and, when loaded, its item tree.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	number, err := kernel.NewOrderNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	var cost *order.CostEstimate
	if len(dto.CostEstimate) > 0 && string(dto.CostEstimate) != "null" {
		var raw CostEstimateDTO
		if err = json.Unmarshal(dto.CostEstimate, &raw); err != nil {
			return nil, err
		}
		ce, ceErr := order.NewCostEstimate(raw.ItemsCost, raw.ShippingAndHandling, raw.Taxes, raw.AdditionalFees)
		if ceErr != nil {
			return nil, ceErr
		}
		cost = &ce
	}

	o, err := order.RestoreOrder(
		id,
		number,
		dto.DispatcherName,
		dto.CustomerName,
		order.Status(dto.Status),
		order.QCStatus(dto.QCStatus),
		cost,
		dto.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(dto.Items) == 0 {
		return o, nil
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		it, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, it)
	}
	if err = o.AttachItems(items); err != nil {
		return nil, err
	}

	return o, nil
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	number, err := kernel.NewOrderNumber(dto.OrderNumber)
	if err != nil {
		return nil, err
	}

	assignments := make([]*order.Assignment, 0, len(dto.Assignments))
	for _, aDTO := range dto.Assignments {
		a, aErr := assignmentToDomain(aDTO)
		if aErr != nil {
			return nil, aErr
		}
		assignments = append(assignments, a)
	}

	teamStatus := make(map[kernel.Category]order.Status)
	for rawCategory, rawStatus := range dto.TeamStatus.Data() {
		c, cErr := kernel.ParseCategory(rawCategory)
		if cErr != nil {
			return nil, cErr
		}
		s, sErr := order.ParseStatus(rawStatus)
		if sErr != nil {
			return nil, sErr
		}
		teamStatus[c] = s
	}

	return order.RestoreItem(id, number, dto.Name, dto.Position, assignments, teamStatus)
}

func assignmentToDomain(dto AssignmentDTO) (*order.Assignment, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	itemID, err := kernel.UUIDFromGoogle(dto.ItemID)
	if err != nil {
		return nil, err
	}
	category, err := kernel.ParseCategory(dto.Category)
	if err != nil {
		return nil, err
	}

	specDTO := dto.Spec.Data()
	spec, err := order.NewSpec(category, specDTO.Name, specDTO.Attributes)
	if err != nil {
		return nil, err
	}

	entries := make([]order.Entry, 0, len(dto.Entries))
	for _, eDTO := range dto.Entries {
		entryID, idErr := kernel.UUIDFromGoogle(eDTO.ID)
		if idErr != nil {
			return nil, idErr
		}
		e, eErr := order.NewEntry(entryID, eDTO.Quantity, eDTO.RecordedAt, eDTO.Author)
		if eErr != nil {
			return nil, eErr
		}
		entries = append(entries, e)
	}

	return order.RestoreAssignment(
		id,
		itemID,
		category,
		dto.Team,
		spec,
		dto.Quantity,
		order.Status(dto.Status),
		dto.TotalCompletedQty,
		entries,
	)
}
