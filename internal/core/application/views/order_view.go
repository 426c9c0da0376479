// Package views holds the read models of the fulfillment core. They are plain
// JSON-serializable snapshots built from the order aggregate and shared by the
// queries, the HTTP adapter and the change notifier.
package views

import (
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
)

// OrderView is the full snapshot of an order.
type OrderView struct {
	OrderNumber    string            `json:"orderNumber"`
	DispatcherName string            `json:"dispatcherName"`
	CustomerName   string            `json:"customerName"`
	Status         string            `json:"status"`
	QCStatus       string            `json:"qcStatus"`
	Categories     []string          `json:"categories"`
	CostEstimate   *CostEstimateView `json:"costEstimate,omitempty"`
	Items          []ItemView        `json:"items"`
	CreatedAt      time.Time         `json:"createdAt"`
}

// ItemView is one order line with its per-category statuses.
type ItemView struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Position    int               `json:"position"`
	TeamStatus  map[string]string `json:"teamStatus"`
	Assignments []AssignmentView  `json:"assignments"`
}

// AssignmentView is one assignment with its ledger.
type AssignmentView struct {
	ID             string            `json:"id"`
	Category       string            `json:"category"`
	Team           string            `json:"team"`
	SpecName       string            `json:"specName"`
	Attributes     map[string]string `json:"attributes,omitempty"`
	Quantity       int               `json:"quantity"`
	TotalCompleted int               `json:"totalCompleted"`
	Remaining      int               `json:"remaining"`
	Status         string            `json:"status"`
	Entries        []EntryView       `json:"entries"`
}

// EntryView is one ledger entry.
type EntryView struct {
	ID         string    `json:"id"`
	Quantity   int       `json:"quantity"`
	RecordedAt time.Time `json:"recordedAt"`
	Author     string    `json:"author"`
}

// CostEstimateView carries amounts as decimal strings.
type CostEstimateView struct {
	ItemsCost           decimal.Decimal `json:"itemsCost"`
	ShippingAndHandling decimal.Decimal `json:"shippingAndHandling"`
	Taxes               decimal.Decimal `json:"taxes"`
	AdditionalFees      decimal.Decimal `json:"additionalFees"`
	Total               decimal.Decimal `json:"total"`
}

// ProgressView is the customer view of an order. It never exposes team detail.
type ProgressView struct {
	OrderNumber string `json:"orderNumber"`
	Status      string `json:"status"`
	Percentage  int    `json:"percentage"`
	Step        int    `json:"step"`
	StepName    string `json:"stepName"`
	TotalSteps  int    `json:"totalSteps"`
}

// FromOrder builds the full snapshot of o.
func FromOrder(o *order.Order) OrderView {
	return buildOrder(o, func(kernel.Category) bool { return true })
}

// ForCategory builds the snapshot a production team sees: only items having
// assignments of category, and of those only the category's assignments and status.
func ForCategory(o *order.Order, category kernel.Category) OrderView {
	v := buildOrder(o, func(c kernel.Category) bool { return c == category })
	items := make([]ItemView, 0, len(v.Items))
	for _, it := range v.Items {
		if len(it.Assignments) > 0 {
			items = append(items, it)
		}
	}
	v.Items = items
	v.Categories = []string{category.String()}
	return v
}

// FromProgress builds the customer view of o.
func FromProgress(o *order.Order, p services.Progress) ProgressView {
	return ProgressView{
		OrderNumber: o.Number().String(),
		Status:      o.Status().String(),
		Percentage:  p.Percentage,
		Step:        p.Step,
		StepName:    p.StepName,
		TotalSteps:  p.TotalSteps,
	}
}

func buildOrder(o *order.Order, keep func(kernel.Category) bool) OrderView {
	v := OrderView{
		OrderNumber:    o.Number().String(),
		DispatcherName: o.Dispatcher(),
		CustomerName:   o.Customer(),
		Status:         o.Status().String(),
		QCStatus:       o.QCStatus().String(),
		Categories:     make([]string, 0),
		Items:          make([]ItemView, 0),
		CreatedAt:      o.CreatedAt(),
	}
	for _, c := range o.Categories() {
		v.Categories = append(v.Categories, c.String())
	}
	if ce := o.CostEstimate(); ce != nil {
		v.CostEstimate = &CostEstimateView{
			ItemsCost:           ce.ItemsCost(),
			ShippingAndHandling: ce.ShippingAndHandling(),
			Taxes:               ce.Taxes(),
			AdditionalFees:      ce.AdditionalFees(),
			Total:               ce.Total(),
		}
	}

	for _, it := range o.Items() {
		iv := ItemView{
			ID:          it.ID().String(),
			Name:        it.Name(),
			Position:    it.Position(),
			TeamStatus:  make(map[string]string),
			Assignments: make([]AssignmentView, 0),
		}
		for c, s := range it.TeamStatus() {
			if keep(c) {
				iv.TeamStatus[c.String()] = s.String()
			}
		}
		for _, a := range it.AllAssignments() {
			if keep(a.Category()) {
				iv.Assignments = append(iv.Assignments, FromAssignment(a))
			}
		}
		v.Items = append(v.Items, iv)
	}
	sort.SliceStable(v.Items, func(i, j int) bool { return v.Items[i].Position < v.Items[j].Position })

	return v
}

// FromAssignment builds the view of one assignment.
func FromAssignment(a *order.Assignment) AssignmentView {
	av := AssignmentView{
		ID:             a.ID().String(),
		Category:       a.Category().String(),
		Team:           a.Team(),
		SpecName:       a.Spec().Name(),
		Attributes:     a.Spec().Attributes(),
		Quantity:       a.Quantity(),
		TotalCompleted: a.TotalCompleted(),
		Remaining:      a.Remaining(),
		Status:         a.Status().String(),
		Entries:        make([]EntryView, 0),
	}
	for _, e := range a.Entries() {
		av.Entries = append(av.Entries, EntryView{
			ID:         e.ID().String(),
			Quantity:   e.Quantity(),
			RecordedAt: e.RecordedAt(),
			Author:     e.Author(),
		})
	}
	return av
}
