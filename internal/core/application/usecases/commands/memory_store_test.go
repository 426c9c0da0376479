package commands_test

import (
	"context"
	"sort"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

// memoryStore is a transactional in-memory entity store. Every read returns a
// deep copy, every write stores one, and a transaction works on a private copy
// of the committed state that replaces it on commit.
type memoryStore struct {
	t         *testing.T
	committed map[string]*order.Order
	published []order.FulfillmentChanged

	// conflicts makes the next order lock attempts fail with a retryable conflict.
	conflicts int
	begins    int
	saves     int
	// orderUpdates counts order header writes.
	orderUpdates int
}

func newMemoryStore(t *testing.T) *memoryStore {
	return &memoryStore{t: t, committed: make(map[string]*order.Order)}
}

// seed stores o as committed state without publishing anything.
func (s *memoryStore) seed(o *order.Order) {
	s.committed[o.Number().String()] = s.cloneOrder(o, true)
}

// order returns a copy of the committed order.
func (s *memoryStore) order(number kernel.OrderNumber) *order.Order {
	o, ok := s.committed[number.String()]
	require.True(s.t, ok, "order %s is not stored", number)
	return s.cloneOrder(o, true)
}

func (s *memoryStore) Create() commands.UoW {
	return &memoryUoW{store: s}
}

// orderFactory adapts the store to commands.OrderUoWFactory.
type orderFactory struct{ store *memoryStore }

func (f orderFactory) Create() commands.OrderUoW { return f.store.Create() }

type memoryUoW struct {
	store   *memoryStore
	working map[string]*order.Order
	tracked []*order.Order
}

func (u *memoryUoW) Begin(context.Context) error {
	if u.working != nil {
		return nil
	}
	u.store.begins++
	u.working = make(map[string]*order.Order, len(u.store.committed))
	for k, o := range u.store.committed {
		u.working[k] = u.store.cloneOrder(o, true)
	}
	u.tracked = nil
	return nil
}

func (u *memoryUoW) Commit(context.Context) error {
	if u.working == nil {
		return errs.NewStoreFaultError("commit", nil)
	}
	u.store.committed = u.working
	u.working = nil
	for _, o := range u.tracked {
		u.store.published = append(u.store.published, o.DomainEvents()...)
		o.ClearDomainEvents()
	}
	u.tracked = nil
	return nil
}

func (u *memoryUoW) Rollback(context.Context) error {
	if u.working == nil {
		return errs.NewStoreFaultError("rollback", nil)
	}
	u.working = nil
	u.tracked = nil
	return nil
}

func (u *memoryUoW) state() map[string]*order.Order {
	if u.working != nil {
		return u.working
	}
	return u.store.committed
}

func (u *memoryUoW) track(o *order.Order) {
	for _, existing := range u.tracked {
		if existing == o {
			return
		}
	}
	u.tracked = append(u.tracked, o)
}

func (u *memoryUoW) OrderRepository() ports.OrderRepository           { return memoryOrders{u} }
func (u *memoryUoW) ItemRepository() ports.ItemRepository             { return memoryItems{u} }
func (u *memoryUoW) AssignmentRepository() ports.AssignmentRepository { return memoryAssignments{u} }

type memoryOrders struct{ u *memoryUoW }

func (r memoryOrders) Add(_ context.Context, o *order.Order) error {
	state := r.u.state()
	if _, exists := state[o.Number().String()]; exists {
		return errs.NewObjectAlreadyExistsError("order", o.Number().String())
	}
	state[o.Number().String()] = r.u.store.cloneOrder(o, true)
	r.u.track(o)
	return nil
}

func (r memoryOrders) Update(_ context.Context, o *order.Order) error {
	state := r.u.state()
	stored, ok := state[o.Number().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.Number().String())
	}
	header := r.u.store.cloneOrder(o, false)
	require.NoError(r.u.store.t, header.AttachItems(stored.Items()))
	state[o.Number().String()] = header
	r.u.store.orderUpdates++
	r.u.track(o)
	return nil
}

func (r memoryOrders) Get(_ context.Context, number kernel.OrderNumber) (*order.Order, error) {
	stored, ok := r.u.state()[number.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", number.String())
	}
	return r.u.store.cloneOrder(stored, true), nil
}

func (r memoryOrders) GetForUpdate(_ context.Context, number kernel.OrderNumber) (*order.Order, error) {
	if r.u.store.conflicts > 0 {
		r.u.store.conflicts--
		return nil, errs.NewRetryableConflictError("lock order", nil)
	}
	stored, ok := r.u.state()[number.String()]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", number.String())
	}
	return r.u.store.cloneOrder(stored, false), nil
}

func (r memoryOrders) ReplaceItems(_ context.Context, o *order.Order) error {
	state := r.u.state()
	stored, ok := state[o.Number().String()]
	if !ok {
		return errs.NewObjectNotFoundError("order", o.Number().String())
	}
	header := r.u.store.cloneOrder(stored, false)
	items := make([]*order.Item, 0)
	for _, it := range o.Items() {
		items = append(items, r.u.store.cloneItem(it))
	}
	require.NoError(r.u.store.t, header.AttachItems(items))
	state[o.Number().String()] = header
	r.u.track(o)
	return nil
}

func (r memoryOrders) Delete(_ context.Context, number kernel.OrderNumber) error {
	state := r.u.state()
	if _, ok := state[number.String()]; !ok {
		return errs.NewObjectNotFoundError("order", number.String())
	}
	delete(state, number.String())
	return nil
}

func (r memoryOrders) List(ctx context.Context, filter ports.OrderFilter) ([]*order.Order, error) {
	numbers, err := r.ListNumbers(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]*order.Order, 0, len(numbers))
	for _, n := range numbers {
		out = append(out, r.u.store.cloneOrder(r.u.state()[n.String()], true))
	}
	return out, nil
}

func (r memoryOrders) ListNumbers(_ context.Context, filter ports.OrderFilter) ([]kernel.OrderNumber, error) {
	out := make([]kernel.OrderNumber, 0)
	for _, o := range r.u.state() {
		if !matches(o, filter) {
			continue
		}
		out = append(out, o.Number())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func matches(o *order.Order, filter ports.OrderFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, s := range filter.Statuses {
			found = found || o.Status() == s
		}
		if !found {
			return false
		}
	}
	if filter.Category != "" {
		for _, c := range o.Categories() {
			if c == filter.Category {
				return true
			}
		}
		return false
	}
	return true
}

type memoryItems struct{ u *memoryUoW }

func (r memoryItems) Get(_ context.Context, id kernel.UUID) (*order.Item, error) {
	for _, o := range r.u.state() {
		if it, ok := o.Item(id); ok {
			return r.u.store.cloneItem(it), nil
		}
	}
	return nil, errs.NewObjectNotFoundError("item", id.String())
}

func (r memoryItems) ListByOrder(_ context.Context, number kernel.OrderNumber) ([]*order.Item, error) {
	stored, ok := r.u.state()[number.String()]
	if !ok {
		return []*order.Item{}, nil
	}
	out := make([]*order.Item, 0)
	for _, it := range stored.Items() {
		out = append(out, r.u.store.cloneItem(it))
	}
	return out, nil
}

func (r memoryItems) UpdateTeamStatus(_ context.Context, item *order.Item) error {
	return r.u.replaceItem(item.ID(), func(stored *order.Item) *order.Item {
		restored, err := order.RestoreItem(
			stored.ID(), stored.OrderNumber(), stored.Name(), stored.Position(),
			stored.AllAssignments(), item.TeamStatus(),
		)
		require.NoError(r.u.store.t, err)
		return restored
	})
}

type memoryAssignments struct{ u *memoryUoW }

func (r memoryAssignments) GetForUpdate(_ context.Context, id kernel.UUID) (*order.Assignment, error) {
	for _, o := range r.u.state() {
		for _, it := range o.Items() {
			if a, ok := it.Assignment(id); ok {
				return r.u.store.cloneAssignment(a), nil
			}
		}
	}
	return nil, errs.NewObjectNotFoundError("assignment", id.String())
}

func (r memoryAssignments) Save(_ context.Context, a *order.Assignment) error {
	saved := r.u.store.cloneAssignment(a)
	err := r.u.replaceItem(a.ItemID(), func(stored *order.Item) *order.Item {
		assignments := make([]*order.Assignment, 0)
		for _, existing := range stored.AllAssignments() {
			if existing.ID().IsEqual(a.ID()) {
				existing = saved
			}
			assignments = append(assignments, existing)
		}
		restored, restoreErr := order.RestoreItem(
			stored.ID(), stored.OrderNumber(), stored.Name(), stored.Position(),
			assignments, stored.TeamStatus(),
		)
		require.NoError(r.u.store.t, restoreErr)
		return restored
	})
	if err != nil {
		return err
	}
	r.u.store.saves++
	a.MarkEntriesPersisted()
	return nil
}

func (r memoryAssignments) ListByItemCategory(
	ctx context.Context,
	itemID kernel.UUID,
	category kernel.Category,
) ([]*order.Assignment, error) {
	it, err := memoryItems(r).Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return it.Assignments(category), nil
}

func (u *memoryUoW) replaceItem(id kernel.UUID, replace func(stored *order.Item) *order.Item) error {
	state := u.state()
	for key, o := range state {
		if _, ok := o.Item(id); !ok {
			continue
		}
		items := make([]*order.Item, 0)
		for _, it := range o.Items() {
			if it.ID().IsEqual(id) {
				it = replace(it)
			}
			items = append(items, it)
		}
		header := u.store.cloneOrder(o, false)
		require.NoError(u.store.t, header.AttachItems(items))
		state[key] = header
		return nil
	}
	return errs.NewObjectNotFoundError("item", id.String())
}

func (s *memoryStore) cloneOrder(o *order.Order, withItems bool) *order.Order {
	clone, err := order.RestoreOrder(
		o.ID(), o.Number(), o.Dispatcher(), o.Customer(),
		o.Status(), o.QCStatus(), o.CostEstimate(), o.CreatedAt(),
	)
	require.NoError(s.t, err)
	if !withItems {
		return clone
	}
	items := make([]*order.Item, 0)
	for _, it := range o.Items() {
		items = append(items, s.cloneItem(it))
	}
	require.NoError(s.t, clone.AttachItems(items))
	return clone
}

func (s *memoryStore) cloneItem(it *order.Item) *order.Item {
	assignments := make([]*order.Assignment, 0)
	for _, a := range it.AllAssignments() {
		assignments = append(assignments, s.cloneAssignment(a))
	}
	clone, err := order.RestoreItem(it.ID(), it.OrderNumber(), it.Name(), it.Position(), assignments, it.TeamStatus())
	require.NoError(s.t, err)
	return clone
}

func (s *memoryStore) cloneAssignment(a *order.Assignment) *order.Assignment {
	clone, err := order.RestoreAssignment(
		a.ID(), a.ItemID(), a.Category(), a.Team(), a.Spec(), a.Quantity(),
		a.Status(), a.TotalCompleted(), a.Entries(),
	)
	require.NoError(s.t, err)
	return clone
}
