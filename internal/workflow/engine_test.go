package workflow

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/dawaa/internal/models"
)

type statusUpdate struct {
	id     uuid.UUID
	status Status
}

type fakeStore struct {
	mu        sync.Mutex
	orders    map[uuid.UUID]*models.Order
	updates   []statusUpdate
	failWith  error
	listCalls int
}

func newFakeStore(orders ...*models.Order) *fakeStore {
	store := &fakeStore{orders: make(map[uuid.UUID]*models.Order)}
	for _, order := range orders {
		store.orders[order.ID] = order
	}
	return store
}

func (s *fakeStore) ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listCalls++
	var out []models.Order
	for _, order := range s.orders {
		if order.PharmacyID == pharmacyID {
			out = append(out, *order)
		}
	}
	return out, nil
}

func (s *fakeStore) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (s *fakeStore) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		return s.failWith
	}
	order, ok := s.orders[id]
	if !ok {
		return ErrOrderNotFound
	}
	s.updates = append(s.updates, statusUpdate{id: id, status: status})
	order.Status = string(status)
	return nil
}

func testLog() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

func newOrder(pharmacyID uuid.UUID, number string, status Status) *models.Order {
	return &models.Order{
		BaseModel:   models.BaseModel{ID: uuid.New()},
		OrderNumber: number,
		PharmacyID:  pharmacyID,
		Status:      string(status),
	}
}

func TestAcceptOrderHappyPath(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000001", StatusPending)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	require.NoError(t, engine.AcceptOrder(context.Background(), order.ID))

	require.Len(t, store.updates, 1)
	assert.Equal(t, StatusConfirmed, store.updates[0].status)

	// The snapshot was reloaded from the store, not patched locally.
	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, string(StatusConfirmed), orders[0].Status)
}

func TestAcceptOrderIdempotent(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000002", StatusPending)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	require.NoError(t, engine.AcceptOrder(context.Background(), order.ID))
	require.NoError(t, engine.AcceptOrder(context.Background(), order.ID))

	// The second call is a no-op: no extra status command was issued
	// and the order stays confirmed.
	assert.Len(t, store.updates, 1)
	assert.Equal(t, string(StatusConfirmed), store.orders[order.ID].Status)
}

func TestAcceptOrderPrescriptionGate(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000003", StatusPending)
	order.PrescriptionRequired = true
	order.Items = []models.OrderItem{
		{PrescriptionImages: []string{"https://cdn.example.com/rx/9.jpg"}},
	}
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	err := engine.AcceptOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrPrescriptionNotVerified)

	// The gate fails locally: no command ever reached the store.
	assert.Empty(t, store.updates)
	assert.Equal(t, string(StatusPending), store.orders[order.ID].Status)
}

func TestAcceptOrderAfterVerification(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000004", StatusPending)
	order.PrescriptionRequired = true
	order.PrescriptionVerified = boolPtr(true)
	order.Items = []models.OrderItem{
		{PrescriptionImages: []string{"https://cdn.example.com/rx/9.jpg"}},
	}
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	require.NoError(t, engine.AcceptOrder(context.Background(), order.ID))
	assert.Equal(t, string(StatusConfirmed), store.orders[order.ID].Status)
}

func TestAcceptOrderStoreFailure(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000016", StatusPending)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	store.failWith = errors.New("connection reset")
	before := store.listCalls

	err := engine.AcceptOrder(context.Background(), order.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")

	// The failure surfaces once, with no retry and no reload; the
	// snapshot still shows the pre-failure state.
	assert.Equal(t, before, store.listCalls)
	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, string(StatusPending), orders[0].Status)
}

func TestUpdateOrderStatusStoreFailure(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000017", StatusConfirmed)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	store.failWith = errors.New("connection reset")
	before := store.listCalls

	err := engine.UpdateOrderStatus(context.Background(), order.ID, StatusPreparing)
	require.Error(t, err)
	assert.Equal(t, before, store.listCalls)

	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, string(StatusConfirmed), orders[0].Status)
}

func TestAcceptOrderNotFound(t *testing.T) {
	engine := NewEngine(uuid.New(), newFakeStore(), nil, testLog())
	err := engine.AcceptOrder(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatusRejectsUnknownStatus(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000005", StatusConfirmed)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	err := engine.UpdateOrderStatus(context.Background(), order.ID, Status("shipped"))
	assert.ErrorIs(t, err, ErrUnknownStatus)
	assert.Empty(t, store.updates)
}

func TestUpdateOrderStatusReloads(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000006", StatusReady)
	store := newFakeStore(order)
	engine := NewEngine(pharmacyID, store, nil, testLog())

	before := store.listCalls
	require.NoError(t, engine.UpdateOrderStatus(context.Background(), order.ID, StatusOutForDelivery))
	assert.Greater(t, store.listCalls, before)

	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, string(StatusOutForDelivery), orders[0].Status)
}

func TestActiveOrdersExcludesDeliveredAndReturns(t *testing.T) {
	pharmacyID := uuid.New()
	store := newFakeStore(
		newOrder(pharmacyID, "ORD-000000007", StatusPending),
		newOrder(pharmacyID, "ORD-000000008", StatusDelivered),
		newOrder(pharmacyID, "ORD-000000009", StatusReturnRequested),
		newOrder(pharmacyID, "ORD-000000010", StatusOutForDelivery),
	)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	active := engine.ActiveOrders()
	assert.Len(t, active, 2)
	for _, order := range active {
		assert.NotEqual(t, string(StatusDelivered), order.Status)
		assert.NotEqual(t, string(StatusReturnRequested), order.Status)
	}
}

func TestSearchMatchesNumberNameAndPhone(t *testing.T) {
	pharmacyID := uuid.New()
	first := newOrder(pharmacyID, "ORD-000000011", StatusPending)
	first.CustomerName = "Ahmed Hassan"
	first.CustomerPhone = "+201001234567"
	second := newOrder(pharmacyID, "ORD-000000012", StatusPending)
	second.CustomerName = "Mona Said"
	second.CustomerPhone = "+201117654321"

	store := newFakeStore(first, second)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	// Name matching folds case.
	results := engine.Search("ahmed")
	require.Len(t, results, 1)
	assert.Equal(t, "ORD-000000011", results[0].OrderNumber)

	// Order number matches case-insensitively.
	results = engine.Search("ord-000000012")
	require.Len(t, results, 1)
	assert.Equal(t, "Mona Said", results[0].CustomerName)

	// Phone matches as typed.
	results = engine.Search("201111")
	assert.Empty(t, results)
	results = engine.Search("20111")
	require.Len(t, results, 1)
	assert.Equal(t, "Mona Said", results[0].CustomerName)
}

func TestSearchActiveExcludesDeliveredAndReturns(t *testing.T) {
	pharmacyID := uuid.New()
	pending := newOrder(pharmacyID, "ORD-000000018", StatusPending)
	pending.CustomerName = "Omar Farouk"
	delivered := newOrder(pharmacyID, "ORD-000000019", StatusDelivered)
	delivered.CustomerName = "Omar Nabil"
	returned := newOrder(pharmacyID, "ORD-000000020", StatusReturnRequested)
	returned.CustomerName = "Omar Adel"

	store := newFakeStore(pending, delivered, returned)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	results := engine.SearchActive("omar")
	require.Len(t, results, 1)
	assert.Equal(t, "ORD-000000018", results[0].OrderNumber)

	// The unrestricted search still reaches every order.
	assert.Len(t, engine.Search("omar"), 3)
}

func TestSnapshotFiltersOtherPharmacies(t *testing.T) {
	pharmacyID := uuid.New()
	store := newFakeStore(
		newOrder(pharmacyID, "ORD-000000013", StatusPending),
		newOrder(uuid.New(), "ORD-000000014", StatusPending),
	)
	engine := NewEngine(pharmacyID, store, nil, testLog())
	require.NoError(t, engine.Reload(context.Background()))

	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, "ORD-000000013", orders[0].OrderNumber)
}

type fakeSubscription struct {
	events chan OrderEvent
}

func (s *fakeSubscription) Updates(ctx context.Context) (<-chan OrderEvent, error) {
	return s.events, nil
}

func TestRunReloadsOnEvent(t *testing.T) {
	pharmacyID := uuid.New()
	order := newOrder(pharmacyID, "ORD-000000015", StatusPending)
	store := newFakeStore(order)
	sub := &fakeSubscription{events: make(chan OrderEvent)}
	engine := NewEngine(pharmacyID, store, sub, testLog())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = engine.Run(ctx)
		close(done)
	}()

	// An out-of-band status change followed by a push event.
	store.mu.Lock()
	store.orders[order.ID].Status = string(StatusConfirmed)
	store.mu.Unlock()

	sub.events <- OrderEvent{OrderID: order.ID, PharmacyID: pharmacyID, Status: StatusConfirmed}

	// Events for other pharmacies are ignored.
	sub.events <- OrderEvent{OrderID: uuid.New(), PharmacyID: uuid.New(), Status: StatusPending}

	cancel()
	<-done

	orders := engine.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, string(StatusConfirmed), orders[0].Status)
}
