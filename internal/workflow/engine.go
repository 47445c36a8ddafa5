package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/dawaa/internal/models"
)

var (
	// ErrPrescriptionNotVerified is the gate violation: the order needs
	// a verified prescription before it can be accepted. It is raised
	// locally and never reaches the store.
	ErrPrescriptionNotVerified = errors.New("prescription verification required before accepting this order")

	// ErrCannotAccept is the generic local refusal for orders failing
	// the acceptance check without a prescription attached.
	ErrCannotAccept = errors.New("order cannot be accepted")

	ErrOrderNotFound = errors.New("order not found")
	ErrUnknownStatus = errors.New("unknown order status")
)

// OrderStore is the authoritative order backend. UpdateStatus validates
// transition reachability; the engine deliberately does not.
type OrderStore interface {
	ListByPharmacy(ctx context.Context, pharmacyID uuid.UUID) ([]models.Order, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
}

// OrderEvent signals that orders changed for a pharmacy. It carries no
// order state; consumers re-fetch from the store.
type OrderEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	PharmacyID uuid.UUID `json:"pharmacy_id"`
	Status     Status    `json:"status"`
}

// Subscription delivers order-change events until ctx is cancelled.
type Subscription interface {
	Updates(ctx context.Context) (<-chan OrderEvent, error)
}

// Engine owns the order lifecycle for one pharmacy. It keeps a snapshot
// of the pharmacy's orders that is replaced wholesale on every reload;
// it never patches a status locally, so the snapshot always reflects
// store-confirmed truth.
type Engine struct {
	pharmacyID uuid.UUID
	store      OrderStore
	updates    Subscription
	log        *logrus.Entry

	mu     sync.RWMutex
	orders []models.Order
}

// NewEngine constructs an Engine for the given pharmacy. updates may be
// nil when no push channel is available; Run then becomes a no-op.
func NewEngine(pharmacyID uuid.UUID, store OrderStore, updates Subscription, log *logrus.Entry) *Engine {
	return &Engine{
		pharmacyID: pharmacyID,
		store:      store,
		updates:    updates,
		log:        log,
	}
}

// Reload fetches the pharmacy's full order set and replaces the snapshot.
func (e *Engine) Reload(ctx context.Context) error {
	orders, err := e.store.ListByPharmacy(ctx, e.pharmacyID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.orders = orders
	e.mu.Unlock()
	return nil
}

// Run consumes order-change pushes and reloads the snapshot on each
// event addressed to this pharmacy. Blocks until ctx is cancelled.
func (e *Engine) Run(ctx context.Context) error {
	if e.updates == nil {
		<-ctx.Done()
		return ctx.Err()
	}

	events, err := e.updates.Updates(ctx)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if event.PharmacyID != e.pharmacyID {
				continue
			}
			if err := e.Reload(ctx); err != nil {
				e.log.WithError(err).WithField("order_id", event.OrderID).
					Warn("reload after order event failed")
			}
		}
	}
}

// Orders returns a copy of the current snapshot.
func (e *Engine) Orders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]models.Order, len(e.orders))
	copy(out, e.orders)
	return out
}

// ActiveOrders returns the work queue: every snapshot order except
// delivered and return-requested ones.
func (e *Engine) ActiveOrders() []models.Order {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []models.Order
	for _, order := range e.orders {
		if Status(order.Status).InActiveQueue() {
			out = append(out, order)
		}
	}
	return out
}

// Search filters the snapshot by free text: order number and customer
// name match case-insensitively, the phone number matches as typed.
func (e *Engine) Search(query string) []models.Order {
	if query == "" {
		return e.Orders()
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	folded := strings.ToLower(query)
	var out []models.Order
	for _, order := range e.orders {
		if strings.Contains(strings.ToLower(order.OrderNumber), folded) ||
			strings.Contains(strings.ToLower(order.CustomerName), folded) ||
			strings.Contains(order.CustomerPhone, query) {
			out = append(out, order)
		}
	}
	return out
}

// SearchActive filters like Search but keeps only active-queue orders,
// so searching the work queue cannot resurface delivered or
// return-requested orders.
func (e *Engine) SearchActive(query string) []models.Order {
	var out []models.Order
	for _, order := range e.Search(query) {
		if Status(order.Status).InActiveQueue() {
			out = append(out, order)
		}
	}
	return out
}

// AcceptOrder moves a pending order to confirmed. The prescription gate
// is checked locally before any store round-trip; a gate violation is
// reported as ErrPrescriptionNotVerified so callers can show the
// specific message. Accepting an already-confirmed order is a no-op.
func (e *Engine) AcceptOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := e.store.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if Status(order.Status) == StatusConfirmed {
		return e.Reload(ctx)
	}

	if !CanAcceptOrder(order) {
		if RequiresPrescription(order) || order.PrescriptionRequired {
			return ErrPrescriptionNotVerified
		}
		return ErrCannotAccept
	}

	if err := e.store.UpdateStatus(ctx, orderID, StatusConfirmed); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"order_id":     orderID,
		"order_number": order.OrderNumber,
	}).Info("order accepted")

	return e.Reload(ctx)
}

// UpdateOrderStatus issues a status change for every forward move other
// than acceptance. Reachability from the current status is validated by
// the store, which is authoritative; the engine only rejects values
// outside the vocabulary.
func (e *Engine) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, newStatus Status) error {
	if !newStatus.IsValid() {
		return ErrUnknownStatus
	}

	if err := e.store.UpdateStatus(ctx, orderID, newStatus); err != nil {
		return err
	}

	e.log.WithFields(logrus.Fields{
		"order_id": orderID,
		"status":   newStatus,
	}).Info("order status updated")

	return e.Reload(ctx)
}
