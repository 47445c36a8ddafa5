package workflow

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry hands out one long-lived Engine per pharmacy. Each engine is
// primed with a reload and then kept current by the shared update
// subscription until the registry is closed.
type Registry struct {
	store   OrderStore
	updates Subscription
	log     *logrus.Entry

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	engines map[uuid.UUID]*Engine
}

// NewRegistry constructs a Registry. updates may be nil when the
// deployment runs without a broker.
func NewRegistry(store OrderStore, updates Subscription, log *logrus.Entry) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		store:   store,
		updates: updates,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		engines: make(map[uuid.UUID]*Engine),
	}
}

// Engine returns the engine for a pharmacy, creating and starting it on
// first use.
func (r *Registry) Engine(ctx context.Context, pharmacyID uuid.UUID) (*Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if engine, ok := r.engines[pharmacyID]; ok {
		return engine, nil
	}

	engine := NewEngine(pharmacyID, r.store, r.updates, r.log.WithField("pharmacy_id", pharmacyID))
	if err := engine.Reload(ctx); err != nil {
		return nil, err
	}

	go func() {
		if err := engine.Run(r.ctx); err != nil && !errors.Is(err, context.Canceled) {
			r.log.WithError(err).WithField("pharmacy_id", pharmacyID).
				Error("order engine stopped")
		}
	}()

	r.engines[pharmacyID] = engine
	return engine, nil
}

// Close stops every running engine.
func (r *Registry) Close() {
	r.cancel()
}
