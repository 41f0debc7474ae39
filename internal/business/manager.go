package business

import (
	"context"
	"log/slog"
	"sync"
)

// Manager owns one aggregator per signed-in owner. An aggregator is
// constructed (and its snapshot loaded) the first time an owner's session
// reaches the API after sign-in, and discarded on sign-out.
type Manager struct {
	store  StorePort
	photos PhotoPort
	tasks  TaskPort
	logger *slog.Logger

	mu       sync.Mutex
	services map[string]*Service
}

// NewManager constructs the aggregator registry.
func NewManager(store StorePort, photos PhotoPort, tasks TaskPort, logger *slog.Logger) *Manager {
	return &Manager{
		store:    store,
		photos:   photos,
		tasks:    tasks,
		logger:   logger,
		services: make(map[string]*Service),
	}
}

// ForOwner returns the owner's aggregator, building and loading it on
// first use.
func (m *Manager) ForOwner(ctx context.Context, ownerID string) (*Service, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	m.mu.Lock()
	svc, ok := m.services[ownerID]
	m.mu.Unlock()
	if ok {
		return svc, nil
	}

	svc, err := NewService(ownerID, m.store, m.photos, m.tasks, m.logger)
	if err != nil {
		return nil, err
	}
	if err := svc.Load(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Another request may have raced the load; keep the first instance so
	// every caller shares one snapshot.
	if existing, ok := m.services[ownerID]; ok {
		return existing, nil
	}
	m.services[ownerID] = svc
	return svc, nil
}

// Drop discards an owner's aggregator. Called on sign-out so the next
// sign-in starts from a fresh snapshot load.
func (m *Manager) Drop(ownerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.services, ownerID)
}
