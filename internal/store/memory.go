package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finsight/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps. Used for local
// development and tests.
type MemoryStore struct {
	mu sync.RWMutex

	transactions       map[string]*model.Transaction
	categories         map[string]*model.Category
	budgets            map[string]*model.Budget
	agentNotifications map[string]*model.AgentNotification
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions:       make(map[string]*model.Transaction),
		categories:         make(map[string]*model.Category),
		budgets:            make(map[string]*model.Budget),
		agentNotifications: make(map[string]*model.AgentNotification),
	}
}

// Transaction operations

func (m *MemoryStore) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *MemoryStore) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	m.transactions[t.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.transactions[id]; !ok {
		return ErrNotFound
	}
	delete(m.transactions, id)
	return nil
}

func (m *MemoryStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Transaction
	for _, t := range m.transactions {
		if t.UserID != userID {
			continue
		}
		if startDate != nil && t.Date.Before(*startDate) {
			continue
		}
		if endDate != nil && t.Date.After(*endDate) {
			continue
		}
		out = append(out, *t)
	}

	// Newest first; tie-break on id for a stable order.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// Category operations

func (m *MemoryStore) CreateCategory(ctx context.Context, c *model.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *MemoryStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Category
	for _, c := range m.categories {
		if c.UserID != userID {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Budget operations

func (m *MemoryStore) CreateBudget(ctx context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	cp := *b
	m.budgets[b.ID] = &cp
	return nil
}

func (m *MemoryStore) UpdateBudget(ctx context.Context, b *model.Budget) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	m.budgets[b.ID] = &cp
	return nil
}

func (m *MemoryStore) DeleteBudget(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.budgets[id]; !ok {
		return ErrNotFound
	}
	delete(m.budgets, id)
	return nil
}

func (m *MemoryStore) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.Budget
	for _, b := range m.budgets {
		if b.UserID != userID {
			continue
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CategoryName < out[j].CategoryName })
	return out, nil
}

// Agent notification operations

func (m *MemoryStore) CreateAgentNotification(ctx context.Context, n *model.AgentNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	cp := *n
	m.agentNotifications[n.ID] = &cp
	return nil
}

func (m *MemoryStore) ListAgentNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.AgentNotification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []model.AgentNotification
	for _, n := range m.agentNotifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.IsRead {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) MarkAgentNotificationRead(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.agentNotifications[id]
	if !ok {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}

func (m *MemoryStore) UnreadAgentNotificationCount(ctx context.Context, userID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, n := range m.agentNotifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) HasAgentNotification(ctx context.Context, userID, dedupKey string, within time.Duration) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := time.Time{}
	if within > 0 {
		cutoff = time.Now().Add(-within)
	}

	for _, n := range m.agentNotifications {
		if n.UserID != userID || n.DedupKey != dedupKey {
			continue
		}
		if within > 0 && n.CreatedAt.Before(cutoff) {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
