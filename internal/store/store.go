// Package store provides the persistence collaborator behind the insights
// engine and the HTTP service. Implementations: an in-memory store for local
// development and tests, and a SQLite store for durable single-node runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/finsight/backend/internal/model"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the database operations used by the service and the agent
// runner.
type Store interface {
	// Transaction operations. ListTransactions returns newest first;
	// nil bounds mean unbounded.
	CreateTransaction(ctx context.Context, t *model.Transaction) error
	GetTransaction(ctx context.Context, id string) (*model.Transaction, error)
	UpdateTransaction(ctx context.Context, t *model.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error)

	// Category operations.
	CreateCategory(ctx context.Context, c *model.Category) error
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)

	// Budget operations.
	CreateBudget(ctx context.Context, b *model.Budget) error
	UpdateBudget(ctx context.Context, b *model.Budget) error
	DeleteBudget(ctx context.Context, id string) error
	ListBudgets(ctx context.Context, userID string) ([]model.Budget, error)

	// Agent notification operations.
	CreateAgentNotification(ctx context.Context, n *model.AgentNotification) error
	ListAgentNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.AgentNotification, error)
	MarkAgentNotificationRead(ctx context.Context, id string) error
	UnreadAgentNotificationCount(ctx context.Context, userID string) (int, error)
	// HasAgentNotification reports whether a notification with the same
	// dedup key was created within the window. A zero window matches any
	// age.
	HasAgentNotification(ctx context.Context, userID, dedupKey string, within time.Duration) (bool, error)

	Close() error
}
