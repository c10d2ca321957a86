package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func newSQLiteTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreTransactionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteTestStore(t)

	date := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	txn := &model.Transaction{
		UserID:      "user-1",
		Amount:      -42.5,
		Type:        model.TransactionTypeExpense,
		Description: "Groceries",
		Date:        date,
		Category:    &model.CategoryRef{ID: "cat-food", Name: "Food"},
		CreatedAt:   date,
		UpdatedAt:   date,
	}
	require.NoError(t, s.CreateTransaction(ctx, txn))
	require.NotEmpty(t, txn.ID)

	got, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, -42.5, got.Amount)
	assert.Equal(t, model.TransactionTypeExpense, got.Type)
	assert.True(t, got.Date.Equal(date))
	require.NotNil(t, got.Category)
	assert.Equal(t, "Food", got.Category.Name)

	// Categories are optional.
	bare := &model.Transaction{
		UserID: "user-1", Amount: 10, Type: model.TransactionTypeIncome,
		Description: "Refund", Date: date,
	}
	require.NoError(t, s.CreateTransaction(ctx, bare))
	gotBare, err := s.GetTransaction(ctx, bare.ID)
	require.NoError(t, err)
	assert.Nil(t, gotBare.Category)

	txn.Amount = -50
	require.NoError(t, s.UpdateTransaction(ctx, txn))
	updated, err := s.GetTransaction(ctx, txn.ID)
	require.NoError(t, err)
	assert.Equal(t, -50.0, updated.Amount)

	require.NoError(t, s.DeleteTransaction(ctx, txn.ID))
	_, err = s.GetTransaction(ctx, txn.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.UpdateTransaction(ctx, txn), ErrNotFound)
	assert.ErrorIs(t, s.DeleteTransaction(ctx, txn.ID), ErrNotFound)
}

func TestSQLiteStoreListTransactionsOrderAndRange(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteTestStore(t)

	dates := map[string]time.Time{
		"a": time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"b": time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		"c": time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC),
	}
	for id, d := range dates {
		require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
			ID: id, UserID: "user-1", Amount: 1,
			Type: model.TransactionTypeExpense, Date: d,
		}))
	}
	require.NoError(t, s.CreateTransaction(ctx, &model.Transaction{
		ID: "other", UserID: "user-2", Amount: 1,
		Type: model.TransactionTypeExpense, Date: dates["b"],
	}))

	all, err := s.ListTransactions(ctx, "user-1", nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{all[0].ID, all[1].ID, all[2].ID})

	from := time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	ranged, err := s.ListTransactions(ctx, "user-1", &from, &to)
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "c", ranged[0].ID)
}

func TestSQLiteStoreCategoriesAndBudgets(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteTestStore(t)

	require.NoError(t, s.CreateCategory(ctx, &model.Category{UserID: "user-1", Name: "Food", Type: model.TransactionTypeExpense}))
	require.NoError(t, s.CreateCategory(ctx, &model.Category{UserID: "user-1", Name: "Dining", Type: model.TransactionTypeExpense}))
	require.NoError(t, s.CreateCategory(ctx, &model.Category{UserID: "user-2", Name: "Travel", Type: model.TransactionTypeExpense}))

	cats, err := s.ListCategories(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Dining", cats[0].Name)

	b := &model.Budget{UserID: "user-1", CategoryID: cats[1].ID, CategoryName: "Food", Amount: 300}
	require.NoError(t, s.CreateBudget(ctx, b))

	b.Amount = 350
	require.NoError(t, s.UpdateBudget(ctx, b))

	budgets, err := s.ListBudgets(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, 350.0, budgets[0].Amount)

	require.NoError(t, s.DeleteBudget(ctx, b.ID))
	assert.ErrorIs(t, s.DeleteBudget(ctx, b.ID), ErrNotFound)
}

func TestSQLiteStoreAgentNotifications(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteTestStore(t)

	n := &model.AgentNotification{
		UserID:   "user-1",
		Type:     "anomaly",
		Priority: model.PriorityHigh,
		Title:    "Possible duplicate",
		Message:  "2 transactions look like the same charge.",
		Data: map[string]any{
			"anomaly_type": "duplicate",
			"confidence":   float64(100),
		},
		DedupKey:  "dup-abc",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	require.NoError(t, s.CreateAgentNotification(ctx, n))

	list, err := s.ListAgentNotifications(ctx, "user-1", false)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "anomaly", list[0].Type)
	assert.Equal(t, model.PriorityHigh, list[0].Priority)
	assert.Equal(t, "duplicate", list[0].Data["anomaly_type"])
	assert.Equal(t, float64(100), list[0].Data["confidence"])
	assert.False(t, list[0].IsRead)

	found, err := s.HasAgentNotification(ctx, "user-1", "dup-abc", 24*time.Hour)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.HasAgentNotification(ctx, "user-1", "dup-missing", 0)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.MarkAgentNotificationRead(ctx, n.ID))
	count, err := s.UnreadAgentNotificationCount(ctx, "user-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	unread, err := s.ListAgentNotifications(ctx, "user-1", true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	assert.ErrorIs(t, s.MarkAgentNotificationRead(ctx, "missing"), ErrNotFound)
}

func TestSQLiteStoreDedupWindow(t *testing.T) {
	ctx := context.Background()
	s := newSQLiteTestStore(t)

	old := &model.AgentNotification{
		UserID:    "user-1",
		Type:      "budget_warning",
		Priority:  model.PriorityMedium,
		Title:     "Approaching budget",
		DedupKey:  "warn-xyz",
		CreatedAt: time.Now().UTC().Add(-10 * 24 * time.Hour),
	}
	require.NoError(t, s.CreateAgentNotification(ctx, old))

	found, err := s.HasAgentNotification(ctx, "user-1", "warn-xyz", 7*24*time.Hour)
	require.NoError(t, err)
	assert.False(t, found, "older than the window")

	found, err = s.HasAgentNotification(ctx, "user-1", "warn-xyz", 0)
	require.NoError(t, err)
	assert.True(t, found, "zero window matches any age")
}
