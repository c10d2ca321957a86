package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/backend/internal/model"
)

func TestBudgetAlertTiers(t *testing.T) {
	// Late in a 31-day month so the pace rule stays quiet below 80%.
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	food := model.CategoryRef{ID: "cat-food", Name: "Food"}
	budgets := []model.Budget{{ID: "b-1", UserID: "user-1", CategoryID: food.ID, CategoryName: food.Name, Amount: 100}}

	tests := []struct {
		name     string
		spend    float64
		wantType model.NotificationType
		priority model.Priority
	}{
		{name: "below warning", spend: 79.99},
		{name: "warning at 80 percent", spend: 80, wantType: model.NotificationBudgetWarning, priority: model.PriorityMedium},
		{name: "exceeded at 100 percent", spend: 100, wantType: model.NotificationBudgetExceeded, priority: model.PriorityHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(now)
			txns := []model.Transaction{catExpense("t-1", food, tt.spend, now.AddDate(0, 0, -5))}

			got := e.GenerateNotifications(txns, budgets, nil)
			if tt.wantType == "" {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantType, got[0].Type)
			assert.Equal(t, tt.priority, got[0].Priority)
			assert.Equal(t, food.Name, got[0].Category)
			require.NotNil(t, got[0].Amount)
			assert.Equal(t, tt.spend, *got[0].Amount)
			assert.True(t, got[0].Actionable)
		})
	}
}

func TestBudgetAlertAheadOfPace(t *testing.T) {
	// Day 10 of 31: 32% of the month elapsed, 60% of the budget gone.
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	food := model.CategoryRef{ID: "cat-food", Name: "Food"}
	budgets := []model.Budget{{ID: "b-1", UserID: "user-1", CategoryID: food.ID, CategoryName: food.Name, Amount: 100}}
	txns := []model.Transaction{catExpense("t-1", food, 60, now.AddDate(0, 0, -3))}

	got := e.GenerateNotifications(txns, budgets, nil)
	require.Len(t, got, 1)
	assert.Equal(t, model.NotificationBudgetWarning, got[0].Type)
	assert.Equal(t, model.PriorityLow, got[0].Priority)
}

func TestSpendingSpike(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)

	build := func(recentSpend float64) []model.Transaction {
		return []model.Transaction{
			expense("prev-1", "Groceries", 100, now.AddDate(0, 0, -10)),
			expense("cur-1", "Electronics", recentSpend, now.AddDate(0, 0, -2)),
		}
	}

	t.Run("fires at 1.5x", func(t *testing.T) {
		e := newTestEngine(now)
		got := FilterNotificationsByType(e.GenerateNotifications(build(160), nil, nil), model.NotificationSpendingSpike)
		require.Len(t, got, 1)
		assert.Equal(t, model.PriorityMedium, got[0].Priority)
		require.NotNil(t, got[0].Amount)
		assert.Equal(t, 160.0, *got[0].Amount)
	})

	t.Run("quiet below 1.5x", func(t *testing.T) {
		e := newTestEngine(now)
		got := FilterNotificationsByType(e.GenerateNotifications(build(140), nil, nil), model.NotificationSpendingSpike)
		assert.Empty(t, got)
	})

	t.Run("quiet with no prior week", func(t *testing.T) {
		e := newTestEngine(now)
		txns := []model.Transaction{expense("cur-1", "Electronics", 500, now.AddDate(0, 0, -2))}
		got := FilterNotificationsByType(e.GenerateNotifications(txns, nil, nil), model.NotificationSpendingSpike)
		assert.Empty(t, got)
	})
}

func TestPositiveTrendAndSavings(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	txns := []model.Transaction{
		expense("prev-1", "Furniture", 200, now.AddDate(0, 0, -45)),
		expense("cur-1", "Groceries", 90, now.AddDate(0, 0, -5)),
		{
			ID: "pay-1", UserID: "user-1", Amount: 200,
			Type: model.TransactionTypeIncome, Description: "Salary",
			Date: now.AddDate(0, 0, -10),
		},
	}

	got := e.GenerateNotifications(txns, nil, nil)

	trend := FilterNotificationsByType(got, model.NotificationPositiveTrend)
	require.Len(t, trend, 1, "55%% reduction over 30 days")
	assert.Equal(t, model.PriorityLow, trend[0].Priority)

	savings := FilterNotificationsByType(got, model.NotificationSavingsGoal)
	require.Len(t, savings, 1, "55%% savings rate clears the 20%% goal")
	require.NotNil(t, savings[0].Amount)
	assert.Equal(t, 110.0, *savings[0].Amount)
}

func TestRecurringBillReminder(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	var txns []model.Transaction
	// Twelve months of the same subscription at a fixed price.
	for i := 0; i < 12; i++ {
		date := time.Date(2024, time.April, 1, 9, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		txns = append(txns, expense(fmt.Sprintf("sub-%d", i), "Netflix", 15.99, date))
	}
	// Enough current-month activity to unlock monthly insights.
	for i := 0; i < 5; i++ {
		txns = append(txns, expense(fmt.Sprintf("misc-%d", i), fmt.Sprintf("Shop %d", i), 20+5*float64(i), now.AddDate(0, 0, -15+i)))
	}

	got := FilterNotificationsByType(e.GenerateNotifications(txns, nil, nil), model.NotificationBillReminder)
	require.Len(t, got, 1, "only the stable repeat charge qualifies")
	assert.Contains(t, got[0].Title, "Netflix")
	require.NotNil(t, got[0].Amount)
	assert.InDelta(t, 15.99, *got[0].Amount, 1e-9)
}

func TestRecurringBillSkipsVariableCharges(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	var txns []model.Transaction
	// Same merchant, but amounts vary far more than 10%.
	for i, amt := range []float64{20, 60, 110, 45} {
		txns = append(txns, expense(fmt.Sprintf("fuel-%d", i), "Fuel station", amt, now.AddDate(0, 0, -3*i-1)))
	}
	for i := 0; i < 3; i++ {
		txns = append(txns, expense(fmt.Sprintf("misc-%d", i), fmt.Sprintf("Shop %d", i), 10+float64(i), now.AddDate(0, 0, -20-i)))
	}

	got := FilterNotificationsByType(e.GenerateNotifications(txns, nil, nil), model.NotificationBillReminder)
	assert.Empty(t, got)
}

func TestMonthlyInsightCategoryConcentration(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	food := model.CategoryRef{ID: "cat-food", Name: "Food"}
	other := model.CategoryRef{ID: "cat-other", Name: "Other"}

	txns := []model.Transaction{
		catExpense("f-1", food, 180, now.AddDate(0, 0, -20)),
		catExpense("f-2", food, 160, now.AddDate(0, 0, -15)),
		catExpense("f-3", food, 160, now.AddDate(0, 0, -25)),
		catExpense("o-1", other, 30, now.AddDate(0, 0, -18)),
		catExpense("o-2", other, 30, now.AddDate(0, 0, -16)),
		catExpense("o-3", other, 40, now.AddDate(0, 0, -22)),
	}

	got := FilterNotificationsByType(e.GenerateNotifications(txns, nil, nil), model.NotificationInsight)
	require.Len(t, got, 1, "food takes 83%% of the month")
	assert.Equal(t, food.Name, got[0].Category)
	require.NotNil(t, got[0].Amount)
	assert.Equal(t, 500.0, *got[0].Amount)
}

func TestMonthlyInsightsNeedFiveTransactions(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	food := model.CategoryRef{ID: "cat-food", Name: "Food"}
	txns := []model.Transaction{
		catExpense("f-1", food, 300, now.AddDate(0, 0, -20)),
		catExpense("f-2", food, 300, now.AddDate(0, 0, -15)),
		catExpense("o-1", model.CategoryRef{ID: "cat-other", Name: "Other"}, 10, now.AddDate(0, 0, -18)),
		catExpense("o-2", model.CategoryRef{ID: "cat-other", Name: "Other"}, 10, now.AddDate(0, 0, -16)),
	}

	got := FilterNotificationsByType(e.GenerateNotifications(txns, nil, nil), model.NotificationInsight)
	assert.Empty(t, got, "four current-month transactions are not enough")
}

func TestGenerateNotificationsSortedByPriority(t *testing.T) {
	now := time.Date(2025, 3, 29, 12, 0, 0, 0, time.UTC)
	e := newTestEngine(now)

	food := model.CategoryRef{ID: "cat-food", Name: "Food"}
	travel := model.CategoryRef{ID: "cat-travel", Name: "Travel"}
	budgets := []model.Budget{
		{ID: "b-1", UserID: "user-1", CategoryID: food.ID, CategoryName: food.Name, Amount: 100},
		{ID: "b-2", UserID: "user-1", CategoryID: travel.ID, CategoryName: travel.Name, Amount: 200},
	}
	txns := []model.Transaction{
		catExpense("f-1", food, 120, now.AddDate(0, 0, -5)),
		catExpense("t-1", travel, 170, now.AddDate(0, 0, -4)),
		expense("prev-1", "Furniture", 800, now.AddDate(0, 0, -45)),
	}

	got := e.GenerateNotifications(txns, budgets, nil)
	require.GreaterOrEqual(t, len(got), 3)
	assert.Equal(t, model.NotificationBudgetExceeded, got[0].Type, "high priority first")
	for i := 1; i < len(got); i++ {
		assert.LessOrEqual(t, got[i-1].Priority.Rank(), got[i].Priority.Rank())
	}
}

func TestSummarizeNotifications(t *testing.T) {
	list := []model.SmartNotification{
		{Type: model.NotificationBudgetExceeded, Priority: model.PriorityHigh},
		{Type: model.NotificationBudgetWarning, Priority: model.PriorityMedium},
		{Type: model.NotificationBudgetWarning, Priority: model.PriorityLow},
		{Type: model.NotificationBillReminder, Priority: model.PriorityLow},
	}

	s := SummarizeNotifications(list)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByType[model.NotificationBudgetWarning])
	assert.Equal(t, 2, s.ByPriority[model.PriorityLow])
	assert.Equal(t, 1, s.ByPriority[model.PriorityHigh])

	assert.Zero(t, SummarizeNotifications(nil).Total)
}
