package insights

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/finsight/backend/internal/model"
)

// GenerateNotifications runs every notification check over the snapshot and
// returns the merged list sorted by priority, high first.
func (e *Engine) GenerateNotifications(txns []model.Transaction, budgets []model.Budget, categories []model.Category) []model.SmartNotification {
	var out []model.SmartNotification
	out = append(out, e.budgetAlerts(txns, budgets)...)
	out = append(out, e.spendingSpike(txns)...)
	out = append(out, e.positiveTrends(txns)...)
	out = append(out, e.monthlyInsights(txns)...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() < out[j].Priority.Rank()
	})

	return out
}

// budgetAlerts emits at most one alert per budget: exceeded, nearly
// exceeded, or spending ahead of the month's elapsed pace by more than 20
// percentage points. The first matching tier wins.
func (e *Engine) budgetAlerts(txns []model.Transaction, budgets []model.Budget) []model.SmartNotification {
	now := e.cfg.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	spent := make(map[string]float64)
	for _, t := range txns {
		if t.Type != model.TransactionTypeExpense || t.Category == nil {
			continue
		}
		if t.Date.Before(monthStart) || t.Date.After(now) {
			continue
		}
		spent[t.Category.ID] += math.Abs(t.Amount)
	}

	var out []model.SmartNotification
	for _, b := range budgets {
		if b.Amount <= 0 {
			continue
		}
		spend := spent[b.CategoryID]
		pct := spend / b.Amount * 100
		name := b.CategoryName
		if name == "" {
			name = "this category"
		}

		n := model.SmartNotification{
			ID:         e.cfg.NewID(),
			Actionable: true,
			Action: &model.NotificationAction{
				Label:   "Review budget",
				Type:    model.ActionTypeNavigate,
				Payload: map[string]string{"category_id": b.CategoryID},
			},
			CreatedAt: now,
			Category:  name,
		}
		amount := spend
		n.Amount = &amount

		elapsedPct := float64(now.Day()) / float64(daysInMonth) * 100
		switch {
		case pct >= 100:
			n.Type = model.NotificationBudgetExceeded
			n.Priority = model.PriorityHigh
			n.Title = fmt.Sprintf("Budget exceeded: %s", name)
			n.Message = fmt.Sprintf("You've spent $%.2f of your $%.2f %s budget (%.0f%%).", spend, b.Amount, name, pct)
		case pct >= 80:
			n.Type = model.NotificationBudgetWarning
			n.Priority = model.PriorityMedium
			n.Title = fmt.Sprintf("Approaching budget: %s", name)
			n.Message = fmt.Sprintf("You've used %.0f%% of your %s budget with %d days left this month.", pct, name, daysInMonth-now.Day())
		case pct > elapsedPct+20:
			n.Type = model.NotificationBudgetWarning
			n.Priority = model.PriorityLow
			n.Title = fmt.Sprintf("Ahead of pace: %s", name)
			n.Message = fmt.Sprintf("%.0f%% of your %s budget is gone but the month is only %.0f%% over.", pct, name, elapsedPct)
		default:
			continue
		}

		out = append(out, n)
	}

	return out
}

// spendingSpike compares the trailing seven days of expenses against the
// seven days before that.
func (e *Engine) spendingSpike(txns []model.Transaction) []model.SmartNotification {
	now := e.cfg.Now()
	recent := sumExpenses(txns, now.AddDate(0, 0, -7), now)
	previous := sumExpenses(txns, now.AddDate(0, 0, -14), now.AddDate(0, 0, -7))

	if previous <= 0 || recent < e.cfg.SpikeRatio*previous {
		return nil
	}

	increase := (recent/previous - 1) * 100
	amount := recent
	return []model.SmartNotification{{
		ID:       e.cfg.NewID(),
		Type:     model.NotificationSpendingSpike,
		Priority: model.PriorityMedium,
		Title:    "Spending spike this week",
		Message: fmt.Sprintf("You spent $%.2f in the last 7 days, %.0f%% more than the week before ($%.2f).",
			recent, increase, previous),
		Actionable: true,
		Action:     &model.NotificationAction{Label: "Review transactions", Type: model.ActionTypeReview},
		CreatedAt:  now,
		Amount:     &amount,
	}}
}

// positiveTrends rewards a 30-day expense reduction of 10% or more, and
// independently a savings rate at or above SavingsGoalPercent.
func (e *Engine) positiveTrends(txns []model.Transaction) []model.SmartNotification {
	now := e.cfg.Now()
	recentExpenses := sumExpenses(txns, now.AddDate(0, 0, -30), now)
	previousExpenses := sumExpenses(txns, now.AddDate(0, 0, -60), now.AddDate(0, 0, -30))

	var out []model.SmartNotification

	if previousExpenses > 0 {
		reduction := (previousExpenses - recentExpenses) / previousExpenses * 100
		if reduction >= 10 {
			amount := recentExpenses
			out = append(out, model.SmartNotification{
				ID:       e.cfg.NewID(),
				Type:     model.NotificationPositiveTrend,
				Priority: model.PriorityLow,
				Title:    "Spending is down",
				Message: fmt.Sprintf("Your spending dropped %.0f%% over the last 30 days. Keep it up!",
					reduction),
				CreatedAt: now,
				Amount:    &amount,
			})
		}
	}

	var income float64
	for _, t := range txns {
		if t.Type != model.TransactionTypeIncome {
			continue
		}
		if t.Date.Before(now.AddDate(0, 0, -30)) || t.Date.After(now) {
			continue
		}
		income += math.Abs(t.Amount)
	}
	if income > 0 {
		savingsRate := (income - recentExpenses) / income * 100
		if savingsRate >= e.cfg.SavingsGoalPercent {
			saved := income - recentExpenses
			out = append(out, model.SmartNotification{
				ID:       e.cfg.NewID(),
				Type:     model.NotificationSavingsGoal,
				Priority: model.PriorityLow,
				Title:    "Healthy savings rate",
				Message: fmt.Sprintf("You saved %.0f%% of your income over the last 30 days ($%.2f).",
					savingsRate, saved),
				CreatedAt: now,
				Amount:    &saved,
			})
		}
	}

	return out
}

// monthlyInsights needs at least five current-month transactions. It flags
// one category dominating the month's spend, and recurring bills: any
// description seen three or more times across all history with amounts
// varying less than 10%.
func (e *Engine) monthlyInsights(txns []model.Transaction) []model.SmartNotification {
	now := e.cfg.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var monthCount int
	var monthTotal float64
	categoryTotals := make(map[string]float64)
	categoryNames := make(map[string]string)
	for _, t := range txns {
		if t.Date.Before(monthStart) || t.Date.After(now) {
			continue
		}
		monthCount++
		if t.Type != model.TransactionTypeExpense {
			continue
		}
		monthTotal += math.Abs(t.Amount)
		if t.Category != nil {
			categoryTotals[t.Category.ID] += math.Abs(t.Amount)
			categoryNames[t.Category.ID] = t.Category.Name
		}
	}

	if monthCount < 5 {
		return nil
	}

	var out []model.SmartNotification

	if monthTotal > 0 {
		topID := ""
		var topTotal float64
		for id, total := range categoryTotals {
			if total > topTotal {
				topID, topTotal = id, total
			}
		}
		if share := topTotal / monthTotal * 100; share > 40 {
			amount := topTotal
			out = append(out, model.SmartNotification{
				ID:       e.cfg.NewID(),
				Type:     model.NotificationInsight,
				Priority: model.PriorityLow,
				Title:    fmt.Sprintf("%s dominates this month", categoryNames[topID]),
				Message: fmt.Sprintf("%s accounts for %.0f%% of this month's spending ($%.2f of $%.2f).",
					categoryNames[topID], share, topTotal, monthTotal),
				CreatedAt: now,
				Category:  categoryNames[topID],
				Amount:    &amount,
			})
		}
	}

	out = append(out, e.recurringBills(txns, now)...)

	return out
}

// recurringBills finds stable repeat charges worth budgeting for.
func (e *Engine) recurringBills(txns []model.Transaction, now time.Time) []model.SmartNotification {
	type bill struct {
		label   string
		amounts []float64
	}
	groups := make(map[string]*bill)
	var order []string
	for _, t := range txns {
		if t.Type != model.TransactionTypeExpense {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Description))
		if key == "" {
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &bill{label: strings.TrimSpace(t.Description)}
			groups[key] = g
			order = append(order, key)
		}
		g.amounts = append(g.amounts, math.Abs(t.Amount))
	}

	var out []model.SmartNotification
	for _, key := range order {
		g := groups[key]
		if len(g.amounts) < 3 {
			continue
		}
		if CoefficientOfVariation(g.amounts) >= 0.1 {
			continue
		}

		avg := Mean(g.amounts)
		amount := avg
		out = append(out, model.SmartNotification{
			ID:       e.cfg.NewID(),
			Type:     model.NotificationBillReminder,
			Priority: model.PriorityLow,
			Title:    fmt.Sprintf("Recurring bill: %s", g.label),
			Message: fmt.Sprintf("%s has appeared %d times at about $%.2f. Consider budgeting for it.",
				g.label, len(g.amounts), avg),
			Actionable: true,
			Action:     &model.NotificationAction{Label: "Create budget", Type: model.ActionTypeNavigate},
			CreatedAt:  now,
			Amount:     &amount,
		})
	}

	return out
}

func sumExpenses(txns []model.Transaction, from, to time.Time) float64 {
	var total float64
	for _, t := range txns {
		if t.Type != model.TransactionTypeExpense {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		total += math.Abs(t.Amount)
	}
	return total
}

// NotificationSummary aggregates a notification list for display.
type NotificationSummary struct {
	Total      int                            `json:"total"`
	ByPriority map[model.Priority]int         `json:"by_priority"`
	ByType     map[model.NotificationType]int `json:"by_type"`
}

// SummarizeNotifications counts notifications per priority and per type.
func SummarizeNotifications(notifications []model.SmartNotification) NotificationSummary {
	summary := NotificationSummary{
		Total:      len(notifications),
		ByPriority: make(map[model.Priority]int),
		ByType:     make(map[model.NotificationType]int),
	}
	for _, n := range notifications {
		summary.ByPriority[n.Priority]++
		summary.ByType[n.Type]++
	}
	return summary
}

// FilterNotificationsByType returns the notifications of one type,
// preserving order.
func FilterNotificationsByType(notifications []model.SmartNotification, t model.NotificationType) []model.SmartNotification {
	var out []model.SmartNotification
	for _, n := range notifications {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}
