package model

import "time"

// AnomalyType identifies which detector produced a finding.
type AnomalyType string

const (
	AnomalyTypeDuplicate        AnomalyType = "duplicate"
	AnomalyTypeFraudSuspect     AnomalyType = "fraud_suspect"
	AnomalyTypeUnusualAmount    AnomalyType = "unusual_amount"
	AnomalyTypeUnusualTiming    AnomalyType = "unusual_timing"
	AnomalyTypeUnusualFrequency AnomalyType = "unusual_frequency"
)

// Severity orders anomaly findings, critical first.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

var severityRank = map[Severity]int{
	SeverityCritical: 0,
	SeverityHigh:     1,
	SeverityMedium:   2,
	SeverityLow:      3,
}

// Rank returns the sort position of a severity; lower sorts first. Unknown
// severities sort last.
func (s Severity) Rank() int {
	if r, ok := severityRank[s]; ok {
		return r
	}
	return len(severityRank)
}

// SuggestedAction is the action a finding proposes to the user.
type SuggestedAction string

const (
	ActionReview SuggestedAction = "review"
	ActionDelete SuggestedAction = "delete"
	ActionFlag   SuggestedAction = "flag"
	ActionIgnore SuggestedAction = "ignore"
)

// Anomaly is one detector finding. IDs are unique per run but not stable
// across runs; group membership in TransactionIDs is what callers should
// compare.
type Anomaly struct {
	ID              string         `json:"id"`
	Type            AnomalyType    `json:"type"`
	Severity        Severity       `json:"severity"`
	TransactionIDs  []string       `json:"transaction_ids"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Confidence      int            `json:"confidence"`
	SuggestedAction SuggestedAction `json:"suggested_action"`
	Details         map[string]any `json:"details,omitempty"`
}

// ConfidenceLevel grades a budget recommendation.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// TrendDirection classifies the normalized OLS slope of a series.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendStable     TrendDirection = "stable"
	TrendDecreasing TrendDirection = "decreasing"
)

// MonthlyTotal is one month's spend for a category, chronological in
// BudgetRecommendation.MonthlyData.
type MonthlyTotal struct {
	Month string  `json:"month"` // "2006-01"
	Total float64 `json:"total"`
}

// BudgetRecommendation is a suggested monthly budget derived from history.
type BudgetRecommendation struct {
	CategoryID        string          `json:"category_id"`
	CategoryName      string          `json:"category_name"`
	CurrentBudget     *float64        `json:"current_budget,omitempty"`
	RecommendedBudget float64         `json:"recommended_budget"`
	Confidence        ConfidenceLevel `json:"confidence"`
	Reasoning         string          `json:"reasoning"`
	HistoricalAvg     float64         `json:"historical_avg"`
	HistoricalStdDev  float64         `json:"historical_std_dev"`
	Trend             TrendDirection  `json:"trend"`
	MonthlyData       []MonthlyTotal  `json:"monthly_data"`
}

// BudgetDifference pairs a recommendation against an existing budget.
type BudgetDifference struct {
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Current      *float64 `json:"current,omitempty"`
	Recommended  float64  `json:"recommended"`
	Delta        float64  `json:"delta"`
}

// NotificationType identifies which check produced a notification.
type NotificationType string

const (
	NotificationBudgetWarning   NotificationType = "budget_warning"
	NotificationBudgetExceeded  NotificationType = "budget_exceeded"
	NotificationSpendingSpike   NotificationType = "spending_spike"
	NotificationSavingsGoal     NotificationType = "savings_goal"
	NotificationUnusualActivity NotificationType = "unusual_activity"
	NotificationPositiveTrend   NotificationType = "positive_trend"
	NotificationBillReminder    NotificationType = "bill_reminder"
	NotificationInsight         NotificationType = "insight"
)

// Priority orders notifications, high first.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRank = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

// Rank returns the sort position of a priority; lower sorts first.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// ActionType is how the UI should treat a notification action.
type ActionType string

const (
	ActionTypeNavigate ActionType = "navigate"
	ActionTypeDismiss  ActionType = "dismiss"
	ActionTypeReview   ActionType = "review"
)

// NotificationAction is an optional call-to-action attached to a
// notification.
type NotificationAction struct {
	Label   string            `json:"label"`
	Type    ActionType        `json:"type"`
	Payload map[string]string `json:"payload,omitempty"`
}

// SmartNotification is one generated, prioritized notice. All notifications
// are ephemeral: they are recomputed from scratch on every invocation unless the
// agent runner persists them.
type SmartNotification struct {
	ID         string              `json:"id"`
	Type       NotificationType    `json:"type"`
	Priority   Priority            `json:"priority"`
	Title      string              `json:"title"`
	Message    string              `json:"message"`
	Actionable bool                `json:"actionable"`
	Action     *NotificationAction `json:"action,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ExpiresAt  *time.Time          `json:"expires_at,omitempty"`
	Category   string              `json:"category,omitempty"`
	Amount     *float64            `json:"amount,omitempty"`
}

// AgentNotification is the persisted row shape produced by an agent run.
// Type is literally "anomaly" for anomaly-derived rows; the original anomaly
// type is preserved inside Data under "anomaly_type".
type AgentNotification struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      string         `json:"type"`
	Priority  Priority       `json:"priority"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	DedupKey  string         `json:"dedup_key,omitempty"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}
