// Package agent orchestrates an analysis run for one user: fetch the
// snapshot, run the insights engine, persist the important findings.
package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/finsight/backend/internal/insights"
	"github.com/finsight/backend/internal/model"
	"github.com/finsight/backend/internal/store"
)

// Config tunes the runner.
type Config struct {
	// MinTransactions is the snapshot size below which the run is a
	// silent no-op.
	MinTransactions int

	// DedupWindow suppresses persisting a finding whose dedup key was
	// already stored within this window.
	DedupWindow time.Duration
}

// DefaultConfig returns production defaults.
func DefaultConfig() Config {
	return Config{
		MinTransactions: 5,
		DedupWindow:     7 * 24 * time.Hour,
	}
}

// Runner runs the insights engine against a user's stored snapshot.
// Invocations are independent; concurrent runs for the same user are not
// serialized here and may both persist.
type Runner struct {
	store  store.Store
	engine *insights.Engine
	cfg    Config
	log    zerolog.Logger
}

// NewRunner wires a runner.
func NewRunner(st store.Store, engine *insights.Engine, cfg Config, log zerolog.Logger) *Runner {
	return &Runner{store: st, engine: engine, cfg: cfg, log: log}
}

// RunResult is what one agent run produced. CriticalAnomalies and
// HighPriorityNotifications are the persisted subsets.
type RunResult struct {
	Anomalies                 []model.Anomaly            `json:"anomalies"`
	Notifications             []model.SmartNotification  `json:"notifications"`
	CriticalAnomalies         []model.Anomaly            `json:"critical_anomalies"`
	HighPriorityNotifications []model.SmartNotification  `json:"high_priority_notifications"`
	Persisted                 int                        `json:"persisted"`
	Deduplicated              int                        `json:"deduplicated"`
}

// Run fetches the user's transactions, categories and budgets, runs anomaly
// detection and notification generation, and persists the high-severity and
// high-priority subsets. Fewer than MinTransactions transactions is a normal
// empty result. Fetch and persist failures are returned to the caller; the
// HTTP layer decides whether to degrade.
func (r *Runner) Run(ctx context.Context, userID string) (*RunResult, error) {
	txns, err := r.store.ListTransactions(ctx, userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	result := &RunResult{}
	if len(txns) < r.cfg.MinTransactions {
		r.log.Debug().Str("user_id", userID).Int("transactions", len(txns)).
			Msg("not enough data for agent run")
		return result, nil
	}

	categories, err := r.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	budgets, err := r.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch budgets: %w", err)
	}

	result.Anomalies = r.engine.DetectAnomalies(txns)
	result.Notifications = r.engine.GenerateNotifications(txns, budgets, categories)

	for _, a := range result.Anomalies {
		if a.Severity == model.SeverityCritical || a.Severity == model.SeverityHigh {
			result.CriticalAnomalies = append(result.CriticalAnomalies, a)
		}
	}
	for _, n := range result.Notifications {
		if n.Priority == model.PriorityHigh || n.Priority == model.PriorityMedium {
			result.HighPriorityNotifications = append(result.HighPriorityNotifications, n)
		}
	}

	now := time.Now()
	for _, a := range result.CriticalAnomalies {
		row := anomalyRow(userID, a, now)
		if err := r.persist(ctx, row, result); err != nil {
			return result, err
		}
	}
	for _, n := range result.HighPriorityNotifications {
		row := notificationRow(userID, n, now)
		if err := r.persist(ctx, row, result); err != nil {
			return result, err
		}
	}

	r.log.Info().Str("user_id", userID).
		Int("anomalies", len(result.Anomalies)).
		Int("notifications", len(result.Notifications)).
		Int("persisted", result.Persisted).
		Int("deduplicated", result.Deduplicated).
		Msg("agent run complete")

	return result, nil
}

func (r *Runner) persist(ctx context.Context, row *model.AgentNotification, result *RunResult) error {
	exists, err := r.store.HasAgentNotification(ctx, row.UserID, row.DedupKey, r.cfg.DedupWindow)
	if err != nil {
		return fmt.Errorf("check notification dedup: %w", err)
	}
	if exists {
		result.Deduplicated++
		return nil
	}
	if err := r.store.CreateAgentNotification(ctx, row); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	result.Persisted++
	return nil
}

// anomalyRow converts an anomaly finding to the persisted row shape. The
// row type is literally "anomaly"; the finding's own type is preserved in
// Data under "anomaly_type".
func anomalyRow(userID string, a model.Anomaly, now time.Time) *model.AgentNotification {
	priority := model.PriorityMedium
	if a.Severity == model.SeverityCritical || a.Severity == model.SeverityHigh {
		priority = model.PriorityHigh
	}

	data := map[string]any{
		"anomaly_type":    string(a.Type),
		"severity":        string(a.Severity),
		"confidence":      a.Confidence,
		"transaction_ids": a.TransactionIDs,
	}
	for k, v := range a.Details {
		data[k] = v
	}

	return &model.AgentNotification{
		UserID:    userID,
		Type:      "anomaly",
		Priority:  priority,
		Title:     a.Title,
		Message:   a.Description,
		Data:      data,
		DedupKey:  anomalyDedupKey(a),
		IsRead:    false,
		CreatedAt: now,
	}
}

// notificationRow converts a smart notification to the persisted row shape.
func notificationRow(userID string, n model.SmartNotification, now time.Time) *model.AgentNotification {
	data := map[string]any{}
	if n.Category != "" {
		data["category"] = n.Category
	}
	if n.Amount != nil {
		data["amount"] = *n.Amount
	}

	return &model.AgentNotification{
		UserID:    userID,
		Type:      string(n.Type),
		Priority:  n.Priority,
		Title:     n.Title,
		Message:   n.Message,
		Data:      data,
		DedupKey:  notificationDedupKey(n),
		IsRead:    false,
		CreatedAt: now,
	}
}

// anomalyDedupKey hashes the finding's type and transaction group. Finding
// ids change every run but group membership does not, so re-runs map the
// same finding to the same key.
func anomalyDedupKey(a model.Anomaly) string {
	ids := make([]string, len(a.TransactionIDs))
	copy(ids, a.TransactionIDs)
	sort.Strings(ids)
	return contentKey(string(a.Type), strings.Join(ids, ","), a.Title)
}

// notificationDedupKey hashes type plus category when the notification is
// category-scoped, falling back to the amount rounded to cents. Category
// keys stay stable while spend grows, so a budget alert fires once per
// dedup window; we prefer over-merging to showing the same alert twice.
func notificationDedupKey(n model.SmartNotification) string {
	if n.Category != "" {
		return contentKey(string(n.Type), n.Category)
	}
	amount := ""
	if n.Amount != nil {
		amount = fmt.Sprintf("%.2f", *n.Amount)
	}
	return contentKey(string(n.Type), amount)
}

func contentKey(parts ...string) string {
	h := fnv.New64a()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
