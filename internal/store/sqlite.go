package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/finsight/backend/internal/model"
)

// SQLiteStore implements Store on a single SQLite database file. Dates are
// stored as RFC 3339 strings so string comparison matches time order.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dsn and applies the
// schema. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite handles one writer at a time.
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations() {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply schema: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

func migrations() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			amount        REAL NOT NULL,
			type          TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			date          TEXT NOT NULL,
			category_id   TEXT,
			category_name TEXT,
			created_at    TEXT NOT NULL,
			updated_at    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id      TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name    TEXT NOT NULL,
			type    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_user ON categories(user_id)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id            TEXT PRIMARY KEY,
			user_id       TEXT NOT NULL,
			category_id   TEXT NOT NULL,
			category_name TEXT NOT NULL DEFAULT '',
			amount        REAL NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_user ON budgets(user_id)`,

		`CREATE TABLE IF NOT EXISTS agent_notifications (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			priority   TEXT NOT NULL,
			title      TEXT NOT NULL,
			message    TEXT NOT NULL,
			data       TEXT,
			dedup_key  TEXT NOT NULL DEFAULT '',
			is_read    INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_notifications_user ON agent_notifications(user_id, is_read)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_notifications_dedup ON agent_notifications(user_id, dedup_key)`,
	}
}

// Transaction operations

func (s *SQLiteStore) CreateTransaction(ctx context.Context, t *model.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	var catID, catName sql.NullString
	if t.Category != nil {
		catID = sql.NullString{String: t.Category.ID, Valid: true}
		catName = sql.NullString{String: t.Category.Name, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, description, date, category_id, category_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.UserID, t.Amount, string(t.Type), t.Description, t.Date.Format(time.RFC3339),
		catID, catName, t.CreatedAt.Format(time.RFC3339), t.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTransaction(ctx context.Context, id string) (*model.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount, type, description, date, category_id, category_name, created_at, updated_at
		FROM transactions WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return t, err
}

func (s *SQLiteStore) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	var catID, catName sql.NullString
	if t.Category != nil {
		catID = sql.NullString{String: t.Category.ID, Valid: true}
		catName = sql.NullString{String: t.Category.Name, Valid: true}
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount = ?, type = ?, description = ?, date = ?, category_id = ?, category_name = ?, updated_at = ?
		WHERE id = ?`,
		t.Amount, string(t.Type), t.Description, t.Date.Format(time.RFC3339),
		catID, catName, t.UpdatedAt.Format(time.RFC3339), t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID string, startDate, endDate *time.Time) ([]model.Transaction, error) {
	query := `
		SELECT id, user_id, amount, type, description, date, category_id, category_name, created_at, updated_at
		FROM transactions WHERE user_id = ?`
	args := []any{userID}
	if startDate != nil {
		query += ` AND date >= ?`
		args = append(args, startDate.Format(time.RFC3339))
	}
	if endDate != nil {
		query += ` AND date <= ?`
		args = append(args, endDate.Format(time.RFC3339))
	}
	query += ` ORDER BY date DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var t model.Transaction
	var typ, date, createdAt, updatedAt string
	var catID, catName sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Amount, &typ, &t.Description, &date, &catID, &catName, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Type = model.TransactionType(typ)
	var err error
	if t.Date, err = time.Parse(time.RFC3339, date); err != nil {
		return nil, fmt.Errorf("parse transaction date: %w", err)
	}
	t.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	t.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	if catID.Valid {
		t.Category = &model.CategoryRef{ID: catID.String, Name: catName.String}
	}
	return &t, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Category operations

func (s *SQLiteStore) CreateCategory(ctx context.Context, c *model.Category) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)`,
		c.ID, c.UserID, c.Name, string(c.Type))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []model.Category
	for rows.Next() {
		var c model.Category
		var typ string
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &typ); err != nil {
			return nil, err
		}
		c.Type = model.TransactionType(typ)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Budget operations

func (s *SQLiteStore) CreateBudget(ctx context.Context, b *model.Budget) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, user_id, category_id, category_name, amount) VALUES (?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.CategoryID, b.CategoryName, b.Amount)
	if err != nil {
		return fmt.Errorf("insert budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, b *model.Budget) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets SET category_id = ?, category_name = ?, amount = ? WHERE id = ?`,
		b.CategoryID, b.CategoryName, b.Amount, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]model.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, category_id, category_name, amount
		FROM budgets WHERE user_id = ? ORDER BY category_name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []model.Budget
	for rows.Next() {
		var b model.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.CategoryName, &b.Amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Agent notification operations

func (s *SQLiteStore) CreateAgentNotification(ctx context.Context, n *model.AgentNotification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	var data []byte
	if n.Data != nil {
		var err error
		if data, err = json.Marshal(n.Data); err != nil {
			return fmt.Errorf("marshal notification data: %w", err)
		}
	}
	isRead := 0
	if n.IsRead {
		isRead = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_notifications (id, user_id, type, priority, title, message, data, dedup_key, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, n.Type, string(n.Priority), n.Title, n.Message,
		string(data), n.DedupKey, isRead, n.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert agent notification: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListAgentNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.AgentNotification, error) {
	query := `
		SELECT id, user_id, type, priority, title, message, data, dedup_key, is_read, created_at
		FROM agent_notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list agent notifications: %w", err)
	}
	defer rows.Close()

	var out []model.AgentNotification
	for rows.Next() {
		var n model.AgentNotification
		var priority, createdAt string
		var data sql.NullString
		var isRead int
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &priority, &n.Title, &n.Message, &data, &n.DedupKey, &isRead, &createdAt); err != nil {
			return nil, err
		}
		n.Priority = model.Priority(priority)
		n.IsRead = isRead != 0
		n.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if data.Valid && data.String != "" {
			if err := json.Unmarshal([]byte(data.String), &n.Data); err != nil {
				return nil, fmt.Errorf("unmarshal notification data: %w", err)
			}
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) MarkAgentNotificationRead(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE agent_notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return requireAffected(res)
}

func (s *SQLiteStore) UnreadAgentNotificationCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM agent_notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) HasAgentNotification(ctx context.Context, userID, dedupKey string, within time.Duration) (bool, error) {
	query := `SELECT COUNT(*) FROM agent_notifications WHERE user_id = ? AND dedup_key = ?`
	args := []any{userID, dedupKey}
	if within > 0 {
		query += ` AND created_at >= ?`
		args = append(args, time.Now().Add(-within).Format(time.RFC3339))
	}

	var count int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("check notification dedup: %w", err)
	}
	return count > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
