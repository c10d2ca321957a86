// Package model defines the domain types shared by the store, the insights
// engine and the HTTP service.
package model

import "time"

// TransactionType distinguishes money in from money out.
type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

// CategoryRef is the category reference embedded in a transaction.
type CategoryRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Transaction is a single ledger entry. Amount is signed; analysis always
// operates on its absolute value for magnitude comparisons.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    *CategoryRef    `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Category labels and groups transactions. It is never mutated by the
// insights engine.
type Category struct {
	ID     string          `json:"id"`
	UserID string          `json:"user_id"`
	Name   string          `json:"name"`
	Type   TransactionType `json:"type"`
}

// Budget is a monthly spending limit for one category. ID is empty for a
// recommendation that has not been persisted yet.
type Budget struct {
	ID           string  `json:"id,omitempty"`
	UserID       string  `json:"user_id"`
	CategoryID   string  `json:"category_id"`
	CategoryName string  `json:"category_name,omitempty"`
	Amount       float64 `json:"amount"`
}
