// Package domain contains persistence models for expenses and budgets.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Expense is a single spend against a category.
type Expense struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID snowflake.ID `gorm:"not null;index" json:"business_id"`
	Category   string       `gorm:"type:text;not null;index" json:"category"`
	Amount     float64      `gorm:"not null" json:"amount"`
	Date       time.Time    `gorm:"not null;index" json:"date"`
	Note       string       `gorm:"type:text" json:"note"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Expense) TableName() string { return "expenses" }

// Budget caps monthly spend for one category. One row per
// (business, category).
type Budget struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	BusinessID   snowflake.ID `gorm:"not null;uniqueIndex:ux_budget_category,priority:1" json:"business_id"`
	Category     string       `gorm:"type:text;not null;uniqueIndex:ux_budget_category,priority:2" json:"category"`
	MonthlyLimit float64      `gorm:"not null" json:"monthly_limit"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Budget) TableName() string { return "budgets" }
