// Package domain contains persistence models for business profiles.
package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Business represents a tenant profile the caller operates under.
type Business struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"type:text;not null" json:"name"`
	Phone     string            `gorm:"type:text" json:"phone,omitempty"`
	Address   string            `gorm:"type:text" json:"address,omitempty"`
	IsDefault bool              `gorm:"column:is_default" json:"is_default"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Business) TableName() string { return "businesses" }

var (
	ErrInvalidBusiness = errors.New("invalid_business")
	ErrNotFound        = errors.New("not_found")
)
