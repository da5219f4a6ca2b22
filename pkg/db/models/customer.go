package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a registered member. Balance and Points are cached projections
// of the ledger history; they only change through the reconciliation path.
type Customer struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Phone        string          `gorm:"column:phone;type:text;not null;uniqueIndex"`
	Name         string          `gorm:"column:name;type:text;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Balance      decimal.Decimal `gorm:"column:balance;type:numeric(12,2);not null"`
	Points       int64           `gorm:"column:points;not null"`
	Note         string          `gorm:"column:note;type:text"`
	LegacyID     string          `gorm:"column:legacy_id;type:text;index"`
	IsActive     bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
