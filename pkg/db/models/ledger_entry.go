package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/enums"
)

// LedgerEntry records an immutable monetary or point event tied to a
// customer. Positive amounts are credits, negative amounts are debits.
// Rows are never updated or deleted.
type LedgerEntry struct {
	ID         uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID uuid.UUID             `gorm:"column:customer_id;type:uuid;not null;index"`
	Type       enums.LedgerEntryType `gorm:"column:type;type:ledger_entry_type_enum;not null"`
	Amount     decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	Note       string                `gorm:"column:note;type:text"`
	Operator   string                `gorm:"column:operator;type:text;not null"`
	LegacyID   string                `gorm:"column:legacy_id;type:text;index"`
	CreatedAt  time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
