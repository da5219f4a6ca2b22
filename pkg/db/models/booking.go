package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/enums"
)

// Booking is a scheduled care-service request. Status only moves forward
// through the pending -> confirmed -> completed sequence.
type Booking struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerID  uuid.UUID           `gorm:"column:customer_id;type:uuid;not null;index"`
	ServiceType string              `gorm:"column:service_type;type:text;not null"`
	Date        time.Time           `gorm:"column:date;not null"`
	TimeSlot    string              `gorm:"column:time_slot;type:text;not null"`
	Notes       string              `gorm:"column:notes;type:text"`
	Status      enums.BookingStatus `gorm:"column:status;type:booking_status_enum;not null;default:pending"`
	LegacyID    string              `gorm:"column:legacy_id;type:text;index"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
