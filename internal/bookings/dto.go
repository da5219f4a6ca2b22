package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
)

// BookingDTO is the transport shape for bookings.
type BookingDTO struct {
	ID          uuid.UUID           `json:"id"`
	CustomerID  uuid.UUID           `json:"customer_id"`
	ServiceType string              `json:"service_type"`
	Date        string              `json:"date"`
	TimeSlot    string              `json:"time_slot"`
	Notes       string              `json:"notes,omitempty"`
	Status      enums.BookingStatus `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

func FromModel(b *models.Booking) *BookingDTO {
	if b == nil {
		return nil
	}
	return &BookingDTO{
		ID:          b.ID,
		CustomerID:  b.CustomerID,
		ServiceType: b.ServiceType,
		Date:        b.Date.Format(DateLayout),
		TimeSlot:    b.TimeSlot,
		Notes:       b.Notes,
		Status:      b.Status,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func FromModels(list []models.Booking) []BookingDTO {
	result := make([]BookingDTO, 0, len(list))
	for i := range list {
		result = append(result, *FromModel(&list[i]))
	}
	return result
}
