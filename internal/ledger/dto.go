package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
)

// EntryDTO is the transport shape for ledger entries.
type EntryDTO struct {
	ID         uuid.UUID             `json:"id"`
	CustomerID uuid.UUID             `json:"customer_id"`
	Type       enums.LedgerEntryType `json:"type"`
	Amount     decimal.Decimal       `json:"amount"`
	Note       string                `json:"note,omitempty"`
	Operator   string                `json:"operator"`
	CreatedAt  time.Time             `json:"created_at"`
}

func FromModel(e *models.LedgerEntry) *EntryDTO {
	if e == nil {
		return nil
	}
	return &EntryDTO{
		ID:         e.ID,
		CustomerID: e.CustomerID,
		Type:       e.Type,
		Amount:     e.Amount,
		Note:       e.Note,
		Operator:   e.Operator,
		CreatedAt:  e.CreatedAt,
	}
}

func FromModels(list []models.LedgerEntry) []EntryDTO {
	result := make([]EntryDTO, 0, len(list))
	for i := range list {
		result = append(result, *FromModel(&list[i]))
	}
	return result
}
