package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carewell/carebook-backend/pkg/db/models"
)

// CustomerDTO is the transport shape that omits credentials.
type CustomerDTO struct {
	ID        uuid.UUID       `json:"id"`
	Phone     string          `json:"phone"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	Points    int64           `json:"points"`
	Note      string          `json:"note,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CreateCustomerDTO holds the data required to persist a new customer.
type CreateCustomerDTO struct {
	Phone        string
	Name         string
	PasswordHash string
	Note         string
	LegacyID     string
	Balance      decimal.Decimal
	Points       int64
	IsActive     *bool
}

// UpdateProfileDTO carries optional profile fields. Nil means unchanged.
type UpdateProfileDTO struct {
	Name     *string
	Note     *string
	IsActive *bool
}

func FromModel(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:        c.ID,
		Phone:     c.Phone,
		Name:      c.Name,
		Balance:   c.Balance,
		Points:    c.Points,
		Note:      c.Note,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func FromModels(list []models.Customer) []CustomerDTO {
	result := make([]CustomerDTO, 0, len(list))
	for i := range list {
		result = append(result, *FromModel(&list[i]))
	}
	return result
}

func (c CreateCustomerDTO) ToModel() *models.Customer {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.Customer{
		Phone:        c.Phone,
		Name:         c.Name,
		PasswordHash: c.PasswordHash,
		Balance:      c.Balance,
		Points:       c.Points,
		Note:         c.Note,
		LegacyID:     c.LegacyID,
		IsActive:     isActive,
	}
}

func (u UpdateProfileDTO) toColumnMap() map[string]any {
	updates := map[string]any{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Note != nil {
		updates["note"] = *u.Note
	}
	if u.IsActive != nil {
		updates["is_active"] = *u.IsActive
	}
	return updates
}
