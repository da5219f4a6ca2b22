package operators

import (
	"time"

	"github.com/google/uuid"

	"github.com/carewell/carebook-backend/pkg/db/models"
)

// OperatorDTO is the transport shape that omits credentials.
type OperatorDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CreateOperatorDTO holds the data required to persist a new operator.
type CreateOperatorDTO struct {
	Email        string
	DisplayName  string
	PasswordHash string
	IsActive     *bool
}

func FromModel(o *models.Operator) *OperatorDTO {
	if o == nil {
		return nil
	}
	return &OperatorDTO{
		ID:          o.ID,
		Email:       o.Email,
		DisplayName: o.DisplayName,
		IsActive:    o.IsActive,
		LastLoginAt: o.LastLoginAt,
		CreatedAt:   o.CreatedAt,
	}
}

func (c CreateOperatorDTO) ToModel() *models.Operator {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	return &models.Operator{
		Email:        c.Email,
		DisplayName:  c.DisplayName,
		PasswordHash: c.PasswordHash,
		IsActive:     isActive,
	}
}
