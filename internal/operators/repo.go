package operators

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/db/models"
)

// Repository exposes operator persistence operations for the admin surface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an operators repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new operator and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateOperatorDTO) (*models.Operator, error) {
	operator := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(operator).Error; err != nil {
		return nil, err
	}
	return operator, nil
}

// FindByEmail retrieves the operator matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Operator, error) {
	var operator models.Operator
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&operator).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

// FindByID loads an operator by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	var operator models.Operator
	if err := r.db.WithContext(ctx).First(&operator, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &operator, nil
}

// UpdateLastLogin refreshes the operator's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Operator{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}
