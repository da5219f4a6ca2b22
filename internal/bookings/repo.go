package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/db/models"
	"github.com/carewell/carebook-backend/pkg/enums"
)

// Repository manages persistence for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	FindByLegacyID(ctx context.Context, legacyID string) (*models.Booking, error)
	ListByCustomerID(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.Booking, int64, error)
	List(ctx context.Context, params ListParams) ([]models.Booking, int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status enums.BookingStatus) (int64, error)
}

// ListParams filter and page booking listings. A zero Status means no
// status filter.
type ListParams struct {
	Status enums.BookingStatus
	Limit  int
	Offset int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a booking repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return normalizeStatus(&booking)
}

func (r *repository) FindByLegacyID(ctx context.Context, legacyID string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("legacy_id = ?", legacyID).First(&booking).Error; err != nil {
		return nil, err
	}
	return normalizeStatus(&booking)
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.Booking, int64, error) {
	return r.list(ctx, params, func(query *gorm.DB) *gorm.DB {
		return query.Where("customer_id = ?", customerID)
	})
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.Booking, int64, error) {
	return r.list(ctx, params, nil)
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid booking status %q", status)
	}
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).Count(&total).Error
	return total, err
}

// CountByStatus counts bookings in the given status. Rows with an absent
// status count as pending, mirroring normalizeStatus.
func (r *repository) CountByStatus(ctx context.Context, status enums.BookingStatus) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if status == enums.BookingStatusPending {
		query = query.Where("status = ? OR status = '' OR status IS NULL", status)
	} else {
		query = query.Where("status = ?", status)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

func (r *repository) list(ctx context.Context, params ListParams, scope func(*gorm.DB) *gorm.DB) ([]models.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Booking{})
	if scope != nil {
		query = scope(query)
	}
	if params.Status != "" {
		if !params.Status.IsValid() {
			return nil, 0, fmt.Errorf("invalid booking status filter %q", params.Status)
		}
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	var result []models.Booking
	if err := query.Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, 0, err
	}
	for i := range result {
		if _, err := normalizeStatus(&result[i]); err != nil {
			return nil, 0, err
		}
	}
	return result, total, nil
}

// normalizeStatus maps an absent stored status to pending and rejects
// values outside the closed enum at the storage boundary.
func normalizeStatus(booking *models.Booking) (*models.Booking, error) {
	if booking.Status == "" {
		booking.Status = enums.BookingStatusPending
		return booking, nil
	}
	if !booking.Status.IsValid() {
		return nil, fmt.Errorf("booking %s has unknown status %q", booking.ID, booking.Status)
	}
	return booking, nil
}
