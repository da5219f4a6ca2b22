package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/carewell/carebook-backend/pkg/db/models"
)

// Repository manages persistence for ledger entries. The ledger is
// append-only; no update or delete operations exist.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, entry *models.LedgerEntry) error
	ListByCustomerID(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.LedgerEntry, int64, error)
	List(ctx context.Context, params ListParams) ([]models.LedgerEntry, int64, error)
	ListAll(ctx context.Context) ([]models.LedgerEntry, error)
	FindByLegacyID(ctx context.Context, legacyID string) (*models.LedgerEntry, error)
	Count(ctx context.Context) (int64, error)
}

// ListParams page through a customer's ledger history.
type ListParams struct {
	Limit  int
	Offset int
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) ListByCustomerID(ctx context.Context, customerID uuid.UUID, params ListParams) ([]models.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("customer_id = ?", customerID)

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

	var entries []models.LedgerEntry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]models.LedgerEntry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.LedgerEntry{})

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

	var entries []models.LedgerEntry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindByLegacyID(ctx context.Context, legacyID string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	if err := r.db.WithContext(ctx).Where("legacy_id = ?", legacyID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.LedgerEntry{}).Count(&total).Error
	return total, err
}
