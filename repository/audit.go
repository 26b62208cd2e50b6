package repository

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/models"
)

// AuditRepository stores the append-only payment and email records.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) RecordTransaction(ctx context.Context, t *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		return errors.Wrap(err, "record transaction")
	}
	return nil
}

func (r *AuditRepository) TransactionsByOrder(ctx context.Context, orderID string) ([]models.Transaction, error) {
	txs := make([]models.Transaction, 0)
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id").Find(&txs).Error; err != nil {
		return nil, errors.Wrap(err, "list transactions")
	}
	return txs, nil
}

func (r *AuditRepository) RecordConfirmation(ctx context.Context, c *models.EmailConfirmation) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return errors.Wrap(err, "record email confirmation")
	}
	return nil
}

// Confirmations returns every stored confirmation, newest first.
func (r *AuditRepository) Confirmations(ctx context.Context) ([]models.EmailConfirmation, error) {
	out := make([]models.EmailConfirmation, 0)
	if err := r.db.WithContext(ctx).Order("date DESC, id DESC").Find(&out).Error; err != nil {
		return nil, errors.Wrap(err, "list email confirmations")
	}
	return out, nil
}
