package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/models"
)

// PromoUpdate carries the fields of a partial promo code update.
type PromoUpdate struct {
	Code           *string
	Name           *string
	Discount       *decimal.Decimal
	ExpirationDate *time.Time
	ClearExpiry    bool
	IsActive       *bool
}

type PromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) *PromoRepository {
	return &PromoRepository{db: db}
}

func (r *PromoRepository) List(ctx context.Context) ([]models.PromoCode, error) {
	promos := make([]models.PromoCode, 0)
	if err := r.db.WithContext(ctx).Order("id").Find(&promos).Error; err != nil {
		return nil, errors.Wrap(err, "list promo codes")
	}
	return promos, nil
}

func (r *PromoRepository) Get(ctx context.Context, id uint) (*models.PromoCode, error) {
	var p models.PromoCode
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *PromoRepository) FindByCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var p models.PromoCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Create inserts a promo code, returning ErrConflict for a duplicate code.
func (r *PromoRepository) Create(ctx context.Context, p *models.PromoCode) error {
	if err := r.ensureCodeFree(ctx, p.Code, 0); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *PromoRepository) Update(ctx context.Context, id uint, u PromoUpdate) (*models.PromoCode, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Code != nil && *u.Code != p.Code {
		if err := r.ensureCodeFree(ctx, *u.Code, id); err != nil {
			return nil, err
		}
		p.Code = *u.Code
	}
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Discount != nil {
		p.Discount = *u.Discount
	}
	if u.ClearExpiry {
		p.ExpirationDate = nil
	} else if u.ExpirationDate != nil {
		p.ExpirationDate = u.ExpirationDate
	}
	if u.IsActive != nil {
		p.IsActive = *u.IsActive
	}

	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PromoRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PromoRepository) ensureCodeFree(ctx context.Context, code string, exceptID uint) error {
	q := r.db.WithContext(ctx).Model(&models.PromoCode{}).Where("code = ?", code)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return errors.Wrap(err, "check promo code")
	}
	if n > 0 {
		return ErrConflict
	}
	return nil
}
