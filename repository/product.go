package repository

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/models"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// ProductFilter narrows and paginates a catalog listing.
type ProductFilter struct {
	Search   string
	Category string
	Page     int
	Limit    int
}

// Normalize clamps the page and page size into their valid ranges.
func (f *ProductFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
}

// ProductUpdate carries the fields of a partial product update; nil fields
// are left untouched.
type ProductUpdate struct {
	Name     *string
	Category *string
	Image    *string
	Price    *decimal.Decimal
	Quantity *int
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one page of products ordered by ID together with the total
// number of matches.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	f.Normalize()

	filter := func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+f.Search+"%")
		}
		if f.Category != "" {
			db = db.Where("category = ?", f.Category)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "count products")
	}

	products := make([]models.Product, 0, f.Limit)
	if err := r.db.WithContext(ctx).Scopes(filter).
		Order("id").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&products).Error; err != nil {
		return nil, 0, errors.Wrap(err, "list products")
	}
	return products, total, nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

// Update applies a partial update and returns the stored product.
func (r *ProductRepository) Update(ctx context.Context, id uint, u ProductUpdate) (*models.Product, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Quantity != nil {
		p.Quantity = *u.Quantity
	}

	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
