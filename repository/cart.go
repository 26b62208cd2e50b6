package repository

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Kariqs/treats-api/cart"
	"github.com/Kariqs/treats-api/models"
)

type CartRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db, now: time.Now}
}

// Lines joins the user's cart items with their products. A user without a
// cart has no lines; that is not an error. Items whose product was deleted
// from the catalog are skipped.
func (r *CartRepository) Lines(ctx context.Context, userID string) ([]cart.Line, error) {
	lines := make([]cart.Line, 0)
	err := r.db.WithContext(ctx).
		Table("cart_items").
		Select("cart_items.product_id, products.name, products.price, cart_items.quantity, products.image").
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Joins("JOIN products ON products.id = cart_items.product_id AND products.deleted_at IS NULL").
		Where("carts.user_id = ?", userID).
		Order("cart_items.id").
		Scan(&lines).Error
	if err != nil {
		return nil, errors.Wrap(err, "load cart lines")
	}
	return lines, nil
}

// AddItem adds quantity units of a product to the user's cart, creating the
// cart on first use. An existing line is incremented in place by a single
// conditional upsert, so concurrent adds of the same product converge on one
// row holding the summed quantity.
func (r *CartRepository) AddItem(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity < 1 {
		return errors.Errorf("quantity must be at least 1, got %d", quantity)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check product")
		}
		if n == 0 {
			return ErrProductNotFound
		}

		c, err := findOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		now := r.now()
		item := models.CartItem{
			CartID:    c.ID,
			ProductID: productID,
			Quantity:  quantity,
			CreatedAt: now,
			UpdatedAt: now,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + ?", quantity),
				"updated_at": now,
			}),
		}).Create(&item).Error
		if err != nil {
			return errors.Wrap(err, "upsert cart item")
		}
		return nil
	})
}

// UpdateQuantity overwrites the quantity of an existing line.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID string, productID uint, quantity int) error {
	if quantity < 1 {
		return errors.Errorf("quantity must be at least 1, got %d", quantity)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findCart(tx, userID)
		if err != nil {
			return err
		}

		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", c.ID, productID).First(&item).Error; err != nil {
			return translate(err)
		}

		return tx.Model(&item).Updates(map[string]any{
			"quantity":   quantity,
			"updated_at": r.now(),
		}).Error
	})
}

// RemoveItem deletes one line from the user's cart.
func (r *CartRepository) RemoveItem(ctx context.Context, userID string, productID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findCart(tx, userID)
		if err != nil {
			return err
		}

		result := tx.Where("cart_id = ? AND product_id = ?", c.ID, productID).Delete(&models.CartItem{})
		if result.Error != nil {
			return errors.Wrap(result.Error, "delete cart item")
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Clear removes every line from the user's cart. Clearing a cart that does
// not exist is a no-op.
func (r *CartRepository) Clear(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		c, err := findCart(tx, userID)
		if errors.Is(err, ErrCartNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return tx.Where("cart_id = ?", c.ID).Delete(&models.CartItem{}).Error
	})
}

func findCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	var c models.Cart
	if err := tx.Where("user_id = ?", userID).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, errors.Wrap(err, "find cart")
	}
	return &c, nil
}

func findOrCreateCart(tx *gorm.DB, userID string) (*models.Cart, error) {
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Cart{UserID: userID}).Error; err != nil {
		return nil, errors.Wrap(err, "create cart")
	}
	return findCart(tx, userID)
}
