package initializers

import (
	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/models"
)

// SyncDatabase creates or alters every table the API owns.
func SyncDatabase(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.PromoCode{},
		&models.Transaction{},
		&models.EmailConfirmation{},
	); err != nil {
		return errors.Wrap(err, "auto migrate")
	}
	return nil
}
