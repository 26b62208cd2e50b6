// Package repository holds the gorm-backed stores used by the HTTP
// controllers. Lookups that find nothing return ErrNotFound and uniqueness
// violations return ErrConflict regardless of the SQL dialect underneath.
package repository

import (
	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrConflict        = errors.New("record already exists")
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
)

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}
