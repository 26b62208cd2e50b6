package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/initializers"
	"github.com/Kariqs/treats-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := initializers.ConnectToDB(context.Background(), &initializers.Config{
		DatabaseDriver: initializers.DriverSQLite,
		DatabaseURI:    ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, initializers.SyncDatabase(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name, price string) models.Product {
	t.Helper()

	p := models.Product{
		Name:     name,
		Category: "cakes",
		Image:    name + ".png",
		Price:    decimal.RequireFromString(price),
		Quantity: 10,
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}
