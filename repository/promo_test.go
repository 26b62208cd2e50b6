package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kariqs/treats-api/models"
)

func TestPromoRepository_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := NewPromoRepository(newTestDB(t))

	p := &models.PromoCode{Code: "SPRING", Name: "Spring sale", Discount: models.DefaultPromoDiscount, IsActive: true}
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID)

	dup := &models.PromoCode{Code: "SPRING", Name: "Again", Discount: decimal.NewFromInt(5), IsActive: true}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrConflict)

	expiry := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	inactive := false
	name := "Spring clearance"
	got, err := repo.Update(ctx, p.ID, PromoUpdate{Name: &name, ExpirationDate: &expiry, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "SPRING", got.Code)
	assert.Equal(t, name, got.Name)
	assert.False(t, got.IsActive)
	require.NotNil(t, got.ExpirationDate)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, p.ID))
	_, err = repo.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)

	// The code is free again once the row is gone.
	require.NoError(t, repo.Create(ctx, &models.PromoCode{Code: "SPRING", Name: "Back", Discount: decimal.NewFromInt(15)}))
}

func TestPromoRepository_UpdateCodeConflict(t *testing.T) {
	ctx := context.Background()
	repo := NewPromoRepository(newTestDB(t))

	a := &models.PromoCode{Code: "A", Name: "a", Discount: decimal.NewFromInt(5)}
	b := &models.PromoCode{Code: "B", Name: "b", Discount: decimal.NewFromInt(5)}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	code := "A"
	_, err := repo.Update(ctx, b.ID, PromoUpdate{Code: &code})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = repo.Update(ctx, a.ID, PromoUpdate{Code: &code})
	require.NoError(t, err, "keeping its own code is allowed")
}

func TestPromoRepository_FindByCode(t *testing.T) {
	ctx := context.Background()
	repo := NewPromoRepository(newTestDB(t))

	p := &models.PromoCode{Code: "WELCOME", Name: "Welcome Back", Discount: decimal.NewFromInt(15), IsActive: true}
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.FindByCode(ctx, "WELCOME")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "Welcome Back", got.Name)

	_, err = repo.FindByCode(ctx, "MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}
