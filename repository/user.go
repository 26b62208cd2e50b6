package repository

import (
	"context"

	"github.com/go-faster/errors"
	"gorm.io/gorm"

	"github.com/Kariqs/treats-api/models"
	"github.com/Kariqs/treats-api/utils"
)

// userIDBytes yields the six-character opaque user code.
const userIDBytes = 3

const maxIDAttempts = 5

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create assigns a fresh short code ID and inserts the user. It returns
// ErrConflict when the email is already registered under any role.
func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	taken, err := r.EmailTaken(ctx, u.Email, "")
	if err != nil {
		return err
	}
	if taken {
		return ErrConflict
	}

	for range maxIDAttempts {
		id, err := utils.GenerateCode(userIDBytes)
		if err != nil {
			return errors.Wrap(err, "generate user id")
		}

		var n int64
		if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return errors.Wrap(err, "check user id")
		}
		if n > 0 {
			continue
		}

		u.ID = id
		if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
			return translate(err)
		}
		return nil
	}
	return errors.New("could not allocate a unique user id")
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// EmailTaken reports whether any identity other than exceptID uses email.
func (r *UserRepository) EmailTaken(ctx context.Context, email, exceptID string) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "check email")
	}
	return n > 0, nil
}

// Save persists every column of an existing user.
func (r *UserRepository) Save(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Save(u).Error)
}
