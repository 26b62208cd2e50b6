package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the single identity table for shoppers and administrators. Email
// uniqueness across both roles is enforced by one unique index.
type User struct {
	ID        string    `gorm:"primaryKey;size:6" json:"id"`
	Firstname string    `gorm:"size:50" json:"firstname"`
	Lastname  string    `gorm:"size:50" json:"lastname"`
	Username  string    `gorm:"size:50" json:"username,omitempty"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:128;not null" json:"-"`
	Phone     *string   `gorm:"size:20" json:"phone"`
	Address   *string   `gorm:"size:200" json:"address"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type LoginData struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
