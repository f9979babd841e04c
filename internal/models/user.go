package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User describes an account that can own notifications and hold roles.
type User struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Roles         []Role         `gorm:"many2many:user_roles;" json:"roles,omitempty"`
	Notifications []Notification `gorm:"foreignKey:UserID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures a UUID is present before persisting.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
