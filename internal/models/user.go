package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the owner of accounts and goals.
//
// Registration, authentication and session handling happen in the API
// gateway, this record only anchors ownership.
type User struct {
	DefaultModel
	Name  string
	Email string `gorm:"uniqueIndex"`
}

var ErrUserEmailNotUnique = errors.New("the email address is already in use")

// BeforeSave trims whitespace and normalizes the email address.
func (u *User) BeforeSave(_ *gorm.DB) error {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))

	return nil
}

// UserExists reports whether a user with the ID exists.
func UserExists(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	err := db.Model(&User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
