package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Account is a snapshot of an external bank account.
//
// The available balance is written by the bank data synchronization,
// which is not part of this service. Goals reserve parts of it via
// their linked amount.
type Account struct {
	DefaultModel
	User             User      `json:"-"`
	UserID           uuid.UUID `gorm:"index"`
	Name             string
	Institution      string
	Currency         string
	AvailableBalance decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

// BeforeSave trims whitespace and defaults the currency.
func (a *Account) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.Institution = strings.TrimSpace(a.Institution)

	a.Currency = strings.ToUpper(strings.TrimSpace(a.Currency))
	if a.Currency == "" {
		a.Currency = "USD"
	}

	return nil
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Account)
	return a.checkIntegrity(tx, *toSave)
}

// checkIntegrity verifies references to other resources
func (a *Account) checkIntegrity(tx *gorm.DB, toSave Account) error {
	return tx.First(&User{}, toSave.UserID).Error
}

// AccountsByUser returns all accounts of the user.
func AccountsByUser(db *gorm.DB, userID uuid.UUID) ([]Account, error) {
	accounts := make([]Account, 0)
	err := db.Where(&Account{UserID: userID}).Find(&accounts).Error
	return accounts, err
}

// AccountByID returns the account with the ID, scoped to the user.
//
// An account owned by another user is indistinguishable from an
// account that does not exist.
func AccountByID(db *gorm.DB, userID, accountID uuid.UUID) (Account, error) {
	var account Account
	err := db.Where(&Account{UserID: userID}).First(&account, "accounts.id = ?", accountID).Error
	if err != nil {
		return Account{}, err
	}

	return account, nil
}
