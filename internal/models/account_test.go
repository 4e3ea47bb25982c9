package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestAccountTrimWhitespace() {
	account := suite.createTestAccount(models.Account{
		Name:        "  Checking  ",
		Institution: " Example Bank ",
		Currency:    " usd ",
	})

	assert.Equal(suite.T(), "Checking", account.Name)
	assert.Equal(suite.T(), "Example Bank", account.Institution)
	assert.Equal(suite.T(), "USD", account.Currency)
}

func (suite *TestSuiteStandard) TestAccountCurrencyDefault() {
	account := suite.createTestAccount(models.Account{})
	assert.Equal(suite.T(), "USD", account.Currency)
}

func (suite *TestSuiteStandard) TestAccountCreateChecksUser() {
	account := models.Account{
		UserID: uuid.New(),
		Name:   "Orphaned",
	}

	err := models.DB.Create(&account).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}

func (suite *TestSuiteStandard) TestAccountByID() {
	user := suite.createTestUser(models.User{})
	account := suite.createTestAccount(models.Account{
		UserID:           user.ID,
		AvailableBalance: decimal.NewFromFloat(512.75),
	})

	tests := []struct {
		name   string
		userID uuid.UUID
		id     uuid.UUID
		err    error
	}{
		{"own account", user.ID, account.ID, nil},
		{"unknown account", user.ID, uuid.New(), models.ErrResourceNotFound},
		{"account of another user", uuid.New(), account.ID, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			found, err := models.AccountByID(models.DB, tt.userID, tt.id)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}

			require.Nil(t, err)
			assert.Equal(t, account.ID, found.ID)
			assert.True(t, found.AvailableBalance.Equal(decimal.NewFromFloat(512.75)))
		})
	}
}
