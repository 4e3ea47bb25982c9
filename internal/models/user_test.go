package models_test

import (
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestUserNormalization() {
	user := suite.createTestUser(models.User{
		Name:  "  Jordan Example ",
		Email: " Jordan@Example.Com ",
	})

	assert.Equal(suite.T(), "Jordan Example", user.Name)
	assert.Equal(suite.T(), "jordan@example.com", user.Email)
}

func (suite *TestSuiteStandard) TestUserEmailUnique() {
	_ = suite.createTestUser(models.User{Email: "duplicate@example.com"})

	second := models.User{Email: "duplicate@example.com"}
	err := models.DB.Create(&second).Error
	assert.ErrorIs(suite.T(), err, models.ErrUserEmailNotUnique)
}

func (suite *TestSuiteStandard) TestUserExists() {
	user := suite.createTestUser(models.User{})

	exists, err := models.UserExists(models.DB, user.ID)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), exists)

	exists, err = models.UserExists(models.DB, uuid.New())
	require.Nil(suite.T(), err)
	assert.False(suite.T(), exists)
}
