package models_test

import (
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestConnectInvalidPath() {
	err := models.Connect("/this/path/does/not/exist/database.db")
	assert.NotNil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestNotFoundMessage() {
	var goal models.Goal
	err := models.DB.First(&goal, "id = ?", uuid.New()).Error

	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Equal(suite.T(), "there is no goal matching your query", err.Error())
}

func (suite *TestSuiteStandard) TestGeneralErrorOnClosedDB() {
	suite.CloseDB()

	var goals []models.Goal
	err := models.DB.Find(&goals).Error
	assert.ErrorIs(suite.T(), err, models.ErrGeneral)
}
