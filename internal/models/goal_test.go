package models_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestGoalAfterSave() {
	accountID := uuid.New()
	linked := decimal.NewFromFloat(100)
	negative := decimal.NewFromFloat(-1)

	tests := []struct {
		name string
		goal models.Goal
		err  error
	}{
		{
			"valid",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), Status: models.StatusActive},
			nil,
		},
		{
			"title missing",
			models.Goal{TargetAmount: decimal.NewFromFloat(750), Status: models.StatusActive},
			models.ErrGoalTitleRequired,
		},
		{
			"target amount zero",
			models.Goal{Title: "TV", Status: models.StatusActive},
			models.ErrGoalTargetAmountNotPositive,
		},
		{
			"target amount negative",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(-10), Status: models.StatusActive},
			models.ErrGoalTargetAmountNotPositive,
		},
		{
			"current amount negative",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), CurrentAmount: negative, Status: models.StatusActive},
			models.ErrGoalCurrentAmountNegative,
		},
		{
			"linked amount negative",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), LinkedAccountID: &accountID, LinkedAmount: &negative, Status: models.StatusActive},
			models.ErrGoalLinkedAmountNegative,
		},
		{
			"linked amount without account",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), LinkedAmount: &linked, Status: models.StatusActive},
			models.ErrGoalLinkedAmountNeedsAccount,
		},
		{
			"invalid category",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), Category: "gadgets", Status: models.StatusActive},
			models.ErrGoalCategoryInvalid,
		},
		{
			"invalid status",
			models.Goal{Title: "TV", TargetAmount: decimal.NewFromFloat(750), Status: "paused"},
			models.ErrGoalStatusInvalid,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := tt.goal.AfterSave(&gorm.DB{})
			assert.Equal(t, tt.err, err)
		})
	}
}

func (suite *TestSuiteStandard) TestGoalTrimWhitespace() {
	title := "  New car  \t"
	description := " Save for a used station wagon    "

	goal := suite.createTestGoal(models.Goal{
		Title:       title,
		Description: description,
	})

	assert.Equal(suite.T(), strings.TrimSpace(title), goal.Title)
	assert.Equal(suite.T(), strings.TrimSpace(description), goal.Description)
}

func (suite *TestSuiteStandard) TestGoalDefaults() {
	goal := suite.createTestGoal(models.Goal{})

	assert.Equal(suite.T(), models.StatusActive, goal.Status)
	assert.True(suite.T(), goal.CurrentAmount.IsZero())
	assert.Nil(suite.T(), goal.LinkedAmount)
}

func (suite *TestSuiteStandard) TestGoalCreateChecksReferences() {
	user := suite.createTestUser(models.User{})
	otherUser := suite.createTestUser(models.User{})
	foreignAccount := suite.createTestAccount(models.Account{UserID: otherUser.ID})
	missingAccountID := uuid.New()

	tests := []struct {
		name      string
		userID    uuid.UUID
		accountID *uuid.UUID
		err       error
	}{
		{"unknown user", uuid.New(), nil, models.ErrResourceNotFound},
		{"unknown account", user.ID, &missingAccountID, models.ErrResourceNotFound},
		{"account of another user", user.ID, &foreignAccount.ID, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			goal := models.Goal{
				UserID:          tt.userID,
				Title:           "Integrity",
				TargetAmount:    decimal.NewFromFloat(100),
				LinkedAccountID: tt.accountID,
			}

			err := models.DB.Create(&goal).Error
			assert.ErrorIs(t, err, tt.err, "Error is: %s", err)
		})
	}
}

func (suite *TestSuiteStandard) TestGoalUpdateChecksReferences() {
	user := suite.createTestUser(models.User{})
	goal := suite.createTestGoal(models.Goal{UserID: user.ID})

	account := suite.createTestAccount(models.Account{UserID: user.ID})
	missingID := uuid.New()

	tests := []struct {
		name      string
		accountID *uuid.UUID
		err       error
	}{
		{"valid account", &account.ID, nil},
		{"unknown account", &missingID, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			err := models.DB.Model(&goal).Select("LinkedAccountID").Updates(models.Goal{LinkedAccountID: tt.accountID}).Error
			assert.ErrorIs(t, err, tt.err, "Error is: %s", err)
		})
	}
}

func (suite *TestSuiteStandard) TestGoalApplyProgress() {
	accountID := uuid.New()
	fifty := decimal.NewFromFloat(50)

	suite.T().Run("manual accumulates and completes", func(t *testing.T) {
		goal := models.Goal{
			Title:        "Laptop",
			TargetAmount: decimal.NewFromFloat(100),
			Status:       models.StatusActive,
		}

		require.Nil(t, goal.ApplyProgress(decimal.NewFromFloat(60), models.ProgressManual))
		assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromFloat(60)))
		assert.Equal(t, models.StatusActive, goal.Status)

		require.Nil(t, goal.ApplyProgress(decimal.NewFromFloat(40), models.ProgressManual))
		assert.True(t, goal.CurrentAmount.Equal(decimal.NewFromFloat(100)))
		assert.Equal(t, models.StatusCompleted, goal.Status)
		assert.True(t, goal.ProgressPercentage().Equal(decimal.NewFromInt(100)))
	})

	suite.T().Run("linked accumulates", func(t *testing.T) {
		goal := models.Goal{
			Title:           "Laptop",
			TargetAmount:    decimal.NewFromFloat(1000),
			Status:          models.StatusActive,
			LinkedAccountID: &accountID,
			LinkedAmount:    &fifty,
		}

		require.Nil(t, goal.ApplyProgress(decimal.NewFromFloat(25), models.ProgressLinked))
		assert.True(t, goal.LinkedAmount.Equal(decimal.NewFromFloat(75)))
		assert.Equal(t, models.StatusActive, goal.Status)
	})

	suite.T().Run("linked requires linked account", func(t *testing.T) {
		goal := models.Goal{
			Title:        "Laptop",
			TargetAmount: decimal.NewFromFloat(1000),
			Status:       models.StatusActive,
		}

		err := goal.ApplyProgress(decimal.NewFromFloat(25), models.ProgressLinked)
		assert.ErrorIs(t, err, models.ErrGoalNotLinked)
		assert.True(t, goal.CurrentAmount.IsZero())
		assert.Nil(t, goal.LinkedAmount)
	})

	suite.T().Run("amount must be positive", func(t *testing.T) {
		goal := models.Goal{
			Title:        "Laptop",
			TargetAmount: decimal.NewFromFloat(1000),
			Status:       models.StatusActive,
		}

		err := goal.ApplyProgress(decimal.Zero, models.ProgressManual)
		assert.ErrorIs(t, err, models.ErrGoalProgressAmountNotPositive)

		err = goal.ApplyProgress(decimal.NewFromFloat(-5), models.ProgressManual)
		assert.ErrorIs(t, err, models.ErrGoalProgressAmountNotPositive)
	})

	suite.T().Run("invalid progress type", func(t *testing.T) {
		goal := models.Goal{
			Title:        "Laptop",
			TargetAmount: decimal.NewFromFloat(1000),
			Status:       models.StatusActive,
		}

		err := goal.ApplyProgress(decimal.NewFromFloat(5), "automatic")
		assert.ErrorIs(t, err, models.ErrGoalProgressTypeInvalid)
	})

	suite.T().Run("completion does not revert", func(t *testing.T) {
		goal := models.Goal{
			Title:         "Laptop",
			TargetAmount:  decimal.NewFromFloat(100),
			CurrentAmount: decimal.NewFromFloat(100),
			Status:        models.StatusCompleted,
		}

		require.Nil(t, goal.ApplyProgress(decimal.NewFromFloat(1), models.ProgressManual))
		assert.Equal(t, models.StatusCompleted, goal.Status)
	})
}

func (suite *TestSuiteStandard) TestGoalProgressPercentage() {
	linked := decimal.NewFromFloat(25)
	accountID := uuid.New()

	tests := []struct {
		name     string
		goal     models.Goal
		expected decimal.Decimal
	}{
		{
			"zero progress",
			models.Goal{TargetAmount: decimal.NewFromFloat(100)},
			decimal.Zero,
		},
		{
			"manual and linked combined",
			models.Goal{TargetAmount: decimal.NewFromFloat(100), CurrentAmount: decimal.NewFromFloat(25), LinkedAccountID: &accountID, LinkedAmount: &linked},
			decimal.NewFromFloat(50),
		},
		{
			"capped at 100",
			models.Goal{TargetAmount: decimal.NewFromFloat(100), CurrentAmount: decimal.NewFromFloat(250)},
			decimal.NewFromInt(100),
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.goal.ProgressPercentage().Equal(tt.expected), "percentage is %s", tt.goal.ProgressPercentage())
		})
	}
}

func (suite *TestSuiteStandard) TestGoalDaysRemaining() {
	today := types.NewDate(2026, 8, 23)

	suite.T().Run("no deadline", func(t *testing.T) {
		goal := models.Goal{}
		assert.Nil(t, goal.DaysRemaining(today))
	})

	suite.T().Run("future deadline", func(t *testing.T) {
		deadline := types.NewDate(2026, 8, 30)
		goal := models.Goal{Deadline: &deadline}

		days := goal.DaysRemaining(today)
		require.NotNil(t, days)
		assert.Equal(t, 7, *days)
	})

	suite.T().Run("past deadline is negative", func(t *testing.T) {
		deadline := types.NewDate(2026, 8, 20)
		goal := models.Goal{Deadline: &deadline}

		days := goal.DaysRemaining(today)
		require.NotNil(t, days)
		assert.Equal(t, -3, *days)
	})
}

func (suite *TestSuiteStandard) TestGoalIsOverdue() {
	today := types.NewDate(2026, 8, 23)
	past := types.NewDate(2026, 8, 1)
	future := types.NewDate(2026, 9, 1)

	tests := []struct {
		name     string
		goal     models.Goal
		expected bool
	}{
		{"no deadline", models.Goal{Status: models.StatusActive}, false},
		{"future deadline", models.Goal{Status: models.StatusActive, Deadline: &future}, false},
		{"past deadline, active", models.Goal{Status: models.StatusActive, Deadline: &past}, true},
		{"past deadline, completed", models.Goal{Status: models.StatusCompleted, Deadline: &past}, false},
		{"past deadline, cancelled", models.Goal{Status: models.StatusCancelled, Deadline: &past}, false},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.goal.IsOverdue(today))
		})
	}
}

func (suite *TestSuiteStandard) TestSumLinkedAmount() {
	user := suite.createTestUser(models.User{})
	account := suite.createTestAccount(models.Account{UserID: user.ID, AvailableBalance: decimal.NewFromFloat(1000)})

	first := decimal.NewFromFloat(100)
	second := decimal.NewFromFloat(250)

	goal := suite.createTestGoal(models.Goal{UserID: user.ID, LinkedAccountID: &account.ID, LinkedAmount: &first})
	_ = suite.createTestGoal(models.Goal{UserID: user.ID, LinkedAccountID: &account.ID, LinkedAmount: &second})

	// A goal without a linked amount must not break the sum
	_ = suite.createTestGoal(models.Goal{UserID: user.ID})

	sum, err := models.SumLinkedAmount(models.DB, user.ID, account.ID, uuid.Nil)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(350)), "sum is %s", sum)

	// Excluding a goal removes its linked amount from the sum
	sum, err = models.SumLinkedAmount(models.DB, user.ID, account.ID, goal.ID)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.Equal(decimal.NewFromFloat(250)), "sum is %s", sum)

	// Another user's goals never contribute to the sum
	sum, err = models.SumLinkedAmount(models.DB, uuid.New(), account.ID, uuid.Nil)
	require.Nil(suite.T(), err)
	assert.True(suite.T(), sum.IsZero(), "sum is %s", sum)
}

func (suite *TestSuiteStandard) TestGoalByID() {
	user := suite.createTestUser(models.User{})
	goal := suite.createTestGoal(models.Goal{UserID: user.ID})

	found, err := models.GoalByID(models.DB, user.ID, goal.ID)
	require.Nil(suite.T(), err)
	assert.Equal(suite.T(), goal.ID, found.ID)

	// Another user cannot see the goal
	_, err = models.GoalByID(models.DB, uuid.New(), goal.ID)
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
