package goals_test

import (
	"github.com/moneymap/backend/internal/goals"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestStatistics() {
	user := suite.createTestUser(models.User{})
	account := suite.createTestAccount(models.Account{
		UserID:           user.ID,
		AvailableBalance: decimal.NewFromFloat(1000),
	})

	past := types.Today().AddDays(-1)

	_ = suite.createTestGoal(models.Goal{
		UserID:        user.ID,
		TargetAmount:  decimal.NewFromFloat(1000),
		CurrentAmount: decimal.NewFromFloat(200),
		Category:      models.CategorySavings,
	})
	_ = suite.createTestGoal(models.Goal{
		UserID:          user.ID,
		TargetAmount:    decimal.NewFromFloat(2000),
		CurrentAmount:   decimal.NewFromFloat(100),
		Category:        models.CategorySavings,
		LinkedAccountID: &account.ID,
		LinkedAmount:    decimalP(300),
		Deadline:        &past,
	})
	_ = suite.createTestGoal(models.Goal{
		UserID:        user.ID,
		TargetAmount:  decimal.NewFromFloat(500),
		CurrentAmount: decimal.NewFromFloat(500),
		Category:      models.CategoryVacation,
		Status:        models.StatusCompleted,
	})
	_ = suite.createTestGoal(models.Goal{
		UserID:       user.ID,
		TargetAmount: decimal.NewFromFloat(500),
		Status:       models.StatusCancelled,
	})
	_ = suite.createTestGoal(models.Goal{}) // another user

	statistics, err := suite.service.Statistics(user.ID)
	require.Nil(suite.T(), err)

	summary := statistics.Summary
	assert.Equal(suite.T(), 4, summary.TotalGoals)
	assert.Equal(suite.T(), 2, summary.ActiveGoals)
	assert.Equal(suite.T(), 1, summary.CompletedGoals)
	assert.Equal(suite.T(), 1, summary.CancelledGoals)
	assert.Equal(suite.T(), 1, summary.OverdueGoals)
	assert.True(suite.T(), summary.TotalTargetAmount.Equal(decimal.NewFromFloat(4000)))
	assert.True(suite.T(), summary.TotalCurrentAmount.Equal(decimal.NewFromFloat(800)))
	assert.True(suite.T(), summary.OverallProgress.Equal(decimal.NewFromFloat(20)))

	savings := statistics.ByCategory[models.CategorySavings]
	assert.Equal(suite.T(), 2, savings.Count)
	assert.Equal(suite.T(), 0, savings.Completed)
	assert.True(suite.T(), savings.TotalTarget.Equal(decimal.NewFromFloat(3000)))
	assert.True(suite.T(), savings.TotalCurrent.Equal(decimal.NewFromFloat(300)))

	vacation := statistics.ByCategory[models.CategoryVacation]
	assert.Equal(suite.T(), 1, vacation.Count)
	assert.Equal(suite.T(), 1, vacation.Completed)

	// Categories without goals are present with zero values
	bills, ok := statistics.ByCategory[models.CategoryBills]
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), 0, bills.Count)
	assert.True(suite.T(), bills.TotalTarget.IsZero())

	active := statistics.ByStatus[models.StatusActive]
	assert.Equal(suite.T(), 2, active.Count)
	assert.True(suite.T(), active.TotalTarget.Equal(decimal.NewFromFloat(3000)))

	completed := statistics.ByStatus[models.StatusCompleted]
	assert.Equal(suite.T(), 1, completed.Count)
	assert.True(suite.T(), completed.TotalCurrent.Equal(decimal.NewFromFloat(500)))
}

func (suite *TestSuiteStandard) TestStatisticsEmpty() {
	user := suite.createTestUser(models.User{})

	statistics, err := suite.service.Statistics(user.ID)
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), 0, statistics.Summary.TotalGoals)
	assert.True(suite.T(), statistics.Summary.OverallProgress.IsZero())
	assert.Len(suite.T(), statistics.ByCategory, len(models.GoalCategories()))
	assert.Len(suite.T(), statistics.ByStatus, len(models.GoalStatuses()))
}

func (suite *TestSuiteStandard) TestSummary() {
	user := suite.createTestUser(models.User{})

	_ = suite.createTestGoal(models.Goal{
		UserID:        user.ID,
		TargetAmount:  decimal.NewFromFloat(100),
		CurrentAmount: decimal.NewFromFloat(50),
	})

	summary, err := suite.service.Summary(user.ID)
	require.Nil(suite.T(), err)

	assert.Equal(suite.T(), 1, summary.TotalGoals)
	assert.True(suite.T(), summary.OverallProgress.Equal(decimal.NewFromInt(50)))
}

func (suite *TestSuiteStandard) TestCategories() {
	categories := goals.Categories()
	require.Len(suite.T(), categories, len(models.GoalCategories()))

	labels := make(map[models.GoalCategory]string, len(categories))
	for _, category := range categories {
		labels[category.Value] = category.Label
	}

	assert.Equal(suite.T(), "Savings", labels[models.CategorySavings])
	assert.Equal(suite.T(), "Emergency Fund", labels[models.CategoryEmergency])
}
