package goals

import (
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Summary aggregates all goals of a user.
type Summary struct {
	TotalGoals         int             `json:"totalGoals" example:"7"`
	ActiveGoals        int             `json:"activeGoals" example:"4"`
	CompletedGoals     int             `json:"completedGoals" example:"2"`
	CancelledGoals     int             `json:"cancelledGoals" example:"1"`
	OverdueGoals       int             `json:"overdueGoals" example:"1"`
	TotalTargetAmount  decimal.Decimal `json:"totalTargetAmount" example:"15000"`
	TotalCurrentAmount decimal.Decimal `json:"totalCurrentAmount" example:"4720.5"`
	OverallProgress    decimal.Decimal `json:"overallProgress" example:"31.47"`
}

// CategoryStatistics aggregates the goals of one category.
type CategoryStatistics struct {
	Count        int             `json:"count" example:"2"`
	Completed    int             `json:"completed" example:"1"`
	TotalTarget  decimal.Decimal `json:"totalTarget" example:"5000"`
	TotalCurrent decimal.Decimal `json:"totalCurrent" example:"1250"`
}

// StatusStatistics aggregates the goals of one status.
type StatusStatistics struct {
	Count        int             `json:"count" example:"4"`
	TotalTarget  decimal.Decimal `json:"totalTarget" example:"10000"`
	TotalCurrent decimal.Decimal `json:"totalCurrent" example:"3470.5"`
}

// Statistics is the full breakdown of a user's goals.
type Statistics struct {
	Summary    Summary                                    `json:"summary"`
	ByCategory map[models.GoalCategory]CategoryStatistics `json:"byCategory"`
	ByStatus   map[models.GoalStatus]StatusStatistics     `json:"byStatus"`
}

// Summary returns the aggregate numbers over all goals of the user.
func (s *Service) Summary(userID uuid.UUID) (Summary, error) {
	statistics, err := s.Statistics(userID)
	if err != nil {
		return Summary{}, err
	}

	return statistics.Summary, nil
}

// Statistics computes the summary and the per-category and per-status
// breakdowns in a single pass over the user's goals.
//
// Every valid category and status appears in the breakdown, with zero
// values when the user has no matching goals.
func (s *Service) Statistics(userID uuid.UUID) (Statistics, error) {
	if err := s.checkUser(userID); err != nil {
		return Statistics{}, err
	}

	goals := make([]models.Goal, 0)
	err := s.db.Where(&models.Goal{UserID: userID}).Find(&goals).Error
	if err != nil {
		return Statistics{}, err
	}

	statistics := Statistics{
		ByCategory: make(map[models.GoalCategory]CategoryStatistics, len(models.GoalCategories())),
		ByStatus:   make(map[models.GoalStatus]StatusStatistics, len(models.GoalStatuses())),
	}

	for _, category := range models.GoalCategories() {
		statistics.ByCategory[category] = CategoryStatistics{}
	}

	for _, status := range models.GoalStatuses() {
		statistics.ByStatus[status] = StatusStatistics{}
	}

	today := types.Today()
	for _, goal := range goals {
		// The sums track manual contributions only, reservations are
		// a view on the account and not money already saved
		statistics.Summary.TotalGoals++
		statistics.Summary.TotalTargetAmount = statistics.Summary.TotalTargetAmount.Add(goal.TargetAmount)
		statistics.Summary.TotalCurrentAmount = statistics.Summary.TotalCurrentAmount.Add(goal.CurrentAmount)

		switch goal.Status {
		case models.StatusActive:
			statistics.Summary.ActiveGoals++
		case models.StatusCompleted:
			statistics.Summary.CompletedGoals++
		case models.StatusCancelled:
			statistics.Summary.CancelledGoals++
		}

		if goal.IsOverdue(today) {
			statistics.Summary.OverdueGoals++
		}

		if byCategory, ok := statistics.ByCategory[goal.Category]; ok {
			byCategory.Count++
			byCategory.TotalTarget = byCategory.TotalTarget.Add(goal.TargetAmount)
			byCategory.TotalCurrent = byCategory.TotalCurrent.Add(goal.CurrentAmount)

			if goal.Status == models.StatusCompleted {
				byCategory.Completed++
			}

			statistics.ByCategory[goal.Category] = byCategory
		}

		if byStatus, ok := statistics.ByStatus[goal.Status]; ok {
			byStatus.Count++
			byStatus.TotalTarget = byStatus.TotalTarget.Add(goal.TargetAmount)
			byStatus.TotalCurrent = byStatus.TotalCurrent.Add(goal.CurrentAmount)

			statistics.ByStatus[goal.Status] = byStatus
		}
	}

	if statistics.Summary.TotalTargetAmount.IsPositive() {
		statistics.Summary.OverallProgress = statistics.Summary.TotalCurrentAmount.
			Div(statistics.Summary.TotalTargetAmount).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return statistics, nil
}
