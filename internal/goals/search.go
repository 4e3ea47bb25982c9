package goals

import (
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// SearchFilter holds the filters for Search. All fields are optional.
type SearchFilter struct {
	Term      string
	Status    models.GoalStatus
	Category  models.GoalCategory
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// Search returns the goals of the user matching all given filters,
// newest first. The term matches title and description, ignoring case.
func (s *Service) Search(userID uuid.UUID, filter SearchFilter) ([]models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}

	if filter.Status != "" && !slices.Contains(models.GoalStatuses(), filter.Status) {
		return nil, models.ErrGoalStatusInvalid
	}

	if filter.Category != "" && !slices.Contains(models.GoalCategories(), filter.Category) {
		return nil, models.ErrGoalCategoryInvalid
	}

	if filter.MinAmount != nil && filter.MinAmount.IsNegative() {
		return nil, ErrSearchAmountNegative
	}

	if filter.MaxAmount != nil && filter.MaxAmount.IsNegative() {
		return nil, ErrSearchAmountNegative
	}

	if filter.MinAmount != nil && filter.MaxAmount != nil && filter.MinAmount.GreaterThan(*filter.MaxAmount) {
		return nil, ErrSearchAmountRangeInverted
	}

	q := s.db.Where(&models.Goal{UserID: userID}).Order("goals.created_at DESC")

	if filter.Term != "" {
		like := "%" + filter.Term + "%"
		q = q.Where("goals.title LIKE ? OR goals.description LIKE ?", like, like)
	}

	if filter.Status != "" {
		q = q.Where("goals.status = ?", filter.Status)
	}

	if filter.Category != "" {
		q = q.Where("goals.category = ?", filter.Category)
	}

	if filter.MinAmount != nil {
		q = q.Where("goals.target_amount >= ?", filter.MinAmount)
	}

	if filter.MaxAmount != nil {
		q = q.Where("goals.target_amount <= ?", filter.MaxAmount)
	}

	goals := make([]models.Goal, 0)
	err := q.Find(&goals).Error
	return goals, err
}
