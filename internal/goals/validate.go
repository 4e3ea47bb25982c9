package goals

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// validateGoal checks the invariants every persisted goal must hold.
// The model hooks verify these again on write, validating up front
// keeps invalid input out of the transaction.
func validateGoal(goal models.Goal) error {
	if goal.Title == "" {
		return models.ErrGoalTitleRequired
	}

	if !goal.TargetAmount.IsPositive() {
		return models.ErrGoalTargetAmountNotPositive
	}

	if goal.CurrentAmount.IsNegative() {
		return models.ErrGoalCurrentAmountNegative
	}

	if goal.Category != "" && !slices.Contains(models.GoalCategories(), goal.Category) {
		return models.ErrGoalCategoryInvalid
	}

	if goal.Status != "" && !slices.Contains(models.GoalStatuses(), goal.Status) {
		return models.ErrGoalStatusInvalid
	}

	if goal.LinkedAmount != nil {
		if goal.LinkedAmount.IsNegative() {
			return models.ErrGoalLinkedAmountNegative
		}

		if goal.LinkedAccountID == nil {
			return models.ErrGoalLinkedAmountNeedsAccount
		}
	}

	return nil
}

// validateDeadline rejects deadlines in the past. It only runs when a
// deadline is being set, existing goals may have passed theirs.
func validateDeadline(deadline *types.Date) error {
	if deadline != nil && deadline.Before(types.Today()) {
		return ErrDeadlineInPast
	}

	return nil
}

// mergeUpdates applies the updates onto a copy of the goal and returns
// it together with the database fields that have to be written.
//
// Update keys are the JSON field names of the goal resource. Anything
// outside the mutable set is rejected.
func mergeUpdates(goal models.Goal, updates map[string]any) (models.Goal, []string, error) {
	fields := make([]string, 0, len(updates))

	for param, value := range updates {
		switch param {
		case "title":
			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.Title = strings.TrimSpace(s)
			fields = append(fields, "Title")

		case "description":
			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.Description = strings.TrimSpace(s)
			fields = append(fields, "Description")

		case "targetAmount":
			amount, err := decimalValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.TargetAmount = amount
			fields = append(fields, "TargetAmount")

		case "deadline":
			if value == nil {
				goal.Deadline = nil
				fields = append(fields, "Deadline")
				continue
			}

			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			date, err := types.ParseDate(s)
			if err != nil {
				return models.Goal{}, nil, ErrDeadlineFormat
			}

			if err := validateDeadline(&date); err != nil {
				return models.Goal{}, nil, err
			}

			goal.Deadline = &date
			fields = append(fields, "Deadline")

		case "category":
			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.Category = models.GoalCategory(s)
			fields = append(fields, "Category")

		case "status":
			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.Status = models.GoalStatus(s)
			fields = append(fields, "Status")

		case "linkedAccountId":
			if value == nil {
				goal.LinkedAccountID = nil
				fields = append(fields, "LinkedAccountID")
				continue
			}

			s, err := stringValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			id, err := uuid.Parse(s)
			if err != nil {
				return models.Goal{}, nil, fmt.Errorf("%w: %s", ErrFieldTypeInvalid, param)
			}

			goal.LinkedAccountID = normalizeAccountID(&id)
			fields = append(fields, "LinkedAccountID")

		case "linkedAmount":
			if value == nil {
				goal.LinkedAmount = nil
				fields = append(fields, "LinkedAmount")
				continue
			}

			amount, err := decimalValue(param, value)
			if err != nil {
				return models.Goal{}, nil, err
			}

			goal.LinkedAmount = &amount
			fields = append(fields, "LinkedAmount")

		default:
			return models.Goal{}, nil, fmt.Errorf("%w: %s", ErrFieldNotUpdateable, param)
		}
	}

	return goal, fields, nil
}

func stringValue(param string, value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldTypeInvalid, param)
	}

	return s, nil
}

func decimalValue(param string, value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil

	case json.Number:
		amount, err := decimal.NewFromString(v.String())
		if err == nil {
			return amount, nil
		}

	case string:
		amount, err := decimal.NewFromString(v)
		if err == nil {
			return amount, nil
		}
	}

	return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrFieldTypeInvalid, param)
}
