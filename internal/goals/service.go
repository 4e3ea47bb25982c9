// Package goals implements the business logic for financial goals:
// input validation, the reservation ledger for linked accounts,
// progress tracking and statistics.
package goals

import (
	"strings"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// UserSource checks that a user exists. Users are managed by the API
// gateway, the goal service only verifies ownership.
type UserSource interface {
	Exists(db *gorm.DB, userID uuid.UUID) (bool, error)
}

// AccountSource looks up a bank account scoped to a user. Account data
// is written by the bank synchronization, which is a separate service.
type AccountSource interface {
	Get(db *gorm.DB, userID, accountID uuid.UUID) (models.Account, error)
	List(db *gorm.DB, userID uuid.UUID) ([]models.Account, error)
}

type dbUsers struct{}

func (dbUsers) Exists(db *gorm.DB, userID uuid.UUID) (bool, error) {
	return models.UserExists(db, userID)
}

type dbAccounts struct{}

func (dbAccounts) Get(db *gorm.DB, userID, accountID uuid.UUID) (models.Account, error) {
	return models.AccountByID(db, userID, accountID)
}

func (dbAccounts) List(db *gorm.DB, userID uuid.UUID) ([]models.Account, error) {
	return models.AccountsByUser(db, userID)
}

// Service executes all goal operations against its database.
//
// Collaborators are passed in explicitly so that tests can substitute
// them; there are no package level singletons.
type Service struct {
	db           *gorm.DB
	users        UserSource
	accounts     AccountSource
	reservations *accountLocks
}

// NewService returns a Service using the database-backed collaborators.
func NewService(db *gorm.DB) *Service {
	return NewServiceWith(db, dbUsers{}, dbAccounts{})
}

// NewServiceWith returns a Service with explicit collaborators.
func NewServiceWith(db *gorm.DB, users UserSource, accounts AccountSource) *Service {
	return &Service{
		db:           db,
		users:        users,
		accounts:     accounts,
		reservations: newAccountLocks(),
	}
}

// GoalCreate holds the validated-to-be fields for a new goal.
type GoalCreate struct {
	Title           string
	Description     string
	TargetAmount    decimal.Decimal
	Deadline        *types.Date
	Category        models.GoalCategory
	LinkedAccountID *uuid.UUID
	LinkedAmount    *decimal.Decimal
}

// Create validates the input and creates a new goal for the user.
func (s *Service) Create(userID uuid.UUID, create GoalCreate) (models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return models.Goal{}, err
	}

	goal := models.Goal{
		UserID:          userID,
		Title:           strings.TrimSpace(create.Title),
		Description:     strings.TrimSpace(create.Description),
		TargetAmount:    create.TargetAmount,
		Deadline:        create.Deadline,
		Category:        create.Category,
		Status:          models.StatusActive,
		LinkedAccountID: normalizeAccountID(create.LinkedAccountID),
		LinkedAmount:    create.LinkedAmount,
	}

	if err := validateGoal(goal); err != nil {
		return models.Goal{}, err
	}

	if err := validateDeadline(goal.Deadline); err != nil {
		return models.Goal{}, err
	}

	// Without a reservation, no serialization is needed
	if goal.LinkedAccountID == nil || goal.LinkedAmount == nil {
		err := s.db.Create(&goal).Error
		return goal, err
	}

	unlock := s.reservations.lock(userID, *goal.LinkedAccountID)
	defer unlock()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := s.checkReservation(tx, userID, *goal.LinkedAccountID, *goal.LinkedAmount, uuid.Nil)
		if err != nil {
			return err
		}

		return tx.Create(&goal).Error
	})
	if err != nil {
		return models.Goal{}, err
	}

	return goal, nil
}

// Get returns the goal with the ID, scoped to the user.
func (s *Service) Get(userID, goalID uuid.UUID) (models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return models.Goal{}, err
	}

	return models.GoalByID(s.db, userID, goalID)
}

// ListFilter narrows down the goals returned by List.
type ListFilter struct {
	Status   models.GoalStatus
	Category models.GoalCategory
}

// List returns all goals of the user, newest first.
func (s *Service) List(userID uuid.UUID, filter ListFilter) ([]models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}

	if filter.Status != "" && !slices.Contains(models.GoalStatuses(), filter.Status) {
		return nil, models.ErrGoalStatusInvalid
	}

	if filter.Category != "" && !slices.Contains(models.GoalCategories(), filter.Category) {
		return nil, models.ErrGoalCategoryInvalid
	}

	q := s.db.Where(&models.Goal{UserID: userID}).Order("goals.created_at DESC")

	if filter.Status != "" {
		q = q.Where("goals.status = ?", filter.Status)
	}

	if filter.Category != "" {
		q = q.Where("goals.category = ?", filter.Category)
	}

	goals := make([]models.Goal, 0)
	err := q.Find(&goals).Error
	return goals, err
}

// Update applies a partial update to a goal. Only the mutable fields
// are accepted, any other field name is rejected.
func (s *Service) Update(userID, goalID uuid.UUID, updates map[string]any) (models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return models.Goal{}, err
	}

	goal, err := models.GoalByID(s.db, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}

	merged, fields, err := mergeUpdates(goal, updates)
	if err != nil {
		return models.Goal{}, err
	}

	if err := validateGoal(merged); err != nil {
		return models.Goal{}, err
	}

	touchesReservation := slices.Contains(fields, "LinkedAccountID") || slices.Contains(fields, "LinkedAmount")
	if touchesReservation && merged.LinkedAccountID != nil && merged.LinkedAmount != nil {
		unlock := s.reservations.lock(userID, *merged.LinkedAccountID)
		defer unlock()

		err = s.db.Transaction(func(tx *gorm.DB) error {
			err := s.checkReservation(tx, userID, *merged.LinkedAccountID, *merged.LinkedAmount, goal.ID)
			if err != nil {
				return err
			}

			return tx.Model(&goal).Select(fields).Updates(merged).Error
		})
	} else {
		err = s.db.Model(&goal).Select(fields).Updates(merged).Error
	}

	if err != nil {
		return models.Goal{}, err
	}

	return models.GoalByID(s.db, userID, goalID)
}

// ApplyProgress adds a contribution to a goal.
//
// Manual contributions increase the current amount. Linked
// contributions increase the reservation against the linked account
// and therefore re-run the reservation check.
func (s *Service) ApplyProgress(userID, goalID uuid.UUID, amount decimal.Decimal, progressType models.ProgressType) (models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return models.Goal{}, err
	}

	if !amount.IsPositive() {
		return models.Goal{}, models.ErrGoalProgressAmountNotPositive
	}

	if progressType != models.ProgressManual && progressType != models.ProgressLinked {
		return models.Goal{}, models.ErrGoalProgressTypeInvalid
	}

	goal, err := models.GoalByID(s.db, userID, goalID)
	if err != nil {
		return models.Goal{}, err
	}

	if progressType == models.ProgressManual {
		if err := goal.ApplyProgress(amount, progressType); err != nil {
			return models.Goal{}, err
		}

		err = s.db.Save(&goal).Error
		if err != nil {
			return models.Goal{}, err
		}

		return goal, nil
	}

	if goal.LinkedAccountID == nil {
		return models.Goal{}, models.ErrGoalNotLinked
	}

	unlock := s.reservations.lock(userID, *goal.LinkedAccountID)
	defer unlock()

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Re-read the goal inside the transaction so the proposed
		// reservation is based on the current persisted state
		goal, err = models.GoalByID(tx, userID, goalID)
		if err != nil {
			return err
		}

		proposed := amount
		if goal.LinkedAmount != nil {
			proposed = proposed.Add(*goal.LinkedAmount)
		}

		err := s.checkReservation(tx, userID, *goal.LinkedAccountID, proposed, goal.ID)
		if err != nil {
			return err
		}

		if err := goal.ApplyProgress(amount, progressType); err != nil {
			return err
		}

		return tx.Save(&goal).Error
	})
	if err != nil {
		return models.Goal{}, err
	}

	return goal, nil
}

// Accounts returns all bank accounts of the user.
func (s *Service) Accounts(userID uuid.UUID) ([]models.Account, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}

	return s.accounts.List(s.db, userID)
}

// Delete permanently removes a goal.
func (s *Service) Delete(userID, goalID uuid.UUID) error {
	if err := s.checkUser(userID); err != nil {
		return err
	}

	goal, err := models.GoalByID(s.db, userID, goalID)
	if err != nil {
		return err
	}

	return s.db.Delete(&goal).Error
}

// NearDeadline returns the active goals with a deadline within the
// given number of days from today, closest deadline first.
func (s *Service) NearDeadline(userID uuid.UUID, days int) ([]models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}

	if days < 1 || days > 30 {
		return nil, ErrDaysOutOfRange
	}

	today := types.Today()

	// Deadlines persist with a time component, so the inclusive upper
	// bound is the start of the following day
	goals := make([]models.Goal, 0)
	err := s.db.
		Where(&models.Goal{UserID: userID, Status: models.StatusActive}).
		Where("goals.deadline >= date(?)", today).
		Where("goals.deadline < date(?)", today.AddDays(days+1)).
		Order("goals.deadline ASC").
		Find(&goals).Error

	return goals, err
}

// Overdue returns the active goals whose deadline has passed.
func (s *Service) Overdue(userID uuid.UUID) ([]models.Goal, error) {
	if err := s.checkUser(userID); err != nil {
		return nil, err
	}

	goals := make([]models.Goal, 0)
	err := s.db.
		Where(&models.Goal{UserID: userID, Status: models.StatusActive}).
		Where("goals.deadline < date(?)", types.Today()).
		Order("goals.deadline ASC").
		Find(&goals).Error

	return goals, err
}

// ByCategory returns the goals of the user in the category, newest
// first.
func (s *Service) ByCategory(userID uuid.UUID, category models.GoalCategory) ([]models.Goal, error) {
	if !slices.Contains(models.GoalCategories(), category) {
		return nil, models.ErrGoalCategoryInvalid
	}

	return s.List(userID, ListFilter{Category: category})
}

func (s *Service) checkUser(userID uuid.UUID) error {
	exists, err := s.users.Exists(s.db, userID)
	if err != nil {
		return err
	}

	if !exists {
		return ErrUserNotFound
	}

	return nil
}

// normalizeAccountID maps the Nil UUID to "not linked".
func normalizeAccountID(id *uuid.UUID) *uuid.UUID {
	if id != nil && *id == uuid.Nil {
		return nil
	}

	return id
}
