package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// GoalCategory classifies what a goal is saved for.
type GoalCategory string

const (
	CategorySavings    GoalCategory = "savings"
	CategoryInvestment GoalCategory = "investment"
	CategoryDebt       GoalCategory = "debt"
	CategoryEmergency  GoalCategory = "emergency"
	CategoryVacation   GoalCategory = "vacation"
	CategoryEducation  GoalCategory = "education"
	CategoryBills      GoalCategory = "bills"
	CategoryOther      GoalCategory = "other"
)

// GoalCategories returns all valid goal categories.
func GoalCategories() []GoalCategory {
	return []GoalCategory{
		CategorySavings,
		CategoryInvestment,
		CategoryDebt,
		CategoryEmergency,
		CategoryVacation,
		CategoryEducation,
		CategoryBills,
		CategoryOther,
	}
}

// GoalStatus is the lifecycle state of a goal.
type GoalStatus string

const (
	StatusActive    GoalStatus = "active"
	StatusCompleted GoalStatus = "completed"
	StatusCancelled GoalStatus = "cancelled"
)

// GoalStatuses returns all valid goal statuses.
func GoalStatuses() []GoalStatus {
	return []GoalStatus{StatusActive, StatusCompleted, StatusCancelled}
}

// ProgressType says where a progress contribution comes from.
type ProgressType string

const (
	ProgressManual ProgressType = "manual"
	ProgressLinked ProgressType = "linked"
)

// Goal is a financial goal a user is saving towards.
//
// Progress can come from manual contributions (CurrentAmount) and from
// a reservation against a linked bank account (LinkedAmount).
type Goal struct {
	DefaultModel
	User            User      `json:"-"`
	UserID          uuid.UUID `gorm:"index"`
	Title           string
	Description     string
	TargetAmount    decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	CurrentAmount   decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
	Deadline        *types.Date
	Category        GoalCategory
	Status          GoalStatus
	LinkedAccount   *Account         `json:"-"`
	LinkedAccountID *uuid.UUID       `gorm:"check:linked_amount_needs_account,(linked_amount IS NULL) OR (linked_account_id IS NOT NULL)"`
	LinkedAmount    *decimal.Decimal `gorm:"type:DECIMAL(20,8)"`
}

var (
	ErrGoalTitleRequired            = errors.New("the goal title must be set")
	ErrGoalTargetAmountNotPositive  = errors.New("the target amount must be larger than zero")
	ErrGoalCurrentAmountNegative    = errors.New("the current amount must not be negative")
	ErrGoalLinkedAmountNegative     = errors.New("the linked amount must not be negative")
	ErrGoalLinkedAmountNeedsAccount = errors.New("a linked amount requires a linked account")

	ErrGoalCategoryInvalid = fmt.Errorf("invalid category. Must be one of: %s", joinCategories())
	ErrGoalStatusInvalid   = fmt.Errorf("invalid status. Must be one of: %s", joinStatuses())

	ErrGoalProgressAmountNotPositive = errors.New("the progress amount must be larger than zero")
	ErrGoalProgressTypeInvalid       = errors.New("invalid progress type. Must be one of: manual, linked")
	ErrGoalNotLinked                 = errors.New("the goal does not have a linked account")
)

func joinCategories() string {
	categories := GoalCategories()
	strs := make([]string, 0, len(categories))
	for _, c := range categories {
		strs = append(strs, string(c))
	}
	return strings.Join(strs, ", ")
}

func joinStatuses() string {
	statuses := GoalStatuses()
	strs := make([]string, 0, len(statuses))
	for _, s := range statuses {
		strs = append(strs, string(s))
	}
	return strings.Join(strs, ", ")
}

// BeforeSave trims whitespace and sets defaults for new goals.
func (g *Goal) BeforeSave(_ *gorm.DB) error {
	g.Title = strings.TrimSpace(g.Title)
	g.Description = strings.TrimSpace(g.Description)

	if g.Status == "" {
		g.Status = StatusActive
	}

	// An explicit Nil UUID means "not linked"
	if g.LinkedAccountID != nil && *g.LinkedAccountID == uuid.Nil {
		g.LinkedAccountID = nil
	}

	return nil
}

// AfterSave validates the invariants of the goal. It runs after the
// write so that it sees the merged state on partial updates; the
// surrounding transaction rolls the write back on error.
func (g *Goal) AfterSave(_ *gorm.DB) error {
	if g.Title == "" {
		return ErrGoalTitleRequired
	}

	if !g.TargetAmount.IsPositive() {
		return ErrGoalTargetAmountNotPositive
	}

	if g.CurrentAmount.IsNegative() {
		return ErrGoalCurrentAmountNegative
	}

	if g.LinkedAmount != nil {
		if g.LinkedAmount.IsNegative() {
			return ErrGoalLinkedAmountNegative
		}

		if g.LinkedAccountID == nil {
			return ErrGoalLinkedAmountNeedsAccount
		}
	}

	if g.Category != "" && !slices.Contains(GoalCategories(), g.Category) {
		return ErrGoalCategoryInvalid
	}

	if !slices.Contains(GoalStatuses(), g.Status) {
		return ErrGoalStatusInvalid
	}

	return nil
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	_ = g.DefaultModel.BeforeCreate(tx)

	toSave := tx.Statement.Dest.(*Goal)
	return g.checkIntegrity(tx, *toSave)
}

// BeforeUpdate verifies references before committing an update. The
// receiver still holds the old values here, the values being written
// are in the statement destination, so the changed fields are merged
// over the receiver before the check.
func (g *Goal) BeforeUpdate(tx *gorm.DB) error {
	userChanged := tx.Statement.Changed("UserID")
	accountChanged := tx.Statement.Changed("LinkedAccountID")
	if !userChanged && !accountChanged {
		return nil
	}

	var dest Goal
	switch d := tx.Statement.Dest.(type) {
	case Goal:
		dest = d
	case *Goal:
		dest = *d
	}

	toSave := *g
	if userChanged {
		toSave.UserID = dest.UserID
	}

	if accountChanged {
		toSave.LinkedAccountID = dest.LinkedAccountID
	}

	return g.checkIntegrity(tx, toSave)
}

// checkIntegrity verifies references to other resources.
//
// The linked account is checked scoped to the user so that a goal can
// never reference another user's account.
func (g *Goal) checkIntegrity(tx *gorm.DB, toSave Goal) error {
	err := tx.First(&User{}, toSave.UserID).Error
	if err != nil {
		return err
	}

	if toSave.LinkedAccountID != nil && *toSave.LinkedAccountID != uuid.Nil {
		return tx.Where(&Account{UserID: toSave.UserID}).First(&Account{}, "accounts.id = ?", *toSave.LinkedAccountID).Error
	}

	return nil
}

// TotalProgress is the sum of manual contributions and the reserved
// linked amount.
func (g Goal) TotalProgress() decimal.Decimal {
	total := g.CurrentAmount
	if g.LinkedAmount != nil {
		total = total.Add(*g.LinkedAmount)
	}

	return total
}

// ProgressPercentage returns the progress towards the target in
// percent, capped at 100.
func (g Goal) ProgressPercentage() decimal.Decimal {
	if !g.TargetAmount.IsPositive() {
		return decimal.Zero
	}

	progress := g.TotalProgress().Div(g.TargetAmount).Mul(decimal.NewFromInt(100))
	if progress.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.NewFromInt(100)
	}

	return progress
}

// RemainingAmount is how much is still missing to reach the target.
// It is never negative.
func (g Goal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.TotalProgress())
	if remaining.IsNegative() {
		return decimal.Zero
	}

	return remaining
}

// DaysRemaining returns the number of days from today until the
// deadline. It is negative for overdue goals and nil for goals without
// a deadline.
func (g Goal) DaysRemaining(today types.Date) *int {
	if g.Deadline == nil {
		return nil
	}

	days := today.DaysUntil(*g.Deadline)
	return &days
}

// IsOverdue reports whether the deadline has passed. Completed and
// cancelled goals are never overdue.
func (g Goal) IsOverdue(today types.Date) bool {
	if g.Deadline == nil {
		return false
	}

	return g.Deadline.Before(today) && g.Status == StatusActive
}

// ApplyProgress adds a contribution to the goal and transitions it to
// completed when the target is reached.
//
// For linked contributions, the caller must have verified the
// reservation against the account balance first; this method only
// mutates the goal.
func (g *Goal) ApplyProgress(amount decimal.Decimal, progressType ProgressType) error {
	if !amount.IsPositive() {
		return ErrGoalProgressAmountNotPositive
	}

	switch progressType {
	case ProgressManual:
		g.CurrentAmount = g.CurrentAmount.Add(amount)

	case ProgressLinked:
		if g.LinkedAccountID == nil {
			return ErrGoalNotLinked
		}

		linked := decimal.Zero
		if g.LinkedAmount != nil {
			linked = *g.LinkedAmount
		}

		linked = linked.Add(amount)
		g.LinkedAmount = &linked

	default:
		return ErrGoalProgressTypeInvalid
	}

	// Completion is one way: a goal never reverts to active on its own.
	if g.TotalProgress().GreaterThanOrEqual(g.TargetAmount) {
		g.Status = StatusCompleted
	}

	return nil
}

// GoalByID returns the goal with the ID, scoped to the user.
//
// A goal owned by another user is indistinguishable from a goal that
// does not exist.
func GoalByID(db *gorm.DB, userID, goalID uuid.UUID) (Goal, error) {
	var goal Goal
	err := db.Where(&Goal{UserID: userID}).First(&goal, "goals.id = ?", goalID).Error
	if err != nil {
		return Goal{}, err
	}

	return goal, nil
}

// SumLinkedAmount sums the linked amounts of all goals of the user
// that reference the account, except the excluded goal.
//
// The sum is always computed from the persisted state so that the
// reservation check never works with stale totals.
func SumLinkedAmount(db *gorm.DB, userID, accountID uuid.UUID, excludeGoalID uuid.UUID) (decimal.Decimal, error) {
	var sum decimal.NullDecimal

	q := db.Table("goals").
		Where("user_id = ?", userID).
		Where("linked_account_id = ?", accountID)

	if excludeGoalID != uuid.Nil {
		q = q.Where("id != ?", excludeGoalID)
	}

	err := q.Select("SUM(linked_amount)").Row().Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("summing linked amounts for account %s failed: %w", accountID, err)
	}

	return sum.Decimal, nil
}
