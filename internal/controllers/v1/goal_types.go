package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/goals"
	"github.com/moneymap/backend/internal/httputil"
	"github.com/moneymap/backend/internal/models"
	"github.com/moneymap/backend/internal/types"
	"github.com/shopspring/decimal"
)

type GoalEditable struct {
	Title           string              `json:"title" example:"New car" default:""`                                                                                 // Name of the goal
	Description     string              `json:"description" example:"Down payment for an electric car" default:""`                                                 // More detail about the goal
	TargetAmount    decimal.Decimal     `json:"targetAmount" example:"5000" minimum:"0.00000001" maximum:"999999999999.99999999" multipleOf:"0.00000001"`          // How much money the goal needs
	Deadline        *types.Date         `json:"deadline" example:"2027-06-01"`                                                                                      // The day the goal should be reached
	Category        models.GoalCategory `json:"category" example:"savings" default:""`                                                                             // What the goal is saved for
	LinkedAccountID *uuid.UUID          `json:"linkedAccountId" example:"f81566d9-af4d-4f13-9830-c62c4b5e4c7e"`                                                    // The ID of the account money is reserved in
	LinkedAmount    *decimal.Decimal    `json:"linkedAmount" example:"500" minimum:"0" maximum:"999999999999.99999999" multipleOf:"0.00000001"`                    // How much of the account balance is reserved
}

// create returns the service input for the editable fields
func (editable GoalEditable) create() goals.GoalCreate {
	return goals.GoalCreate{
		Title:           editable.Title,
		Description:     editable.Description,
		TargetAmount:    editable.TargetAmount,
		Deadline:        editable.Deadline,
		Category:        editable.Category,
		LinkedAccountID: editable.LinkedAccountID,
		LinkedAmount:    editable.LinkedAmount,
	}
}

// GoalUpdateable lists all fields that can be changed after creation.
// It is used to reject updates to fields that are read only.
type GoalUpdateable struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	TargetAmount    decimal.Decimal     `json:"targetAmount"`
	Deadline        *types.Date         `json:"deadline"`
	Category        models.GoalCategory `json:"category"`
	Status          models.GoalStatus   `json:"status"`
	LinkedAccountID *uuid.UUID          `json:"linkedAccountId"`
	LinkedAmount    *decimal.Decimal    `json:"linkedAmount"`
}

type GoalLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c"`              // The Goal itself
	Progress string `json:"progress" example:"https://example.com/api/v1/goals/438cc6c0-9baf-49fd-a75a-d76bd5cab19c/progress"` // Where progress contributions are sent
}

type Goal struct {
	models.DefaultModel
	GoalEditable
	Status             models.GoalStatus `json:"status" example:"active"`          // The lifecycle state of the goal
	CurrentAmount      decimal.Decimal   `json:"currentAmount" example:"250"`      // Sum of the manual contributions
	TotalProgress      decimal.Decimal   `json:"totalProgress" example:"750"`      // Manual contributions plus the reserved amount
	ProgressPercentage decimal.Decimal   `json:"progressPercentage" example:"15"`  // Progress towards the target in percent, capped at 100
	RemainingAmount    decimal.Decimal   `json:"remainingAmount" example:"4250"`   // How much is still missing
	DaysRemaining      *int              `json:"daysRemaining" example:"182"`      // Days until the deadline, negative when overdue, null without deadline
	Overdue            bool              `json:"overdue" example:"false"`          // True when the deadline has passed and the goal is still active
	Links              GoalLinks         `json:"links"`
}

// newGoal returns the API v1 representation of the resource
func newGoal(c *gin.Context, model models.Goal) Goal {
	url := httputil.RequestPathV1(c)
	today := types.Today()

	return Goal{
		DefaultModel: model.DefaultModel,
		GoalEditable: GoalEditable{
			Title:           model.Title,
			Description:     model.Description,
			TargetAmount:    model.TargetAmount,
			Deadline:        model.Deadline,
			Category:        model.Category,
			LinkedAccountID: model.LinkedAccountID,
			LinkedAmount:    model.LinkedAmount,
		},
		Status:             model.Status,
		CurrentAmount:      model.CurrentAmount,
		TotalProgress:      model.TotalProgress(),
		ProgressPercentage: model.ProgressPercentage(),
		RemainingAmount:    model.RemainingAmount(),
		DaysRemaining:      model.DaysRemaining(today),
		Overdue:            model.IsOverdue(today),
		Links: GoalLinks{
			Self:     fmt.Sprintf("%s/goals/%s", url, model.ID),
			Progress: fmt.Sprintf("%s/goals/%s/progress", url, model.ID),
		},
	}
}

type GoalResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Goal   `json:"data"`                                                          // The resource
}

type GoalListResponse struct {
	Data  []Goal  `json:"data"`                                                          // List of resources
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
}

type GoalCreateResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []GoalResponse `json:"data"`                                                          // List of created resources
}

func (t *GoalCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, GoalResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type GoalQueryFilter struct {
	Status   string `form:"status"`   // By status
	Category string `form:"category"` // By category
}

type GoalSearchQuery struct {
	Q         string `form:"q"`         // Search for this text in title and description
	Status    string `form:"status"`    // By status
	Category  string `form:"category"`  // By category
	MinAmount string `form:"minAmount"` // Target amount more than or equal to this
	MaxAmount string `form:"maxAmount"` // Target amount less than or equal to this
}

// filter parses the amount bounds and returns the service filter.
func (q GoalSearchQuery) filter() (goals.SearchFilter, error) {
	filter := goals.SearchFilter{
		Term:     q.Q,
		Status:   models.GoalStatus(q.Status),
		Category: models.GoalCategory(q.Category),
	}

	if q.MinAmount != "" {
		amount, err := decimal.NewFromString(q.MinAmount)
		if err != nil {
			return goals.SearchFilter{}, fmt.Errorf("minAmount: %w", err)
		}
		filter.MinAmount = &amount
	}

	if q.MaxAmount != "" {
		amount, err := decimal.NewFromString(q.MaxAmount)
		if err != nil {
			return goals.SearchFilter{}, fmt.Errorf("maxAmount: %w", err)
		}
		filter.MaxAmount = &amount
	}

	return filter, nil
}

type NearDeadlineQuery struct {
	Days int `form:"days,default=7"` // How many days to look ahead. Defaults to 7.
}

type GoalProgress struct {
	Amount decimal.Decimal     `json:"amount" example:"100" minimum:"0.00000001"` // The contribution to add
	Type   models.ProgressType `json:"type" example:"manual" default:"manual"`    // Where the contribution comes from, "manual" or "linked"
}

type SummaryResponse struct {
	Error *string        `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *goals.Summary `json:"data"`                                                          // The resource
}

type StatisticsResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *goals.Statistics `json:"data"`                                                          // The resource
}

type CategoryListResponse struct {
	Data []goals.CategoryInfo `json:"data"` // List of valid categories
}
