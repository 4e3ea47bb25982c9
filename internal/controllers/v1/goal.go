package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/moneymap/backend/internal/goals"
	"github.com/moneymap/backend/internal/httputil"
	"github.com/moneymap/backend/internal/models"
)

// GoalController serves the goal endpoints. All operations are scoped
// to the user given in the X-User-ID header.
type GoalController struct {
	service *goals.Service
}

func RegisterGoalRoutes(r *gin.RouterGroup, service *goals.Service) {
	controller := GoalController{service: service}

	{
		r.OPTIONS("", controller.OptionsGoals)
		r.GET("", controller.GetGoals)
		r.POST("", controller.CreateGoal)
	}
	{
		r.OPTIONS("/summary", httputil.OptionsGet)
		r.GET("/summary", controller.GetSummary)
	}
	{
		r.OPTIONS("/statistics", httputil.OptionsGet)
		r.GET("/statistics", controller.GetStatistics)
	}
	{
		r.OPTIONS("/near-deadline", httputil.OptionsGet)
		r.GET("/near-deadline", controller.GetNearDeadline)
	}
	{
		r.OPTIONS("/overdue", httputil.OptionsGet)
		r.GET("/overdue", controller.GetOverdue)
	}
	{
		r.OPTIONS("/search", httputil.OptionsGet)
		r.GET("/search", controller.SearchGoals)
	}
	{
		r.OPTIONS("/categories", httputil.OptionsGet)
		r.GET("/categories", controller.GetCategories)
		r.OPTIONS("/categories/:category", httputil.OptionsGet)
		r.GET("/categories/:category", controller.GetGoalsByCategory)
	}
	{
		r.OPTIONS("/:id", controller.OptionsGoalDetail)
		r.GET("/:id", controller.GetGoal)
		r.PATCH("/:id", controller.UpdateGoal)
		r.DELETE("/:id", controller.DeleteGoal)
	}
	{
		r.OPTIONS("/:id/progress", httputil.OptionsPost)
		r.POST("/:id/progress", controller.CreateGoalProgress)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Router			/v1/goals [options]
func (gc GoalController) OptionsGoals(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [options]
func (gc GoalController) OptionsGoalDetail(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	_, err = gc.service.Get(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create goal
// @Description	Creates a new goal
// @Tags			Goals
// @Produce		json
// @Success		201		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			goal	body		GoalEditable	true	"Goal"
// @Router			/v1/goals [post]
func (gc GoalController) CreateGoal(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var editable GoalEditable
	err = httputil.BindData(c, &editable)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	goal, err := gc.service.Create(userID, editable.create())
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusCreated, GoalResponse{Data: &apiResource})
}

// @Summary		Get goals
// @Description	Returns a list of goals
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		400	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals [get]
// @Param			status		query	string	false	"Filter by status"
// @Param			category	query	string	false	"Filter by category"
func (gc GoalController) GetGoals(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	var filter GoalQueryFilter
	if err := c.Bind(&filter); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{Error: &e})
		return
	}

	list, err := gc.service.List(userID, goals.ListFilter{
		Status:   models.GoalStatus(filter.Status),
		Category: models.GoalCategory(filter.Category),
	})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: newGoals(c, list)})
}

// @Summary		Get goal
// @Description	Returns a specific goal
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalResponse
// @Failure		400	{object}	GoalResponse
// @Failure		404	{object}	GoalResponse
// @Failure		500	{object}	GoalResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [get]
func (gc GoalController) GetGoal(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	goal, err := gc.service.Get(userID, uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Update goal
// @Description	Updates an existing goal. Only values to be updated need to be specified.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200		{object}	GoalResponse
// @Failure		400		{object}	GoalResponse
// @Failure		404		{object}	GoalResponse
// @Failure		500		{object}	GoalResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			goal	body		GoalUpdateable	true	"Goal"
// @Router			/v1/goals/{id} [patch]
func (gc GoalController) UpdateGoal(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	// Reject fields that cannot be updated
	_, err = httputil.BodyFields(c, GoalUpdateable{})
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var updates map[string]any
	err = httputil.BindData(c, &updates)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	goal, err := gc.service.Update(userID, uri.ID.UUID, updates)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Delete goal
// @Description	Deletes a goal and releases its reservation
// @Tags			Goals
// @Success		204
// @Failure		400	{object}	httpError
// @Failure		404	{object}	httpError
// @Failure		500	{object}	httpError
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/goals/{id} [delete]
func (gc GoalController) DeleteGoal(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	err = gc.service.Delete(userID, uri.ID.UUID)
	if err != nil {
		c.JSON(status(err), httpError{Error: err.Error()})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Add progress
// @Description	Adds a contribution to a goal. Manual contributions add to the current amount, linked contributions raise the reservation against the linked account.
// @Tags			Goals
// @Accept			json
// @Produce		json
// @Success		200			{object}	GoalResponse
// @Failure		400			{object}	GoalResponse
// @Failure		404			{object}	GoalResponse
// @Failure		500			{object}	GoalResponse
// @Param			id			path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			progress	body		GoalProgress	true	"Progress"
// @Router			/v1/goals/{id}/progress [post]
func (gc GoalController) CreateGoalProgress(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var uri URIID
	err = c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	var progress GoalProgress
	err = httputil.BindData(c, &progress)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	if progress.Type == "" {
		progress.Type = models.ProgressManual
	}

	goal, err := gc.service.ApplyProgress(userID, uri.ID.UUID, progress.Amount, progress.Type)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalResponse{Error: &e})
		return
	}

	apiResource := newGoal(c, goal)
	c.JSON(http.StatusOK, GoalResponse{Data: &apiResource})
}

// @Summary		Goal summary
// @Description	Returns the aggregate numbers over all goals of the user
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	SummaryResponse
// @Failure		400	{object}	SummaryResponse
// @Failure		500	{object}	SummaryResponse
// @Router			/v1/goals/summary [get]
func (gc GoalController) GetSummary(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &e})
		return
	}

	summary, err := gc.service.Summary(userID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), SummaryResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, SummaryResponse{Data: &summary})
}

// @Summary		Goal statistics
// @Description	Returns the summary plus per-category and per-status breakdowns
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	StatisticsResponse
// @Failure		400	{object}	StatisticsResponse
// @Failure		500	{object}	StatisticsResponse
// @Router			/v1/goals/statistics [get]
func (gc GoalController) GetStatistics(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StatisticsResponse{Error: &e})
		return
	}

	statistics, err := gc.service.Statistics(userID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), StatisticsResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, StatisticsResponse{Data: &statistics})
}

// @Summary		Goals near their deadline
// @Description	Returns active goals with a deadline within the given number of days, closest deadline first
// @Tags			Goals
// @Produce		json
// @Success		200		{object}	GoalListResponse
// @Failure		400		{object}	GoalListResponse
// @Failure		500		{object}	GoalListResponse
// @Param			days	query		int	false	"How many days to look ahead, between 1 and 30. Defaults to 7."
// @Router			/v1/goals/near-deadline [get]
func (gc GoalController) GetNearDeadline(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	var query NearDeadlineQuery
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{Error: &e})
		return
	}

	list, err := gc.service.NearDeadline(userID, query.Days)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: newGoals(c, list)})
}

// @Summary		Overdue goals
// @Description	Returns active goals whose deadline has passed
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		400	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals/overdue [get]
func (gc GoalController) GetOverdue(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	list, err := gc.service.Overdue(userID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: newGoals(c, list)})
}

// @Summary		Search goals
// @Description	Returns the goals matching all given filters
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	GoalListResponse
// @Failure		400	{object}	GoalListResponse
// @Failure		500	{object}	GoalListResponse
// @Router			/v1/goals/search [get]
// @Param			q			query	string	false	"Search for this text in title and description"
// @Param			status		query	string	false	"Filter by status"
// @Param			category	query	string	false	"Filter by category"
// @Param			minAmount	query	string	false	"Target amount more than or equal to this"
// @Param			maxAmount	query	string	false	"Target amount less than or equal to this"
func (gc GoalController) SearchGoals(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	var query GoalSearchQuery
	if err := c.Bind(&query); err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{Error: &e})
		return
	}

	filter, err := query.filter()
	if err != nil {
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalListResponse{Error: &e})
		return
	}

	list, err := gc.service.Search(userID, filter)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: newGoals(c, list)})
}

// @Summary		Goal categories
// @Description	Returns all valid goal categories with display labels
// @Tags			Goals
// @Produce		json
// @Success		200	{object}	CategoryListResponse
// @Router			/v1/goals/categories [get]
func (gc GoalController) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, CategoryListResponse{Data: goals.Categories()})
}

// @Summary		Goals by category
// @Description	Returns the goals of the user in the category
// @Tags			Goals
// @Produce		json
// @Success		200			{object}	GoalListResponse
// @Failure		400			{object}	GoalListResponse
// @Failure		500			{object}	GoalListResponse
// @Param			category	path		string	true	"The category"
// @Router			/v1/goals/categories/{category} [get]
func (gc GoalController) GetGoalsByCategory(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	list, err := gc.service.ByCategory(userID, models.GoalCategory(c.Param("category")))
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalListResponse{Error: &e})
		return
	}

	c.JSON(http.StatusOK, GoalListResponse{Data: newGoals(c, list)})
}

// newGoals transforms resources to their API representation.
func newGoals(c *gin.Context, models []models.Goal) []Goal {
	data := make([]Goal, 0, len(models))
	for _, model := range models {
		data = append(data, newGoal(c, model))
	}

	return data
}
