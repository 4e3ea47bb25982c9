package v1

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/moneymap/backend/internal/goals"
	"github.com/moneymap/backend/internal/httputil"
	"github.com/moneymap/backend/internal/importer"
	"github.com/moneymap/backend/internal/models"
	"github.com/ryanuber/go-glob"
)

// ImportController serves the bulk import endpoint for goal exports.
type ImportController struct {
	service *goals.Service
}

// RegisterImportRoutes registers the routes for imports.
func RegisterImportRoutes(r *gin.RouterGroup, service *goals.Service) {
	controller := ImportController{service: service}

	{
		r.OPTIONS("", OptionsImport)
		r.POST("", controller.ImportGoals)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs.
// @Tags			Import
// @Success		204
// @Router			/v1/import [options]
func OptionsImport(c *gin.Context) {
	httputil.OptionsPost(c)
}

// getUploadedFile returns the form file and handles potential errors.
func getUploadedFile(c *gin.Context, suffix string) (multipart.File, error) {
	formFile, err := c.FormFile("file")
	if formFile == nil {
		return nil, errNoFilePost
	}

	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(formFile.Filename, suffix) {
		return nil, fmt.Errorf("%w: %s", errWrongFileSuffix, suffix)
	}

	f, err := formFile.Open()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// matchAccount returns the ID of the first account whose name matches
// the glob pattern.
func matchAccount(accounts []models.Account, pattern string) (uuid.UUID, error) {
	for _, account := range accounts {
		if glob.Glob(pattern, account.Name) {
			return account.ID, nil
		}
	}

	return uuid.Nil, fmt.Errorf("%w: %s", errNoMatchingAccount, pattern)
}

// @Summary		Import goals
// @Description	Imports goals from a CSV export. Each line is imported on its own, lines with errors do not abort the import.
// @Tags			Import
// @Accept			multipart/form-data
// @Produce		json
// @Success		201		{object}	GoalCreateResponse
// @Failure		400		{object}	GoalCreateResponse
// @Failure		404		{object}	GoalCreateResponse
// @Failure		500		{object}	GoalCreateResponse
// @Param			file	formData	file	true	"File to import"
// @Router			/v1/import [post]
func (ic ImportController) ImportGoals(c *gin.Context) {
	userID, err := requestUserID(c)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{Error: &e})
		return
	}

	f, err := getUploadedFile(c, ".csv")
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{Error: &e})
		return
	}

	parsed, err := importer.Parse(f)
	if err != nil {
		// importer.Parse returns a usable error already, no parsing necessary
		e := err.Error()
		c.JSON(http.StatusBadRequest, GoalCreateResponse{Error: &e})
		return
	}

	// The accounts of the user, matched against the account patterns
	accounts, err := ic.service.Accounts(userID)
	if err != nil {
		e := err.Error()
		c.JSON(status(err), GoalCreateResponse{Error: &e})
		return
	}

	// The final http status. Will be modified when errors occur
	responseStatus := http.StatusCreated
	r := GoalCreateResponse{}

	for _, p := range parsed {
		create := goals.GoalCreate{
			Title:        p.Title,
			Description:  p.Description,
			TargetAmount: p.TargetAmount,
			Deadline:     p.Deadline,
			Category:     p.Category,
			LinkedAmount: p.LinkedAmount,
		}

		if p.AccountName != "" {
			accountID, err := matchAccount(accounts, p.AccountName)
			if err != nil {
				responseStatus = r.appendError(err, responseStatus)
				continue
			}

			create.LinkedAccountID = &accountID
		}

		goal, err := ic.service.Create(userID, create)
		if err != nil {
			responseStatus = r.appendError(err, responseStatus)
			continue
		}

		apiResource := newGoal(c, goal)
		r.Data = append(r.Data, GoalResponse{Data: &apiResource})
	}

	c.JSON(responseStatus, r)
}
