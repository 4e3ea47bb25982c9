package v1

import (
	"errors"
	"net/http"

	"github.com/moneymap/backend/internal/models"
)

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var errUserIDHeader = errors.New("the X-User-ID header must be set to a valid UUID")

// Import errors
var (
	errNoFilePost        = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix   = errors.New("this endpoint only supports files of the following types")
	errNoMatchingAccount = errors.New("no account matches the account pattern")
)
