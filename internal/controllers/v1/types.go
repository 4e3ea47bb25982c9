package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	mm_uuid "github.com/moneymap/backend/internal/uuid"
)

type URIID struct {
	ID mm_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// requestUserID returns the ID of the user the request acts for.
//
// Authentication happens at the API gateway, the backend trusts the
// X-User-ID header it forwards.
func requestUserID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetHeader("X-User-ID"))
	if err != nil {
		return uuid.Nil, errUserIDHeader
	}

	return id, nil
}
