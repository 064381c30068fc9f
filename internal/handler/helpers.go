package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/coursehub-dev/coursehub-api/internal/middleware"
	"github.com/coursehub-dev/coursehub-api/internal/models"
	appErrors "github.com/coursehub-dev/coursehub-api/pkg/errors"
	"github.com/coursehub-dev/coursehub-api/pkg/response"
)

// objectID validates the ":id" path parameter against the 24-hex id format
// before any lookup happens. On failure the request is answered and false
// returned.
func objectID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !models.ValidID(id) {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidInput, "invalid id format"))
		return "", false
	}
	return id, true
}

// principal fetches the authenticated principal; routes behind the auth
// middleware always have one.
func principal(c *gin.Context) (*models.Principal, bool) {
	p := middleware.Principal(c)
	if p == nil {
		response.Error(c, appErrors.ErrUnauthenticated)
		return nil, false
	}
	return p, true
}
