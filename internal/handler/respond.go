package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kylefrommelt/mini-business-management-system/internal/domain"
	"github.com/kylefrommelt/mini-business-management-system/pkg/middleware"
)

// respondError maps the domain error taxonomy onto HTTP statuses:
// validation 400, missing entity 404, business conflict 409, anything else
// is an opaque store failure.
func respondError(c *gin.Context, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domain.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domain.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":      "internal server error",
			"request_id": c.GetString(middleware.RequestIDKey),
		})
	}
}

func pageParams(c *gin.Context) (int, int) {
	page := intQuery(c, "page", 1)
	perPage := intQuery(c, "per_page", 10)
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

func intQuery(c *gin.Context, name string, fallback int) int {
	n, err := strconv.Atoi(c.Query(name))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
