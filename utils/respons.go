package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/deniortyann66-art/vite-et-gourmand/models"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, JSONResponse{
		Status:  false,
		Message: err.Error(),
		Data:    nil,
	})
}

// RespondServiceError maps a business error to its HTTP status.
func RespondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, models.ErrForbidden):
		RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, models.ErrConflict), errors.Is(err, models.ErrOutOfStock):
		RespondError(c, http.StatusConflict, err)
	case errors.Is(err, models.ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, err)
	default:
		RespondError(c, http.StatusInternalServerError, err)
	}
}
