// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"farebot/internal/modules/session"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeSessionError(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, session.ErrNotFound):
		writeError(c, http.StatusNotFound, "session not found")
	case errors.Is(err, session.ErrConflict):
		writeError(c, http.StatusConflict, "session is busy, try again")
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
