package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"farebot/internal/types"
)

type SessionHandler struct {
	sessions Sessions
}

func NewSessionHandler(sessions Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Get handles GET /api/sessions/:id and returns the stored snapshot.
func (h *SessionHandler) Get(c *gin.Context) {
	id, ok := types.ParseID(c.Param("id"))
	if !ok {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	s, err := h.sessions.Get(c.Request.Context(), id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, s)
}
