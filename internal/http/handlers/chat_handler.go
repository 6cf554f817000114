// README: Chat handler; runs one dialogue turn per request.
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"farebot/internal/modules/dialogue"
	"farebot/internal/modules/session"
	"farebot/internal/modules/trip"
	"farebot/internal/types"
)

const defaultTurnTimeout = 30 * time.Second

// Sessions is the part of session.Manager the handlers use.
type Sessions interface {
	Turn(ctx context.Context, id types.ID, utterance string) (session.Result, error)
	Get(ctx context.Context, id types.ID) (dialogue.Session, error)
}

type ChatHandler struct {
	sessions Sessions
	timeout  time.Duration
}

func NewChatHandler(sessions Sessions, timeout time.Duration) *ChatHandler {
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}
	return &ChatHandler{sessions: sessions, timeout: timeout}
}

type chatReq struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type chatResp struct {
	Response   string        `json:"response"`
	SessionID  types.ID      `json:"session_id"`
	IsComplete bool          `json:"is_complete"`
	FlightInfo trip.Request  `json:"flight_info"`
	UserInfo   trip.Traveler `json:"user_info"`
}

// Chat handles POST /api/chat. A missing or unknown session_id starts a new session.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var id types.ID
	if raw := strings.TrimSpace(req.SessionID); raw != "" {
		if parsed, ok := types.ParseID(raw); ok {
			id = parsed
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	res, err := h.sessions.Turn(ctx, id, req.Content)
	if err != nil {
		writeSessionError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, chatResp{
		Response:   res.Reply,
		SessionID:  res.SessionID,
		IsComplete: res.Complete,
		FlightInfo: res.Session.Trip,
		UserInfo:   res.Session.Traveler,
	})
}
