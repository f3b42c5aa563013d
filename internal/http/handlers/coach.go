package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-coach/internal/domain/coach"
	"github.com/yungbote/neurobridge-coach/internal/http/response"
	"github.com/yungbote/neurobridge-coach/internal/services"
)

// MaxMessageBytes bounds a single student message.
const MaxMessageBytes = 8 << 10

var errMessageTooLong = errors.New("message exceeds 8 KiB")

type CoachHandler struct {
	coach services.CoachService
}

func NewCoachHandler(coach services.CoachService) *CoachHandler {
	return &CoachHandler{coach: coach}
}

type messageRequest struct {
	StudentID string                `json:"student_id"`
	Message   string                `json:"message"`
	Context   *coach.StudentContext `json:"context"`
}

// POST /api/coach/message
func (h *CoachHandler) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if len(req.Message) > MaxMessageBytes {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "message_too_long", errMessageTooLong)
		return
	}
	res, err := h.coach.ProcessMessage(c.Request.Context(), req.StudentID, req.Message, req.Context)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
