package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-coach/internal/http/response"
	"github.com/yungbote/neurobridge-coach/internal/services"
)

const (
	defaultFlagPage = 50
	maxFlagPage     = 200
)

var errPendingOnly = errors.New("only pending=true or student_id listings are supported")

type StaffHandler struct {
	review services.ReviewService
}

func NewStaffHandler(review services.ReviewService) *StaffHandler {
	return &StaffHandler{review: review}
}

// GET /api/staff/flags?student_id=...  or  ?pending=true&limit=N
func (h *StaffHandler) ListFlags(c *gin.Context) {
	if studentID := strings.TrimSpace(c.Query("student_id")); studentID != "" {
		flags, err := h.review.ListByStudent(c.Request.Context(), studentID)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, gin.H{"flags": flags})
		return
	}
	if p := c.DefaultQuery("pending", "true"); p != "true" {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", errPendingOnly)
		return
	}
	limit := defaultFlagPage
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, "invalid_limit", err)
			return
		}
		limit = min(n, maxFlagPage)
	}
	flags, err := h.review.ListPending(c.Request.Context(), limit)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flags": flags})
}

// POST /api/staff/flags/:id/review
func (h *StaffHandler) ReviewFlag(c *gin.Context) {
	flagID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_flag_id", err)
		return
	}
	var req struct {
		Outcome     string `json:"outcome"`
		ClearStatus bool   `json:"clear_status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	view, err := h.review.Review(c.Request.Context(), services.ReviewRequest{
		FlagID:      flagID,
		Outcome:     req.Outcome,
		ClearStatus: req.ClearStatus,
	})
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"flag": view})
}
