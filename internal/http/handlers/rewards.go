package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-coach/internal/http/response"
	"github.com/yungbote/neurobridge-coach/internal/services"
)

type RewardHandler struct {
	rewards services.RewardService
}

func NewRewardHandler(rewards services.RewardService) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// POST /api/rewards/validate
func (h *RewardHandler) Validate(c *gin.Context) {
	var req struct {
		Code string `json:"code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	out, err := h.rewards.Validate(c.Request.Context(), req.Code)
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, out)
}
