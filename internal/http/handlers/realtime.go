package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-coach/internal/http/response"
	"github.com/yungbote/neurobridge-coach/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-coach/internal/platform/logger"
	"github.com/yungbote/neurobridge-coach/internal/realtime"
)

var errNotAuthenticated = errors.New("not authenticated")

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/staff/stream streams safeguarding alerts to a reviewer's dashboard.
// Events carry ids and severities only; content is fetched through the flag API.
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	sd := ctxutil.GetStaffData(c.Request.Context())
	if sd == nil || sd.ReviewerID == "" {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", errNotAuthenticated)
		return
	}
	client := h.hub.NewSSEClient(sd.ReviewerID)
	h.hub.AddChannel(client, realtime.ChannelSafeguarding)
	h.log.Info("staff stream open", "reviewer_id", sd.ReviewerID, "client_id", client.ID.String())

	h.hub.ServeHTTP(c.Writer, c.Request, client)

	h.hub.CloseClient(client)
	h.log.Info("staff stream closed", "reviewer_id", sd.ReviewerID, "client_id", client.ID.String())
}
