package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Features reports which optional integrations are live.
type Features struct {
	Redis           bool `json:"redis"`
	Email           bool `json:"email"`
	SMS             bool `json:"sms"`
	Webhook         bool `json:"webhook"`
	NeglectDetector bool `json:"neglect_detector"`
	StaffReview     bool `json:"staff_review"`
}

type HealthHandler struct {
	service  string
	version  string
	features Features
}

func NewHealthHandler(service, version string, features Features) *HealthHandler {
	return &HealthHandler{service: service, version: version, features: features}
}

// GET /healthcheck
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /api/health
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  h.service,
		"version":  h.version,
		"features": h.features,
	})
}
