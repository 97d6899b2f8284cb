package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gramroulette/internal/matchmaker"
)

// Handler exposes the operational HTTP surface over the matchmaker.
type Handler struct {
	Matchmaker *matchmaker.Service
	jwtSecret  []byte
	adminKey   string
}

func NewHandler(mm *matchmaker.Service, jwtSecret, adminKey string) *Handler {
	return &Handler{Matchmaker: mm, jwtSecret: []byte(jwtSecret), adminKey: adminKey}
}

// Healthz is the unauthenticated liveness probe.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Stats returns the current pool size and active session count.
func (h *Handler) Stats(c *gin.Context) {
	waiting, active := h.Matchmaker.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"waiting":         waiting,
		"active_sessions": active,
	})
}
