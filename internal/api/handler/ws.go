package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	statsPushPeriod = 5 * time.Second
	writeWait       = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type statsFrame struct {
	Waiting        int   `json:"waiting"`
	ActiveSessions int   `json:"active_sessions"`
	Timestamp      int64 `json:"ts"`
}

// ServeStatsFeed upgrades the connection and pushes matchmaker counters
// periodically until the client goes away.
func (h *Handler) ServeStatsFeed(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(statsPushPeriod)
		defer func() {
			ticker.Stop()
			conn.Close()
		}()

		for {
			waiting, active := h.Matchmaker.Snapshot()
			frame := statsFrame{Waiting: waiting, ActiveSessions: active, Timestamp: time.Now().Unix()}

			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(frame); err != nil {
				log.Printf("stats feed write failed: %v", err)
				return
			}

			select {
			case <-ticker.C:
			case <-done:
				return
			}
		}
	}()
}
