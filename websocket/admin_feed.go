package websocket

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"lizze-booking-server/utils"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AdminFeedHandler upgrades authenticated staff connections onto the hub.
type AdminFeedHandler struct {
	hub *Hub
}

func NewAdminFeedHandler(hub *Hub) *AdminFeedHandler {
	return &AdminFeedHandler{hub: hub}
}

// HandleAdminFeed is the gin handler for GET /api/v1/ws/admin. The staff JWT
// is passed as a query parameter because browsers cannot set headers on
// WebSocket upgrades.
func (h *AdminFeedHandler) HandleAdminFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token query parameter required"})
		return
	}
	if _, err := utils.VerifyToken(token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Admin feed upgrade failed: %v", err)
		return
	}

	client := &Client{
		Hub:  h.hub,
		Send: make(chan []byte, 16),
	}
	h.hub.Register <- client

	go client.writePump(conn)
	go client.readPump(conn)
}

// writePump pushes hub events to the peer and keeps the connection alive
// with pings.
func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to notice
// closes and answer pongs.
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		c.Hub.Unregister <- c
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
