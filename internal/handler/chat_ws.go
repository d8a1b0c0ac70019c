package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kurtRuzzelSapo/Pawpal-sub000/config"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/auth"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/service"
	"github.com/kurtRuzzelSapo/Pawpal-sub000/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// writePump drains the client's Send channel onto the connection and
// keeps the heartbeat going.
func writePump(conn *websocket.Conn, client *ws.Client) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// UpgradeChatWS upgrades to WebSocket for one conversation; query:
// token, conversation_id. The caller must be a member. Inbound
// "message" frames are persisted then broadcast to the room.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ws.ChatHub, chatSvc *service.ChatService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		convIDStr := c.Query("conversation_id")
		if token == "" || convIDStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and conversation_id required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		var convID uint
		if _, err := fmt.Sscanf(convIDStr, "%d", &convID); err != nil || convID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid conversation_id"})
			return
		}
		if _, err := chatSvc.GetConversation(convID, claims.UserID); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this conversation"})
			return
		}
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		room := chatHub.GetOrCreateRoom(convID)
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
		}()
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		go writePump(conn, client)
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type     string `json:"type"`
				Content  string `json:"content"`
				ImageURL string `json:"image_url"`
			}
			if json.Unmarshal(raw, &msg) != nil {
				continue
			}
			switch msg.Type {
			case "message":
				if msg.Content == "" && msg.ImageURL == "" {
					continue
				}
				// SendMessage persists and broadcasts to the room; the
				// sender's own connection gets the echo as its ack.
				if _, err := chatSvc.SendMessage(convID, claims.UserID, msg.Content, msg.ImageURL); err != nil {
					continue
				}
			case "read":
				if err := chatSvc.MarkRead(convID, claims.UserID); err == nil {
					room.Broadcast(client, map[string]interface{}{
						"type":      "read",
						"reader_id": claims.UserID,
					})
				}
			}
		}
	}
}

// UpgradeUserWS is the per-user event stream: badge counts and
// notification pushes land here.
func UpgradeUserWS(cfg *config.JWTConfig, hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		go writePump(conn, client)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}
}
