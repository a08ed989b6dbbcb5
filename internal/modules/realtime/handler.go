package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/meezumi/content-review-platform/internal/modules/documents"
	"github.com/meezumi/content-review-platform/internal/pkg/jwt"
	"github.com/meezumi/content-review-platform/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is delegated to the CORS layer in front.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades authenticated clients to WebSocket connections and routes
// their room events.
type Handler struct {
	hub        *Hub
	jwtService *jwt.Service
	service    *Service
}

func NewHandler(hub *Hub, jwtService *jwt.Service, service *Service) *Handler {
	return &Handler{
		hub:        hub,
		jwtService: jwtService,
		service:    service,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket serves GET /ws?token=JWT. Browsers cannot set headers on a
// WebSocket handshake, so the token rides in the query string and is verified
// before the upgrade. Bad tokens never get a socket.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	client := &client{
		userID:   claims.UserID,
		username: claims.Username,
		conn:     conn,
		send:     make(chan []byte, 256),
		rooms:    make(map[int64]bool),
	}
	h.hub.register(client)

	go h.hub.writePump(client)
	h.readPump(client) // blocks until disconnect
}

func (h *Handler) readPump(c *client) {
	defer func() {
		h.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket error for user %d: %v", c.userID, err)
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.hub.sendToClient(c, NewErrorEvent("INVALID_JSON", "Failed to parse message"))
			continue
		}

		switch msg.Type {
		case EventJoinRoom:
			h.handleJoin(c, msg)
		case EventLeaveRoom:
			h.hub.leave(c, msg.DocumentID)
		case EventNewComment:
			h.handleNewComment(c, msg)
		default:
			h.hub.sendToClient(c, NewErrorEvent("UNKNOWN_TYPE", "Unknown message type: "+msg.Type))
		}
	}
}

func (h *Handler) handleJoin(c *client, msg ClientMessage) {
	if msg.DocumentID <= 0 {
		h.hub.sendToClient(c, NewErrorEvent("INVALID_DOCUMENT", "documentId is required"))
		return
	}
	if _, err := h.service.Authorize(context.Background(), msg.DocumentID, c.userID); err != nil {
		h.hub.sendToClient(c, NewErrorEvent(wsErrorCode(err), "Cannot join document room"))
		return
	}
	h.hub.join(c, msg.DocumentID)
}

func (h *Handler) handleNewComment(c *client, msg ClientMessage) {
	if msg.DocumentID <= 0 {
		h.hub.sendToClient(c, NewErrorEvent("INVALID_DOCUMENT", "documentId is required"))
		return
	}
	if msg.Text == "" {
		h.hub.sendToClient(c, NewErrorEvent("EMPTY_TEXT", "text is required"))
		return
	}
	if _, err := h.service.PostComment(context.Background(), c.userID, c.username, msg); err != nil {
		h.hub.sendToClient(c, NewErrorEvent(wsErrorCode(err), "Failed to post comment"))
	}
}

func wsErrorCode(err error) string {
	switch {
	case errors.Is(err, documents.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, documents.ErrVersionNotFound):
		return "VERSION_NOT_FOUND"
	case errors.Is(err, documents.ErrAccessDenied):
		return "FORBIDDEN"
	}
	return "INTERNAL"
}
