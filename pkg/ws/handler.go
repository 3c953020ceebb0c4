package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handler upgrades HTTP requests to websocket connections and pumps
// messages between the connection and the hub.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	log      *zap.Logger
}

// NewHandler builds a websocket handler. allowedOrigins restricts which
// browser origins may connect; an empty list allows all (development).
func NewHandler(hub *Hub, allowedOrigins []string, log *zap.Logger) *Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &Handler{
		hub: hub,
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowed) == 0 {
					return true
				}
				_, ok := allowed[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Connect handles GET /ws.
func (h *Handler) Connect(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		id:   uuid.New().String(),
		send: make(chan []byte, 256),
	}
	h.hub.register(cl)
	h.log.Debug("websocket client connected", zap.String("client_id", cl.id))

	go h.writePump(cl, conn)
	h.readPump(cl, conn)
}

func (h *Handler) readPump(cl *client, conn *websocket.Conn) {
	defer func() {
		h.hub.unregister(cl)
		conn.Close()
		h.log.Debug("websocket client disconnected", zap.String("client_id", cl.id))
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			continue // Ignore malformed messages.
		}
		h.hub.dispatch(cl, msg)
	}
}

func (h *Handler) writePump(cl *client, conn *websocket.Conn) {
	defer conn.Close()

	for payload := range cl.send {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
