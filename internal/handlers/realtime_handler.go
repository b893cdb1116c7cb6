package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/kapilnath546/study-buddies/internal/middleware"
	"github.com/kapilnath546/study-buddies/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RealtimeHandler upgrades clients to a websocket and registers them for
// collection-change events. The subscription is released unconditionally
// when the connection ends.
type RealtimeHandler struct {
	hub      *services.Hub
	upgrader websocket.Upgrader
}

// NewRealtimeHandler creates a new RealtimeHandler
func NewRealtimeHandler(hub *services.Hub) *RealtimeHandler {
	return &RealtimeHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRealtimeRoutes registers the websocket route. The browser
// websocket API cannot set headers, so the session token travels as a
// query parameter here.
func (h *RealtimeHandler) RegisterRealtimeRoutes(e *echo.Echo) {
	e.GET("/ws", h.Subscribe)
}

// Subscribe registers the client for change events on the requested
// collections (comma-separated, all when omitted) and blocks until the
// connection closes.
func (h *RealtimeHandler) Subscribe(c echo.Context) error {
	claims, err := middleware.ParseToken(c.QueryParam("token"))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	var collections []string
	if raw := c.QueryParam("collections"); raw != "" {
		collections = strings.Split(raw, ",")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	sub := h.hub.Subscribe(claims.UserID, conn, collections)
	defer h.hub.Unsubscribe(sub)

	// Clients only listen; the read loop just detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			log.Debug().Uint("user_id", claims.UserID).Msg("Realtime connection closed")
			return nil
		}
	}
}
