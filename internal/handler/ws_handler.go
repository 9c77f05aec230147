package handler

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"medcollab/internal/realtime"
	"medcollab/internal/service/auth"
)

// WSHandler upgrades HTTP connections to the realtime channel. Browsers can't
// set an Authorization header on a websocket handshake, so the access token
// travels as a query parameter; an invalid token still connects, it just
// starts the session anonymous until register_user.
type WSHandler struct {
	hub         *realtime.Hub
	authService auth.Service
}

func NewWSHandler(hub *realtime.Hub, authService auth.Service) *WSHandler {
	return &WSHandler{
		hub:         hub,
		authService: authService,
	}
}

// Upgrade gates the handshake: only genuine websocket upgrade requests pass.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	userID := ""
	if token := c.Query("token"); token != "" {
		if claims, err := h.authService.ValidateAccessToken(token); err == nil {
			userID = claims.UserID.String()
		}
	}
	c.Locals("ws_user_id", userID)

	return c.Next()
}

func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("ws_user_id").(string)

		client := realtime.NewClient(h.hub, conn, userID)
		go client.WritePump()
		client.ReadPump()
	})
}
