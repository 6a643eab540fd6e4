package server

import (
	"log/slog"

	"wiseadvice/internal/featureflags"
	"wiseadvice/internal/middleware"
	"wiseadvice/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationsWebsocket handles GET /api/ws/notifications. Each stored
// notification for the caller is pushed as a JSON event frame. Inbound
// frames other than control frames are ignored.
// @Summary Notification stream (websocket)
// @Tags notifications
// @Security BearerAuth
// @Param token query string false "Session token for browser clients"
// @Success 101
// @Failure 403 {object} models.ErrorResponse "Realtime notifications disabled"
// @Failure 426 {object} models.ErrorResponse
// @Router /ws/notifications [get]
func (s *Server) NotificationsWebsocket() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		uid, ok := conn.Locals(middleware.LocalUserID).(uint)
		if !ok || uid == 0 {
			_ = conn.Close()
			return
		}

		client, err := s.hub.Register(uid, conn)
		if err != nil {
			middleware.Logger.Warn("websocket register failed",
				slog.Uint64("user_id", uint64(uid)),
				slog.String("error", err.Error()),
			)
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"`+err.Error()+`"}`))
			_ = conn.Close()
			return
		}

		go client.WritePump()
		client.ReadPump()
	})

	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return models.RespondWithError(c, fiber.StatusUpgradeRequired,
				models.NewValidationError("Websocket upgrade required"))
		}
		if s.hub == nil {
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				models.NewUnavailableError("Realtime notifications are unavailable"))
		}
		if !s.featureFlags.Enabled(featureflags.RealtimeNotifications, currentUser(c)) {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Realtime notifications are disabled"))
		}
		return upgrade(c)
	}
}
