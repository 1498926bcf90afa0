package handler

import (
	"learnhub-be/internal/pkg/logger"
	"learnhub-be/internal/pkg/serverutils"
	internalWS "learnhub-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNotificationHandler(hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{hub: hub, logger: log}
}

// Authenticate resolves the caller before the upgrade. Browsers cannot set
// headers on a websocket handshake, so the token may come as ?token=.
func (h *NotificationHandler) Authenticate(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing token"))
	}

	claims, err := serverutils.ParseToken(tokenStr)
	if err != nil {
		h.logger.Warn("NOTIFICATION", "Invalid token in websocket handshake", nil)
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user ID in token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("ws_user_id", userID)
	return c.Next()
}

func (h *NotificationHandler) ServeWs(c *websocket.Conn) {
	userID, ok := c.Locals("ws_user_id").(uuid.UUID)
	if !ok {
		_ = c.Close()
		return
	}
	h.logger.Info("NOTIFICATION", "Starting websocket session", map[string]interface{}{"user_id": userID})
	internalWS.ServeWs(h.hub, c, userID)
	h.logger.Info("NOTIFICATION", "Websocket session ended", map[string]interface{}{"user_id": userID})
}

// Status reports whether the caller currently has a live stream on this instance.
func (h *NotificationHandler) Status(c *fiber.Ctx) error {
	userID, err := serverutils.CurrentUserID(c)
	if err != nil {
		return err
	}
	return c.JSON(serverutils.SuccessResponse("Realtime status", fiber.Map{
		"connections": h.hub.Connected(userID),
	}))
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notifications/status", serverutils.JwtMiddleware, h.Status)
	router.Get("/ws", h.Authenticate, websocket.New(h.ServeWs))
}
