package account

import (
	"context"

	"messenger-core/core/apperr"
	"messenger-core/core/logger"
	"messenger-core/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// TTLBody is the request and response body of the TTL routes, in days.
type TTLBody struct {
	Days int32 `json:"days"`
}

// MessageTTLBody is the request and response body of the message TTL route.
type MessageTTLBody struct {
	Seconds int32 `json:"seconds"`
}

// ToggleBody is the request body of the session toggle routes.
type ToggleBody struct {
	Enabled bool `json:"enabled"`
}

// Handler handles HTTP requests for sessions and account settings.
type Handler struct {
	manager *Manager
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(manager *Manager, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{manager: manager, logger: logger}
}

// RegisterRoutes registers the session, website and account routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Get("/sessions", h.HandleList)
	app.Delete("/sessions", h.HandleTerminateOthers)
	sessions := app.Group("/sessions")
	sessions.Get("/unconfirmed", h.HandleUnconfirmed)
	sessions.Post("/:hash/confirm", h.HandleConfirm)
	sessions.Put("/:hash/calls", h.HandleToggleCalls)
	sessions.Put("/:hash/secret_chats", h.HandleToggleSecretChats)
	sessions.Delete("/:hash", h.HandleTerminate)

	app.Get("/websites", h.HandleWebsites)
	app.Delete("/websites", h.HandleDisconnectAll)
	app.Delete("/websites/:id", h.HandleDisconnect)

	acc := app.Group("/account")
	acc.Get("/ttl", h.HandleGetTTL)
	acc.Put("/ttl", h.HandleSetTTL)
	acc.Get("/message_ttl", h.HandleGetMessageTTL)
	acc.Put("/message_ttl", h.HandleSetMessageTTL)
	acc.Get("/inactive_session_ttl", h.HandleGetInactiveTTL)
	acc.Put("/inactive_session_ttl", h.HandleSetInactiveTTL)
}

// HandleList lists the active sessions.
// @Summary List Active Sessions
// @Description Returns every active session, current first, then sessions waiting for a password, then by last activity.
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {object} Sessions "Sessions"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	list, err := h.manager.GetActiveSessions(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(list)
}

// HandleTerminateOthers logs out every other session.
// @Summary Terminate Other Sessions
// @Description Logs out every session except the current one and forgets the unconfirmed logins.
// @Tags sessions
// @Accept json
// @Produce json
// @Success 204 "Terminated"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions [delete]
func (h *Handler) HandleTerminateOthers(c *fiber.Ctx) error {
	if err := h.manager.TerminateAllOtherSessions(c.UserContext()); err != nil {
		logger.WithRayID(h.logger, c).Warn("Terminating other sessions failed", zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUnconfirmed lists logins waiting for confirmation.
// @Summary List Unconfirmed Sessions
// @Description Returns the logins waiting for confirmation, oldest first.
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {array} Object "Unconfirmed Sessions"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sessions/unconfirmed [get]
func (h *Handler) HandleUnconfirmed(c *fiber.Ctx) error {
	list, err := h.manager.Unconfirmed(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	out := make([]Object, 0, len(list))
	for _, a := range list {
		out = append(out, a.Object())
	}
	return c.JSON(out)
}

// HandleConfirm confirms a login.
// @Summary Confirm Session
// @Description Confirms a login. The local entry is dropped whatever the server answers.
// @Tags sessions
// @Accept json
// @Produce json
// @Param hash path integer true "Session identifier"
// @Success 204 "Confirmed"
// @Failure 400 {object} map[string]string "Invalid session identifier"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions/{hash}/confirm [post]
func (h *Handler) HandleConfirm(c *fiber.Ctx) error {
	hash, err := utils.ToInt64(c.Params("hash"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid session identifier"))
	}
	if err := h.manager.ConfirmSession(c.UserContext(), hash); err != nil {
		logger.WithRayID(h.logger, c).Warn("Session confirmation failed", zap.Int64("hash", hash), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleToggleCalls allows or forbids calls on a session.
// @Summary Toggle Session Calls
// @Description Allows or forbids incoming calls on a session.
// @Tags sessions
// @Accept json
// @Produce json
// @Param hash path integer true "Session identifier"
// @Param body body ToggleBody true "Toggle"
// @Success 204 "Changed"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions/{hash}/calls [put]
func (h *Handler) HandleToggleCalls(c *fiber.Ctx) error {
	return h.toggle(c, h.manager.ToggleSessionCanAcceptCalls)
}

// HandleToggleSecretChats allows or forbids secret chats on a session.
// @Summary Toggle Session Secret Chats
// @Description Allows or forbids incoming secret chats on a session.
// @Tags sessions
// @Accept json
// @Produce json
// @Param hash path integer true "Session identifier"
// @Param body body ToggleBody true "Toggle"
// @Success 204 "Changed"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions/{hash}/secret_chats [put]
func (h *Handler) HandleToggleSecretChats(c *fiber.Ctx) error {
	return h.toggle(c, h.manager.ToggleSessionCanAcceptSecretChats)
}

func (h *Handler) toggle(c *fiber.Ctx, set func(ctx context.Context, hash int64, enabled bool) error) error {
	hash, err := utils.ToInt64(c.Params("hash"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid session identifier"))
	}
	var body ToggleBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}
	if err := set(c.UserContext(), hash, body.Enabled); err != nil {
		logger.WithRayID(h.logger, c).Warn("Session change failed", zap.Int64("hash", hash), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleTerminate logs out a session.
// @Summary Terminate Session
// @Description Logs out a session. The unconfirmed entry, if any, is dropped whatever the server answers.
// @Tags sessions
// @Accept json
// @Produce json
// @Param hash path integer true "Session identifier"
// @Success 204 "Terminated"
// @Failure 400 {object} map[string]string "Invalid session identifier"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /sessions/{hash} [delete]
func (h *Handler) HandleTerminate(c *fiber.Ctx) error {
	hash, err := utils.ToInt64(c.Params("hash"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid session identifier"))
	}
	if err := h.manager.TerminateSession(c.UserContext(), hash); err != nil {
		logger.WithRayID(h.logger, c).Warn("Session termination failed", zap.Int64("hash", hash), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleWebsites lists the connected websites.
// @Summary List Connected Websites
// @Description Returns the websites the account logged in to through bots.
// @Tags websites
// @Accept json
// @Produce json
// @Success 200 {array} Website "Websites"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /websites [get]
func (h *Handler) HandleWebsites(c *fiber.Ctx) error {
	sites, err := h.manager.GetConnectedWebsites(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(sites)
}

// HandleDisconnect logs out of a website.
// @Summary Disconnect Website
// @Description Logs out of one connected website.
// @Tags websites
// @Accept json
// @Produce json
// @Param id path integer true "Website identifier"
// @Success 204 "Disconnected"
// @Failure 400 {object} map[string]string "Invalid website identifier"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /websites/{id} [delete]
func (h *Handler) HandleDisconnect(c *fiber.Ctx) error {
	id, err := utils.ToInt64(c.Params("id"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid website identifier"))
	}
	if err := h.manager.DisconnectWebsite(c.UserContext(), id); err != nil {
		logger.WithRayID(h.logger, c).Warn("Website disconnection failed", zap.Int64("id", id), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDisconnectAll logs out of every website.
// @Summary Disconnect All Websites
// @Description Logs out of every connected website.
// @Tags websites
// @Accept json
// @Produce json
// @Success 204 "Disconnected"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /websites [delete]
func (h *Handler) HandleDisconnectAll(c *fiber.Ctx) error {
	if err := h.manager.DisconnectAllWebsites(c.UserContext()); err != nil {
		logger.WithRayID(h.logger, c).Warn("Website disconnection failed", zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetTTL returns the account TTL.
// @Summary Get Account TTL
// @Description Returns after how many days of inactivity the account is deleted.
// @Tags account
// @Accept json
// @Produce json
// @Success 200 {object} TTLBody "Account TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/ttl [get]
func (h *Handler) HandleGetTTL(c *fiber.Ctx) error {
	days, err := h.manager.GetAccountTTL(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(TTLBody{Days: days})
}

// HandleSetTTL changes the account TTL.
// @Summary Set Account TTL
// @Description Sets after how many days of inactivity the account is deleted, between 30 and 730.
// @Tags account
// @Accept json
// @Produce json
// @Param body body TTLBody true "Account TTL"
// @Success 200 {object} TTLBody "Account TTL"
// @Failure 400 {object} map[string]string "Invalid TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/ttl [put]
func (h *Handler) HandleSetTTL(c *fiber.Ctx) error {
	var body TTLBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}
	if err := h.manager.SetAccountTTL(c.UserContext(), body.Days); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(body)
}

// HandleGetMessageTTL returns the default message auto-delete time.
// @Summary Get Default Message TTL
// @Description Returns the auto-delete time of new chats in seconds. Zero means disabled.
// @Tags account
// @Accept json
// @Produce json
// @Success 200 {object} MessageTTLBody "Message TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/message_ttl [get]
func (h *Handler) HandleGetMessageTTL(c *fiber.Ctx) error {
	seconds, err := h.manager.GetDefaultMessageTTL(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(MessageTTLBody{Seconds: seconds})
}

// HandleSetMessageTTL changes the default message auto-delete time.
// @Summary Set Default Message TTL
// @Description Sets the auto-delete time of new chats in seconds. Zero disables it.
// @Tags account
// @Accept json
// @Produce json
// @Param body body MessageTTLBody true "Message TTL"
// @Success 200 {object} MessageTTLBody "Message TTL"
// @Failure 400 {object} map[string]string "Negative TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/message_ttl [put]
func (h *Handler) HandleSetMessageTTL(c *fiber.Ctx) error {
	var body MessageTTLBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}
	if err := h.manager.SetDefaultMessageTTL(c.UserContext(), body.Seconds); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(body)
}

// HandleGetInactiveTTL returns the inactive session TTL.
// @Summary Get Inactive Session TTL
// @Description Returns after how many days of inactivity sessions are terminated.
// @Tags account
// @Accept json
// @Produce json
// @Success 200 {object} TTLBody "Inactive Session TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/inactive_session_ttl [get]
func (h *Handler) HandleGetInactiveTTL(c *fiber.Ctx) error {
	list, err := h.manager.GetActiveSessions(c.UserContext())
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(TTLBody{Days: list.InactiveSessionTTLDays})
}

// HandleSetInactiveTTL changes the inactive session TTL.
// @Summary Set Inactive Session TTL
// @Description Sets after how many days of inactivity sessions are terminated, between 1 and 366.
// @Tags account
// @Accept json
// @Produce json
// @Param body body TTLBody true "Inactive Session TTL"
// @Success 200 {object} TTLBody "Inactive Session TTL"
// @Failure 400 {object} map[string]string "Invalid TTL"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /account/inactive_session_ttl [put]
func (h *Handler) HandleSetInactiveTTL(c *fiber.Ctx) error {
	var body TTLBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}
	if err := h.manager.SetInactiveSessionTTL(c.UserContext(), body.Days); err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(body)
}
