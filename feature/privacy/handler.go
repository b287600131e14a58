package privacy

import (
	"messenger-core/core/apperr"
	"messenger-core/core/logger"
	"messenger-core/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RulesBody is the request and response body of the privacy routes.
type RulesBody struct {
	Rules []APIRule `json:"rules"`
}

// Handler handles HTTP requests for privacy settings.
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

// RegisterRoutes registers the privacy routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/privacy")
	group.Get("/:setting", h.HandleGet)
	group.Put("/:setting", h.HandleSet)
}

// HandleGet returns the canonical rules of a setting. With ?cached=true
// only the local copy is consulted.
// @Summary Get Privacy Rules
// @Description Returns the canonical rules of a privacy setting, loading them from the server when needed.
// @Tags privacy
// @Accept json
// @Produce json
// @Param setting path string true "Privacy setting"
// @Param cached query boolean false "Only read the local copy"
// @Success 200 {object} RulesBody "Rules"
// @Failure 400 {object} map[string]string "Unknown setting"
// @Failure 404 {object} map[string]string "Privacy rules are not cached"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /privacy/{setting} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	setting, err := ParseSetting(c.Params("setting"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	if utils.ToBool(c.Query("cached")) {
		rules, ok, err := h.manager.Cached(c.UserContext(), setting)
		if err != nil {
			return apperr.Respond(c, err)
		}
		if !ok {
			return apperr.Respond(c, apperr.NotFound("Privacy rules are not cached"))
		}
		return c.JSON(RulesBody{Rules: rules.APIObjects()})
	}

	rules, err := h.manager.Get(c.UserContext(), setting)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Privacy lookup failed", zap.String("setting", string(setting)), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.JSON(RulesBody{Rules: rules.APIObjects()})
}

// HandleSet replaces the rules of a setting.
// @Summary Set Privacy Rules
// @Description Replaces the rules of a privacy setting and returns the canonical result.
// @Tags privacy
// @Accept json
// @Produce json
// @Param setting path string true "Privacy setting"
// @Param body body RulesBody true "Rules"
// @Success 200 {object} RulesBody "Rules"
// @Failure 400 {object} map[string]string "Invalid rules"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /privacy/{setting} [put]
func (h *Handler) HandleSet(c *fiber.Ctx) error {
	setting, err := ParseSetting(c.Params("setting"))
	if err != nil {
		return apperr.Respond(c, err)
	}

	var body RulesBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	rules, err := h.manager.Set(c.UserContext(), setting, body.Rules)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Privacy update failed", zap.String("setting", string(setting)), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.JSON(RulesBody{Rules: rules.APIObjects()})
}
