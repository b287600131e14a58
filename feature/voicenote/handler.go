package voicenote

import (
	"messenger-core/core/apperr"
	"messenger-core/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for voice notes.
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

// RegisterRoutes registers the voice note routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/voicenotes")
	group.Get("/:file_id", h.HandleGet)
	group.Post("/:file_id/refresh", h.HandleRefresh)
}

// HandleGet returns a cached voice note.
// @Summary Get Voice Note
// @Description Returns a voice note known to this session, with its transcription state.
// @Tags voicenotes
// @Accept json
// @Produce json
// @Param file_id path string true "File identifier"
// @Success 200 {object} Object "Voice Note"
// @Failure 404 {object} map[string]string "Voice note not found"
// @Router /voicenotes/{file_id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	v, err := h.manager.Get(c.UserContext(), c.Params("file_id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(v.Object())
}

// HandleRefresh reloads a voice note from the server.
// @Summary Refresh Voice Note
// @Description Reloads a voice note from the server and merges it into the local copy.
// @Tags voicenotes
// @Accept json
// @Produce json
// @Param file_id path string true "File identifier"
// @Success 200 {object} Object "Voice Note"
// @Failure 404 {object} map[string]string "Voice note not found"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /voicenotes/{file_id}/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	fileID := c.Params("file_id")
	l := logger.WithRayID(h.logger, c)

	v, err := h.manager.Refresh(c.UserContext(), fileID)
	if err != nil {
		l.Warn("Voice note refresh failed", zap.String("file_id", fileID), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.JSON(v.Object())
}
