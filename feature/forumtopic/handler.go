package forumtopic

import (
	"messenger-core/core/apperr"
	"messenger-core/core/directory"
	"messenger-core/core/logger"
	"messenger-core/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CreateRequest is the body of the topic creation route.
type CreateRequest struct {
	Title string `json:"title"`
	Icon  *Icon  `json:"icon"`
}

// Handler handles HTTP requests for forum topics.
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

// RegisterRoutes registers the topic routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	app.Post("/topics/:chat_id", h.HandleCreate)
	app.Get("/topics/:chat_id/:thread_id", h.HandleGet)
}

// HandleCreate creates a topic in the chat given by its dialog id.
// @Summary Create Forum Topic
// @Description Creates a topic in a forum supergroup. The icon color defaults to the first allowed color.
// @Tags topics
// @Accept json
// @Produce json
// @Param chat_id path integer true "Chat identifier"
// @Param body body CreateRequest true "Topic"
// @Success 201 {object} Object "Topic"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Not enough rights"
// @Failure 502 {object} map[string]string "Server Error"
// @Router /topics/{chat_id} [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	chatID, err := utils.ToInt64(c.Params("chat_id"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid chat identifier"))
	}

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid request body"))
	}

	topic, err := h.manager.Create(c.UserContext(), directory.DialogID(chatID), req.Title, req.Icon)
	if err != nil {
		logger.WithRayID(h.logger, c).Warn("Topic creation failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return apperr.Respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(topic.Object())
}

// HandleGet returns a topic recorded by this session.
// @Summary Get Forum Topic
// @Description Returns a topic created or seen by this session.
// @Tags topics
// @Accept json
// @Produce json
// @Param chat_id path integer true "Chat identifier"
// @Param thread_id path integer true "Message thread identifier"
// @Success 200 {object} Object "Topic"
// @Failure 400 {object} map[string]string "Invalid identifier"
// @Failure 404 {object} map[string]string "Topic not found"
// @Router /topics/{chat_id}/{thread_id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	chatID, err := utils.ToInt64(c.Params("chat_id"))
	if err != nil {
		return apperr.Respond(c, apperr.Validation("Invalid chat identifier"))
	}
	threadID, err := utils.ToInt32(c.Params("thread_id"))
	if err != nil || threadID <= 0 {
		return apperr.Respond(c, apperr.Validation("Invalid message thread identifier"))
	}

	topic, err := h.manager.Topic(c.UserContext(), directory.DialogID(chatID), threadID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.JSON(topic.Object())
}
