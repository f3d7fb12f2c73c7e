package controller

import (
	"errors"

	"grip-chatbot-be/internal/constant"
	"grip-chatbot-be/internal/dto"
	"grip-chatbot-be/internal/pkg/serverutils"
	"grip-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// IChatController defines the chat controller interface
type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GetSessions(ctx *fiber.Ctx) error
	GetSessionHistory(ctx *fiber.Ctx) error
	NewChat(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	ClearAllSessions(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	r.Get("/get_sessions", c.GetSessions)
	r.Get("/get_session_history/:session_id", c.GetSessionHistory)
	r.Post("/new_chat", c.NewChat)
	r.Delete("/delete_session/:session_id", c.DeleteSession)
	r.Post("/clear_all_sessions", c.ClearAllSessions)
	r.Post("/chat", c.Chat)
}

func (c *chatController) GetSessions(ctx *fiber.Ctx) error {
	return ctx.JSON(c.chatService.GetSessions())
}

func (c *chatController) GetSessionHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	res, err := c.chatService.GetSessionHistory(sessionId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	return ctx.JSON(res)
}

func (c *chatController) NewChat(ctx *fiber.Ctx) error {
	res := c.chatService.CreateSession()
	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")

	if err := c.chatService.DeleteSession(sessionId); err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}

	return ctx.JSON(fiber.Map{"success": true})
}

func (c *chatController) ClearAllSessions(ctx *fiber.Ctx) error {
	c.chatService.ClearAllSessions()
	return ctx.JSON(fiber.Map{"success": true})
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message and session_id are required"})
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Message and session_id are required"})
	}

	reply, err := c.chatService.Chat(ctx.Context(), req.SessionId, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSessionNotFound):
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Invalid session_id"})
		case errors.Is(err, service.ErrSessionJustLocked):
			return ctx.Status(fiber.StatusLocked).JSON(fiber.Map{"error": constant.SessionNewlyLockedMessage})
		case errors.Is(err, service.ErrSessionLocked):
			return ctx.Status(fiber.StatusLocked).JSON(fiber.Map{"error": constant.SessionLockedMessage})
		case errors.Is(err, service.ErrOffTopic):
			// Guidance text travels in the reply field, not error
			return ctx.Status(fiber.StatusBadRequest).JSON(dto.ChatResponse{Reply: constant.OffTopicGuidance})
		default:
			return ctx.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "Failed to communicate with the language model: " + err.Error(),
			})
		}
	}

	return ctx.JSON(dto.ChatResponse{Reply: reply})
}
