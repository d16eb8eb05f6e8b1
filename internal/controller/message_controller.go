package controller

import (
	"time"

	"ai-chat-sync/internal/dto"
	"ai-chat-sync/internal/entity"
	"ai-chat-sync/internal/pkg/serverutils"
	"ai-chat-sync/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMessageController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	IndexForChat(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type messageController struct {
	messages *store.MessageStore
}

func NewMessageController(messages *store.MessageStore) IMessageController {
	return &messageController{
		messages: messages,
	}
}

func (c *messageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/message/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Index)
	h.Get("chat/:chatId", c.IndexForChat)
	h.Post("", c.Create)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *messageController) Index(ctx *fiber.Ctx) error {
	res := dto.NewMessageResponses(c.messages.Messages())
	return ctx.JSON(serverutils.SuccessResponse("Success list messages", res))
}

func (c *messageController) IndexForChat(ctx *fiber.Ctx) error {
	chatId, err := uuid.Parse(ctx.Params("chatId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed chat id")
	}

	res := dto.NewMessageResponses(c.messages.MessagesForChat(chatId))
	return ctx.JSON(serverutils.SuccessResponse("Success list chat messages", res))
}

func (c *messageController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.SessionUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	message := entity.ChatMessage{
		Id:        uuid.New(),
		ChatId:    req.ChatId,
		SenderId:  userId,
		Content:   req.Content,
		Metadata:  req.Metadata,
		CreatedAt: time.Now(),
	}

	if err := c.messages.Add(ctx.Context(), &message); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create message", dto.NewMessageResponse(&message)))
}

// Update edits a sent message in place; repeated edits within the throttle
// window collapse into one remote write.
func (c *messageController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed message id")
	}

	var req dto.UpdateMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	current, ok := c.messages.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Message not found")
	}

	updated := *current
	updated.Content = req.Content
	c.messages.Update(ctx.Context(), &updated)

	return ctx.JSON(serverutils.SuccessResponse("Success update message", dto.NewMessageResponse(&updated)))
}

func (c *messageController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed message id")
	}

	if err := c.messages.Remove(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete message", nil))
}
