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

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type chatController struct {
	chats *store.ChatStore
}

func NewChatController(chats *store.ChatStore) IChatController {
	return &chatController{
		chats: chats,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Index)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

// Index returns the mirrored chats with display names already resolved.
func (c *chatController) Index(ctx *fiber.Ctx) error {
	res := dto.NewChatResponses(c.chats.Chats())
	return ctx.JSON(serverutils.SuccessResponse("Success list chats", res))
}

func (c *chatController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed chat id")
	}

	chat, ok := c.chats.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Chat not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show chat", dto.NewChatResponse(chat)))
}

// Create writes the chat row, then its membership rows. The creator is
// always a member; the listed member ids join alongside.
func (c *chatController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.SessionUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	chat := entity.Chat{
		Id:          uuid.New(),
		WorkspaceId: req.WorkspaceId,
		Name:        req.Name,
		Kind:        req.Kind,
		OwnerId:     userId,
		Metadata:    req.Metadata,
		CreatedAt:   time.Now(),
	}

	if err := c.chats.Add(ctx.Context(), &chat); err != nil {
		return err
	}

	now := time.Now()
	memberIds := append([]uuid.UUID{userId}, req.MemberIds...)
	seen := make(map[uuid.UUID]bool, len(memberIds))
	for _, memberId := range memberIds {
		if seen[memberId] {
			continue
		}
		seen[memberId] = true

		member := entity.ChatMember{
			Id:       uuid.New(),
			ChatId:   chat.Id,
			UserId:   memberId,
			JoinedAt: now,
		}
		if err := c.chats.AddMember(ctx.Context(), &member); err != nil {
			return err
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create chat", dto.NewChatResponse(&chat)))
}

func (c *chatController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed chat id")
	}

	var req dto.UpdateChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	current, ok := c.chats.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Chat not found")
	}

	updated := *current
	updated.Name = req.Name
	if req.Metadata != nil {
		updated.Metadata = req.Metadata
	}
	c.chats.Update(ctx.Context(), &updated)

	return ctx.JSON(serverutils.SuccessResponse("Success update chat", dto.NewChatResponse(&updated)))
}

func (c *chatController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed chat id")
	}

	if err := c.chats.Remove(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete chat", nil))
}
