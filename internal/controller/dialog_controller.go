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

type IDialogController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type dialogController struct {
	dialogs *store.DialogStore
}

func NewDialogController(dialogs *store.DialogStore) IDialogController {
	return &dialogController{
		dialogs: dialogs,
	}
}

func (c *dialogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dialog/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Index)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

func (c *dialogController) Index(ctx *fiber.Ctx) error {
	res := dto.NewDialogResponses(c.dialogs.Dialogs())
	return ctx.JSON(serverutils.SuccessResponse("Success list dialogs", res))
}

func (c *dialogController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed dialog id")
	}

	d, ok := c.dialogs.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Dialog not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show dialog", dto.NewDialogResponse(d)))
}

func (c *dialogController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.SessionUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateDialogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	dialog := entity.Dialog{
		Id:            uuid.New(),
		WorkspaceId:   req.WorkspaceId,
		AssistantId:   req.AssistantId,
		OwnerId:       userId,
		Name:          req.Name,
		ModelSettings: req.ModelSettings,
		CreatedAt:     time.Now(),
	}

	if err := c.dialogs.Add(ctx.Context(), &dialog); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create dialog", dto.NewDialogResponse(&dialog)))
}

// Update carries the model-settings sliders: each drag patches the mirror
// instantly, the remote write lands once per throttle window.
func (c *dialogController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed dialog id")
	}

	var req dto.UpdateDialogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	current, ok := c.dialogs.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Dialog not found")
	}

	updated := *current
	if req.Name != "" {
		updated.Name = req.Name
	}
	if req.ModelSettings != nil {
		updated.ModelSettings = req.ModelSettings
	}
	c.dialogs.Update(ctx.Context(), &updated)

	return ctx.JSON(serverutils.SuccessResponse("Success update dialog", dto.NewDialogResponse(&updated)))
}

func (c *dialogController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed dialog id")
	}

	if err := c.dialogs.Remove(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete dialog", nil))
}
