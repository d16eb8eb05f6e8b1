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

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Index(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type workspaceController struct {
	workspaces *store.WorkspaceStore
}

func NewWorkspaceController(workspaces *store.WorkspaceStore) IWorkspaceController {
	return &workspaceController{
		workspaces: workspaces,
	}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspace/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("", c.Index)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
	h.Delete(":id", c.Delete)
}

// Index serves straight from the mirror, no remote round trip.
func (c *workspaceController) Index(ctx *fiber.Ctx) error {
	res := dto.NewWorkspaceResponses(c.workspaces.Workspaces())
	return ctx.JSON(serverutils.SuccessResponse("Success list workspaces", res))
}

func (c *workspaceController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed workspace id")
	}

	w, ok := c.workspaces.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Workspace not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show workspace", dto.NewWorkspaceResponse(w)))
}

func (c *workspaceController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.SessionUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateWorkspaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	workspace := entity.Workspace{
		Id:        uuid.New(),
		Name:      req.Name,
		OwnerId:   userId,
		CreatedAt: time.Now(),
	}

	if err := c.workspaces.Add(ctx.Context(), &workspace); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create workspace", dto.NewWorkspaceResponse(&workspace)))
}

// Update is the no-save-button path: the mirror is patched right away and
// the remote write coalesces behind the throttle.
func (c *workspaceController) Update(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed workspace id")
	}

	var req dto.UpdateWorkspaceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	current, ok := c.workspaces.Get(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Workspace not found")
	}

	updated := *current
	updated.Name = req.Name
	c.workspaces.Update(ctx.Context(), &updated)

	return ctx.JSON(serverutils.SuccessResponse("Success update workspace", dto.NewWorkspaceResponse(&updated)))
}

func (c *workspaceController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Malformed workspace id")
	}

	if err := c.workspaces.Remove(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete workspace", nil))
}
