package controller

import (
	"ai-chat-sync/internal/dto"
	"ai-chat-sync/internal/pkg/serverutils"
	"ai-chat-sync/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	identity *session.IdentitySource
}

func NewSessionController(identity *session.IdentitySource) ISessionController {
	return &sessionController{
		identity: identity,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("", c.Login)
	h.Delete("", c.Logout)
	h.Get("", c.Show)
}

// Login verifies an externally issued token and switches the agent onto the
// identity it carries. Every mirror resets before the new identity's data is
// served.
func (c *sessionController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	err := serverutils.ValidateRequest(req)
	if err != nil {
		return err
	}

	claims, err := serverutils.ParseToken(req.Token)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	userIdStr, ok := claims["user_id"].(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Token missing user_id claim")
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Malformed user_id claim")
	}

	c.identity.Set(userId)

	return ctx.JSON(serverutils.SuccessResponse("Success start session", dto.SessionResponse{
		UserId: &userId,
		Active: true,
	}))
}

func (c *sessionController) Logout(ctx *fiber.Ctx) error {
	c.identity.Clear()
	return ctx.JSON(serverutils.SuccessResponse("Success end session", dto.SessionResponse{
		Active: false,
	}))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	current := c.identity.Current()
	res := dto.SessionResponse{Active: current != uuid.Nil}
	if res.Active {
		res.UserId = &current
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}
