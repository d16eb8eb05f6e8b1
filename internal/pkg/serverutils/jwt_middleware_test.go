package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionUserId(t *testing.T) {
	valid := uuid.New()

	cases := []struct {
		name   string
		claim  interface{}
		status int
	}{
		{"valid claim", valid.String(), fiber.StatusOK},
		{"non-string claim", 12345, fiber.StatusUnauthorized},
		{"malformed uuid", "not-a-uuid", fiber.StatusUnauthorized},
		{"missing claim", nil, fiber.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(ctx *fiber.Ctx) error {
				if tc.claim != nil {
					ctx.Locals("user_id", tc.claim)
				}
				userId, err := SessionUserId(ctx)
				if err != nil {
					return err
				}
				assert.Equal(t, valid, userId)
				return ctx.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
