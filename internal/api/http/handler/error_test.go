package handler

import (
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ddanilov/authcore/internal/model"
)

func TestHandleError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{model.ErrSessionInvalidated, fiber.StatusUnauthorized},
		{model.ErrEmailInUse, fiber.StatusConflict},
		{model.ErrConflict, fiber.StatusConflict},
		{model.ErrInvalidOrExpiredToken, fiber.StatusBadRequest},
		{model.ErrAlreadyUsed, fiber.StatusBadRequest},
		{model.ErrNotFound, fiber.StatusNotFound},
		{assert.AnError, fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error {
				return handleError(c, tt.err)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestHandleError_WrappedErrorsStillMap(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return handleError(c, fmt.Errorf("verify: %w", model.ErrInvalidOrExpiredToken))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
