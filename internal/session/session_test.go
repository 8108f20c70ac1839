package session

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/kbahtiar/folio/internal/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
	}
}

func upstreamSession(t *testing.T) *types.Session {
	t.Helper()
	id, err := uuid.Parse("6f1f0f5e-8c2a-4b6e-9d35-0a4b1dca1f5d")
	require.NoError(t, err)

	s := &types.Session{AccessToken: "sb-access-token"}
	s.User.ID = id
	s.User.Email = "owner@example.com"
	return s
}

func guardedApp(t *testing.T, cfg config.JWTConfig) *fiber.App {
	t.Helper()
	app := fiber.New()
	app.Use(Guard(cfg))
	app.Get("/protected", func(c *fiber.Ctx) error {
		sess, err := FromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"user_id": sess.UserID, "email": sess.Email})
	})
	return app
}

func TestGuardAllowsValidSession(t *testing.T) {
	cfg := testJWTConfig()
	token, err := Token(cfg, upstreamSession(t))
	require.NoError(t, err)

	app := guardedApp(t, cfg)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "6f1f0f5e-8c2a-4b6e-9d35-0a4b1dca1f5d", body["user_id"])
	assert.Equal(t, "owner@example.com", body["email"])
}

func TestGuardRejectsMissingToken(t *testing.T) {
	app := guardedApp(t, testJWTConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGuardRejectsGarbageToken(t *testing.T) {
	app := guardedApp(t, testJWTConfig())

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGuardRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Expiration = -time.Minute

	token, err := Token(cfg, upstreamSession(t))
	require.NoError(t, err)

	app := guardedApp(t, cfg)
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGuardRejectsWrongKey(t *testing.T) {
	token, err := Token(config.JWTConfig{Secret: "other-secret", Expiration: time.Hour}, upstreamSession(t))
	require.NoError(t, err)

	app := guardedApp(t, testJWTConfig())
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
