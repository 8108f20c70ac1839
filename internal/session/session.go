package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	jwtv4 "github.com/golang-jwt/jwt/v4"
	"github.com/golang-jwt/jwt/v5"
	"github.com/supabase-community/gotrue-go/types"

	"github.com/kbahtiar/folio/internal/config"
)

// Session is the signed-in owner as protected handlers see it. There are no
// roles: a valid session is full owner access, because the product has
// exactly one privileged user.
type Session struct {
	UserID string
	Email  string

	// AccessToken is the upstream auth token, carried so sign-out can revoke
	// the hosted session.
	AccessToken string
}

// Token mints the session JWT after a successful upstream sign-in.
func Token(cfg config.JWTConfig, upstream *types.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   upstream.User.ID.String(),
		"email": upstream.User.Email,
		"sbt":   upstream.AccessToken,
		"exp":   time.Now().Add(cfg.Expiration).Unix(),
		"iat":   time.Now().Unix(),
	})
	return token.SignedString([]byte(cfg.Secret))
}

// Guard gates a route subtree: requests without a valid session never reach
// the handlers underneath it. Any verification failure, expiry included,
// fails closed with a 401 and the client navigates to the login view.
func Guard(cfg config.JWTConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.Secret),
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		},
	})
}

// FromContext reads the verified claims the guard stored on the request.
func FromContext(c *fiber.Ctx) (Session, error) {
	token, ok := c.Locals("user").(*jwtv4.Token)
	if !ok {
		return Session{}, fmt.Errorf("no session on request")
	}
	claims, ok := token.Claims.(jwtv4.MapClaims)
	if !ok {
		return Session{}, fmt.Errorf("unexpected session claims")
	}

	var sess Session
	sess.UserID, _ = claims["sub"].(string)
	sess.Email, _ = claims["email"].(string)
	sess.AccessToken, _ = claims["sbt"].(string)
	if sess.UserID == "" {
		return Session{}, fmt.Errorf("session missing subject")
	}
	return sess, nil
}
