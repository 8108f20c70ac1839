package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/kbahtiar/folio/internal/session"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"type"`
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	s.logger.Info("Authentication attempt", "email", req.Email)

	upstream, err := s.sb.SignIn(req.Email, req.Password)
	if err != nil {
		// Invalid credentials and auth-service trouble surface the same way,
		// inline on the login form; details stay in the server log.
		s.logger.Warn("Authentication failed", "email", req.Email, "error", err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := session.Token(s.cfg.JWT, upstream)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to generate token",
		})
	}

	s.logger.Info("User successfully authenticated", "email", req.Email)

	return c.JSON(LoginResponse{
		Token:     token,
		TokenType: "Bearer",
	})
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and password are required",
		})
	}

	userID, err := s.sb.SignUp(req.Email, req.Password)
	if err != nil {
		s.logger.Error("Signup failed", "email", req.Email, "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Signup failed",
		})
	}

	// Seed a profile row keyed by the new auth user. The user can fill it in
	// later, so a failure here doesn't fail the registration.
	username, _, _ := strings.Cut(req.Email, "@")
	profile := map[string]any{
		"id":       userID,
		"username": username,
	}
	if _, _, err := s.sb.Rest.From("profiles").Insert(profile, false, "", "", "").Execute(); err != nil {
		s.logger.Error("Failed to create profile for new user", "user_id", userID, "error", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user_id": userID,
		"message": "Registration successful, check your email for verification",
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	sess, err := session.FromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}

	// Revoke the hosted session too. Our own token is stateless, so the
	// client discarding it is what actually ends the session.
	if sess.AccessToken != "" {
		if err := s.sb.SignOut(sess.AccessToken); err != nil {
			s.logger.Warn("Upstream sign-out failed", "user_id", sess.UserID, "error", err)
		}
	}

	return c.JSON(fiber.Map{"signed_out": true})
}
