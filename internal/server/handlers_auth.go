package server

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/1996Rosy/server-app/internal/domain"
	apperrors "github.com/1996Rosy/server-app/internal/errors"
)

// Session keys
const (
	sessionName     = "agora-session"
	sessionKeyAdmin = "adminUsername"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// requireAdmin guards administrator-only routes. The logged-in username is
// stored on the request context for handlers and error logging.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		session, err := s.sessionStore.Get(c.Request(), sessionName)
		if err != nil {
			return apperrors.UnauthorizedError("administrator login required")
		}

		username, ok := session.Values[sessionKeyAdmin].(string)
		if !ok || username == "" {
			return apperrors.UnauthorizedError("administrator login required")
		}

		c.Set("adminUsername", username)
		return next(c)
	}
}

func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid login request")
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.ValidationError("username and password are required")
	}

	ctx := c.Request().Context()
	hash, err := s.admins.AdministratorPasswordHash(ctx, req.Username)
	if errors.Is(err, domain.ErrAdministratorNotFound) {
		// Same response as a wrong password, no account enumeration.
		return apperrors.UnauthorizedError("invalid credentials")
	}
	if err != nil {
		return apperrors.InternalError("failed to verify credentials", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		return apperrors.UnauthorizedError("invalid credentials")
	}

	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		slog.Warn("failed to decode existing session, issuing a fresh one", "error", err)
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			return apperrors.InternalError("failed to create session", err)
		}
	}
	session.Values[sessionKeyAdmin] = req.Username
	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to save session", err)
	}

	slog.Info("administrator logged in", "username", req.Username)
	return c.JSON(200, map[string]string{"status": "ok"})
}

func (s *Server) handleLogout(c echo.Context) error {
	session, err := s.sessionStore.Get(c.Request(), sessionName)
	if err != nil {
		session, err = s.sessionStore.New(c.Request(), sessionName)
		if err != nil {
			return apperrors.InternalError("failed to create session", err)
		}
	}
	session.Options.MaxAge = -1

	if err := session.Save(c.Request(), c.Response().Writer); err != nil {
		return apperrors.InternalError("failed to clear session", err)
	}

	return c.JSON(200, map[string]string{"status": "ok"})
}
