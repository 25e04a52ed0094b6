package middleware

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/metrics"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const userContextKey = "auth_user"

// CurrentUser returns the sanitized user attached by Auth or OptionalAuth,
// or nil for anonymous requests.
func CurrentUser(c echo.Context) *domain.User {
	u, _ := c.Get(userContextKey).(*domain.User)
	return u
}

// WithUser attaches u as the request identity.
func WithUser(c echo.Context, u *domain.User) {
	c.Set(userContextKey, u)
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// resolve maps a bearer token to an active user.
func resolve(c echo.Context, tokens ports.TokenVerifier, users ports.UserRepository) (*domain.User, error) {
	token := bearerToken(c)
	if token == "" {
		return nil, domain.ErrNotAuthorized
	}
	subject, err := tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	user, err := users.FindByID(c.Request().Context(), subject)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrTokenUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountInactive
	}
	return user.Sanitized(), nil
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuthorized):
		return "missing_token"
	case errors.Is(err, domain.ErrTokenExpired):
		return "expired_token"
	case errors.Is(err, domain.ErrTokenInvalid):
		return "invalid_token"
	case errors.Is(err, domain.ErrTokenUserNotFound):
		return "user_not_found"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	default:
		return "error"
	}
}

// Auth rejects the request unless it carries a valid token for an active
// user, and attaches that user to the context.
func Auth(tokens ports.TokenVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := resolve(c, tokens, users)
			if err != nil {
				metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
				return err
			}
			WithUser(c, user)
			return next(c)
		}
	}
}

// OptionalAuth attaches the user when the token resolves to an active
// account and otherwise continues anonymously. It never rejects.
func OptionalAuth(tokens ports.TokenVerifier, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if bearerToken(c) != "" {
				if user, err := resolve(c, tokens, users); err == nil {
					WithUser(c, user)
				}
			}
			return next(c)
		}
	}
}
