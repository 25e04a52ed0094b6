package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/core/domain"
)

// RBAC admits only users whose role is listed. It must run after Auth.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := CurrentUser(c)
			if user == nil {
				return domain.ErrNotAuthorized
			}
			if _, ok := allowed[user.Role]; !ok {
				return domain.RoleNotAllowed(user.Role)
			}
			return next(c)
		}
	}
}
