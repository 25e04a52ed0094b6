package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/middleware"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// actor returns the authenticated user. Routes behind Auth always have one;
// the check guards handlers mounted without it.
func actor(c echo.Context) (*domain.User, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, domain.ErrNotAuthorized
	}
	return u, nil
}

// bindAndValidate decodes the JSON body into req and runs its validate tags.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	return c.Validate(req)
}

// pageQuery holds the query parameters shared by every list endpoint.
type pageQuery struct {
	Page  int
	Limit int
}

func bindPage(c echo.Context) (ports.Page, error) {
	var q pageQuery
	err := echo.QueryParamsBinder(c).
		Int("page", &q.Page).
		Int("limit", &q.Limit).
		BindError()
	if err != nil {
		return ports.Page{}, &ValidationError{Fields: []FieldError{{
			Field:   "page",
			Message: "page and limit must be integers",
		}}}
	}
	return ports.Page{Page: q.Page, Limit: q.Limit}, nil
}

// userSortFields maps the public sort keys to canonical field names.
var userSortFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"firstName": domain.UserFieldFirstName,
	"lastName":  domain.UserFieldLastName,
	"email":     domain.UserFieldEmail,
	"role":      domain.UserFieldRole,
	"status":    domain.UserFieldStatus,
	"lastLogin": domain.UserFieldLastLogin,
}

// userSort reads sortBy / sortOrder. Unknown keys fall back to the service
// default ordering.
func userSort(c echo.Context) []ports.Sort {
	field, ok := userSortFields[c.QueryParam("sortBy")]
	if !ok {
		return nil
	}
	return []ports.Sort{{Field: field, Desc: !strings.EqualFold(c.QueryParam("sortOrder"), "asc")}}
}

// userFilter reads the user list filters. Unknown role or status values are
// ignored rather than rejected.
func userFilter(c echo.Context) ports.UserFilter {
	f := ports.UserFilter{
		Search:    strings.TrimSpace(c.QueryParam("search")),
		CollegeID: c.QueryParam("collegeId"),
	}
	if r, ok := domain.ParseRole(c.QueryParam("role")); ok {
		f.Role = r
	}
	if s, ok := domain.ParseUserStatus(c.QueryParam("status")); ok {
		f.Status = s
	}
	return f
}
