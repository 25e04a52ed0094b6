package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/metrics"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const (
	defaultTimeframeDays = 30
	adminUserPageSize    = 20
)

// AdminHandler serves /api/admin. Every route is gated to admins.
type AdminHandler struct {
	admin ports.AdminService
	users ports.UserService
}

func NewAdminHandler(admin ports.AdminService, users ports.UserService) *AdminHandler {
	return &AdminHandler{admin: admin, users: users}
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Dashboard counters
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=ports.AdminStats}
// @Failure      403  {object}  ErrorEnvelope
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.admin.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin statistics retrieved successfully", stats)
}

// Analytics handles GET /api/admin/analytics.
//
// @Summary      Activity and ranking report
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        timeframe  query     int  false  "Window in days (default 30)"
// @Success      200        {object}  Envelope{data=ports.Analytics}
// @Failure      400        {object}  ErrorEnvelope
// @Router       /api/admin/analytics [get]
func (h *AdminHandler) Analytics(c echo.Context) error {
	days := defaultTimeframeDays
	if err := echo.QueryParamsBinder(c).Int("timeframe", &days).BindError(); err != nil {
		return &ValidationError{Fields: []FieldError{{Field: "timeframe", Message: "timeframe must be a number of days"}}}
	}
	if days < 1 {
		days = defaultTimeframeDays
	}
	report, err := h.admin.Analytics(c.Request().Context(), days)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Analytics data retrieved successfully", report)
}

// Users handles GET /api/admin/users.
//
// @Summary      List users for management
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size (default 20)"
// @Param        search     query     string  false  "Name, email or student id"
// @Param        role       query     string  false  "Role filter"
// @Param        status     query     string  false  "Status filter"
// @Param        collegeId  query     string  false  "College filter"
// @Success      200        {object}  Envelope{data=ports.UserPage}
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	if page.Limit < 1 {
		page.Limit = adminUserPageSize
	}
	page.Sort = userSort(c)
	result, err := h.users.List(c.Request().Context(), userFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Admin users retrieved successfully", result)
}

// ChangeRole handles PUT /api/admin/users/:id/role.
//
// @Summary      Change a user's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      changeRoleRequest  true  "New role"
// @Success      200   {object}  Envelope{data=ports.UserView}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/admin/users/{id}/role [put]
func (h *AdminHandler) ChangeRole(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req changeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	view, err := h.admin.ChangeRole(c.Request().Context(), user, c.Param("id"), req.Role)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User role updated successfully", view)
}

// Bulk handles POST /api/admin/bulk-operations.
//
// @Summary      Apply one operation to many users
// @Description  Operations are updateStatus, assignCollege and delete. They are not transactional.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bulkRequest  true  "Operation, user ids and data"
// @Success      200   {object}  Envelope{data=ports.BulkResult}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/admin/bulk-operations [post]
func (h *AdminHandler) Bulk(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req bulkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	result, err := h.admin.Bulk(c.Request().Context(), user, req.toInput())
	if err != nil {
		return err
	}
	metrics.BulkOperationsTotal.WithLabelValues(result.Operation).Inc()
	metrics.BulkAffectedUsers.Observe(float64(result.AffectedRows))
	return respond(c, http.StatusOK, "Bulk "+result.Operation+" completed successfully", result)
}

// SystemHealth handles GET /api/admin/system-health.
//
// @Summary      Store reachability and runtime figures
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=ports.SystemHealth}
// @Router       /api/admin/system-health [get]
func (h *AdminHandler) SystemHealth(c echo.Context) error {
	health, err := h.admin.SystemHealth(c.Request().Context())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "System health retrieved successfully", health)
}
