package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// UserHandler serves /api/users.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /api/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size (max 100)"
// @Param        search     query     string  false  "Name, email or student id"
// @Param        role       query     string  false  "Role filter"
// @Param        status     query     string  false  "Status filter"
// @Param        collegeId  query     string  false  "College filter"
// @Success      200        {object}  Envelope{data=ports.UserPage}
// @Failure      401        {object}  ErrorEnvelope
// @Failure      403        {object}  ErrorEnvelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	page.Sort = userSort(c)
	result, err := h.service.List(c.Request().Context(), userFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Users retrieved successfully", result)
}

// Get handles GET /api/users/:id.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope{data=ports.UserView}
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User retrieved successfully", view)
}

// Update handles PUT /api/users/:id.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=ports.UserView}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User updated successfully", view)
}

// Delete handles DELETE /api/users/:id.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User deleted successfully", nil)
}

// Courses handles GET /api/users/:id/courses.
//
// @Summary      List a user's enrollments
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "User ID"
// @Param        status  query     string  false  "Enrollment status"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  Envelope{data=ports.EnrollmentPage}
// @Failure      403     {object}  ErrorEnvelope
// @Router       /api/users/{id}/courses [get]
func (h *UserHandler) Courses(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	status := domain.EnrollmentStatus(c.QueryParam("status"))
	result, err := h.service.Courses(c.Request().Context(), user, c.Param("id"), status, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User courses retrieved successfully", result)
}

// Stats handles GET /api/users/:id/stats.
//
// @Summary      Learning and teaching counters for a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope{data=ports.UserStats}
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/users/{id}/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "User stats retrieved successfully", stats)
}
