package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/middleware"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// CollegeHandler serves /api/colleges. Read routes run behind OptionalAuth,
// so the caller may be nil.
type CollegeHandler struct {
	service ports.CollegeService
}

func NewCollegeHandler(service ports.CollegeService) *CollegeHandler {
	return &CollegeHandler{service: service}
}

// List handles GET /api/colleges.
//
// @Summary      List colleges
// @Tags         colleges
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        search  query     string  false  "Name, code or description"
// @Param        status  query     string  false  "Status filter (admins only)"
// @Success      200     {object}  Envelope{data=ports.CollegePage}
// @Router       /api/colleges [get]
func (h *CollegeHandler) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	filter := ports.CollegeFilter{
		Search: strings.TrimSpace(c.QueryParam("search")),
		Status: domain.CollegeStatus(c.QueryParam("status")),
	}
	result, err := h.service.List(c.Request().Context(), middleware.CurrentUser(c), filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Colleges retrieved successfully", result)
}

// Get handles GET /api/colleges/:id.
//
// @Summary      Get a college with its totals
// @Tags         colleges
// @Produce      json
// @Param        id   path      string  true  "College ID"
// @Success      200  {object}  Envelope{data=ports.CollegeDetail}
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/colleges/{id} [get]
func (h *CollegeHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College retrieved successfully", detail)
}

// Create handles POST /api/colleges.
//
// @Summary      Create a college
// @Tags         colleges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCollegeRequest  true  "College"
// @Success      201   {object}  Envelope{data=domain.College}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Router       /api/colleges [post]
func (h *CollegeHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createCollegeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	college, err := h.service.Create(c.Request().Context(), user, req.toCollege())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "College created successfully", college)
}

// Update handles PUT /api/colleges/:id.
//
// @Summary      Update a college
// @Tags         colleges
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "College ID"
// @Param        body  body      updateCollegeRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.College}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/colleges/{id} [put]
func (h *CollegeHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateCollegeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	college, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College updated successfully", college)
}

// Delete handles DELETE /api/colleges/:id.
//
// @Summary      Delete a college
// @Tags         colleges
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "College ID"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/colleges/{id} [delete]
func (h *CollegeHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College deleted successfully", nil)
}

// Courses handles GET /api/colleges/:id/courses.
//
// @Summary      List a college's courses
// @Tags         colleges
// @Produce      json
// @Param        id      path      string  true   "College ID"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Param        level   query     string  false  "Level filter"
// @Param        search  query     string  false  "Title, code or description"
// @Param        status  query     string  false  "Status filter (admins only)"
// @Success      200     {object}  Envelope{data=ports.CollegeCoursePage}
// @Failure      403     {object}  ErrorEnvelope
// @Failure      404     {object}  ErrorEnvelope
// @Router       /api/colleges/{id}/courses [get]
func (h *CollegeHandler) Courses(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	filter := ports.CourseFilter{
		Status: domain.CourseStatus(c.QueryParam("status")),
		Level:  domain.CourseLevel(c.QueryParam("level")),
		Search: strings.TrimSpace(c.QueryParam("search")),
	}
	result, err := h.service.Courses(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"), filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College courses retrieved successfully", result)
}

// Staff handles GET /api/colleges/:id/staff.
//
// @Summary      List a college's lecturers and admins
// @Tags         colleges
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "College ID"
// @Param        role   query     string  false  "lecturer or college_admin"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  Envelope{data=ports.CollegeStaffPage}
// @Failure      403    {object}  ErrorEnvelope
// @Failure      404    {object}  ErrorEnvelope
// @Router       /api/colleges/{id}/staff [get]
func (h *CollegeHandler) Staff(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	result, err := h.service.Staff(c.Request().Context(), user, c.Param("id"), userFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College staff retrieved successfully", result)
}

// Students handles GET /api/colleges/:id/students.
//
// @Summary      List a college's students
// @Tags         colleges
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true   "College ID"
// @Param        search  query     string  false  "Name, email or student id"
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size"
// @Success      200     {object}  Envelope{data=ports.CollegeStudentPage}
// @Failure      403     {object}  ErrorEnvelope
// @Failure      404     {object}  ErrorEnvelope
// @Router       /api/colleges/{id}/students [get]
func (h *CollegeHandler) Students(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	result, err := h.service.Students(c.Request().Context(), user, c.Param("id"), userFilter(c), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "College students retrieved successfully", result)
}
