package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/metrics"
	"github.com/hbiu/lms-backend/internal/api/middleware"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// CourseHandler serves /api/courses.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// List handles GET /api/courses.
//
// @Summary      List courses
// @Tags         courses
// @Produce      json
// @Param        page        query     int     false  "Page number"
// @Param        limit       query     int     false  "Page size (max 100)"
// @Param        search      query     string  false  "Title, code or description"
// @Param        level       query     string  false  "Level filter"
// @Param        category    query     string  false  "Category filter"
// @Param        collegeId   query     string  false  "College filter"
// @Param        lecturerId  query     string  false  "Lecturer filter"
// @Param        status      query     string  false  "Status filter (admins only)"
// @Success      200         {object}  Envelope{data=ports.CoursePage}
// @Router       /api/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	filter := ports.CourseFilter{
		Status:     domain.CourseStatus(c.QueryParam("status")),
		Level:      domain.CourseLevel(c.QueryParam("level")),
		Category:   c.QueryParam("category"),
		CollegeID:  c.QueryParam("collegeId"),
		LecturerID: c.QueryParam("lecturerId"),
		Search:     strings.TrimSpace(c.QueryParam("search")),
	}
	result, err := h.service.List(c.Request().Context(), middleware.CurrentUser(c), filter, page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Courses retrieved successfully", result)
}

// Get handles GET /api/courses/:id.
//
// @Summary      Get a course
// @Tags         courses
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  Envelope{data=ports.CourseDetail}
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/courses/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course retrieved successfully", detail)
}

// Create handles POST /api/courses.
//
// @Summary      Create a course taught by the caller
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course"
// @Success      201   {object}  Envelope{data=ports.CourseView}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Router       /api/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.Create(c.Request().Context(), user, req.toCourse())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Course created successfully", view)
}

// Update handles PUT /api/courses/:id.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course ID"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=ports.CourseView}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req updateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.Update(c.Request().Context(), user, c.Param("id"), req.toPatch())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course updated successfully", view)
}

// Delete handles DELETE /api/courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  Envelope
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), user, c.Param("id")); err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course deleted successfully", nil)
}

// Enroll handles POST /api/courses/:id/enroll.
//
// @Summary      Enroll the caller in a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID"
// @Success      201  {object}  Envelope{data=domain.Enrollment}
// @Failure      400  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	enrollment, err := h.service.Enroll(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	metrics.EnrollmentsTotal.Inc()
	return respond(c, http.StatusCreated, "Successfully enrolled in course", enrollment)
}

// Assignments handles GET /api/courses/:id/assignments.
//
// @Summary      List a course's assignments
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  Envelope{data=[]ports.AssignmentView}
// @Failure      403  {object}  ErrorEnvelope
// @Failure      404  {object}  ErrorEnvelope
// @Router       /api/courses/{id}/assignments [get]
func (h *CourseHandler) Assignments(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	list, err := h.service.Assignments(c.Request().Context(), user, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course assignments retrieved successfully", list)
}

// CreateAssignment handles POST /api/courses/:id/assignments.
//
// @Summary      Create an assignment
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                   true  "Course ID"
// @Param        body  body      createAssignmentRequest  true  "Assignment"
// @Success      201   {object}  Envelope{data=ports.AssignmentView}
// @Failure      400   {object}  ErrorEnvelope
// @Failure      403   {object}  ErrorEnvelope
// @Failure      404   {object}  ErrorEnvelope
// @Router       /api/courses/{id}/assignments [post]
func (h *CourseHandler) CreateAssignment(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req createAssignmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	view, err := h.service.CreateAssignment(c.Request().Context(), user, c.Param("id"), req.toAssignment())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, "Assignment created successfully", view)
}

// Students handles GET /api/courses/:id/students.
//
// @Summary      List a course's enrolled students
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true   "Course ID"
// @Param        page   query     int     false  "Page number"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  Envelope{data=ports.CourseStudentPage}
// @Failure      403    {object}  ErrorEnvelope
// @Failure      404    {object}  ErrorEnvelope
// @Router       /api/courses/{id}/students [get]
func (h *CourseHandler) Students(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	page, err := bindPage(c)
	if err != nil {
		return err
	}
	result, err := h.service.Students(c.Request().Context(), user, c.Param("id"), page)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, "Course students retrieved successfully", result)
}
