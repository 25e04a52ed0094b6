package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hbiu/lms-backend/internal/api/middleware"
	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// Each stub embeds its port so a test only wires the methods it calls;
// anything else panics on the nil interface.

type stubAuthService struct {
	ports.AuthService
	registerFn       func(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	meFn             func(ctx context.Context, actor *domain.User) (*ports.UserView, error)
	updateProfileFn  func(ctx context.Context, actor *domain.User, patch domain.Patch) (*ports.UserView, error)
	changePasswordFn func(ctx context.Context, actor *domain.User, current, next string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, actor *domain.User) (*ports.UserView, error) {
	return s.meFn(ctx, actor)
}

func (s *stubAuthService) UpdateProfile(ctx context.Context, actor *domain.User, patch domain.Patch) (*ports.UserView, error) {
	return s.updateProfileFn(ctx, actor, patch)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, actor *domain.User, current, next string) error {
	return s.changePasswordFn(ctx, actor, current, next)
}

type stubUserService struct {
	ports.UserService
	listFn   func(ctx context.Context, filter ports.UserFilter, page ports.Page) (*ports.UserPage, error)
	updateFn func(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.UserView, error)
	deleteFn func(ctx context.Context, actor *domain.User, id string) error
}

func (s *stubUserService) List(ctx context.Context, filter ports.UserFilter, page ports.Page) (*ports.UserPage, error) {
	return s.listFn(ctx, filter, page)
}

func (s *stubUserService) Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.UserView, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubUserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubCollegeService struct {
	ports.CollegeService
	listFn   func(ctx context.Context, actor *domain.User, filter ports.CollegeFilter, page ports.Page) (*ports.CollegePage, error)
	createFn func(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error)
}

func (s *stubCollegeService) List(ctx context.Context, actor *domain.User, filter ports.CollegeFilter, page ports.Page) (*ports.CollegePage, error) {
	return s.listFn(ctx, actor, filter, page)
}

func (s *stubCollegeService) Create(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error) {
	return s.createFn(ctx, actor, college)
}

type stubCourseService struct {
	ports.CourseService
	listFn             func(ctx context.Context, actor *domain.User, filter ports.CourseFilter, page ports.Page) (*ports.CoursePage, error)
	createFn           func(ctx context.Context, actor *domain.User, course *domain.Course) (*ports.CourseView, error)
	updateFn           func(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.CourseView, error)
	enrollFn           func(ctx context.Context, actor *domain.User, id string) (*domain.Enrollment, error)
	createAssignmentFn func(ctx context.Context, actor *domain.User, id string, a *domain.Assignment) (*ports.AssignmentView, error)
}

func (s *stubCourseService) List(ctx context.Context, actor *domain.User, filter ports.CourseFilter, page ports.Page) (*ports.CoursePage, error) {
	return s.listFn(ctx, actor, filter, page)
}

func (s *stubCourseService) Create(ctx context.Context, actor *domain.User, course *domain.Course) (*ports.CourseView, error) {
	return s.createFn(ctx, actor, course)
}

func (s *stubCourseService) Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.CourseView, error) {
	return s.updateFn(ctx, actor, id, patch)
}

func (s *stubCourseService) Enroll(ctx context.Context, actor *domain.User, id string) (*domain.Enrollment, error) {
	return s.enrollFn(ctx, actor, id)
}

func (s *stubCourseService) CreateAssignment(ctx context.Context, actor *domain.User, id string, a *domain.Assignment) (*ports.AssignmentView, error) {
	return s.createAssignmentFn(ctx, actor, id, a)
}

type stubAdminService struct {
	ports.AdminService
	analyticsFn  func(ctx context.Context, days int) (*ports.Analytics, error)
	changeRoleFn func(ctx context.Context, actor *domain.User, id, role string) (*ports.UserView, error)
	bulkFn       func(ctx context.Context, actor *domain.User, req ports.BulkRequest) (*ports.BulkResult, error)
}

func (s *stubAdminService) Analytics(ctx context.Context, days int) (*ports.Analytics, error) {
	return s.analyticsFn(ctx, days)
}

func (s *stubAdminService) ChangeRole(ctx context.Context, actor *domain.User, id, role string) (*ports.UserView, error) {
	return s.changeRoleFn(ctx, actor, id, role)
}

func (s *stubAdminService) Bulk(ctx context.Context, actor *domain.User, req ports.BulkRequest) (*ports.BulkResult, error) {
	return s.bulkFn(ctx, actor, req)
}

// newContext builds an Echo context for method/target with an optional JSON
// body and caller identity.
func newContext(method, target, body string, user *domain.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if user != nil {
		middleware.WithUser(c, user)
	}
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	return resp
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	names := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		names[i] = f.Field
	}
	return names
}

var (
	adminUser    = &domain.User{ID: "admin-1", Role: domain.RoleAdmin, Status: domain.UserActive}
	lecturerUser = &domain.User{ID: "lec-1", Role: domain.RoleLecturer, Status: domain.UserActive, CollegeID: "col-1"}
	studentUser  = &domain.User{ID: "stu-1", Role: domain.RoleStudent, Status: domain.UserActive}
)
