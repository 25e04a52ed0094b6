package service

import (
	"context"
	"testing"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

func TestUserService_Delete(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	ctx := context.Background()
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addUser("bob", domain.RoleStudent, "")

	if err := svc.Delete(ctx, admin, admin.ID); err != domain.ErrSelfDelete {
		t.Fatalf("self delete: expected ErrSelfDelete, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "bob"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, ok := f.users.users["bob"]; ok {
		t.Fatalf("bob still stored after delete")
	}
	if err := svc.Delete(ctx, admin, "bob"); err != domain.ErrUserNotFound {
		t.Fatalf("second delete: expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Delete_NonAdmin(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	lecturer := f.addUser("lee", domain.RoleLecturer, "")
	f.addUser("bob", domain.RoleStudent, "")

	if err := svc.Delete(context.Background(), lecturer, "bob"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Get(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	ctx := context.Background()
	student := f.addUser("sam", domain.RoleStudent, "")
	lecturer := f.addUser("lee", domain.RoleLecturer, "")
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addCourse("go101", "lee", domain.CoursePublished)

	if _, err := svc.Get(ctx, student, "lee"); err != domain.ErrViewProfileForbidden {
		t.Fatalf("student reading lecturer: expected ErrViewProfileForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, admin, "ghost"); err != domain.ErrUserNotFound {
		t.Fatalf("missing user: expected ErrUserNotFound, got %v", err)
	}

	view, err := svc.Get(ctx, lecturer, "lee")
	if err != nil {
		t.Fatalf("self read: %v", err)
	}
	if len(view.TaughtCourses) != 1 || view.TaughtCourses[0].ID != "go101" {
		t.Fatalf("taught courses = %+v", view.TaughtCourses)
	}
	if _, err := svc.Get(ctx, admin, "sam"); err != nil {
		t.Fatalf("admin read: %v", err)
	}
}

func TestUserService_Update_SelfRoleChange(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	admin := f.addUser("admin", domain.RoleAdmin, "")

	// Rejected before the role value is validated.
	_, err := svc.Update(context.Background(), admin, admin.ID, domain.Patch{domain.UserFieldRole: "nonsense"})
	if err != domain.ErrSelfRoleChange {
		t.Fatalf("expected ErrSelfRoleChange, got %v", err)
	}
	if f.users.users["admin"].Role != domain.RoleAdmin {
		t.Fatalf("role changed")
	}

	// Restating the current role is not a change.
	if _, err := svc.Update(context.Background(), admin, admin.ID, domain.Patch{domain.UserFieldRole: "admin", domain.UserFieldLastName: "Root"}); err != nil {
		t.Fatalf("unchanged role rejected: %v", err)
	}
}

func TestUserService_Update_OwnerCannotEscalate(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	student := f.addUser("sam", domain.RoleStudent, "")

	view, err := svc.Update(context.Background(), student, "sam", domain.Patch{
		domain.UserFieldFirstName: "Samuel",
		domain.UserFieldRole:      "admin",
		domain.UserFieldStatus:    "suspended",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.FirstName != "Samuel" {
		t.Fatalf("first name = %q", view.FirstName)
	}
	stored := f.users.users["sam"]
	if stored.Role != domain.RoleStudent || stored.Status != domain.UserActive {
		t.Fatalf("privileged fields written: role=%s status=%s", stored.Role, stored.Status)
	}
}

func TestUserService_Update_Admin(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	ctx := context.Background()
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addUser("sam", domain.RoleStudent, "")
	f.addUser("bob", domain.RoleStudent, "")
	f.addCollege("c1", "ENG", domain.CollegeActive)

	if _, err := svc.Update(ctx, admin, "sam", domain.Patch{domain.UserFieldEmail: "BOB@example.com"}); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "sam", domain.Patch{domain.UserFieldRole: "root"}); err != domain.ErrInvalidRole {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "sam", domain.Patch{domain.UserFieldStatus: "gone"}); err != domain.ErrInvalidStatus {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "sam", domain.Patch{domain.UserFieldCollegeID: "nope"}); err != domain.ErrCollegeNotFound {
		t.Fatalf("expected ErrCollegeNotFound, got %v", err)
	}

	view, err := svc.Update(ctx, admin, "sam", domain.Patch{
		domain.UserFieldRole:      "lecturer",
		domain.UserFieldStatus:    "suspended",
		domain.UserFieldCollegeID: "c1",
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Role != domain.RoleLecturer || view.Status != domain.UserSuspended {
		t.Fatalf("role/status = %s/%s", view.Role, view.Status)
	}
	if view.College == nil || view.College.ID != "c1" {
		t.Fatalf("college ref = %+v", view.College)
	}
}

func TestUserService_Update_OtherUserForbidden(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	student := f.addUser("sam", domain.RoleStudent, "")
	f.addUser("bob", domain.RoleStudent, "")

	if _, err := svc.Update(context.Background(), student, "bob", domain.Patch{domain.UserFieldFirstName: "x"}); err != domain.ErrUpdateUserForbidden {
		t.Fatalf("expected ErrUpdateUserForbidden, got %v", err)
	}
}

func TestUserService_CoursesAndStats(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	ctx := context.Background()
	student := f.addUser("sam", domain.RoleStudent, "")
	lecturer := f.addUser("lee", domain.RoleLecturer, "")
	f.addCourse("go101", "lee", domain.CoursePublished)
	f.addCourse("go201", "lee", domain.CoursePublished)
	f.enroll("sam", "go101")
	f.enroll("sam", "go201")
	f.enrollments.enrollments[1].Status = domain.EnrollmentCompleted

	page, err := svc.Courses(ctx, student, "sam", "", ports.Page{})
	if err != nil {
		t.Fatalf("Courses: %v", err)
	}
	if page.Pagination.Total != 2 || len(page.Enrollments) != 2 {
		t.Fatalf("enrollments = %d total = %d", len(page.Enrollments), page.Pagination.Total)
	}
	for _, e := range page.Enrollments {
		if e.Course == nil || e.Course.Lecturer == nil || e.Course.Lecturer.ID != "lee" {
			t.Fatalf("enrollment not hydrated: %+v", e)
		}
	}
	if _, err := svc.Courses(ctx, lecturer, "sam", "", ports.Page{}); err != domain.ErrUserCoursesForbidden {
		t.Fatalf("expected ErrUserCoursesForbidden, got %v", err)
	}

	stats, err := svc.Stats(ctx, student, "sam")
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Learning.TotalEnrolled != 2 || stats.Learning.CompletedCourses != 1 || stats.Learning.ActiveCourses != 1 {
		t.Fatalf("learning stats = %+v", stats.Learning)
	}
	if stats.Teaching != nil {
		t.Fatalf("student has teaching stats")
	}

	stats, err = svc.Stats(ctx, lecturer, "lee")
	if err != nil {
		t.Fatalf("lecturer Stats: %v", err)
	}
	if stats.Teaching == nil || stats.Teaching.TotalCourses != 2 || stats.Teaching.TotalStudents != 2 {
		t.Fatalf("teaching stats = %+v", stats.Teaching)
	}
	if _, err := svc.Stats(ctx, student, "lee"); err != domain.ErrUserStatsForbidden {
		t.Fatalf("expected ErrUserStatsForbidden, got %v", err)
	}
}

func TestUserService_List_Pagination(t *testing.T) {
	f := newFixture()
	svc := NewUserService(f.store, nopLogger)
	for _, id := range []string{"a1", "a2", "a3"} {
		f.addUser(id, domain.RoleStudent, "")
	}
	f.addUser("lee", domain.RoleLecturer, "")

	page, err := svc.List(context.Background(), ports.UserFilter{Role: domain.RoleStudent}, ports.Page{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	p := page.Pagination
	if p.Total != 3 || p.TotalPages != 2 || p.HasNext || !p.HasPrev || len(page.Users) != 1 {
		t.Fatalf("pagination = %+v users = %d", p, len(page.Users))
	}
	if page.Users[0].PasswordHash != "" {
		t.Fatalf("listed user carries a password hash")
	}
}
