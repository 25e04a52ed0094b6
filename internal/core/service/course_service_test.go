package service

import (
	"context"
	"testing"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

func TestCourseService_ListAndGetVisibility(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	lecturer := f.addUser("lee", domain.RoleLecturer, "")
	other := f.addUser("ola", domain.RoleLecturer, "")
	f.addCourse("pub", "lee", domain.CoursePublished)
	f.addCourse("draft", "lee", domain.CourseDraft)

	page, err := svc.List(ctx, nil, ports.CourseFilter{Status: domain.CourseDraft}, ports.Page{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(page.Courses) != 1 || page.Courses[0].ID != "pub" {
		t.Fatalf("anonymous list leaked drafts")
	}

	if _, err := svc.Get(ctx, nil, "draft"); err != domain.ErrCourseNotAvailable {
		t.Fatalf("anonymous draft: expected ErrCourseNotAvailable, got %v", err)
	}
	if _, err := svc.Get(ctx, other, "draft"); err != domain.ErrCourseNotAvailable {
		t.Fatalf("other lecturer draft: expected ErrCourseNotAvailable, got %v", err)
	}
	if _, err := svc.Get(ctx, lecturer, "draft"); err != nil {
		t.Fatalf("owner draft: %v", err)
	}
	if _, err := svc.Get(ctx, nil, "missing"); err != domain.ErrCourseNotFound {
		t.Fatalf("missing: expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_GetEnrollmentInfo(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	f.addUser("lee", domain.RoleLecturer, "")
	student := f.addUser("sam", domain.RoleStudent, "")
	f.addUser("bob", domain.RoleStudent, "")
	f.addCourse("go101", "lee", domain.CoursePublished)
	f.enroll("sam", "go101")
	f.enroll("bob", "go101")

	detail, err := svc.Get(ctx, student, "go101")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if detail.EnrollmentCount != 2 || !detail.IsEnrolled {
		t.Fatalf("count=%d enrolled=%v", detail.EnrollmentCount, detail.IsEnrolled)
	}
	if detail.Lecturer == nil || detail.Lecturer.ID != "lee" {
		t.Fatalf("lecturer ref = %+v", detail.Lecturer)
	}

	anon, err := svc.Get(ctx, nil, "go101")
	if err != nil {
		t.Fatalf("anonymous Get: %v", err)
	}
	if anon.IsEnrolled {
		t.Fatalf("anonymous marked enrolled")
	}
}

func TestCourseService_Create(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	f.addCollege("c1", "ENG", domain.CollegeActive)
	f.addCollege("c2", "ART", domain.CollegeActive)
	lecturer := f.addUser("lee", domain.RoleLecturer, "c1")
	student := f.addUser("sam", domain.RoleStudent, "")
	f.addCourse("old", "lee", domain.CoursePublished)

	if _, err := svc.Create(ctx, student, &domain.Course{Title: "x", Code: "X1"}); err != domain.ErrForbidden {
		t.Fatalf("student create: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Create(ctx, lecturer, &domain.Course{Title: "dup", Code: "OLD"}); err != domain.ErrCourseCodeTaken {
		t.Fatalf("expected ErrCourseCodeTaken, got %v", err)
	}

	// The lecturer's own college wins over the payload.
	view, err := svc.Create(ctx, lecturer, &domain.Course{Title: "Go", Code: "GO1", CollegeID: "c2", LecturerID: "someone"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.LecturerID != "lee" || view.CollegeID != "c1" {
		t.Fatalf("lecturer=%s college=%s", view.LecturerID, view.CollegeID)
	}
	if view.Credits != 3 || view.Level != domain.LevelBeginner || view.Status != domain.CourseDraft || view.Language != "English" {
		t.Fatalf("defaults not applied: %+v", view.Course)
	}

	admin := f.addUser("admin", domain.RoleAdmin, "")
	if _, err := svc.Create(ctx, admin, &domain.Course{Title: "x", Code: "X2", CollegeID: "nope"}); err != domain.ErrCollegeNotFound {
		t.Fatalf("expected ErrCollegeNotFound, got %v", err)
	}
}

func TestCourseService_Update(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	owner := f.addUser("lee", domain.RoleLecturer, "")
	other := f.addUser("ola", domain.RoleLecturer, "")
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addCourse("go101", "lee", domain.CourseDraft)
	f.addCourse("go201", "lee", domain.CourseDraft)

	if _, err := svc.Update(ctx, other, "go101", domain.Patch{domain.CourseFieldTitle: "x"}); err != domain.ErrCourseEditForbidden {
		t.Fatalf("non-owner: expected ErrCourseEditForbidden, got %v", err)
	}

	// The owner cannot reassign the course.
	view, err := svc.Update(ctx, owner, "go101", domain.Patch{
		domain.CourseFieldTitle:      "Go Basics",
		domain.CourseFieldLecturerID: "ola",
	})
	if err != nil {
		t.Fatalf("owner Update: %v", err)
	}
	if view.Title != "Go Basics" || view.LecturerID != "lee" {
		t.Fatalf("title=%q lecturer=%s", view.Title, view.LecturerID)
	}

	if _, err := svc.Update(ctx, owner, "go101", domain.Patch{domain.CourseFieldCode: "GO201"}); err != domain.ErrCourseCodeTaken {
		t.Fatalf("expected ErrCourseCodeTaken, got %v", err)
	}
	if _, err := svc.Update(ctx, admin, "go101", domain.Patch{domain.CourseFieldLecturerID: "ghost"}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	view, err = svc.Update(ctx, admin, "go101", domain.Patch{domain.CourseFieldLecturerID: "ola"})
	if err != nil {
		t.Fatalf("admin reassign: %v", err)
	}
	if view.Lecturer == nil || view.Lecturer.ID != "ola" {
		t.Fatalf("lecturer ref = %+v", view.Lecturer)
	}
}

func TestCourseService_Delete(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	owner := f.addUser("lee", domain.RoleLecturer, "")
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addCourse("go101", "lee", domain.CoursePublished)

	if err := svc.Delete(ctx, owner, "go101"); err != domain.ErrForbidden {
		t.Fatalf("lecturer delete: expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, admin, "go101"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, admin, "go101"); err != domain.ErrCourseNotFound {
		t.Fatalf("expected ErrCourseNotFound, got %v", err)
	}
}

func TestCourseService_Enroll(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	f.addUser("lee", domain.RoleLecturer, "")
	sam := f.addUser("sam", domain.RoleStudent, "")
	bob := f.addUser("bob", domain.RoleStudent, "")
	f.addCourse("draft", "lee", domain.CourseDraft)
	f.addCourse("go101", "lee", domain.CoursePublished)
	f.courses.courses["go101"].EnrollmentLimit = 1

	if _, err := svc.Enroll(ctx, sam, "draft"); err != domain.ErrCourseNotOpen {
		t.Fatalf("draft: expected ErrCourseNotOpen, got %v", err)
	}
	e, err := svc.Enroll(ctx, sam, "go101")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if e.Status != domain.EnrollmentEnrolled || e.UserID != "sam" || e.EnrollmentDate.IsZero() {
		t.Fatalf("enrollment = %+v", e)
	}
	if _, err := svc.Enroll(ctx, sam, "go101"); err != domain.ErrAlreadyEnrolled {
		t.Fatalf("expected ErrAlreadyEnrolled, got %v", err)
	}
	if _, err := svc.Enroll(ctx, bob, "go101"); err != domain.ErrEnrollmentFull {
		t.Fatalf("expected ErrEnrollmentFull, got %v", err)
	}
	lecturer := f.users.users["lee"]
	if _, err := svc.Enroll(ctx, lecturer, "go101"); err != domain.ErrForbidden {
		t.Fatalf("lecturer enroll: expected ErrForbidden, got %v", err)
	}
}

func TestCourseService_Assignments(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	owner := f.addUser("lee", domain.RoleLecturer, "")
	other := f.addUser("ola", domain.RoleLecturer, "")
	sam := f.addUser("sam", domain.RoleStudent, "")
	bob := f.addUser("bob", domain.RoleStudent, "")
	f.addCourse("go101", "lee", domain.CoursePublished)
	f.enroll("sam", "go101")

	if _, err := svc.CreateAssignment(ctx, other, "go101", &domain.Assignment{Title: "x"}); err != domain.ErrCourseEditForbidden {
		t.Fatalf("non-owner create: expected ErrCourseEditForbidden, got %v", err)
	}
	if _, err := svc.CreateAssignment(ctx, sam, "go101", &domain.Assignment{Title: "x"}); err != domain.ErrCourseEditForbidden {
		t.Fatalf("student create: expected ErrCourseEditForbidden, got %v", err)
	}
	created, err := svc.CreateAssignment(ctx, owner, "go101", &domain.Assignment{Title: "HW1", MaxScore: 100, Weight: 10})
	if err != nil {
		t.Fatalf("CreateAssignment: %v", err)
	}
	if created.Type != domain.AssignmentHomework || created.Status != domain.CourseDraft || created.Attempts != 1 {
		t.Fatalf("defaults = %+v", created.Assignment)
	}
	if created.Creator == nil || created.Creator.ID != "lee" {
		t.Fatalf("creator = %+v", created.Creator)
	}

	list, err := svc.Assignments(ctx, sam, "go101")
	if err != nil {
		t.Fatalf("enrolled student Assignments: %v", err)
	}
	if len(list) != 1 || list[0].Creator == nil {
		t.Fatalf("assignments = %+v", list)
	}
	if _, err := svc.Assignments(ctx, bob, "go101"); err != domain.ErrNotEnrolled {
		t.Fatalf("unenrolled: expected ErrNotEnrolled, got %v", err)
	}
	if _, err := svc.Assignments(ctx, other, "go101"); err != domain.ErrNotEnrolled {
		t.Fatalf("other lecturer: expected ErrNotEnrolled, got %v", err)
	}
	if _, err := svc.Assignments(ctx, owner, "go101"); err != nil {
		t.Fatalf("owner Assignments: %v", err)
	}
}

func TestCourseService_Students(t *testing.T) {
	f := newFixture()
	svc := NewCourseService(f.store, nopLogger)
	ctx := context.Background()
	owner := f.addUser("lee", domain.RoleLecturer, "")
	sam := f.addUser("sam", domain.RoleStudent, "")
	admin := f.addUser("admin", domain.RoleAdmin, "")
	f.addCourse("go101", "lee", domain.CoursePublished)
	f.enroll("sam", "go101")

	page, err := svc.Students(ctx, owner, "go101", ports.Page{})
	if err != nil {
		t.Fatalf("Students: %v", err)
	}
	if len(page.Students) != 1 || page.Students[0].User == nil || page.Students[0].User.ID != "sam" {
		t.Fatalf("roster = %+v", page.Students)
	}
	if page.Course == nil || page.Course.ID != "go101" {
		t.Fatalf("course ref = %+v", page.Course)
	}
	if page.Pagination.Limit != defaultRosterPageSize {
		t.Fatalf("limit = %d", page.Pagination.Limit)
	}
	if _, err := svc.Students(ctx, sam, "go101", ports.Page{}); err != domain.ErrCourseRosterDenied {
		t.Fatalf("student: expected ErrCourseRosterDenied, got %v", err)
	}
	if _, err := svc.Students(ctx, admin, "go101", ports.Page{}); err != nil {
		t.Fatalf("admin Students: %v", err)
	}
}
