package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// In-memory repositories shared by the service tests.

type stubUserRepo struct {
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchUser(u *domain.User, f ports.UserFilter) bool {
	if len(f.IDs) > 0 && !containsString(f.IDs, u.ID) {
		return false
	}
	if f.Email != "" && u.Email != f.Email {
		return false
	}
	if f.StudentID != "" && u.StudentID != f.StudentID {
		return false
	}
	if f.Role != "" && u.Role != f.Role {
		return false
	}
	if len(f.Roles) > 0 {
		found := false
		for _, r := range f.Roles {
			if r == u.Role {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	if f.Status != "" && u.Status != f.Status {
		return false
	}
	if f.CollegeID != "" && u.CollegeID != f.CollegeID {
		return false
	}
	if f.Search != "" && !(containsFold(u.FirstName, f.Search) || containsFold(u.LastName, f.Search) ||
		containsFold(u.Email, f.Search) || containsFold(u.StudentID, f.Search)) {
		return false
	}
	if !f.CreatedFrom.IsZero() && u.CreatedAt.Before(f.CreatedFrom) {
		return false
	}
	if !f.CreatedBefore.IsZero() && !u.CreatedAt.Before(f.CreatedBefore) {
		return false
	}
	if !f.LastLoginSince.IsZero() && (u.LastLogin == nil || u.LastLogin.Before(f.LastLoginSince)) {
		return false
	}
	return true
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, page ports.Page) []T {
	if page.Limit <= 0 {
		return items
	}
	start := page.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func (r *stubUserRepo) sorted(f ports.UserFilter) []*domain.User {
	var out []*domain.User
	for _, u := range r.users {
		if matchUser(u, f) {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindOne(_ context.Context, f ports.UserFilter) (*domain.User, error) {
	list := r.sorted(f)
	if len(list) == 0 {
		return nil, domain.ErrUserNotFound
	}
	return list[0], nil
}

func (r *stubUserRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.User, error) {
	return r.sorted(ports.UserFilter{IDs: ids}), nil
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter, page ports.Page) ([]*domain.User, int64, error) {
	all := r.sorted(f)
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubUserRepo) Count(_ context.Context, f ports.UserFilter) (int64, error) {
	return int64(len(r.sorted(f))), nil
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateDocument
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func applyUserPatch(u *domain.User, p domain.Patch) {
	for k, v := range p {
		switch k {
		case domain.UserFieldFirstName:
			u.FirstName = v.(string)
		case domain.UserFieldLastName:
			u.LastName = v.(string)
		case domain.UserFieldEmail:
			u.Email = v.(string)
		case domain.UserFieldPasswordHash:
			u.PasswordHash = v.(string)
		case domain.UserFieldRole:
			u.Role = v.(domain.Role)
		case domain.UserFieldStatus:
			u.Status = v.(domain.UserStatus)
		case domain.UserFieldPhoneNumber:
			u.PhoneNumber = v.(string)
		case domain.UserFieldDateOfBirth:
			u.DateOfBirth = v.(string)
		case domain.UserFieldAddress:
			u.Address = v.(string)
		case domain.UserFieldCollegeID:
			u.CollegeID = v.(string)
		case domain.UserFieldLastLogin:
			t := v.(time.Time)
			u.LastLogin = &t
		}
	}
}

func (r *stubUserRepo) Update(_ context.Context, id string, p domain.Patch) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyUserPatch(u, p)
	return cloneUser(u), nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserRepo) UpdateMany(_ context.Context, ids []string, p domain.Patch) (int64, error) {
	var n int64
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			applyUserPatch(u, p)
			n++
		}
	}
	return n, nil
}

func (r *stubUserRepo) DeleteMany(_ context.Context, ids []string) (int64, error) {
	var n int64
	for _, id := range ids {
		if _, ok := r.users[id]; ok {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

type stubCollegeRepo struct {
	colleges map[string]*domain.College
}

func (r *stubCollegeRepo) match(c *domain.College, f ports.CollegeFilter) bool {
	if f.Code != "" && c.Code != f.Code {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Search != "" && !(containsFold(c.Name, f.Search) || containsFold(c.Code, f.Search) || containsFold(c.Description, f.Search)) {
		return false
	}
	return true
}

func (r *stubCollegeRepo) sorted(f ports.CollegeFilter) []*domain.College {
	var out []*domain.College
	for _, c := range r.colleges {
		if r.match(c, f) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *stubCollegeRepo) FindByID(_ context.Context, id string) (*domain.College, error) {
	c, ok := r.colleges[id]
	if !ok {
		return nil, domain.ErrCollegeNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCollegeRepo) FindOne(_ context.Context, f ports.CollegeFilter) (*domain.College, error) {
	list := r.sorted(f)
	if len(list) == 0 {
		return nil, domain.ErrCollegeNotFound
	}
	return list[0], nil
}

func (r *stubCollegeRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.College, error) {
	var out []*domain.College
	for _, id := range ids {
		if c, ok := r.colleges[id]; ok {
			clone := *c
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubCollegeRepo) List(_ context.Context, f ports.CollegeFilter, page ports.Page) ([]*domain.College, int64, error) {
	all := r.sorted(f)
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubCollegeRepo) Count(_ context.Context, f ports.CollegeFilter) (int64, error) {
	return int64(len(r.sorted(f))), nil
}

func (r *stubCollegeRepo) Create(_ context.Context, c *domain.College) error {
	clone := *c
	r.colleges[c.ID] = &clone
	return nil
}

func (r *stubCollegeRepo) Update(_ context.Context, id string, p domain.Patch) (*domain.College, error) {
	c, ok := r.colleges[id]
	if !ok {
		return nil, domain.ErrCollegeNotFound
	}
	for k, v := range p {
		switch k {
		case domain.CollegeFieldName:
			c.Name = v.(string)
		case domain.CollegeFieldCode:
			c.Code = v.(string)
		case domain.CollegeFieldStatus:
			c.Status = v.(domain.CollegeStatus)
		}
	}
	clone := *c
	return &clone, nil
}

func (r *stubCollegeRepo) Delete(_ context.Context, id string) error {
	delete(r.colleges, id)
	return nil
}

type stubCourseRepo struct {
	courses map[string]*domain.Course
}

func (r *stubCourseRepo) match(c *domain.Course, f ports.CourseFilter) bool {
	if len(f.IDs) > 0 && !containsString(f.IDs, c.ID) {
		return false
	}
	if f.Code != "" && c.Code != f.Code {
		return false
	}
	if f.Status != "" && c.Status != f.Status {
		return false
	}
	if f.Level != "" && c.Level != f.Level {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if f.CollegeID != "" && c.CollegeID != f.CollegeID {
		return false
	}
	if f.LecturerID != "" && c.LecturerID != f.LecturerID {
		return false
	}
	if f.Search != "" && !(containsFold(c.Title, f.Search) || containsFold(c.Code, f.Search) || containsFold(c.Description, f.Search)) {
		return false
	}
	return true
}

func (r *stubCourseRepo) sorted(f ports.CourseFilter) []*domain.Course {
	var out []*domain.Course
	for _, c := range r.courses {
		if r.match(c, f) {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *stubCourseRepo) FindByID(_ context.Context, id string) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) FindOne(_ context.Context, f ports.CourseFilter) (*domain.Course, error) {
	list := r.sorted(f)
	if len(list) == 0 {
		return nil, domain.ErrCourseNotFound
	}
	return list[0], nil
}

func (r *stubCourseRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.sorted(ports.CourseFilter{IDs: ids}), nil
}

func (r *stubCourseRepo) List(_ context.Context, f ports.CourseFilter, page ports.Page) ([]*domain.Course, int64, error) {
	all := r.sorted(f)
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubCourseRepo) Count(_ context.Context, f ports.CourseFilter) (int64, error) {
	return int64(len(r.sorted(f))), nil
}

func (r *stubCourseRepo) Create(_ context.Context, c *domain.Course) error {
	clone := *c
	r.courses[c.ID] = &clone
	return nil
}

func (r *stubCourseRepo) Update(_ context.Context, id string, p domain.Patch) (*domain.Course, error) {
	c, ok := r.courses[id]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	for k, v := range p {
		switch k {
		case domain.CourseFieldTitle:
			c.Title = v.(string)
		case domain.CourseFieldCode:
			c.Code = v.(string)
		case domain.CourseFieldStatus:
			c.Status = v.(domain.CourseStatus)
		case domain.CourseFieldLecturerID:
			c.LecturerID = v.(string)
		case domain.CourseFieldCollegeID:
			c.CollegeID = v.(string)
		}
	}
	clone := *c
	return &clone, nil
}

func (r *stubCourseRepo) Delete(_ context.Context, id string) error {
	delete(r.courses, id)
	return nil
}

type stubEnrollmentRepo struct {
	enrollments []*domain.Enrollment
}

func (r *stubEnrollmentRepo) filter(f ports.EnrollmentFilter) []*domain.Enrollment {
	var out []*domain.Enrollment
	for _, e := range r.enrollments {
		if f.UserID != "" && e.UserID != f.UserID {
			continue
		}
		if f.CourseID != "" && e.CourseID != f.CourseID {
			continue
		}
		if len(f.CourseIDs) > 0 && !containsString(f.CourseIDs, e.CourseID) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		clone := *e
		out = append(out, &clone)
	}
	return out
}

func (r *stubEnrollmentRepo) FindOne(_ context.Context, f ports.EnrollmentFilter) (*domain.Enrollment, error) {
	list := r.filter(f)
	if len(list) == 0 {
		return nil, domain.ErrEnrollmentNotFound
	}
	return list[0], nil
}

func (r *stubEnrollmentRepo) List(_ context.Context, f ports.EnrollmentFilter, page ports.Page) ([]*domain.Enrollment, int64, error) {
	all := r.filter(f)
	return paginate(all, page), int64(len(all)), nil
}

func (r *stubEnrollmentRepo) Count(_ context.Context, f ports.EnrollmentFilter) (int64, error) {
	return int64(len(r.filter(f))), nil
}

func (r *stubEnrollmentRepo) Create(_ context.Context, e *domain.Enrollment) error {
	for _, existing := range r.enrollments {
		if existing.UserID == e.UserID && existing.CourseID == e.CourseID {
			return domain.ErrDuplicateDocument
		}
	}
	clone := *e
	r.enrollments = append(r.enrollments, &clone)
	return nil
}

func (r *stubEnrollmentRepo) TopCourses(_ context.Context, limit int) ([]ports.CourseEnrollmentCount, error) {
	counts := map[string]int64{}
	for _, e := range r.enrollments {
		counts[e.CourseID]++
	}
	out := make([]ports.CourseEnrollmentCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, ports.CourseEnrollmentCount{CourseID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].CourseID < out[j].CourseID
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubAssignmentRepo struct {
	assignments []*domain.Assignment
}

func (r *stubAssignmentRepo) List(_ context.Context, f ports.AssignmentFilter) ([]*domain.Assignment, error) {
	var out []*domain.Assignment
	for _, a := range r.assignments {
		if a.CourseID == f.CourseID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) error {
	clone := *a
	r.assignments = append(r.assignments, &clone)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type fixture struct {
	users       *stubUserRepo
	colleges    *stubCollegeRepo
	courses     *stubCourseRepo
	enrollments *stubEnrollmentRepo
	assignments *stubAssignmentRepo
	store       ports.Store
}

func newFixture() *fixture {
	f := &fixture{
		users:       newStubUserRepo(),
		colleges:    &stubCollegeRepo{colleges: map[string]*domain.College{}},
		courses:     &stubCourseRepo{courses: map[string]*domain.Course{}},
		enrollments: &stubEnrollmentRepo{},
		assignments: &stubAssignmentRepo{},
	}
	f.store = ports.Store{
		Users:       f.users,
		Colleges:    f.colleges,
		Courses:     f.courses,
		Enrollments: f.enrollments,
		Assignments: f.assignments,
		Pinger:      stubPinger{},
	}
	return f
}

func (f *fixture) addUser(id string, role domain.Role, collegeID string) *domain.User {
	u := &domain.User{
		ID:        id,
		FirstName: strings.ToUpper(id[:1]) + id[1:],
		LastName:  "Test",
		Email:     id + "@example.com",
		Role:      role,
		Status:    domain.UserActive,
		CollegeID: collegeID,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	f.users.users[id] = cloneUser(u)
	return u
}

func (f *fixture) addCollege(id, code string, status domain.CollegeStatus) *domain.College {
	c := &domain.College{ID: id, Name: "College " + code, Code: code, Status: status}
	clone := *c
	f.colleges.colleges[id] = &clone
	return c
}

func (f *fixture) addCourse(id, lecturerID string, status domain.CourseStatus) *domain.Course {
	c := &domain.Course{ID: id, Title: "Course " + id, Code: strings.ToUpper(id), LecturerID: lecturerID, Status: status, Credits: 3}
	clone := *c
	f.courses.courses[id] = &clone
	return c
}

func (f *fixture) enroll(userID, courseID string) {
	f.enrollments.enrollments = append(f.enrollments.enrollments, &domain.Enrollment{
		ID:       userID + "-" + courseID,
		UserID:   userID,
		CourseID: courseID,
		Status:   domain.EnrollmentEnrolled,
	})
}

var nopLogger = zerolog.Nop()
