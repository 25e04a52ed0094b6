package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const (
	defaultCollegePageSize = 10
	defaultMemberPageSize  = 20
	defaultCoursePageSize  = 12
)

type CollegeService struct {
	users    ports.UserRepository
	colleges ports.CollegeRepository
	courses  ports.CourseRepository
	logger   zerolog.Logger
	now      func() time.Time
}

func NewCollegeService(store ports.Store, logger zerolog.Logger) *CollegeService {
	return &CollegeService{
		users:    store.Users,
		colleges: store.Colleges,
		courses:  store.Courses,
		logger:   logger,
		now:      time.Now,
	}
}

// can evaluates the policy table for a possibly anonymous actor.
// Anonymous callers get the student read scope.
func can(actor *domain.User, res domain.Resource, act domain.Action, rel domain.Relation) bool {
	role := domain.RoleStudent
	if actor != nil {
		role = actor.Role
	} else if act != domain.ActionRead {
		return false
	}
	return domain.Authorize(role, res, act, rel)
}

func collegeRelation(actor *domain.User, collegeID string) domain.Relation {
	if actor == nil {
		return domain.Relation{}
	}
	return domain.Relation{SameCollege: actor.CollegeID != "" && actor.CollegeID == collegeID}
}

// List shows every college to callers allowed to see hidden ones and only
// active colleges to everyone else.
func (s *CollegeService) List(ctx context.Context, actor *domain.User, filter ports.CollegeFilter, page ports.Page) (*ports.CollegePage, error) {
	if !can(actor, domain.ResourceCollege, domain.ActionViewHidden, domain.Relation{}) {
		filter.Status = domain.CollegeActive
	}
	page = page.Normalize(defaultCollegePageSize)
	page.Sort = []ports.Sort{{Field: domain.CollegeFieldName}}

	colleges, total, err := s.colleges.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	return &ports.CollegePage{Colleges: colleges, Pagination: ports.NewPagination(total, page)}, nil
}

func (s *CollegeService) visible(ctx context.Context, actor *domain.User, id string) (*domain.College, error) {
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if college.Status != domain.CollegeActive && !can(actor, domain.ResourceCollege, domain.ActionViewHidden, collegeRelation(actor, id)) {
		return nil, domain.ErrCollegeNotAvailable
	}
	return college, nil
}

func (s *CollegeService) Get(ctx context.Context, actor *domain.User, id string) (*ports.CollegeDetail, error) {
	college, err := s.visible(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	detail := &ports.CollegeDetail{College: college}
	if detail.Stats.TotalCourses, err = s.courses.Count(ctx, ports.CourseFilter{CollegeID: id}); err != nil {
		return nil, err
	}
	if detail.Stats.TotalStudents, err = s.users.Count(ctx, ports.UserFilter{CollegeID: id, Role: domain.RoleStudent}); err != nil {
		return nil, err
	}
	if detail.Stats.TotalLecturers, err = s.users.Count(ctx, ports.UserFilter{CollegeID: id, Role: domain.RoleLecturer}); err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *CollegeService) codeTaken(ctx context.Context, code string) error {
	_, err := s.colleges.FindOne(ctx, ports.CollegeFilter{Code: code})
	switch {
	case err == nil:
		return domain.ErrCollegeCodeTaken
	case errors.Is(err, domain.ErrCollegeNotFound):
		return nil
	default:
		return err
	}
}

func (s *CollegeService) Create(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error) {
	if !can(actor, domain.ResourceCollege, domain.ActionCreate, domain.Relation{}) {
		return nil, domain.ErrForbidden
	}
	college.Code = strings.TrimSpace(college.Code)
	if err := s.codeTaken(ctx, college.Code); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	college.ID = newID()
	if college.Status == "" {
		college.Status = domain.CollegeActive
	}
	college.CreatedAt, college.UpdatedAt = now, now
	if err := s.colleges.Create(ctx, college); err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			return nil, domain.ErrCollegeCodeTaken
		}
		return nil, err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("college_id", college.ID).Str("code", college.Code).Msg("college created")
	return college, nil
}

func (s *CollegeService) Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*domain.College, error) {
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel := collegeRelation(actor, id)
	if !can(actor, domain.ResourceCollege, domain.ActionUpdate, rel) {
		return nil, domain.ErrForbidden
	}
	allowed := patch.Restrict(domain.UpdatableFields(actor.Role, domain.ResourceCollege, rel))
	if code, ok := allowed.String(domain.CollegeFieldCode); ok && code != college.Code {
		if err := s.codeTaken(ctx, code); err != nil {
			return nil, err
		}
	}
	if len(allowed) == 0 {
		return college, nil
	}
	updated, err := s.colleges.Update(ctx, id, allowed)
	if errors.Is(err, domain.ErrDuplicateDocument) {
		return nil, domain.ErrCollegeCodeTaken
	}
	return updated, err
}

// Delete refuses while any user or course still references the college.
func (s *CollegeService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !can(actor, domain.ResourceCollege, domain.ActionDelete, domain.Relation{}) {
		return domain.ErrForbidden
	}
	if _, err := s.colleges.FindByID(ctx, id); err != nil {
		return err
	}
	users, err := s.users.Count(ctx, ports.UserFilter{CollegeID: id})
	if err != nil {
		return err
	}
	courses, err := s.courses.Count(ctx, ports.CourseFilter{CollegeID: id})
	if err != nil {
		return err
	}
	if users > 0 || courses > 0 {
		return domain.ErrCollegeInUse
	}
	if err := s.colleges.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("college_id", id).Msg("college deleted")
	return nil
}

func (s *CollegeService) Courses(ctx context.Context, actor *domain.User, id string, filter ports.CourseFilter, page ports.Page) (*ports.CollegeCoursePage, error) {
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	filter.CollegeID = id
	if !can(actor, domain.ResourceCourse, domain.ActionViewHidden, domain.Relation{}) {
		filter.Status = domain.CoursePublished
	}
	page = page.Normalize(defaultCoursePageSize)
	page.Sort = []ports.Sort{{Field: "created_at", Desc: true}}

	courses, total, err := s.courses.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	views, err := courseViews(ctx, s.users, s.colleges, courses)
	if err != nil {
		return nil, err
	}
	return &ports.CollegeCoursePage{Courses: views, Pagination: ports.NewPagination(total, page), College: college.Ref()}, nil
}

// members loads the college and checks the actor may list its people.
func (s *CollegeService) members(ctx context.Context, actor *domain.User, id string, denied error) (*domain.College, error) {
	college, err := s.colleges.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !can(actor, domain.ResourceCollege, domain.ActionViewMembers, collegeRelation(actor, id)) {
		return nil, denied
	}
	return college, nil
}

var staffRoles = []domain.Role{domain.RoleLecturer, domain.RoleCollegeAdmin}

// Staff lists lecturers and college admins. A role filter outside the staff
// roles is ignored.
func (s *CollegeService) Staff(ctx context.Context, actor *domain.User, id string, filter ports.UserFilter, page ports.Page) (*ports.CollegeStaffPage, error) {
	college, err := s.members(ctx, actor, id, domain.ErrStaffForbidden)
	if err != nil {
		return nil, err
	}
	q := ports.UserFilter{CollegeID: id, Status: filter.Status, Roles: staffRoles}
	if filter.Role == domain.RoleLecturer || filter.Role == domain.RoleCollegeAdmin {
		q.Roles = nil
		q.Role = filter.Role
	}
	page = page.Normalize(defaultMemberPageSize)
	page.Sort = []ports.Sort{{Field: domain.UserFieldRole}, {Field: domain.UserFieldFirstName}}

	staff, total, err := s.users.List(ctx, q, page)
	if err != nil {
		return nil, err
	}
	return &ports.CollegeStaffPage{Staff: sanitizeAll(staff), Pagination: ports.NewPagination(total, page), College: college.Ref()}, nil
}

func (s *CollegeService) Students(ctx context.Context, actor *domain.User, id string, filter ports.UserFilter, page ports.Page) (*ports.CollegeStudentPage, error) {
	college, err := s.members(ctx, actor, id, domain.ErrCollegeRosterDenied)
	if err != nil {
		return nil, err
	}
	q := ports.UserFilter{CollegeID: id, Role: domain.RoleStudent, Status: filter.Status, Search: filter.Search}
	page = page.Normalize(defaultMemberPageSize)
	page.Sort = []ports.Sort{{Field: domain.UserFieldFirstName}}

	students, total, err := s.users.List(ctx, q, page)
	if err != nil {
		return nil, err
	}
	return &ports.CollegeStudentPage{Students: sanitizeAll(students), Pagination: ports.NewPagination(total, page), College: college.Ref()}, nil
}
