package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const defaultUserPageSize = 10

type UserService struct {
	users       ports.UserRepository
	colleges    ports.CollegeRepository
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	logger      zerolog.Logger
}

func NewUserService(store ports.Store, logger zerolog.Logger) *UserService {
	return &UserService{
		users:       store.Users,
		colleges:    store.Colleges,
		courses:     store.Courses,
		enrollments: store.Enrollments,
		logger:      logger,
	}
}

func userRelation(actor *domain.User, targetID string) domain.Relation {
	return domain.Relation{Own: actor.ID == targetID}
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter, page ports.Page) (*ports.UserPage, error) {
	page = page.Normalize(defaultUserPageSize)
	if len(page.Sort) == 0 {
		page.Sort = []ports.Sort{{Field: "created_at", Desc: true}}
	}
	users, total, err := s.users.List(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	views, err := userViews(ctx, s.colleges, users)
	if err != nil {
		return nil, err
	}
	return &ports.UserPage{Users: views, Pagination: ports.NewPagination(total, page)}, nil
}

// Get returns a user with the courses they teach. Only the user and admins
// may read it.
func (s *UserService) Get(ctx context.Context, actor *domain.User, id string) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionRead, userRelation(actor, id)) {
		return nil, domain.ErrViewProfileForbidden
	}
	view, err := userView(ctx, s.colleges, user)
	if err != nil {
		return nil, err
	}
	taught, _, err := s.courses.List(ctx, ports.CourseFilter{LecturerID: id}, ports.Page{Page: 1, Limit: ports.MaxPageLimit})
	if err != nil {
		return nil, fmt.Errorf("load taught courses: %w", err)
	}
	for _, c := range taught {
		view.TaughtCourses = append(view.TaughtCourses, ports.TaughtCourse{ID: c.ID, Title: c.Title, Code: c.Code, Status: c.Status})
	}
	return view, nil
}

// Update writes the fields the actor's policy allows for this target.
// Disallowed keys are dropped. A role change aimed at oneself is refused
// outright, whatever else the patch carries.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel := userRelation(actor, id)
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionUpdate, rel) {
		return nil, domain.ErrUpdateUserForbidden
	}

	allowed := patch.Restrict(domain.UpdatableFields(actor.Role, domain.ResourceUser, rel))
	if raw, ok := allowed.String(domain.UserFieldRole); ok {
		if rel.Own && raw != string(user.Role) {
			return nil, domain.ErrSelfRoleChange
		}
		role, valid := domain.ParseRole(raw)
		if !valid {
			return nil, domain.ErrInvalidRole
		}
		if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionChangeRole, rel) {
			return nil, domain.ErrUpdateUserForbidden
		}
		allowed[domain.UserFieldRole] = role
	}
	if raw, ok := allowed.String(domain.UserFieldStatus); ok {
		status, valid := domain.ParseUserStatus(raw)
		if !valid {
			return nil, domain.ErrInvalidStatus
		}
		allowed[domain.UserFieldStatus] = status
	}
	if raw, ok := allowed.String(domain.UserFieldEmail); ok {
		email := normalizeEmail(raw)
		if email != user.Email {
			if _, err := s.users.FindOne(ctx, ports.UserFilter{Email: email}); err == nil {
				return nil, domain.ErrEmailExists
			} else if !errors.Is(err, domain.ErrUserNotFound) {
				return nil, err
			}
		}
		allowed[domain.UserFieldEmail] = email
	}
	if cid, ok := allowed.String(domain.UserFieldCollegeID); ok && cid != "" {
		if _, err := s.colleges.FindByID(ctx, cid); err != nil {
			return nil, err
		}
	}

	if len(allowed) > 0 {
		if user, err = s.users.Update(ctx, id, allowed); err != nil {
			if errors.Is(err, domain.ErrDuplicateDocument) {
				return nil, domain.ErrEmailExists
			}
			return nil, err
		}
		s.logger.Info().Str("actor_id", actor.ID).Str("user_id", id).Strs("fields", fieldNames(allowed)).Msg("user updated")
	}
	return userView(ctx, s.colleges, user)
}

// Delete removes a user. Nobody may delete their own account.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor.ID == id {
		return domain.ErrSelfDelete
	}
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionDelete, userRelation(actor, id)) {
		return domain.ErrForbidden
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("user_id", id).Msg("user deleted")
	return nil
}

// Courses lists the user's enrollments with course, lecturer and college.
func (s *UserService) Courses(ctx context.Context, actor *domain.User, id string, status domain.EnrollmentStatus, page ports.Page) (*ports.EnrollmentPage, error) {
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionRead, userRelation(actor, id)) {
		return nil, domain.ErrUserCoursesForbidden
	}
	page = page.Normalize(defaultUserPageSize)
	page.Sort = []ports.Sort{{Field: "enrollment_date", Desc: true}}

	enrollments, total, err := s.enrollments.List(ctx, ports.EnrollmentFilter{UserID: id, Status: status}, page)
	if err != nil {
		return nil, err
	}
	views, err := enrollmentViews(ctx, s.users, s.colleges, s.courses, enrollments, true, false)
	if err != nil {
		return nil, err
	}
	return &ports.EnrollmentPage{Enrollments: views, Pagination: ports.NewPagination(total, page)}, nil
}

func (s *UserService) Stats(ctx context.Context, actor *domain.User, id string) (*ports.UserStats, error) {
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionRead, userRelation(actor, id)) {
		return nil, domain.ErrUserStatsForbidden
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var stats ports.UserStats
	if stats.Learning.TotalEnrolled, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{UserID: id}); err != nil {
		return nil, err
	}
	if stats.Learning.CompletedCourses, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{UserID: id, Status: domain.EnrollmentCompleted}); err != nil {
		return nil, err
	}
	if stats.Learning.ActiveCourses, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{UserID: id, Status: domain.EnrollmentEnrolled}); err != nil {
		return nil, err
	}

	if user.Role == domain.RoleLecturer {
		teaching := &ports.TeachingStats{}
		courses, total, err := s.courses.List(ctx, ports.CourseFilter{LecturerID: id}, ports.Page{Page: 1, Limit: ports.MaxPageLimit})
		if err != nil {
			return nil, err
		}
		teaching.TotalCourses = total
		if len(courses) > 0 {
			ids := make([]string, 0, len(courses))
			for _, c := range courses {
				ids = append(ids, c.ID)
			}
			if teaching.TotalStudents, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{CourseIDs: ids}); err != nil {
				return nil, err
			}
		}
		stats.Teaching = teaching
	}
	return &stats, nil
}

func fieldNames(p domain.Patch) []string {
	fs := make(domain.FieldSet, len(p))
	for k := range p {
		fs[k] = struct{}{}
	}
	return fs.Names()
}
