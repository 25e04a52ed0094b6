package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const defaultRosterPageSize = 20

type CourseService struct {
	users       ports.UserRepository
	colleges    ports.CollegeRepository
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	assignments ports.AssignmentRepository
	logger      zerolog.Logger
	now         func() time.Time
}

func NewCourseService(store ports.Store, logger zerolog.Logger) *CourseService {
	return &CourseService{
		users:       store.Users,
		colleges:    store.Colleges,
		courses:     store.Courses,
		enrollments: store.Enrollments,
		assignments: store.Assignments,
		logger:      logger,
		now:         time.Now,
	}
}

// relation computes how actor relates to course. Enrollment is only looked
// up when needEnrolled is set and the actor does not own the course.
func (s *CourseService) relation(ctx context.Context, actor *domain.User, course *domain.Course, needEnrolled bool) (domain.Relation, error) {
	if actor == nil {
		return domain.Relation{}, nil
	}
	rel := domain.Relation{
		Own:         course.LecturerID != "" && course.LecturerID == actor.ID,
		SameCollege: course.CollegeID != "" && course.CollegeID == actor.CollegeID,
	}
	if needEnrolled && !rel.Own && actor.Role != domain.RoleAdmin {
		enrolled, err := s.isEnrolled(ctx, actor.ID, course.ID)
		if err != nil {
			return rel, err
		}
		rel.Enrolled = enrolled
	}
	return rel, nil
}

func (s *CourseService) isEnrolled(ctx context.Context, userID, courseID string) (bool, error) {
	_, err := s.enrollments.FindOne(ctx, ports.EnrollmentFilter{UserID: userID, CourseID: courseID})
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrEnrollmentNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *CourseService) List(ctx context.Context, actor *domain.User, filter ports.CourseFilter, page ports.Page) (*ports.CoursePage, error) {
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
	return &ports.CoursePage{Courses: views, Pagination: ports.NewPagination(total, page)}, nil
}

// Get hides unpublished courses from everyone but admins and the course's
// lecturer.
func (s *CourseService) Get(ctx context.Context, actor *domain.User, id string) (*ports.CourseDetail, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel, err := s.relation(ctx, actor, course, false)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished() && !can(actor, domain.ResourceCourse, domain.ActionViewHidden, rel) {
		return nil, domain.ErrCourseNotAvailable
	}

	view, err := courseView(ctx, s.users, s.colleges, course)
	if err != nil {
		return nil, err
	}
	detail := &ports.CourseDetail{CourseView: *view}
	if detail.EnrollmentCount, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{CourseID: id}); err != nil {
		return nil, err
	}
	if actor != nil {
		if detail.IsEnrolled, err = s.isEnrolled(ctx, actor.ID, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

func (s *CourseService) codeTaken(ctx context.Context, code string) error {
	_, err := s.courses.FindOne(ctx, ports.CourseFilter{Code: code})
	switch {
	case err == nil:
		return domain.ErrCourseCodeTaken
	case errors.Is(err, domain.ErrCourseNotFound):
		return nil
	default:
		return err
	}
}

// Create assigns the requester as lecturer. The college is the requester's
// own when they have one, otherwise the one given in the payload.
func (s *CourseService) Create(ctx context.Context, actor *domain.User, course *domain.Course) (*ports.CourseView, error) {
	if !can(actor, domain.ResourceCourse, domain.ActionCreate, domain.Relation{}) {
		return nil, domain.ErrForbidden
	}
	if err := s.codeTaken(ctx, course.Code); err != nil {
		return nil, err
	}
	course.LecturerID = actor.ID
	if actor.CollegeID != "" {
		course.CollegeID = actor.CollegeID
	}
	if course.CollegeID != "" {
		if _, err := s.colleges.FindByID(ctx, course.CollegeID); err != nil {
			return nil, err
		}
	}
	applyCourseDefaults(course)

	now := s.now().UTC()
	course.ID = newID()
	course.CreatedAt, course.UpdatedAt = now, now
	if err := s.courses.Create(ctx, course); err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			return nil, domain.ErrCourseCodeTaken
		}
		return nil, err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("course_id", course.ID).Str("code", course.Code).Msg("course created")
	return courseView(ctx, s.users, s.colleges, course)
}

func applyCourseDefaults(c *domain.Course) {
	if c.Credits == 0 {
		c.Credits = 3
	}
	if c.Level == "" {
		c.Level = domain.LevelBeginner
	}
	if c.Status == "" {
		c.Status = domain.CourseDraft
	}
	if c.Language == "" {
		c.Language = "English"
	}
}

// Update lets admins edit any course and the lecturer edit their own. The
// writable fields come from the policy table; the rest of the patch is
// dropped.
func (s *CourseService) Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*ports.CourseView, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel, err := s.relation(ctx, actor, course, false)
	if err != nil {
		return nil, err
	}
	if !can(actor, domain.ResourceCourse, domain.ActionUpdate, rel) {
		return nil, domain.ErrCourseEditForbidden
	}

	allowed := patch.Restrict(domain.UpdatableFields(actor.Role, domain.ResourceCourse, rel))
	if code, ok := allowed.String(domain.CourseFieldCode); ok && code != course.Code {
		if err := s.codeTaken(ctx, code); err != nil {
			return nil, err
		}
	}
	if cid, ok := allowed.String(domain.CourseFieldCollegeID); ok && cid != "" {
		if _, err := s.colleges.FindByID(ctx, cid); err != nil {
			return nil, err
		}
	}
	if lid, ok := allowed.String(domain.CourseFieldLecturerID); ok && lid != "" {
		if _, err := s.users.FindByID(ctx, lid); err != nil {
			return nil, err
		}
	}

	if len(allowed) > 0 {
		if course, err = s.courses.Update(ctx, id, allowed); err != nil {
			if errors.Is(err, domain.ErrDuplicateDocument) {
				return nil, domain.ErrCourseCodeTaken
			}
			return nil, err
		}
		s.logger.Info().Str("actor_id", actor.ID).Str("course_id", id).Strs("fields", fieldNames(allowed)).Msg("course updated")
	}
	return courseView(ctx, s.users, s.colleges, course)
}

func (s *CourseService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if !can(actor, domain.ResourceCourse, domain.ActionDelete, domain.Relation{}) {
		return domain.ErrForbidden
	}
	if _, err := s.courses.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("course_id", id).Msg("course deleted")
	return nil
}

// Enroll admits the actor to a published course with room left. Count and
// insert are not atomic; the unique (user, course) key still rejects a
// concurrent duplicate.
func (s *CourseService) Enroll(ctx context.Context, actor *domain.User, id string) (*domain.Enrollment, error) {
	if !can(actor, domain.ResourceCourse, domain.ActionEnroll, domain.Relation{}) {
		return nil, domain.ErrForbidden
	}
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !course.IsPublished() {
		return nil, domain.ErrCourseNotOpen
	}
	enrolled, err := s.isEnrolled(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, domain.ErrAlreadyEnrolled
	}
	if course.EnrollmentLimit > 0 {
		current, err := s.enrollments.Count(ctx, ports.EnrollmentFilter{CourseID: id})
		if err != nil {
			return nil, err
		}
		if current >= int64(course.EnrollmentLimit) {
			return nil, domain.ErrEnrollmentFull
		}
	}

	now := s.now().UTC()
	enrollment := &domain.Enrollment{
		ID:             newID(),
		UserID:         actor.ID,
		CourseID:       id,
		EnrollmentDate: now,
		Status:         domain.EnrollmentEnrolled,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if errors.Is(err, domain.ErrDuplicateDocument) {
			return nil, domain.ErrAlreadyEnrolled
		}
		return nil, err
	}
	s.logger.Info().Str("user_id", actor.ID).Str("course_id", id).Msg("enrolled")
	return enrollment, nil
}

// contentAccess loads the course and checks act against the actor's
// relation to it.
func (s *CourseService) contentAccess(ctx context.Context, actor *domain.User, id string, act domain.Action, denied error) (*domain.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rel, err := s.relation(ctx, actor, course, act == domain.ActionViewContent)
	if err != nil {
		return nil, err
	}
	if !can(actor, domain.ResourceCourse, act, rel) {
		return nil, denied
	}
	return course, nil
}

func (s *CourseService) Assignments(ctx context.Context, actor *domain.User, id string) ([]*ports.AssignmentView, error) {
	if _, err := s.contentAccess(ctx, actor, id, domain.ActionViewContent, domain.ErrNotEnrolled); err != nil {
		return nil, err
	}
	list, err := s.assignments.List(ctx, ports.AssignmentFilter{CourseID: id})
	if err != nil {
		return nil, err
	}
	creatorIDs := make([]string, 0, len(list))
	for _, a := range list {
		creatorIDs = append(creatorIDs, a.CreatedBy)
	}
	creators, err := userIndex(ctx, s.users, creatorIDs)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.AssignmentView, 0, len(list))
	for _, a := range list {
		out = append(out, &ports.AssignmentView{Assignment: a, Creator: creators[a.CreatedBy].Ref()})
	}
	return out, nil
}

func (s *CourseService) CreateAssignment(ctx context.Context, actor *domain.User, id string, a *domain.Assignment) (*ports.AssignmentView, error) {
	if _, err := s.contentAccess(ctx, actor, id, domain.ActionCreateContent, domain.ErrCourseEditForbidden); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	a.ID = newID()
	a.CourseID = id
	a.CreatedBy = actor.ID
	if a.Type == "" {
		a.Type = domain.AssignmentHomework
	}
	if a.Status == "" {
		a.Status = domain.CourseDraft
	}
	if a.Attempts == 0 {
		a.Attempts = 1
	}
	a.CreatedAt, a.UpdatedAt = now, now
	if err := s.assignments.Create(ctx, a); err != nil {
		return nil, err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("course_id", id).Str("assignment_id", a.ID).Msg("assignment created")
	return &ports.AssignmentView{Assignment: a, Creator: actor.Ref()}, nil
}

func (s *CourseService) Students(ctx context.Context, actor *domain.User, id string, page ports.Page) (*ports.CourseStudentPage, error) {
	course, err := s.contentAccess(ctx, actor, id, domain.ActionViewMembers, domain.ErrCourseRosterDenied)
	if err != nil {
		return nil, err
	}
	page = page.Normalize(defaultRosterPageSize)
	page.Sort = []ports.Sort{{Field: "enrollment_date"}}

	enrollments, total, err := s.enrollments.List(ctx, ports.EnrollmentFilter{CourseID: id}, page)
	if err != nil {
		return nil, err
	}
	views, err := enrollmentViews(ctx, s.users, s.colleges, s.courses, enrollments, false, true)
	if err != nil {
		return nil, err
	}
	return &ports.CourseStudentPage{Students: views, Pagination: ports.NewPagination(total, page), Course: course.Ref()}, nil
}
