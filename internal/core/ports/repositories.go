package ports

import (
	"context"
	"time"

	"github.com/hbiu/lms-backend/internal/core/domain"
)

// MaxPageLimit caps every paginated query.
const MaxPageLimit = 100

// Sort orders results by a canonical field name.
type Sort struct {
	Field string
	Desc  bool
}

// Page is a 1-based page request with an optional ordering.
type Page struct {
	Page  int
	Limit int
	Sort  []Sort
}

// Normalize clamps page and limit into range, falling back to def for
// a missing limit.
func (p Page) Normalize(def int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = def
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

// UserFilter selects users. Zero-valued fields are ignored.
type UserFilter struct {
	IDs       []string
	Email     string
	StudentID string
	Role      domain.Role
	Roles     []domain.Role
	Status    domain.UserStatus
	CollegeID string
	// Search matches first name, last name, email or student id.
	Search         string
	CreatedFrom    time.Time
	CreatedBefore  time.Time
	LastLoginSince time.Time
}

type CollegeFilter struct {
	Code   string
	Status domain.CollegeStatus
	// Search matches name, code or description.
	Search string
}

type CourseFilter struct {
	IDs        []string
	Code       string
	Status     domain.CourseStatus
	Level      domain.CourseLevel
	Category   string
	CollegeID  string
	LecturerID string
	// Search matches title, code or description.
	Search string
}

type EnrollmentFilter struct {
	UserID    string
	CourseID  string
	CourseIDs []string
	Status    domain.EnrollmentStatus
}

type AssignmentFilter struct {
	CourseID string
}

// CourseEnrollmentCount is one row of the enrollments-per-course ranking.
type CourseEnrollmentCount struct {
	CourseID string
	Count    int64
}

// UserRepository persists users.
//
// Across every repository FindByID and FindOne return the entity's
// not-found sentinel (domain.ErrUserNotFound, domain.ErrCourseNotFound, ...)
// when nothing matches, and Create returns domain.ErrDuplicateDocument on a
// unique key violation.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindOne(ctx context.Context, filter UserFilter) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]*domain.User, int64, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	// UpdateMany and DeleteMany run as single statements, not transactions.
	UpdateMany(ctx context.Context, ids []string, patch domain.Patch) (int64, error)
	DeleteMany(ctx context.Context, ids []string) (int64, error)
}

type CollegeRepository interface {
	FindByID(ctx context.Context, id string) (*domain.College, error)
	FindOne(ctx context.Context, filter CollegeFilter) (*domain.College, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.College, error)
	List(ctx context.Context, filter CollegeFilter, page Page) ([]*domain.College, int64, error)
	Count(ctx context.Context, filter CollegeFilter) (int64, error)
	Create(ctx context.Context, college *domain.College) error
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.College, error)
	Delete(ctx context.Context, id string) error
}

type CourseRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Course, error)
	FindOne(ctx context.Context, filter CourseFilter) (*domain.Course, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error)
	List(ctx context.Context, filter CourseFilter, page Page) ([]*domain.Course, int64, error)
	Count(ctx context.Context, filter CourseFilter) (int64, error)
	Create(ctx context.Context, course *domain.Course) error
	Update(ctx context.Context, id string, patch domain.Patch) (*domain.Course, error)
	Delete(ctx context.Context, id string) error
}

type EnrollmentRepository interface {
	FindOne(ctx context.Context, filter EnrollmentFilter) (*domain.Enrollment, error)
	List(ctx context.Context, filter EnrollmentFilter, page Page) ([]*domain.Enrollment, int64, error)
	Count(ctx context.Context, filter EnrollmentFilter) (int64, error)
	Create(ctx context.Context, enrollment *domain.Enrollment) error
	// TopCourses ranks courses by enrollment count, highest first.
	TopCourses(ctx context.Context, limit int) ([]CourseEnrollmentCount, error)
}

type AssignmentRepository interface {
	// List returns assignments ordered by due date, earliest first.
	List(ctx context.Context, filter AssignmentFilter) ([]*domain.Assignment, error)
	Create(ctx context.Context, assignment *domain.Assignment) error
}

// Store bundles the repositories of one backing database.
type Store struct {
	Users       UserRepository
	Colleges    CollegeRepository
	Courses     CourseRepository
	Enrollments EnrollmentRepository
	Assignments AssignmentRepository
	// Pinger reports database reachability for health checks.
	Pinger Pinger
}

type Pinger interface {
	Ping(ctx context.Context) error
}
