package ports

import (
	"context"
	"time"

	"github.com/hbiu/lms-backend/internal/core/domain"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether candidate matches hash. A malformed hash is a
	// mismatch, never an error.
	Verify(candidate, hash string) bool
}

// TokenIssuer signs identity tokens for a subject (user id).
type TokenIssuer interface {
	Issue(subject string) (string, error)
	// Ready reports whether a signing secret is configured.
	Ready() bool
}

// TokenVerifier returns the subject of a valid token, or
// domain.ErrTokenInvalid / domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

type TokenService interface {
	TokenIssuer
	TokenVerifier
}

// Pagination is the page metadata attached to every list response.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

func NewPagination(total int64, p Page) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Pagination{
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: pages,
		HasNext:    p.Page < pages,
		HasPrev:    p.Page > 1,
	}
}

// UserView is a sanitized user with its college reference.
type UserView struct {
	*domain.User
	College       *domain.CollegeRef `json:"college"`
	TaughtCourses []TaughtCourse     `json:"taughtCourses,omitempty"`
}

type TaughtCourse struct {
	ID     string              `json:"id"`
	Title  string              `json:"title"`
	Code   string              `json:"code"`
	Status domain.CourseStatus `json:"status"`
}

// CourseView is a course with its lecturer and college references.
type CourseView struct {
	*domain.Course
	Lecturer *domain.UserRef    `json:"lecturer"`
	College  *domain.CollegeRef `json:"college"`
}

type CourseDetail struct {
	CourseView
	EnrollmentCount int64 `json:"enrollmentCount"`
	IsEnrolled      bool  `json:"isEnrolled"`
}

type CollegeStats struct {
	TotalCourses   int64 `json:"totalCourses"`
	TotalStudents  int64 `json:"totalStudents"`
	TotalLecturers int64 `json:"totalLecturers"`
}

type CollegeDetail struct {
	*domain.College
	Stats CollegeStats `json:"stats"`
}

// EnrolledCourse is a course as shown inside a user's enrollment list.
type EnrolledCourse struct {
	*domain.CourseRef
	Lecturer *domain.UserRef    `json:"lecturer"`
	College  *domain.CollegeRef `json:"college"`
}

type EnrollmentView struct {
	*domain.Enrollment
	Course *EnrolledCourse `json:"course,omitempty"`
	User   *domain.UserRef `json:"user,omitempty"`
}

type AssignmentView struct {
	*domain.Assignment
	Creator *domain.UserRef `json:"creator"`
}

type UserPage struct {
	Users      []*UserView `json:"users"`
	Pagination Pagination  `json:"pagination"`
}

type CollegePage struct {
	Colleges   []*domain.College `json:"colleges"`
	Pagination Pagination        `json:"pagination"`
}

type CoursePage struct {
	Courses    []*CourseView `json:"courses"`
	Pagination Pagination    `json:"pagination"`
}

type EnrollmentPage struct {
	Enrollments []*EnrollmentView `json:"enrollments"`
	Pagination  Pagination        `json:"pagination"`
}

type CollegeCoursePage struct {
	Courses    []*CourseView      `json:"courses"`
	Pagination Pagination         `json:"pagination"`
	College    *domain.CollegeRef `json:"college"`
}

type CollegeStaffPage struct {
	Staff      []*domain.User     `json:"staff"`
	Pagination Pagination         `json:"pagination"`
	College    *domain.CollegeRef `json:"college"`
}

type CollegeStudentPage struct {
	Students   []*domain.User     `json:"students"`
	Pagination Pagination         `json:"pagination"`
	College    *domain.CollegeRef `json:"college"`
}

type CourseStudentPage struct {
	Students   []*EnrollmentView `json:"students"`
	Pagination Pagination        `json:"pagination"`
	Course     *domain.CourseRef `json:"course"`
}

type LearningStats struct {
	TotalEnrolled    int64 `json:"totalEnrolled"`
	CompletedCourses int64 `json:"completedCourses"`
	ActiveCourses    int64 `json:"activeCourses"`
}

type TeachingStats struct {
	TotalCourses  int64 `json:"totalCourses"`
	TotalStudents int64 `json:"totalStudents"`
}

type UserStats struct {
	Learning LearningStats  `json:"learning"`
	Teaching *TeachingStats `json:"teaching"`
}

// RegisterInput carries the fields accepted at self-registration.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Role        domain.Role
	StudentID   string
	PhoneNumber string
	CollegeID   string
}

type AuthResult struct {
	Token string    `json:"token"`
	User  *UserView `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Me(ctx context.Context, actor *domain.User) (*UserView, error)
	UpdateProfile(ctx context.Context, actor *domain.User, patch domain.Patch) (*UserView, error)
	ChangePassword(ctx context.Context, actor *domain.User, current, next string) error
}

type UserService interface {
	List(ctx context.Context, filter UserFilter, page Page) (*UserPage, error)
	Get(ctx context.Context, actor *domain.User, id string) (*UserView, error)
	Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*UserView, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Courses(ctx context.Context, actor *domain.User, id string, status domain.EnrollmentStatus, page Page) (*EnrollmentPage, error)
	Stats(ctx context.Context, actor *domain.User, id string) (*UserStats, error)
}

// CollegeService methods take a nil actor for anonymous callers.
type CollegeService interface {
	List(ctx context.Context, actor *domain.User, filter CollegeFilter, page Page) (*CollegePage, error)
	Get(ctx context.Context, actor *domain.User, id string) (*CollegeDetail, error)
	Create(ctx context.Context, actor *domain.User, college *domain.College) (*domain.College, error)
	Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*domain.College, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Courses(ctx context.Context, actor *domain.User, id string, filter CourseFilter, page Page) (*CollegeCoursePage, error)
	Staff(ctx context.Context, actor *domain.User, id string, filter UserFilter, page Page) (*CollegeStaffPage, error)
	Students(ctx context.Context, actor *domain.User, id string, filter UserFilter, page Page) (*CollegeStudentPage, error)
}

// CourseService methods take a nil actor for anonymous callers where the
// route allows it.
type CourseService interface {
	List(ctx context.Context, actor *domain.User, filter CourseFilter, page Page) (*CoursePage, error)
	Get(ctx context.Context, actor *domain.User, id string) (*CourseDetail, error)
	Create(ctx context.Context, actor *domain.User, course *domain.Course) (*CourseView, error)
	Update(ctx context.Context, actor *domain.User, id string, patch domain.Patch) (*CourseView, error)
	Delete(ctx context.Context, actor *domain.User, id string) error
	Enroll(ctx context.Context, actor *domain.User, id string) (*domain.Enrollment, error)
	Assignments(ctx context.Context, actor *domain.User, id string) ([]*AssignmentView, error)
	CreateAssignment(ctx context.Context, actor *domain.User, id string, a *domain.Assignment) (*AssignmentView, error)
	Students(ctx context.Context, actor *domain.User, id string, page Page) (*CourseStudentPage, error)
}

type AdminOverview struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalStudents    int64 `json:"totalStudents"`
	TotalLecturers   int64 `json:"totalLecturers"`
	TotalColleges    int64 `json:"totalColleges"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalEnrollments int64 `json:"totalEnrollments"`
	RecentUsers      int64 `json:"recentUsers"`
	ActiveCourses    int64 `json:"activeCourses"`
}

type MonthlyGrowth struct {
	Month string `json:"month"`
	Users int64  `json:"users"`
}

type AdminStats struct {
	Overview            AdminOverview                     `json:"overview"`
	EnrollmentsByStatus map[domain.EnrollmentStatus]int64 `json:"enrollmentsByStatus"`
	UsersByRole         map[domain.Role]int64             `json:"usersByRole"`
	MonthlyGrowth       []MonthlyGrowth                   `json:"monthlyGrowth"`
}

type TopCourse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Code            string `json:"code"`
	EnrollmentCount int64  `json:"enrollmentCount"`
}

type CollegeSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	TotalCourses int64  `json:"totalCourses"`
	TotalUsers   int64  `json:"totalUsers"`
}

type Analytics struct {
	ActiveUsers  int64            `json:"activeUsers"`
	TopCourses   []TopCourse      `json:"topCourses"`
	CollegeStats []CollegeSummary `json:"collegeStats"`
	Timeframe    string           `json:"timeframe"`
}

// Bulk operation names accepted by AdminService.Bulk.
const (
	BulkUpdateStatus  = "updateStatus"
	BulkAssignCollege = "assignCollege"
	BulkDelete        = "delete"
)

type BulkRequest struct {
	Operation string
	UserIDs   []string
	Status    string
	CollegeID string
}

type BulkResult struct {
	Operation    string   `json:"operation"`
	AffectedRows int64    `json:"affectedRows"`
	UserIDs      []string `json:"userIds"`
}

type DatabaseHealth struct {
	Driver    string `json:"driver"`
	Connected bool   `json:"connected"`
}

type ServerHealth struct {
	Uptime     float64 `json:"uptime"`
	GoVersion  string  `json:"goVersion"`
	Goroutines int     `json:"goroutines"`
	HeapAlloc  uint64  `json:"heapAlloc"`
	HeapSys    uint64  `json:"heapSys"`
	TotalAlloc uint64  `json:"totalAlloc"`
	NumGC      uint32  `json:"numGC"`
}

type SystemHealth struct {
	Database  DatabaseHealth `json:"database"`
	Server    ServerHealth   `json:"server"`
	Timestamp time.Time      `json:"timestamp"`
}

type AdminService interface {
	Stats(ctx context.Context) (*AdminStats, error)
	Analytics(ctx context.Context, days int) (*Analytics, error)
	ChangeRole(ctx context.Context, actor *domain.User, id string, role string) (*UserView, error)
	Bulk(ctx context.Context, actor *domain.User, req BulkRequest) (*BulkResult, error)
	SystemHealth(ctx context.Context) (*SystemHealth, error)
}
