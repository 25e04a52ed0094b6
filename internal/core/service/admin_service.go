package service

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

const (
	recentUsersWindow = 30 * 24 * time.Hour
	growthMonths      = 12
	topCoursesLimit   = 10
	collegeStatsLimit = 10
)

var enrollmentStatuses = []domain.EnrollmentStatus{
	domain.EnrollmentEnrolled,
	domain.EnrollmentCompleted,
	domain.EnrollmentDropped,
	domain.EnrollmentSuspended,
}

// AdminService serves the admin dashboard, reports and bulk user
// management.
type AdminService struct {
	users       ports.UserRepository
	colleges    ports.CollegeRepository
	courses     ports.CourseRepository
	enrollments ports.EnrollmentRepository
	pinger      ports.Pinger
	driver      string
	startedAt   time.Time
	logger      zerolog.Logger
	now         func() time.Time
}

func NewAdminService(store ports.Store, driver string, logger zerolog.Logger) *AdminService {
	return &AdminService{
		users:       store.Users,
		colleges:    store.Colleges,
		courses:     store.Courses,
		enrollments: store.Enrollments,
		pinger:      store.Pinger,
		driver:      driver,
		startedAt:   time.Now(),
		logger:      logger,
		now:         time.Now,
	}
}

func (s *AdminService) Stats(ctx context.Context) (*ports.AdminStats, error) {
	now := s.now().UTC()
	var (
		out ports.AdminStats
		err error
	)
	ov := &out.Overview
	if ov.TotalUsers, err = s.users.Count(ctx, ports.UserFilter{}); err != nil {
		return nil, err
	}
	if ov.TotalStudents, err = s.users.Count(ctx, ports.UserFilter{Role: domain.RoleStudent}); err != nil {
		return nil, err
	}
	if ov.TotalLecturers, err = s.users.Count(ctx, ports.UserFilter{Role: domain.RoleLecturer}); err != nil {
		return nil, err
	}
	if ov.TotalColleges, err = s.colleges.Count(ctx, ports.CollegeFilter{}); err != nil {
		return nil, err
	}
	if ov.TotalCourses, err = s.courses.Count(ctx, ports.CourseFilter{}); err != nil {
		return nil, err
	}
	if ov.TotalEnrollments, err = s.enrollments.Count(ctx, ports.EnrollmentFilter{}); err != nil {
		return nil, err
	}
	if ov.RecentUsers, err = s.users.Count(ctx, ports.UserFilter{CreatedFrom: now.Add(-recentUsersWindow)}); err != nil {
		return nil, err
	}
	if ov.ActiveCourses, err = s.courses.Count(ctx, ports.CourseFilter{Status: domain.CoursePublished}); err != nil {
		return nil, err
	}

	out.EnrollmentsByStatus = make(map[domain.EnrollmentStatus]int64, len(enrollmentStatuses))
	for _, st := range enrollmentStatuses {
		n, err := s.enrollments.Count(ctx, ports.EnrollmentFilter{Status: st})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out.EnrollmentsByStatus[st] = n
		}
	}

	out.UsersByRole = make(map[domain.Role]int64, len(domain.AllRoles()))
	for _, r := range domain.AllRoles() {
		n, err := s.users.Count(ctx, ports.UserFilter{Role: r})
		if err != nil {
			return nil, err
		}
		if n > 0 {
			out.UsersByRole[r] = n
		}
	}

	if out.MonthlyGrowth, err = s.monthlyGrowth(ctx, now); err != nil {
		return nil, err
	}
	return &out, nil
}

// monthlyGrowth counts sign-ups per calendar month, oldest first, ending
// with the current month.
func (s *AdminService) monthlyGrowth(ctx context.Context, now time.Time) ([]ports.MonthlyGrowth, error) {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	out := make([]ports.MonthlyGrowth, 0, growthMonths)
	for i := growthMonths - 1; i >= 0; i-- {
		start := current.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0)
		n, err := s.users.Count(ctx, ports.UserFilter{CreatedFrom: start, CreatedBefore: end})
		if err != nil {
			return nil, err
		}
		out = append(out, ports.MonthlyGrowth{Month: start.Format("Jan 2006"), Users: n})
	}
	return out, nil
}

func (s *AdminService) Analytics(ctx context.Context, days int) (*ports.Analytics, error) {
	if days <= 0 {
		days = 30
	}
	since := s.now().UTC().AddDate(0, 0, -days)
	out := &ports.Analytics{Timeframe: fmt.Sprintf("%d days", days)}

	var err error
	if out.ActiveUsers, err = s.users.Count(ctx, ports.UserFilter{LastLoginSince: since}); err != nil {
		return nil, err
	}

	ranked, err := s.enrollments.TopCourses(ctx, topCoursesLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.CourseID)
	}
	courses, err := s.courses.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*domain.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	out.TopCourses = make([]ports.TopCourse, 0, len(ranked))
	for _, r := range ranked {
		c, ok := byID[r.CourseID]
		if !ok {
			continue
		}
		out.TopCourses = append(out.TopCourses, ports.TopCourse{ID: c.ID, Title: c.Title, Code: c.Code, EnrollmentCount: r.Count})
	}

	colleges, _, err := s.colleges.List(ctx, ports.CollegeFilter{}, ports.Page{Page: 1, Limit: collegeStatsLimit, Sort: []ports.Sort{{Field: domain.CollegeFieldName}}})
	if err != nil {
		return nil, err
	}
	out.CollegeStats = make([]ports.CollegeSummary, 0, len(colleges))
	for _, c := range colleges {
		summary := ports.CollegeSummary{ID: c.ID, Name: c.Name, Code: c.Code}
		if summary.TotalCourses, err = s.courses.Count(ctx, ports.CourseFilter{CollegeID: c.ID}); err != nil {
			return nil, err
		}
		if summary.TotalUsers, err = s.users.Count(ctx, ports.UserFilter{CollegeID: c.ID}); err != nil {
			return nil, err
		}
		out.CollegeStats = append(out.CollegeStats, summary)
	}
	return out, nil
}

// ChangeRole sets another user's role. Targeting oneself is refused before
// the payload is even looked at.
func (s *AdminService) ChangeRole(ctx context.Context, actor *domain.User, id string, raw string) (*ports.UserView, error) {
	if actor.ID == id {
		return nil, domain.ErrSelfRoleChange
	}
	role, ok := domain.ParseRole(raw)
	if !ok {
		return nil, domain.ErrInvalidRole
	}
	if _, err := s.users.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionChangeRole, userRelation(actor, id)) {
		return nil, domain.ErrForbidden
	}
	updated, err := s.users.Update(ctx, id, domain.Patch{domain.UserFieldRole: role})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("actor_id", actor.ID).Str("user_id", id).Str("role", string(role)).Msg("role changed")
	return userView(ctx, s.colleges, updated)
}

// Bulk applies one operation to many users in a single store statement.
// There is no transaction; a failure may leave the set partially updated.
func (s *AdminService) Bulk(ctx context.Context, actor *domain.User, req ports.BulkRequest) (*ports.BulkResult, error) {
	if req.Operation == "" || req.UserIDs == nil {
		return nil, domain.ErrInvalidBulkRequest
	}
	if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionUpdate, domain.Relation{}) {
		return nil, domain.ErrForbidden
	}

	var (
		affected int64
		err      error
	)
	switch req.Operation {
	case ports.BulkUpdateStatus:
		status, ok := domain.ParseUserStatus(req.Status)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		affected, err = s.users.UpdateMany(ctx, req.UserIDs, domain.Patch{domain.UserFieldStatus: status})
	case ports.BulkAssignCollege:
		if req.CollegeID == "" {
			return nil, domain.ErrCollegeIDRequired
		}
		if _, err := s.colleges.FindByID(ctx, req.CollegeID); err != nil {
			return nil, err
		}
		affected, err = s.users.UpdateMany(ctx, req.UserIDs, domain.Patch{domain.UserFieldCollegeID: req.CollegeID})
	case ports.BulkDelete:
		for _, id := range req.UserIDs {
			if id == actor.ID {
				return nil, domain.ErrSelfDelete
			}
		}
		if !domain.Authorize(actor.Role, domain.ResourceUser, domain.ActionDelete, domain.Relation{}) {
			return nil, domain.ErrForbidden
		}
		affected, err = s.users.DeleteMany(ctx, req.UserIDs)
	default:
		return nil, domain.ErrInvalidOperation
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("actor_id", actor.ID).
		Str("operation", req.Operation).
		Int("requested", len(req.UserIDs)).
		Int64("affected", affected).
		Msg("bulk operation")
	return &ports.BulkResult{Operation: req.Operation, AffectedRows: affected, UserIDs: req.UserIDs}, nil
}

func (s *AdminService) SystemHealth(ctx context.Context) (*ports.SystemHealth, error) {
	connected := s.pinger != nil && s.pinger.Ping(ctx) == nil

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return &ports.SystemHealth{
		Database: ports.DatabaseHealth{Driver: s.driver, Connected: connected},
		Server: ports.ServerHealth{
			Uptime:     time.Since(s.startedAt).Seconds(),
			GoVersion:  runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			HeapAlloc:  mem.HeapAlloc,
			HeapSys:    mem.HeapSys,
			TotalAlloc: mem.TotalAlloc,
			NumGC:      mem.NumGC,
		},
		Timestamp: s.now().UTC(),
	}, nil
}
