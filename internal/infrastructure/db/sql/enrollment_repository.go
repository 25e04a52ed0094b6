package sql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type EnrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

func (r *EnrollmentRepository) scope(ctx context.Context, f ports.EnrollmentFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&enrollmentRow{})
	if f.UserID != "" {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.CourseID != "" {
		q = q.Where("course_id = ?", f.CourseID)
	}
	if f.CourseIDs != nil {
		q = q.Where("course_id IN ?", f.CourseIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return q
}

func (r *EnrollmentRepository) FindOne(ctx context.Context, filter ports.EnrollmentFilter) (*domain.Enrollment, error) {
	var row enrollmentRow
	if err := r.scope(ctx, filter).Order("enrollment_date").First(&row).Error; err != nil {
		return nil, translate(err, domain.ErrEnrollmentNotFound, "find enrollment")
	}
	return row.toDomain(), nil
}

func (r *EnrollmentRepository) List(ctx context.Context, filter ports.EnrollmentFilter, page ports.Page) ([]*domain.Enrollment, int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err, domain.ErrEnrollmentNotFound, "count enrollments")
	}
	var rows []enrollmentRow
	if err := paginate(r.scope(ctx, filter), page).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, domain.ErrEnrollmentNotFound, "list enrollments")
	}
	out := make([]*domain.Enrollment, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, total, nil
}

func (r *EnrollmentRepository) Count(ctx context.Context, filter ports.EnrollmentFilter) (int64, error) {
	var n int64
	if err := r.scope(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, domain.ErrEnrollmentNotFound, "count enrollments")
	}
	return n, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	if err := r.db.WithContext(ctx).Create(toEnrollmentRow(enrollment)).Error; err != nil {
		return translate(err, domain.ErrEnrollmentNotFound, "create enrollment")
	}
	return nil
}

func (r *EnrollmentRepository) TopCourses(ctx context.Context, limit int) ([]ports.CourseEnrollmentCount, error) {
	var out []ports.CourseEnrollmentCount
	err := r.db.WithContext(ctx).Model(&enrollmentRow{}).
		Select("course_id, COUNT(*) AS count").
		Group("course_id").
		Order("count DESC, course_id").
		Limit(limit).
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, domain.ErrEnrollmentNotFound, "rank courses")
	}
	return out, nil
}
