package sql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) scope(ctx context.Context, f ports.CourseFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&courseRow{})
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Code != "" {
		q = q.Where("code = ?", f.Code)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Level != "" {
		q = q.Where("level = ?", string(f.Level))
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.CollegeID != "" {
		q = q.Where("college_id = ?", f.CollegeID)
	}
	if f.LecturerID != "" {
		q = q.Where("lecturer_id = ?", f.LecturerID)
	}
	return search(q, f.Search, "title", "code", "description")
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	var row courseRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "find course")
	}
	return row.toDomain(), nil
}

func (r *CourseRepository) FindOne(ctx context.Context, filter ports.CourseFilter) (*domain.Course, error) {
	var row courseRow
	if err := r.scope(ctx, filter).Order("created_at").First(&row).Error; err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "find course")
	}
	return row.toDomain(), nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error) {
	if len(ids) == 0 {
		return []*domain.Course{}, nil
	}
	var rows []courseRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "find courses")
	}
	return coursesFromRows(rows), nil
}

func (r *CourseRepository) List(ctx context.Context, filter ports.CourseFilter, page ports.Page) ([]*domain.Course, int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err, domain.ErrCourseNotFound, "count courses")
	}
	var rows []courseRow
	if err := paginate(r.scope(ctx, filter), page).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, domain.ErrCourseNotFound, "list courses")
	}
	return coursesFromRows(rows), total, nil
}

func (r *CourseRepository) Count(ctx context.Context, filter ports.CourseFilter) (int64, error) {
	var n int64
	if err := r.scope(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, domain.ErrCourseNotFound, "count courses")
	}
	return n, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	if err := r.db.WithContext(ctx).Create(toCourseRow(course)).Error; err != nil {
		return translate(err, domain.ErrCourseNotFound, "create course")
	}
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Course, error) {
	res := r.db.WithContext(ctx).Model(&courseRow{}).Where("id = ?", id).Updates(columns(patch))
	if res.Error != nil {
		return nil, translate(res.Error, domain.ErrCourseNotFound, "update course")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCourseNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the course along with its enrollments and assignments.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&courseRow{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, domain.ErrCourseNotFound, "delete course")
		}
		if res.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		if err := tx.Delete(&enrollmentRow{}, "course_id = ?", id).Error; err != nil {
			return translate(err, domain.ErrCourseNotFound, "delete course enrollments")
		}
		if err := tx.Delete(&assignmentRow{}, "course_id = ?", id).Error; err != nil {
			return translate(err, domain.ErrCourseNotFound, "delete course assignments")
		}
		return nil
	})
}

func coursesFromRows(rows []courseRow) []*domain.Course {
	out := make([]*domain.Course, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
