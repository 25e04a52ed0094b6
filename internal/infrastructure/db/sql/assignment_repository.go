package sql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// List orders by due date; undated assignments go last.
func (r *AssignmentRepository) List(ctx context.Context, filter ports.AssignmentFilter) ([]*domain.Assignment, error) {
	q := r.db.WithContext(ctx).Model(&assignmentRow{})
	if filter.CourseID != "" {
		q = q.Where("course_id = ?", filter.CourseID)
	}
	var rows []assignmentRow
	if err := q.Order("due_date IS NULL, due_date, created_at").Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "list assignments")
	}
	out := make([]*domain.Assignment, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out, nil
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	if err := r.db.WithContext(ctx).Create(toAssignmentRow(assignment)).Error; err != nil {
		return translate(err, domain.ErrCourseNotFound, "create assignment")
	}
	return nil
}
