package sql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type CollegeRepository struct {
	db *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{db: db}
}

func (r *CollegeRepository) scope(ctx context.Context, f ports.CollegeFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&collegeRow{})
	if f.Code != "" {
		q = q.Where("code = ?", f.Code)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	return search(q, f.Search, "name", "code", "description")
}

func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*domain.College, error) {
	var row collegeRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find college")
	}
	return row.toDomain(), nil
}

func (r *CollegeRepository) FindOne(ctx context.Context, filter ports.CollegeFilter) (*domain.College, error) {
	var row collegeRow
	if err := r.scope(ctx, filter).Order("created_at").First(&row).Error; err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find college")
	}
	return row.toDomain(), nil
}

func (r *CollegeRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.College, error) {
	if len(ids) == 0 {
		return []*domain.College{}, nil
	}
	var rows []collegeRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find colleges")
	}
	return collegesFromRows(rows), nil
}

func (r *CollegeRepository) List(ctx context.Context, filter ports.CollegeFilter, page ports.Page) ([]*domain.College, int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err, domain.ErrCollegeNotFound, "count colleges")
	}
	var rows []collegeRow
	if err := paginate(r.scope(ctx, filter), page).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, domain.ErrCollegeNotFound, "list colleges")
	}
	return collegesFromRows(rows), total, nil
}

func (r *CollegeRepository) Count(ctx context.Context, filter ports.CollegeFilter) (int64, error) {
	var n int64
	if err := r.scope(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, domain.ErrCollegeNotFound, "count colleges")
	}
	return n, nil
}

func (r *CollegeRepository) Create(ctx context.Context, college *domain.College) error {
	if err := r.db.WithContext(ctx).Create(toCollegeRow(college)).Error; err != nil {
		return translate(err, domain.ErrCollegeNotFound, "create college")
	}
	return nil
}

func (r *CollegeRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.College, error) {
	res := r.db.WithContext(ctx).Model(&collegeRow{}).Where("id = ?", id).Updates(columns(patch))
	if res.Error != nil {
		return nil, translate(res.Error, domain.ErrCollegeNotFound, "update college")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrCollegeNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&collegeRow{}, "id = ?", id)
	if res.Error != nil {
		return translate(res.Error, domain.ErrCollegeNotFound, "delete college")
	}
	if res.RowsAffected == 0 {
		return domain.ErrCollegeNotFound
	}
	return nil
}

func collegesFromRows(rows []collegeRow) []*domain.College {
	out := make([]*domain.College, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
