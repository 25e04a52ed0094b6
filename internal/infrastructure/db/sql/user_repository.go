package sql

import (
	"context"

	"gorm.io/gorm"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) scope(ctx context.Context, f ports.UserFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&userRow{})
	if f.IDs != nil {
		q = q.Where("id IN ?", f.IDs)
	}
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.StudentID != "" {
		q = q.Where("student_id = ?", f.StudentID)
	}
	if f.Role != "" {
		q = q.Where("role = ?", string(f.Role))
	}
	if len(f.Roles) > 0 {
		q = q.Where("role IN ?", strs(f.Roles))
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.CollegeID != "" {
		q = q.Where("college_id = ?", f.CollegeID)
	}
	if !f.CreatedFrom.IsZero() {
		q = q.Where("created_at >= ?", f.CreatedFrom)
	}
	if !f.CreatedBefore.IsZero() {
		q = q.Where("created_at < ?", f.CreatedBefore)
	}
	if !f.LastLoginSince.IsZero() {
		q = q.Where("last_login >= ?", f.LastLoginSince)
	}
	return search(q, f.Search, "first_name", "last_name", "email", "student_id")
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var row userRow
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "find user")
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindOne(ctx context.Context, filter ports.UserFilter) (*domain.User, error) {
	var row userRow
	if err := r.scope(ctx, filter).Order("created_at").First(&row).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "find user")
	}
	return row.toDomain(), nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	var rows []userRow
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "find users")
	}
	return usersFromRows(rows), nil
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter, page ports.Page) ([]*domain.User, int64, error) {
	var total int64
	if err := r.scope(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, translate(err, domain.ErrUserNotFound, "count users")
	}
	var rows []userRow
	if err := paginate(r.scope(ctx, filter), page).Find(&rows).Error; err != nil {
		return nil, 0, translate(err, domain.ErrUserNotFound, "list users")
	}
	return usersFromRows(rows), total, nil
}

func (r *UserRepository) Count(ctx context.Context, filter ports.UserFilter) (int64, error) {
	var n int64
	if err := r.scope(ctx, filter).Count(&n).Error; err != nil {
		return 0, translate(err, domain.ErrUserNotFound, "count users")
	}
	return n, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(toUserRow(user)).Error; err != nil {
		return translate(err, domain.ErrUserNotFound, "create user")
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id = ?", id).Updates(columns(patch))
	if res.Error != nil {
		return nil, translate(res.Error, domain.ErrUserNotFound, "update user")
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.FindByID(ctx, id)
}

// Delete removes the user together with their enrollments.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&userRow{}, "id = ?", id)
		if res.Error != nil {
			return translate(res.Error, domain.ErrUserNotFound, "delete user")
		}
		if res.RowsAffected == 0 {
			return domain.ErrUserNotFound
		}
		if err := tx.Delete(&enrollmentRow{}, "user_id = ?", id).Error; err != nil {
			return translate(err, domain.ErrUserNotFound, "delete user enrollments")
		}
		return nil
	})
}

func (r *UserRepository) UpdateMany(ctx context.Context, ids []string, patch domain.Patch) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Model(&userRow{}).Where("id IN ?", ids).Updates(columns(patch))
	if res.Error != nil {
		return 0, translate(res.Error, domain.ErrUserNotFound, "update users")
	}
	return res.RowsAffected, nil
}

// DeleteMany removes the users and their enrollments in one transaction.
func (r *UserRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&userRow{}, "id IN ?", ids)
		if res.Error != nil {
			return translate(res.Error, domain.ErrUserNotFound, "delete users")
		}
		deleted = res.RowsAffected
		if err := tx.Delete(&enrollmentRow{}, "user_id IN ?", ids).Error; err != nil {
			return translate(err, domain.ErrUserNotFound, "delete users enrollments")
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

func usersFromRows(rows []userRow) []*domain.User {
	out := make([]*domain.User, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}
	return out
}
