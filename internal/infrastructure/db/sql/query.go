package sql

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// nullableColumns hold optional references; an empty value clears them.
var nullableColumns = map[string]bool{
	domain.UserFieldStudentID:    true,
	domain.UserFieldCollegeID:    true,
	domain.CourseFieldLecturerID: true,
}

// columns turns a patch into a GORM update map and stamps updated_at.
func columns(patch domain.Patch) map[string]any {
	out := make(map[string]any, len(patch)+1)
	for k, v := range patch {
		switch t := v.(type) {
		case domain.Role:
			v = string(t)
		case domain.UserStatus:
			v = string(t)
		case domain.CourseStatus:
			v = string(t)
		case domain.CourseLevel:
			v = string(t)
		case domain.CollegeStatus:
			v = string(t)
		}
		if s, ok := v.(string); ok && s == "" && nullableColumns[k] {
			v = nil
		}
		out[k] = v
	}
	out["updated_at"] = time.Now().UTC()
	return out
}

// paginate applies ordering, with id as the tie breaker, and the page window.
func paginate(q *gorm.DB, page ports.Page) *gorm.DB {
	for _, s := range page.Sort {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Field}, Desc: s.Desc})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	if page.Limit > 0 {
		q = q.Limit(page.Limit).Offset(page.Offset())
	}
	return q
}

// search ORs a case-insensitive substring match over cols.
func search(q *gorm.DB, term string, cols ...string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" {
		return q
	}
	pattern := "%" + strings.ToLower(term) + "%"
	parts := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		parts[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

func strs[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
