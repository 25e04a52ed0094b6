package mongo

import (
	"context"
	"sort"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type EnrollmentRepository struct {
	col *mongo.Collection
}

func NewEnrollmentRepository(db *mongo.Database) *EnrollmentRepository {
	return &EnrollmentRepository{col: db.Collection(collectionEnrollments)}
}

func enrollmentQuery(f ports.EnrollmentFilter) bson.M {
	q := bson.M{}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	switch {
	case f.CourseID != "":
		q["course_id"] = f.CourseID
	case f.CourseIDs != nil:
		q["course_id"] = bson.M{"$in": f.CourseIDs}
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	return q
}

func (r *EnrollmentRepository) FindOne(ctx context.Context, filter ports.EnrollmentFilter) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var e domain.Enrollment
	if err := r.col.FindOne(ctx, enrollmentQuery(filter)).Decode(&e); err != nil {
		return nil, translate(err, domain.ErrEnrollmentNotFound, "find enrollment")
	}
	return &e, nil
}

func (r *EnrollmentRepository) List(ctx context.Context, filter ports.EnrollmentFilter, page ports.Page) ([]*domain.Enrollment, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := enrollmentQuery(filter)
	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, translate(err, domain.ErrEnrollmentNotFound, "count enrollments")
	}
	cur, err := r.col.Find(ctx, q, findOptions(page))
	if err != nil {
		return nil, 0, translate(err, domain.ErrEnrollmentNotFound, "list enrollments")
	}
	out := []*domain.Enrollment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, translate(err, domain.ErrEnrollmentNotFound, "decode enrollments")
	}
	return out, total, nil
}

func (r *EnrollmentRepository) Count(ctx context.Context, filter ports.EnrollmentFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, enrollmentQuery(filter))
	if err != nil {
		return 0, translate(err, domain.ErrEnrollmentNotFound, "count enrollments")
	}
	return n, nil
}

func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *domain.Enrollment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, enrollment); err != nil {
		return translate(err, domain.ErrEnrollmentNotFound, "create enrollment")
	}
	return nil
}

// topCoursesPipeline groups enrollments by course and keeps the largest groups.
func topCoursesPipeline(limit int) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$course_id"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}
}

func (r *EnrollmentRepository) TopCourses(ctx context.Context, limit int) ([]ports.CourseEnrollmentCount, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, topCoursesPipeline(limit))
	if err != nil {
		return nil, translate(err, domain.ErrEnrollmentNotFound, "rank courses")
	}
	var rows []struct {
		CourseID string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, translate(err, domain.ErrEnrollmentNotFound, "decode ranking")
	}
	out := make([]ports.CourseEnrollmentCount, len(rows))
	for i, row := range rows {
		out[i] = ports.CourseEnrollmentCount{CourseID: row.CourseID, Count: row.Count}
	}
	return out, nil
}

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

// List sorts by due date in memory: MongoDB orders missing dates first,
// and undated assignments belong last.
func (r *AssignmentRepository) List(ctx context.Context, filter ports.AssignmentFilter) ([]*domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := bson.M{}
	if filter.CourseID != "" {
		q["course_id"] = filter.CourseID
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "list assignments")
	}
	out := []*domain.Assignment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "decode assignments")
	}
	sortByDueDate(out)
	return out, nil
}

func sortByDueDate(list []*domain.Assignment) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i].DueDate, list[j].DueDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, assignment); err != nil {
		return translate(err, domain.ErrCourseNotFound, "create assignment")
	}
	return nil
}
