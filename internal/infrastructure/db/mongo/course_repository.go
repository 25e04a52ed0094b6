package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type CourseRepository struct {
	col         *mongo.Collection
	enrollments *mongo.Collection
	assignments *mongo.Collection
}

func NewCourseRepository(db *mongo.Database) *CourseRepository {
	return &CourseRepository{
		col:         db.Collection(collectionCourses),
		enrollments: db.Collection(collectionEnrollments),
		assignments: db.Collection(collectionAssignments),
	}
}

func courseQuery(f ports.CourseFilter) bson.M {
	q := bson.M{}
	if f.IDs != nil {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	if f.Code != "" {
		q["code"] = f.Code
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.Level != "" {
		q["level"] = string(f.Level)
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.CollegeID != "" {
		q["college_id"] = f.CollegeID
	}
	if f.LecturerID != "" {
		q["lecturer_id"] = f.LecturerID
	}
	searchAny(q, f.Search, "title", "code", "description")
	return q
}

func (r *CourseRepository) FindByID(ctx context.Context, id string) (*domain.Course, error) {
	return r.FindOne(ctx, ports.CourseFilter{IDs: []string{id}})
}

func (r *CourseRepository) FindOne(ctx context.Context, filter ports.CourseFilter) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Course
	if err := r.col.FindOne(ctx, courseQuery(filter)).Decode(&c); err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "find course")
	}
	return &c, nil
}

func (r *CourseRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Course, error) {
	if len(ids) == 0 {
		return []*domain.Course{}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.find(ctx, courseQuery(ports.CourseFilter{IDs: ids}), nil)
}

func (r *CourseRepository) List(ctx context.Context, filter ports.CourseFilter, page ports.Page) ([]*domain.Course, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := courseQuery(filter)
	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, translate(err, domain.ErrCourseNotFound, "count courses")
	}
	out, err := r.find(ctx, q, findOptions(page))
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *CourseRepository) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]*domain.Course, error) {
	var findOpts []*options.FindOptions
	if opts != nil {
		findOpts = append(findOpts, opts)
	}
	cur, err := r.col.Find(ctx, q, findOpts...)
	if err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "list courses")
	}
	out := []*domain.Course{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "decode courses")
	}
	return out, nil
}

func (r *CourseRepository) Count(ctx context.Context, filter ports.CourseFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, courseQuery(filter))
	if err != nil {
		return 0, translate(err, domain.ErrCourseNotFound, "count courses")
	}
	return n, nil
}

func (r *CourseRepository) Create(ctx context.Context, course *domain.Course) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, course); err != nil {
		return translate(err, domain.ErrCourseNotFound, "create course")
	}
	return nil
}

func (r *CourseRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.Course, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c domain.Course
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDoc(patch), opts).Decode(&c); err != nil {
		return nil, translate(err, domain.ErrCourseNotFound, "update course")
	}
	return &c, nil
}

// Delete removes the course, then its enrollments and assignments.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, domain.ErrCourseNotFound, "delete course")
	}
	if res.DeletedCount == 0 {
		return domain.ErrCourseNotFound
	}
	if _, err := r.enrollments.DeleteMany(ctx, bson.M{"course_id": id}); err != nil {
		return translate(err, domain.ErrCourseNotFound, "delete course enrollments")
	}
	if _, err := r.assignments.DeleteMany(ctx, bson.M{"course_id": id}); err != nil {
		return translate(err, domain.ErrCourseNotFound, "delete course assignments")
	}
	return nil
}
