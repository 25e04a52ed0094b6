package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type CollegeRepository struct {
	col *mongo.Collection
}

func NewCollegeRepository(db *mongo.Database) *CollegeRepository {
	return &CollegeRepository{col: db.Collection(collectionColleges)}
}

func collegeQuery(f ports.CollegeFilter) bson.M {
	q := bson.M{}
	if f.Code != "" {
		q["code"] = f.Code
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	searchAny(q, f.Search, "name", "code", "description")
	return q
}

func (r *CollegeRepository) FindByID(ctx context.Context, id string) (*domain.College, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.College
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find college")
	}
	return &c, nil
}

func (r *CollegeRepository) FindOne(ctx context.Context, filter ports.CollegeFilter) (*domain.College, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.College
	if err := r.col.FindOne(ctx, collegeQuery(filter)).Decode(&c); err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find college")
	}
	return &c, nil
}

func (r *CollegeRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.College, error) {
	out := []*domain.College{}
	if len(ids) == 0 {
		return out, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "find colleges")
	}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "decode colleges")
	}
	return out, nil
}

func (r *CollegeRepository) List(ctx context.Context, filter ports.CollegeFilter, page ports.Page) ([]*domain.College, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := collegeQuery(filter)
	total, err := r.col.CountDocuments(ctx, q)
	if err != nil {
		return nil, 0, translate(err, domain.ErrCollegeNotFound, "count colleges")
	}
	cur, err := r.col.Find(ctx, q, findOptions(page))
	if err != nil {
		return nil, 0, translate(err, domain.ErrCollegeNotFound, "list colleges")
	}
	out := []*domain.College{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, translate(err, domain.ErrCollegeNotFound, "decode colleges")
	}
	return out, total, nil
}

func (r *CollegeRepository) Count(ctx context.Context, filter ports.CollegeFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, collegeQuery(filter))
	if err != nil {
		return 0, translate(err, domain.ErrCollegeNotFound, "count colleges")
	}
	return n, nil
}

func (r *CollegeRepository) Create(ctx context.Context, college *domain.College) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, college); err != nil {
		return translate(err, domain.ErrCollegeNotFound, "create college")
	}
	return nil
}

func (r *CollegeRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.College, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c domain.College
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDoc(patch), opts).Decode(&c); err != nil {
		return nil, translate(err, domain.ErrCollegeNotFound, "update college")
	}
	return &c, nil
}

func (r *CollegeRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, domain.ErrCollegeNotFound, "delete college")
	}
	if res.DeletedCount == 0 {
		return domain.ErrCollegeNotFound
	}
	return nil
}
