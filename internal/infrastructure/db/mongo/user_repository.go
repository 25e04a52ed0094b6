package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

type UserRepository struct {
	col         *mongo.Collection
	enrollments *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		col:         db.Collection(collectionUsers),
		enrollments: db.Collection(collectionEnrollments),
	}
}

func userQuery(f ports.UserFilter) bson.M {
	q := bson.M{}
	if f.IDs != nil {
		q["_id"] = bson.M{"$in": f.IDs}
	}
	if f.Email != "" {
		q["email"] = f.Email
	}
	if f.StudentID != "" {
		q["student_id"] = f.StudentID
	}
	switch {
	case f.Role != "":
		q["role"] = string(f.Role)
	case len(f.Roles) > 0:
		q["role"] = bson.M{"$in": strs(f.Roles)}
	}
	if f.Status != "" {
		q["status"] = string(f.Status)
	}
	if f.CollegeID != "" {
		q["college_id"] = f.CollegeID
	}
	created := bson.M{}
	if !f.CreatedFrom.IsZero() {
		created["$gte"] = f.CreatedFrom
	}
	if !f.CreatedBefore.IsZero() {
		created["$lt"] = f.CreatedBefore
	}
	if len(created) > 0 {
		q["created_at"] = created
	}
	if !f.LastLoginSince.IsZero() {
		q["last_login"] = bson.M{"$gte": f.LastLoginSince}
	}
	searchAny(q, f.Search, "first_name", "last_name", "email", "student_id")
	return q
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.FindOne(ctx, ports.UserFilter{IDs: []string{id}})
}

func (r *UserRepository) FindOne(ctx context.Context, filter ports.UserFilter) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var u domain.User
	if err := r.col.FindOne(ctx, userQuery(filter)).Decode(&u); err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "find user")
	}
	return &u, nil
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	users, _, err := r.list(ctx, ports.UserFilter{IDs: ids}, ports.Page{}, false)
	return users, err
}

func (r *UserRepository) List(ctx context.Context, filter ports.UserFilter, page ports.Page) ([]*domain.User, int64, error) {
	return r.list(ctx, filter, page, true)
}

func (r *UserRepository) list(ctx context.Context, filter ports.UserFilter, page ports.Page, count bool) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	q := userQuery(filter)
	var total int64
	if count {
		n, err := r.col.CountDocuments(ctx, q)
		if err != nil {
			return nil, 0, translate(err, domain.ErrUserNotFound, "count users")
		}
		total = n
	}
	cur, err := r.col.Find(ctx, q, findOptions(page))
	if err != nil {
		return nil, 0, translate(err, domain.ErrUserNotFound, "list users")
	}
	users := []*domain.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, translate(err, domain.ErrUserNotFound, "decode users")
	}
	return users, total, nil
}

func (r *UserRepository) Count(ctx context.Context, filter ports.UserFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, userQuery(filter))
	if err != nil {
		return 0, translate(err, domain.ErrUserNotFound, "count users")
	}
	return n, nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, user); err != nil {
		return translate(err, domain.ErrUserNotFound, "create user")
	}
	return nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch domain.Patch) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var u domain.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, updateDoc(patch), opts).Decode(&u); err != nil {
		return nil, translate(err, domain.ErrUserNotFound, "update user")
	}
	return &u, nil
}

// Delete removes the user, then their enrollments. The two writes are not
// atomic; standalone servers have no multi-document transactions.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err, domain.ErrUserNotFound, "delete user")
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	if _, err := r.enrollments.DeleteMany(ctx, bson.M{"user_id": id}); err != nil {
		return translate(err, domain.ErrUserNotFound, "delete user enrollments")
	}
	return nil
}

func (r *UserRepository) UpdateMany(ctx context.Context, ids []string, patch domain.Patch) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateMany(ctx, bson.M{"_id": bson.M{"$in": ids}}, updateDoc(patch))
	if err != nil {
		return 0, translate(err, domain.ErrUserNotFound, "update users")
	}
	return res.MatchedCount, nil
}

// DeleteMany removes the users, then their enrollments, like Delete.
func (r *UserRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, translate(err, domain.ErrUserNotFound, "delete users")
	}
	if _, err := r.enrollments.DeleteMany(ctx, bson.M{"user_id": bson.M{"$in": ids}}); err != nil {
		return 0, translate(err, domain.ErrUserNotFound, "delete users enrollments")
	}
	return res.DeletedCount, nil
}
