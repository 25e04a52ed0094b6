package mongo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hbiu/lms-backend/internal/core/domain"
	"github.com/hbiu/lms-backend/internal/core/ports"
)

// optionalKeys are omitted from documents when empty, so a blank value in a
// patch unsets them instead of storing "".
var optionalKeys = map[string]bool{
	domain.UserFieldStudentID:    true,
	domain.UserFieldCollegeID:    true,
	domain.CourseFieldLecturerID: true,
}

// updateDoc converts a patch into a $set / $unset update and stamps updated_at.
func updateDoc(patch domain.Patch) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	for k, v := range patch {
		if s, ok := patch.String(k); ok && s == "" && optionalKeys[k] {
			unset[k] = ""
			continue
		}
		if t, ok := v.(*time.Time); ok && t == nil {
			unset[k] = ""
			continue
		}
		set[k] = v
	}
	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}

// findOptions maps a page onto sort, skip and limit; _id breaks ties.
func findOptions(page ports.Page) *options.FindOptions {
	sort := bson.D{}
	for _, s := range page.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: fieldKey(s.Field), Value: dir})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	opts := options.Find().SetSort(sort)
	if page.Limit > 0 {
		opts.SetLimit(int64(page.Limit)).SetSkip(int64(page.Offset()))
	}
	return opts
}

func fieldKey(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

// searchAny adds a case-insensitive substring match over keys.
func searchAny(filter bson.M, term string, keys ...string) {
	term = strings.TrimSpace(term)
	if term == "" {
		return
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, len(keys))
	for i, k := range keys {
		or[i] = bson.M{k: re}
	}
	filter["$or"] = or
}

// translate maps driver errors onto the entity's sentinels.
func translate(err error, notFound error, op string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return notFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicateDocument)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func strs[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}
