// Package docstore abstracts the subset of a document collection the
// repositories use. Mongo wraps a *mongo.Collection; Memory keeps BSON
// documents in process for tests and local runs.
//
// Filters are bson.M values restricted to what the repositories build:
// equality on a field (including _id) and the comparison operators
// $gt, $gte, $lt, $lte.
package docstore

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrUnsupportedFilter is returned by Memory for operators it does not
	// evaluate.
	ErrUnsupportedFilter = errors.New("docstore: unsupported filter operator")

	// ErrDuplicate is wrapped when a write would break a unique index.
	ErrDuplicate = errors.New("docstore: duplicate key")
)

// SortField orders results by Field; Desc flips the direction.
type SortField struct {
	Field string
	Desc  bool
}

// FindOptions controls Find. A zero Limit means no limit.
type FindOptions struct {
	Sort  []SortField
	Skip  int64
	Limit int64
}

// Update is one update document. Set fields are written with $set, Unset
// fields removed with $unset.
type Update struct {
	Set   bson.M
	Unset []string
}

// Set is an Update that only writes fields.
func Set(fields bson.M) Update {
	return Update{Set: fields}
}

func (u Update) document() bson.M {
	doc := bson.M{}
	if len(u.Set) > 0 {
		doc["$set"] = u.Set
	}
	if len(u.Unset) > 0 {
		unset := bson.M{}
		for _, f := range u.Unset {
			unset[f] = ""
		}
		doc["$unset"] = unset
	}
	return doc
}

// Collection is one named set of documents.
type Collection interface {
	// Name is the collection name, used for metrics and logs.
	Name() string

	// FindOne decodes the first match into out and reports whether one existed.
	FindOne(ctx context.Context, filter bson.M, out any) (bool, error)

	// Find decodes all matches into out, which must point to a slice.
	Find(ctx context.Context, filter bson.M, opts FindOptions, out any) error

	// InsertOne stores doc, assigning an ObjectID when it carries none. A
	// unique index violation wraps ErrDuplicate.
	InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error)

	// FindOneAndUpdate applies update to the first match and decodes the
	// updated document into out. It reports whether a document matched. A
	// unique index violation wraps ErrDuplicate.
	FindOneAndUpdate(ctx context.Context, filter bson.M, update Update, out any) (bool, error)

	// DeleteOne removes the first match and returns the deleted count.
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)

	// CountDocuments counts all matches.
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
}

// ByID is the filter matching a single document by _id.
func ByID(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id}
}
