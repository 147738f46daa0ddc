package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo adapts a *mongo.Collection to Collection.
type Mongo struct {
	col *mongo.Collection
}

func NewMongo(col *mongo.Collection) *Mongo {
	return &Mongo{col: col}
}

func (m *Mongo) Name() string { return m.col.Name() }

func (m *Mongo) FindOne(ctx context.Context, filter bson.M, out any) (bool, error) {
	err := m.col.FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: find one: %w", m.Name(), err)
	}
	return true, nil
}

func (m *Mongo) Find(ctx context.Context, filter bson.M, opts FindOptions, out any) error {
	fo := options.Find()
	if len(opts.Sort) > 0 {
		sort := bson.D{}
		for _, s := range opts.Sort {
			dir := 1
			if s.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: s.Field, Value: dir})
		}
		fo.SetSort(sort)
	}
	if opts.Skip > 0 {
		fo.SetSkip(opts.Skip)
	}
	if opts.Limit > 0 {
		fo.SetLimit(opts.Limit)
	}

	cur, err := m.col.Find(ctx, filter, fo)
	if err != nil {
		return fmt.Errorf("%s: find: %w", m.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("%s: decode cursor: %w", m.Name(), err)
	}
	return nil
}

func (m *Mongo) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, m.wrap("insert", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("%s: insert: unexpected _id type %T", m.Name(), res.InsertedID)
	}
	return id, nil
}

func (m *Mongo) FindOneAndUpdate(ctx context.Context, filter bson.M, update Update, out any) (bool, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := m.col.FindOneAndUpdate(ctx, filter, update.document(), opts).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, m.wrap("find and update", err)
	}
	return true, nil
}

// wrap adds the collection and operation to err, marking unique index
// violations with ErrDuplicate.
func (m *Mongo) wrap(op string, err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %s: %w: %w", m.Name(), op, ErrDuplicate, err)
	}
	return fmt.Errorf("%s: %s: %w", m.Name(), op, err)
}

func (m *Mongo) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	res, err := m.col.DeleteOne(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: delete: %w", m.Name(), err)
	}
	return res.DeletedCount, nil
}

func (m *Mongo) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	n, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", m.Name(), err)
	}
	return n, nil
}
