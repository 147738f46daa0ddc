package docstore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// Instrumented records Prometheus timings around every call of the wrapped
// Collection.
type Instrumented struct {
	next Collection
}

func Instrument(c Collection) *Instrumented {
	return &Instrumented{next: c}
}

func (i *Instrumented) Name() string { return i.next.Name() }

func (i *Instrumented) observe(op string, start time.Time, err error) {
	metrics.ObserveDBOperation(i.next.Name(), op, start, err)
}

func (i *Instrumented) FindOne(ctx context.Context, filter bson.M, out any) (found bool, err error) {
	defer func(start time.Time) { i.observe("find_one", start, err) }(time.Now())
	return i.next.FindOne(ctx, filter, out)
}

func (i *Instrumented) Find(ctx context.Context, filter bson.M, opts FindOptions, out any) (err error) {
	defer func(start time.Time) { i.observe("find", start, err) }(time.Now())
	return i.next.Find(ctx, filter, opts, out)
}

func (i *Instrumented) InsertOne(ctx context.Context, doc any) (id primitive.ObjectID, err error) {
	defer func(start time.Time) { i.observe("insert", start, err) }(time.Now())
	return i.next.InsertOne(ctx, doc)
}

func (i *Instrumented) FindOneAndUpdate(ctx context.Context, filter bson.M, update Update, out any) (found bool, err error) {
	defer func(start time.Time) { i.observe("find_and_update", start, err) }(time.Now())
	return i.next.FindOneAndUpdate(ctx, filter, update, out)
}

func (i *Instrumented) DeleteOne(ctx context.Context, filter bson.M) (n int64, err error) {
	defer func(start time.Time) { i.observe("delete", start, err) }(time.Now())
	return i.next.DeleteOne(ctx, filter)
}

func (i *Instrumented) CountDocuments(ctx context.Context, filter bson.M) (n int64, err error) {
	defer func(start time.Time) { i.observe("count", start, err) }(time.Now())
	return i.next.CountDocuments(ctx, filter)
}
