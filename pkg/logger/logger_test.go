package logger_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/catalog/pkg/logger"
)

type fakeInserter struct {
	mu   sync.Mutex
	docs []logger.LogDocument
}

func (f *fakeInserter) InsertMany(_ context.Context, docs []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(logger.LogDocument))
	}
	return &mongo.InsertManyResult{}, nil
}

func (f *fakeInserter) all() []logger.LogDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]logger.LogDocument(nil), f.docs...)
}

func TestMongoHandler_FlushOnClose(t *testing.T) {
	ins := &fakeInserter{}
	h := logger.NewMongoHandler(ins, slog.LevelInfo)

	log := slog.New(h).With("request_id", "rid-1")
	log.Debug("dropped by level")
	log.Info("product created", "id", "abc")
	log.WithGroup("db").Warn("slow query", "ms", 120)

	h.Close()
	h.Close()

	docs := ins.all()
	require.Len(t, docs, 2)
	assert.Equal(t, "product created", docs[0].Msg)
	assert.Equal(t, "rid-1", docs[0].RequestID)
	assert.Equal(t, "abc", docs[0].Attrs["id"])
	assert.Equal(t, "WARN", docs[1].Level)
	assert.Contains(t, docs[1].Attrs, "db.ms")
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := logger.NewMultiHandler(
		slog.NewTextHandler(&a, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&b, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	log := slog.New(h).With("request_id", "r")

	log.Info("hello")
	log.Error("boom")

	assert.Contains(t, a.String(), "hello")
	assert.Contains(t, a.String(), "boom")
	assert.NotContains(t, b.String(), "hello")
	assert.Contains(t, b.String(), "request_id=r")
}

func TestWithCtx(t *testing.T) {
	assert.Same(t, logger.L, logger.WithCtx(context.Background()))

	var buf bytes.Buffer
	reqLog := slog.New(slog.NewTextHandler(&buf, nil)).With("request_id", "xyz")
	ctx := logger.InjectLogger(context.Background(), reqLog)

	logger.WithCtx(ctx).Info("tagged")
	assert.Contains(t, buf.String(), "request_id=xyz")
}
