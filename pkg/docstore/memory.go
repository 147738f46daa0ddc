package docstore

import (
	"bytes"
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Collection. Documents round-trip through BSON on
// every write and read, so struct tags behave as they do against MongoDB.
// Results come back in insertion order unless sorted.
type Memory struct {
	name   string
	unique []string

	mu   sync.RWMutex
	docs []bson.M
}

func NewMemory(name string) *Memory {
	return &Memory{name: name}
}

// Unique makes writes that repeat a stored value of any of fields fail with
// ErrDuplicate, as a sparse unique index would. Documents without the field
// are not checked. Call it before the first write.
func (m *Memory) Unique(fields ...string) *Memory {
	m.unique = append(m.unique, fields...)
	return m
}

func (m *Memory) Name() string { return m.name }

func (m *Memory) FindOne(ctx context.Context, filter bson.M, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.first(filter)
	if err != nil || idx < 0 {
		return false, err
	}
	return true, decode(m.docs[idx], out)
}

func (m *Memory) Find(ctx context.Context, filter bson.M, opts FindOptions, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("%s: find: out must be a pointer to a slice, got %T", m.name, out)
	}

	m.mu.RLock()
	matched, err := m.filter(filter)
	m.mu.RUnlock()
	if err != nil {
		return err
	}

	if len(opts.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			for _, s := range opts.Sort {
				c := order(matched[i][s.Field], matched[j][s.Field])
				if c == 0 {
					continue
				}
				if s.Desc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	slice := rv.Elem()
	res := reflect.MakeSlice(slice.Type(), 0, len(matched))
	for _, doc := range matched {
		elem := reflect.New(slice.Type().Elem())
		if err := decode(doc, elem.Interface()); err != nil {
			return err
		}
		res = reflect.Append(res, elem.Elem())
	}
	slice.Set(res)
	return nil
}

func (m *Memory) InsertOne(ctx context.Context, doc any) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}

	d, err := normalize(doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: insert: %w", m.name, err)
	}

	id, ok := d["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		d["_id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if idx, _ := m.first(ByID(id)); idx >= 0 {
		return primitive.NilObjectID, fmt.Errorf("%s: insert %s: _id: %w", m.name, id.Hex(), ErrDuplicate)
	}
	if field, dup := m.conflict(d, -1); dup {
		return primitive.NilObjectID, fmt.Errorf("%s: insert %s: %s: %w", m.name, id.Hex(), field, ErrDuplicate)
	}
	m.docs = append(m.docs, d)
	return id, nil
}

func (m *Memory) FindOneAndUpdate(ctx context.Context, filter bson.M, update Update, out any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.apply(filter, update)
	if err != nil || idx < 0 {
		return false, err
	}
	return true, decode(m.docs[idx], out)
}

func (m *Memory) DeleteOne(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.first(filter)
	if err != nil || idx < 0 {
		return 0, err
	}
	m.docs = append(m.docs[:idx], m.docs[idx+1:]...)
	return 1, nil
}

func (m *Memory) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched, err := m.filter(filter)
	return int64(len(matched)), err
}

// apply updates the first match in place. Caller holds the write lock.
func (m *Memory) apply(filter bson.M, update Update) (int, error) {
	idx, err := m.first(filter)
	if err != nil || idx < 0 {
		return idx, err
	}
	fields := bson.M{}
	if len(update.Set) > 0 {
		if fields, err = normalize(update.Set); err != nil {
			return -1, fmt.Errorf("%s: update: %w", m.name, err)
		}
	}

	updated := make(bson.M, len(m.docs[idx])+len(fields))
	for k, v := range m.docs[idx] {
		updated[k] = v
	}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		updated[k] = v
	}
	for _, k := range update.Unset {
		if k != "_id" {
			delete(updated, k)
		}
	}
	if field, dup := m.conflict(updated, idx); dup {
		return -1, fmt.Errorf("%s: update: %s: %w", m.name, field, ErrDuplicate)
	}
	m.docs[idx] = updated
	return idx, nil
}

// conflict reports the first unique field whose value in doc is already
// held by a stored document other than the one at skip.
func (m *Memory) conflict(doc bson.M, skip int) (string, bool) {
	for _, field := range m.unique {
		v, ok := doc[field]
		if !ok || v == nil {
			continue
		}
		for i, other := range m.docs {
			if i == skip {
				continue
			}
			if ov, ok := other[field]; ok && ov != nil && equal(ov, v) {
				return field, true
			}
		}
	}
	return "", false
}

func (m *Memory) first(filter bson.M) (int, error) {
	for i, doc := range m.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

func (m *Memory) filter(filter bson.M) ([]bson.M, error) {
	var out []bson.M
	for _, doc := range m.docs {
		ok, err := matches(doc, filter)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// ─── BSON round-trips ─────────────────────────────────────────────────────────

func normalize(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out bson.M
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func decode(doc bson.M, out any) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// ─── Filter evaluation ────────────────────────────────────────────────────────

func matches(doc bson.M, filter bson.M) (bool, error) {
	for field, cond := range filter {
		val, present := doc[field]

		ops, isOps := operators(cond)
		if !isOps {
			if !present || !equal(val, cond) {
				return false, nil
			}
			continue
		}

		for op, arg := range ops {
			ok, err := evalOp(op, val, present, arg)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
	}
	return true, nil
}

// operators returns cond as an operator document when every key starts with $.
func operators(cond any) (map[string]any, bool) {
	var m map[string]any
	switch c := cond.(type) {
	case bson.M:
		m = c
	case map[string]any:
		m = c
	default:
		return nil, false
	}
	if len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

func evalOp(op string, val any, present bool, arg any) (bool, error) {
	switch op {
	case "$eq":
		return present && equal(val, arg), nil
	case "$ne":
		return !present || !equal(val, arg), nil
	case "$in":
		rv := reflect.ValueOf(arg)
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return false, fmt.Errorf("%w: $in needs an array", ErrUnsupportedFilter)
		}
		for i := 0; i < rv.Len(); i++ {
			if present && equal(val, rv.Index(i).Interface()) {
				return true, nil
			}
		}
		return false, nil
	case "$gt", "$gte", "$lt", "$lte":
		if !present {
			return false, nil
		}
		c, ok := compare(val, arg)
		if !ok {
			return false, nil
		}
		switch op {
		case "$gt":
			return c > 0, nil
		case "$gte":
			return c >= 0, nil
		case "$lt":
			return c < 0, nil
		default:
			return c <= 0, nil
		}
	}
	return false, fmt.Errorf("%w: %s", ErrUnsupportedFilter, op)
}

func equal(a, b any) bool {
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two scalar values of compatible kinds.
func compare(a, b any) (int, bool) {
	if fa, ok := number(a); ok {
		fb, ok := number(b)
		if !ok {
			return 0, false
		}
		switch {
		case fa < fb:
			return -1, true
		case fa > fb:
			return 1, true
		}
		return 0, true
	}

	switch x := a.(type) {
	case string:
		y, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(x, y), true
	case primitive.ObjectID:
		y, ok := b.(primitive.ObjectID)
		if !ok {
			return 0, false
		}
		return bytes.Compare(x[:], y[:]), true
	case bool:
		y, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case primitive.DateTime, time.Time:
		ta, _ := instant(x)
		tb, ok := instant(b)
		if !ok {
			return 0, false
		}
		return ta.Compare(tb), true
	}
	return 0, false
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func instant(v any) (time.Time, bool) {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time(), true
	case time.Time:
		return t, true
	}
	return time.Time{}, false
}

// order sorts like MongoDB for the cases the repositories produce: missing
// and null values first, then comparable values, then by type rank.
func order(a, b any) int {
	if c, ok := compare(a, b); ok {
		return c
	}
	return rank(a) - rank(b)
}

func rank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case bson.M, bson.D:
		return 3
	case primitive.A:
		return 4
	case primitive.ObjectID:
		return 6
	case bool:
		return 7
	case primitive.DateTime, time.Time:
		return 8
	}
	return 9
}
