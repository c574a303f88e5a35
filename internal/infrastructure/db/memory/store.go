// Package memory provides a process-local ports.Store used by tests and by
// the STORE=memory development mode. Documents are kept in their BSON form so
// field names, omitempty and ObjectID generation behave as they do in MongoDB.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/storefront/storefront-api/internal/core/ports"
)

// Store keeps documents in insertion order.
type Store[T any] struct {
	mu     sync.RWMutex
	docs   []bson.M
	unique []string
}

// NewStore returns an empty Store. Writes that would duplicate a value of any
// unique field fail with ports.ErrDuplicate, mirroring a unique index.
func NewStore[T any](unique ...string) *Store[T] {
	return &Store[T]{unique: unique}
}

func (s *Store[T]) FindMany(_ context.Context, f ports.Filter, p ports.Page) ([]T, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	equals := make(map[string]any, len(f.Equals))
	for k, v := range f.Equals {
		nv, err := normalize(v)
		if err != nil {
			return nil, 0, err
		}
		equals[k] = nv
	}

	var matched []bson.M
	for _, doc := range s.docs {
		if matches(doc, equals, f) {
			matched = append(matched, doc)
		}
	}
	total := int64(len(matched))

	if p.Offset > 0 {
		if p.Offset >= total {
			matched = nil
		} else {
			matched = matched[p.Offset:]
		}
	}
	if p.Limit > 0 && int64(len(matched)) > p.Limit {
		matched = matched[:p.Limit]
	}

	items := make([]T, 0, len(matched))
	for _, doc := range matched {
		item, err := decode[T](doc)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (s *Store[T]) FindByID(_ context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		var zero T
		return zero, false, nil
	}
	item, err := decode[T](s.docs[i])
	return item, err == nil, err
}

func (s *Store[T]) FindByField(_ context.Context, field string, value any) (T, bool, error) {
	var zero T
	want, err := normalize(value)
	if err != nil {
		return zero, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, doc := range s.docs {
		if reflect.DeepEqual(doc[field], want) {
			item, err := decode[T](doc)
			return item, err == nil, err
		}
	}
	return zero, false, nil
}

func (s *Store[T]) Insert(_ context.Context, item T) (T, error) {
	var zero T
	doc, err := encode(item)
	if err != nil {
		return zero, err
	}
	if oid, ok := doc["_id"].(primitive.ObjectID); !ok || oid.IsZero() {
		doc["_id"] = primitive.NewObjectID()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(doc, -1) {
		return zero, ports.ErrDuplicate
	}
	s.docs = append(s.docs, doc)
	return decode[T](doc)
}

func (s *Store[T]) UpdateByID(_ context.Context, id string, fields ports.Fields) (T, bool, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, false, nil
	}

	updated := make(bson.M, len(s.docs[i])+len(fields))
	for k, v := range s.docs[i] {
		updated[k] = v
	}
	for k, v := range fields {
		nv, err := normalize(v)
		if err != nil {
			return zero, false, err
		}
		updated[k] = nv
	}

	if s.conflicts(updated, i) {
		return zero, false, ports.ErrDuplicate
	}
	s.docs[i] = updated
	item, err := decode[T](updated)
	return item, err == nil, err
}

func (s *Store[T]) DeleteByID(_ context.Context, id string) (T, bool, error) {
	var zero T

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return zero, false, nil
	}
	doc := s.docs[i]
	s.docs = append(s.docs[:i], s.docs[i+1:]...)
	item, err := decode[T](doc)
	return item, err == nil, err
}

// Len reports the number of stored documents.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

func (s *Store[T]) indexOf(id string) int {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1
	}
	for i, doc := range s.docs {
		if doc["_id"] == oid {
			return i
		}
	}
	return -1
}

// conflicts reports whether doc repeats a unique value held by any document
// other than the one at skip.
func (s *Store[T]) conflicts(doc bson.M, skip int) bool {
	for _, field := range s.unique {
		v, ok := doc[field]
		if !ok {
			continue
		}
		for i, other := range s.docs {
			if i != skip && reflect.DeepEqual(other[field], v) {
				return true
			}
		}
	}
	return false
}

func matches(doc bson.M, equals map[string]any, f ports.Filter) bool {
	for k, v := range equals {
		if !reflect.DeepEqual(doc[k], v) {
			return false
		}
	}
	for k, sub := range f.Contains {
		if sub == "" {
			continue
		}
		s, ok := doc[k].(string)
		if !ok || !strings.Contains(strings.ToLower(s), strings.ToLower(sub)) {
			return false
		}
	}
	for k, r := range f.Ranges {
		n, ok := number(doc[k])
		if !ok {
			return false
		}
		if r.Min != nil && n < *r.Min {
			return false
		}
		if r.Max != nil && n > *r.Max {
			return false
		}
	}
	return true
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func encode(item any) (bson.M, error) {
	raw, err := bson.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("memory: encode: %w", err)
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("memory: encode: %w", err)
	}
	return doc, nil
}

func decode[T any](doc bson.M) (T, error) {
	var out T
	raw, err := bson.Marshal(doc)
	if err != nil {
		return out, fmt.Errorf("memory: decode: %w", err)
	}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("memory: decode: %w", err)
	}
	return out, nil
}

// normalize passes v through BSON so it compares equal to stored values
// (ints become int32/int64, times become primitive.DateTime, and so on).
func normalize(v any) (any, error) {
	doc, err := encode(bson.M{"v": v})
	if err != nil {
		return nil, err
	}
	return doc["v"], nil
}
