package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storefront/storefront-api/internal/core/ports"
)

// Store implements ports.Store for documents of type T in one collection.
type Store[T any] struct {
	col *mongo.Collection
}

// NewStore returns a Store backed by the named collection.
func NewStore[T any](db *mongo.Database, collection string) *Store[T] {
	return &Store[T]{col: db.Collection(collection)}
}

// FindMany returns one page of matching documents, ordered by _id, together
// with the total number of matches.
func (s *Store[T]) FindMany(ctx context.Context, f ports.Filter, p ports.Page) ([]T, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildQuery(f)

	total, err := s.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", s.col.Name(), err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if p.Offset > 0 {
		opts.SetSkip(p.Offset)
	}
	if p.Limit > 0 {
		opts.SetLimit(p.Limit)
	}

	cur, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find %s: %w", s.col.Name(), err)
	}

	items := make([]T, 0)
	if err := cur.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode %s: %w", s.col.Name(), err)
	}
	return items, total, nil
}

func (s *Store[T]) FindByID(ctx context.Context, id string) (T, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		var zero T
		return zero, false, nil
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

func (s *Store[T]) FindByField(ctx context.Context, field string, value any) (T, bool, error) {
	return s.findOne(ctx, bson.M{field: value})
}

// Insert stores item and reads it back so the generated _id is populated.
func (s *Store[T]) Insert(ctx context.Context, item T) (T, error) {
	var zero T

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.InsertOne(insertCtx, item)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return zero, ports.ErrDuplicate
		}
		return zero, fmt.Errorf("insert %s: %w", s.col.Name(), err)
	}

	created, found, err := s.findOne(ctx, bson.M{"_id": res.InsertedID})
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("insert %s: document %v vanished after insert", s.col.Name(), res.InsertedID)
	}
	return created, nil
}

// UpdateByID applies fields with $set and returns the updated document.
func (s *Store[T]) UpdateByID(ctx context.Context, id string, fields ports.Fields) (T, bool, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, false, nil
	}
	if len(fields) == 0 {
		return s.findOne(ctx, bson.M{"_id": oid})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M(fields)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	switch {
	case err == nil:
		return out, true, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return zero, false, nil
	case mongo.IsDuplicateKeyError(err):
		return zero, false, ports.ErrDuplicate
	default:
		return zero, false, fmt.Errorf("update %s: %w", s.col.Name(), err)
	}
}

func (s *Store[T]) DeleteByID(ctx context.Context, id string) (T, bool, error) {
	var zero T
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return zero, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	err = s.col.FindOneAndDelete(ctx, bson.M{"_id": oid}).Decode(&out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("delete %s: %w", s.col.Name(), err)
	}
	return out, true, nil
}

func (s *Store[T]) findOne(ctx context.Context, filter bson.M) (T, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var out T
	if err := s.col.FindOne(ctx, filter).Decode(&out); err != nil {
		var zero T
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, false, nil
		}
		return zero, false, fmt.Errorf("find %s: %w", s.col.Name(), err)
	}
	return out, true, nil
}

// buildQuery translates a ports.Filter into a MongoDB query document.
// Substring matches are escaped so user input is never run as a pattern.
func buildQuery(f ports.Filter) bson.M {
	q := bson.M{}
	for k, v := range f.Equals {
		q[k] = v
	}
	for k, v := range f.Contains {
		if v == "" {
			continue
		}
		q[k] = bson.M{"$regex": regexp.QuoteMeta(v), "$options": "i"}
	}
	for k, r := range f.Ranges {
		cond := bson.M{}
		if r.Min != nil {
			cond["$gte"] = *r.Min
		}
		if r.Max != nil {
			cond["$lte"] = *r.Max
		}
		if len(cond) > 0 {
			q[k] = cond
		}
	}
	return q
}
