package statestore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoStore keeps one document per key, using the key as _id.
type MongoStore[S any] struct {
	coll *mongo.Collection
}

// NewMongoStore keeps states in collection of db, one document per key.
func NewMongoStore[S any](db *mongo.Database, collection string) *MongoStore[S] {
	return &MongoStore[S]{coll: db.Collection(collection)}
}

// Save upserts the document whose _id is key.
func (s *MongoStore[S]) Save(ctx context.Context, key string, state S) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: key}},
		newRecord(key, state),
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}

// Load decodes the state of the document whose _id is key.
func (s *MongoStore[S]) Load(ctx context.Context, key string) (S, error) {
	var zero S
	if key == "" {
		return zero, ErrEmptyKey
	}

	var rec Record[S]
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: key}}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return zero, fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		return zero, errors.Join(ErrStoreFailure, err)
	}
	return rec.State, nil
}

// Delete removes the document whose _id is key.
func (s *MongoStore[S]) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: key}}); err != nil {
		return errors.Join(ErrStoreFailure, err)
	}
	return nil
}
