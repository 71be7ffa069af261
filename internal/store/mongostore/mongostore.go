// Package mongostore implements store.Store on MongoDB, one collection per
// record type. Record ids are stored as the document _id.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spendtrack/internal/models"
	"spendtrack/internal/store"
	"spendtrack/internal/uuid"
)

// Collection names.
const (
	UsersCollection        = "users"
	CategoriesCollection   = "categories"
	TransactionsCollection = "transactions"
	AuditLogsCollection    = "audit_logs"
)

// Store persists records of type T in a single collection.
type Store[T any] struct {
	coll *mongo.Collection
	now  func() time.Time
}

// New creates a Store for T backed by the named collection.
func New[T any](db *mongo.Database, collection string) *Store[T] {
	return &Store[T]{coll: db.Collection(collection), now: time.Now}
}

// NewSet creates stores for every record type in db.
func NewSet(db *mongo.Database) *store.Set {
	return &store.Set{
		Users:        New[models.User](db, UsersCollection),
		Categories:   New[models.Category](db, CategoriesCollection),
		Transactions: New[models.Transaction](db, TransactionsCollection),
		AuditLogs:    New[models.AuditLog](db, AuditLogsCollection),
	}
}

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique indexes that back handle, email and
// per-user category name uniqueness, plus lookup indexes on owner ids.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	unique := options.Index().SetUnique(true)
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "handle", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		CategoriesCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "name", Value: 1}}, Options: unique},
		},
		TransactionsCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}}},
			{Keys: bson.D{{Key: "category_id", Value: 1}}},
		},
	}
	for name, idx := range specs {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// Insert implements store.Store.
func (s *Store[T]) Insert(ctx context.Context, rec *T) (string, error) {
	r, err := store.AsRecord(rec)
	if err != nil {
		return "", err
	}
	if r.GetID() == "" {
		r.SetID(uuid.New())
	}
	r.Touch(s.now().UTC())
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return "", translate(err)
	}
	return r.GetID(), nil
}

// FindByID implements store.Store.
func (s *Store[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var rec T
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec); err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

// FindBy implements store.Store.
func (s *Store[T]) FindBy(ctx context.Context, filter store.Filter) ([]T, error) {
	query, err := Query(filter)
	if err != nil {
		return nil, err
	}
	cur, err := s.coll.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, translate(err)
	}
	return out, nil
}

// Save implements store.Store.
func (s *Store[T]) Save(ctx context.Context, rec *T) error {
	r, err := store.AsRecord(rec)
	if err != nil {
		return err
	}
	if r.GetID() == "" {
		return fmt.Errorf("mongostore: save requires an id")
	}
	r.Touch(s.now().UTC())
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": r.GetID()}, rec, options.Replace().SetUpsert(true))
	return translate(err)
}

// DeleteByID implements store.Store.
func (s *Store[T]) DeleteByID(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ExistsByID implements store.Store.
func (s *Store[T]) ExistsByID(ctx context.Context, id string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, translate(err)
	}
	return n > 0, nil
}

// Query converts a store filter into a MongoDB query document. Conditions on
// the same field are merged, so a range becomes {field: {$gte: a, $lte: b}}.
func Query(filter store.Filter) (bson.D, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	query := bson.D{}
	index := map[string]int{}
	for _, c := range filter {
		key := c.Field
		if key == "id" {
			key = "_id"
		}
		var expr bson.E
		switch c.Op {
		case store.Gte:
			expr = bson.E{Key: "$gte", Value: c.Value}
		case store.Lte:
			expr = bson.E{Key: "$lte", Value: c.Value}
		default:
			expr = bson.E{Key: "$eq", Value: c.Value}
		}
		if i, ok := index[key]; ok {
			ops := query[i].Value.(bson.D)
			query[i].Value = append(ops, expr)
			continue
		}
		index[key] = len(query)
		query = append(query, bson.E{Key: key, Value: bson.D{expr}})
	}
	return query, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return store.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	default:
		return err
	}
}
