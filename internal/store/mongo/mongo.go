// Package mongo persists expenses in a MongoDB collection, keyed by the
// driver-generated ObjectID.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"outlay/internal/core"
	"outlay/internal/store"
)

type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

var _ store.Store = (*Store)(nil)

// document is the wire shape of an expense in the collection.
type document struct {
	ID          bson.ObjectID `bson:"_id,omitempty"`
	Description string        `bson:"description"`
	Cost        float64       `bson:"cost"`
	CreatedDate time.Time     `bson:"createdDate"`
}

func (d document) toExpense() core.Expense {
	return core.Expense{
		ID:          d.ID.Hex(),
		Description: d.Description,
		Cost:        d.Cost,
		CreatedDate: d.CreatedDate,
	}
}

// New connects to the given URI and pings the deployment before returning.
func New(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) Insert(ctx context.Context, e core.Expense) (string, error) {
	doc := document{
		Description: e.Description,
		Cost:        e.Cost,
		CreatedDate: e.CreatedDate,
	}
	result, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return "", unavailable("insert expense", err)
	}
	oid, ok := result.InsertedID.(bson.ObjectID)
	if !ok {
		return "", unavailable("insert expense", fmt.Errorf("unexpected inserted id type %T", result.InsertedID))
	}
	return oid.Hex(), nil
}

func (s *Store) ListAll(ctx context.Context) ([]core.Expense, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, unavailable("find expenses", err)
	}
	defer cursor.Close(ctx)

	var docs []document
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("decode expenses", err)
	}

	out := make([]core.Expense, len(docs))
	for i, d := range docs {
		out[i] = d.toExpense()
	}
	return out, nil
}

func (s *Store) UpdateFields(ctx context.Context, id string, patch core.ExpensePatch) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrInvalidID
	}

	set := bson.M{}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Cost != nil {
		set["cost"] = *patch.Cost
	}

	// $set with an empty document is rejected by the server; an empty
	// patch only has to resolve the identifier.
	if len(set) == 0 {
		err := s.coll.FindOne(ctx, bson.M{"_id": oid}).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return store.ErrNotFound
		}
		if err != nil {
			return unavailable("find expense", err)
		}
		return nil
	}

	result, err := s.coll.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return unavailable("update expense", err)
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (int64, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return 0, store.ErrInvalidID
	}
	result, err := s.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, unavailable("delete expense", err)
	}
	return result.DeletedCount, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}
