package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/favorites-api/internal/models"
)

// EventStore keeps the favorite change history in MongoDB.
type EventStore struct {
	col *mongo.Collection
	now func() time.Time
}

func NewEventStore(db *mongo.Database) *EventStore {
	return &EventStore{col: db.Collection("favorite_events"), now: time.Now}
}

// EnsureIndexes creates the (user_id, at) index used by ListByUser.
func (s *EventStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("mongo index: %w", err)
	}
	return nil
}

func (s *EventStore) Record(ctx context.Context, ev *models.FavoriteEvent) error {
	ev.At = s.now().UTC()
	res, err := s.col.InsertOne(ctx, ev)
	if err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		ev.ID = oid
	}
	return nil
}

// ListByUser returns the user's events, newest first.
func (s *EventStore) ListByUser(ctx context.Context, userID int64) ([]models.FavoriteEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := s.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	events := []models.FavoriteEvent{}
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
