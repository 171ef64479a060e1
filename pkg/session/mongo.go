package session

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/websketch/websketch/pkg/errors"
	"github.com/websketch/websketch/pkg/sketch"
)

// MongoStore persists each session as one document. Expiry is enforced by a
// TTL index on updatedAt, which every read and write bumps.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	ttl        time.Duration
}

// NewMongoStore connects to MongoDB, ensures the TTL index, and returns the
// store. A zero ttl means DefaultTTL.
func NewMongoStore(ctx context.Context, uri, database string, ttl time.Duration) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to ping mongodb")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	collection := client.Database(database).Collection("sessions")
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updatedAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to create ttl index")
	}

	return &MongoStore{client: client, collection: collection, ttl: ttl}, nil
}

func (s *MongoStore) Create(ctx context.Context, initial []sketch.Component, id string) (string, error) {
	sess := NewSession(id, initial)
	if _, err := s.collection.InsertOne(ctx, sess); err != nil {
		return "", errors.Wrap(errors.ErrCodeSessionStore, err, "failed to store session %s", sess.ID)
	}
	return sess.ID, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Session, error) {
	var sess Session
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if err == mongo.ErrNoDocuments {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSessionStore, err, "failed to get session %s", id)
	}

	// Bump updatedAt so the TTL index counts from last access.
	s.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	return &sess, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, req UpdateRequest) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	sess.apply(req)

	result, err := s.collection.ReplaceOne(ctx, bson.M{"_id": id}, sess)
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to update session %s", id)
	}
	if result.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to delete session %s", id)
	}
	return nil
}

func (s *MongoStore) ExtendTTL(ctx context.Context, id string) error {
	result, err := s.collection.UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"updatedAt": time.Now().UTC()}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionStore, err, "failed to extend ttl for session %s", id)
	}
	if result.MatchedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)
