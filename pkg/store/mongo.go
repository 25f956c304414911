package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultMongoCollection is the collection projects are stored in.
const DefaultMongoCollection = "projects"

// mongoRecord is the stored document. Summary fields are duplicated out of
// data so List can project them without decoding every project.
type mongoRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Screens   int       `bson:"screens"`
	UpdatedAt time.Time `bson:"updated_at"`
	Data      []byte    `bson:"data,omitempty"`
}

// MongoStore keeps projects in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and uses database db.
func NewMongoStore(ctx context.Context, uri, db string) (*MongoStore, error) {
	if db == "" {
		db = "mockup"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo: ping: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(db).Collection(DefaultMongoCollection),
	}, nil
}

func (s *MongoStore) Load(ctx context.Context, id string) (*Project, error) {
	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: load %s: %w", id, err)
	}
	return Decode(rec.Data)
}

func (s *MongoStore) Save(ctx context.Context, p *Project) error {
	stamp(p, time.Now())
	data, err := Encode(p)
	if err != nil {
		return err
	}
	sum := p.Summarize()
	rec := mongoRecord{
		ID:        p.ID,
		Name:      sum.Name,
		Screens:   sum.Screens,
		UpdatedAt: p.UpdatedAt,
		Data:      data,
	}
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo: save %s: %w", p.ID, err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo: delete %s: %w", id, err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().
		SetProjection(bson.M{"data": 0}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list: %w", err)
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("mongo: list: %w", err)
	}
	out := make([]Summary, len(recs))
	for i, r := range recs {
		out[i] = Summary{ID: r.ID, Name: r.Name, Screens: r.Screens, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
