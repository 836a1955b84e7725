package report

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/kstrandberg/uncouple/pkg/errors"
)

// MongoConfig configures a MongoStore.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore stores runs as documents keyed by run id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB and verifies the connection.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "uncouple"
	}
	if cfg.Collection == "" {
		cfg.Collection = "runs"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "ping mongodb")
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, run *Run) error {
	if run == nil || run.ID == "" {
		return errors.New(errors.ErrCodeInvalidElement, "run without id")
	}
	_, err := s.coll.ReplaceOne(ctx,
		bson.M{"_id": run.ID}, run, options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "save run %s", run.ID)
	}
	return nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Run, error) {
	var run Run
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get run %s", id)
	}
	return &run, nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Run, error) {
	cur, err := s.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "started_at", Value: -1}}))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "list runs")
	}
	defer cur.Close(ctx)
	var out []*Run
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode runs")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
