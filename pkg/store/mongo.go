package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/splitgrid/pkg/core/grid"
	"github.com/matzehuels/splitgrid/pkg/document"
	errs "github.com/matzehuels/splitgrid/pkg/errors"
)

// MongoOptions configures [NewMongoStore].
type MongoOptions struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

// SetDefaults fills empty fields.
func (o *MongoOptions) SetDefaults() {
	if o.URI == "" {
		o.URI = "mongodb://localhost:27017"
	}
	if o.Database == "" {
		o.Database = "splitgrid"
	}
	if o.Collection == "" {
		o.Collection = "documents"
	}
	if o.Timeout == 0 {
		o.Timeout = 10 * time.Second
	}
}

// MongoStore keeps documents in a MongoDB collection. The layout is stored as
// its JSON encoding so region payloads survive unchanged.
type MongoStore struct {
	client  *mongo.Client
	coll    *mongo.Collection
	timeout time.Duration
}

type mongoRecord struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name,omitempty"`
	Layout    string    `bson:"layout"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, opts MongoOptions) (*MongoStore, error) {
	opts.SetDefaults()
	cctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(cctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(cctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "ping mongodb")
	}
	return &MongoStore{
		client:  client,
		coll:    client.Database(opts.Database).Collection(opts.Collection),
		timeout: opts.Timeout,
	}, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*document.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var rec mongoRecord
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "get document %s", id)
	}
	return rec.document()
}

func (s *MongoStore) Put(ctx context.Context, doc *document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	layout, err := json.Marshal(doc.Layout)
	if err != nil {
		return err
	}
	rec := mongoRecord{
		ID:        doc.ID,
		Name:      doc.Name,
		Layout:    string(layout),
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	_, err = s.coll.ReplaceOne(ctx, bson.M{"_id": doc.ID}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "put document %s", doc.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errs.Wrap(errs.ErrCodeStorage, err, "delete document %s", id)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*document.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	findOpts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list documents")
	}
	var recs []mongoRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, errs.Wrap(errs.ErrCodeStorage, err, "list documents")
	}

	docs := make([]*document.Document, 0, len(recs))
	for _, rec := range recs {
		doc, err := rec.document()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (r mongoRecord) document() (*document.Document, error) {
	var layout grid.Description
	if err := json.Unmarshal([]byte(r.Layout), &layout); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode layout of %s", r.ID)
	}
	return &document.Document{
		ID:        r.ID,
		Name:      r.Name,
		Layout:    layout,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

var _ Store = (*MongoStore)(nil)
