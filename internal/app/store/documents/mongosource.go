package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/aimarket/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection is the MongoDB collection (and SQLite table) holding the
// analysis documents, one per name.
const Collection = "analysis_documents"

// MongoSource reads documents from the analysis_documents collection.
type MongoSource struct {
	client *mongo.Client
	c      *mongo.Collection
}

// NewMongoSource returns a source over db's analysis_documents collection.
func NewMongoSource(db *mongo.Database) *MongoSource {
	return &MongoSource{client: db.Client(), c: db.Collection(Collection)}
}

func (s *MongoSource) Kind() string { return KindMongo }

// Fetch loads the named document and returns its body as relaxed Extended
// JSON. Embedded documents keep their stored key order.
func (s *MongoSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	var doc models.AnalysisDocument
	err := s.c.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(KindMongo, name, err)
	}
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindMongo, Err: err}
	}
	if len(doc.Body) == 0 {
		return nil, &AcquisitionError{Document: name, Source: KindMongo, Err: errors.New("stored document has no body")}
	}

	b, err := bson.MarshalExtJSON(doc.Body, false, false)
	if err != nil {
		return nil, &AcquisitionError{Document: name, Source: KindMongo, Err: fmt.Errorf("convert body to JSON: %w", err)}
	}
	return b, nil
}

// Put stores body (a JSON object) under name, replacing any previous
// version. Uses upsert so it works whether the document exists or not.
func (s *MongoSource) Put(ctx context.Context, name string, body []byte) error {
	var d bson.D
	if err := bson.UnmarshalExtJSON(body, false, &d); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}

	filter := bson.M{"name": name}
	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"body":       d,
			"updated_at": time.Now().UTC(),
		},
	}
	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

func (s *MongoSource) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}
