package store

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	nerrors "github.com/PolarWolf314/nova/internal/errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// DefaultMongoDatabase is used when the connection URI carries no database name.
const DefaultMongoDatabase = "nova"

// MongoStore implements Backend on MongoDB with one collection per record type.
type MongoStore struct {
	client  *mongo.Client
	secrets *mongo.Collection
	configs *mongo.Collection
}

// mongoDatabaseName extracts the database from the URI path, e.g. mongodb+srv://u:p@host/mydb?x=y.
func mongoDatabaseName(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return DefaultMongoDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return DefaultMongoDatabase
	}
	return name
}

func openMongo(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second))
	if err != nil {
		return nil, unavailable("connect mongo", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, unavailable("connect mongo", err)
	}

	db := client.Database(mongoDatabaseName(uri))
	s := &MongoStore{
		client:  client,
		secrets: db.Collection("secrets"),
		configs: db.Collection("configs"),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.secrets.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project", Value: 1}, {Key: "path", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return unavailable("create secrets index", err)
	}

	_, err = s.configs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shorthand", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "filename", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return unavailable("create configs index", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) GetAll(ctx context.Context, project string) ([]SecretRecord, error) {
	cursor, err := s.secrets.Find(ctx, bson.M{"project": project})
	if err != nil {
		return nil, unavailable("list secrets", err)
	}
	records := []SecretRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, unavailable("list secrets", err)
	}
	return records, nil
}

func (s *MongoStore) GetOne(ctx context.Context, project, path string) (*SecretRecord, error) {
	var r SecretRecord
	err := s.secrets.FindOne(ctx, bson.M{"project": project, "path": path}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get secret", err)
	}
	return &r, nil
}

func (s *MongoStore) Upsert(ctx context.Context, record SecretRecord) error {
	_, err := s.secrets.UpdateOne(ctx,
		bson.M{"project": record.Project, "path": record.Path},
		bson.M{"$set": bson.M{"content": record.Content}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		return unavailable("store secret", err)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, project, path string) (int64, error) {
	result, err := s.secrets.DeleteOne(ctx, bson.M{"project": project, "path": path})
	if err != nil {
		return 0, unavailable("delete secret", err)
	}
	return result.DeletedCount, nil
}

func (s *MongoStore) ListConfigs(ctx context.Context) ([]ConfigRecord, error) {
	cursor, err := s.configs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "shorthand", Value: 1}}))
	if err != nil {
		return nil, unavailable("list configs", err)
	}
	records := []ConfigRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, unavailable("list configs", err)
	}
	return records, nil
}

func (s *MongoStore) GetConfigByShorthand(ctx context.Context, shorthand string) (*ConfigRecord, error) {
	var r ConfigRecord
	err := s.configs.FindOne(ctx, bson.M{"shorthand": shorthand}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, unavailable("get config", err)
	}
	return &r, nil
}

// AddConfig checks both keys before inserting. The unique indexes catch a
// concurrent insert that slips between the checks and the write.
func (s *MongoStore) AddConfig(ctx context.Context, record ConfigRecord) error {
	n, err := s.configs.CountDocuments(ctx, bson.M{"shorthand": record.Shorthand})
	if err != nil {
		return unavailable("check shorthand", err)
	}
	if n != 0 {
		return fmt.Errorf("%q: %w", record.Shorthand, nerrors.ErrShorthandExists)
	}

	n, err = s.configs.CountDocuments(ctx, bson.M{"filename": record.Filename})
	if err != nil {
		return unavailable("check filename", err)
	}
	if n != 0 {
		return fmt.Errorf("%q: %w", record.Filename, nerrors.ErrFilenameExists)
	}

	if _, err := s.configs.InsertOne(ctx, record); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return configConflict(err, record)
		}
		return unavailable("insert config", err)
	}
	return nil
}

// configConflict names the unique key a duplicate key error collided on.
// The server reports the index as "filename_1" or "shorthand_1".
func configConflict(err error, record ConfigRecord) error {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, "index: filename") {
				return fmt.Errorf("%q: %w", record.Filename, nerrors.ErrFilenameExists)
			}
		}
	}
	return fmt.Errorf("%q: %w", record.Shorthand, nerrors.ErrShorthandExists)
}

func (s *MongoStore) RemoveConfig(ctx context.Context, shorthand string) (int64, error) {
	result, err := s.configs.DeleteOne(ctx, bson.M{"shorthand": shorthand})
	if err != nil {
		return 0, unavailable("delete config", err)
	}
	return result.DeletedCount, nil
}
