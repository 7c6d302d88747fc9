package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DB is the MongoDB implementation of Store.
type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var _ Store = (*DB)(nil)

func NewMongoDB(ctx context.Context, uri, dbName string) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Posts() *mongo.Collection {
	return db.Database.Collection("posts")
}

func (db *DB) Categories() *mongo.Collection {
	return db.Database.Collection("categories")
}

func (db *DB) Website() *mongo.Collection {
	return db.Database.Collection("website_profile")
}

func (db *DB) Bootstrap() *mongo.Collection {
	return db.Database.Collection("bootstrap")
}

// EnsureIndexes creates the unique indexes the handlers rely on for conflict detection.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	plan := []struct {
		coll    *mongo.Collection
		indexes []mongo.IndexModel
	}{
		{db.Users(), []mongo.IndexModel{unique("email"), unique("username")}},
		{db.Posts(), []mongo.IndexModel{
			unique("slug"),
			{Keys: bson.D{{Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "authorId", Value: 1}}},
		}},
		{db.Categories(), []mongo.IndexModel{unique("name"), unique("slug")}},
	}
	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.indexes); err != nil {
			return err
		}
	}
	return nil
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Client.Ping(ctx, nil)
}

func (db *DB) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

// mongoErr translates driver errors into *Error.
func mongoErr(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return NotFound(entity)
	case mongo.IsDuplicateKeyError(err):
		return Unique(entity, duplicateKeyField(err.Error()), err)
	default:
		return Internal(entity, err)
	}
}

// duplicateKeyField extracts the field from "... index: email_1 dup key: ...".
func duplicateKeyField(msg string) string {
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return ""
	}
	rest := msg[i+len("index: "):]
	if j := strings.IndexByte(rest, ' '); j >= 0 {
		rest = rest[:j]
	}
	return strings.TrimSuffix(rest, "_1")
}
