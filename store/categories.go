package store

import (
	"context"

	"github.com/kevinaaaquil/compro/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entityCategory = "category"

func (db *DB) CreateCategory(ctx context.Context, c *models.Category) error {
	_, err := db.Categories().InsertOne(ctx, c)
	return mongoErr(entityCategory, err)
}

func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	return db.findCategories(ctx, bson.M{})
}

func (db *DB) CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	return db.findCategories(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (db *DB) findCategories(ctx context.Context, filter bson.M) ([]models.Category, error) {
	cur, err := db.Categories().Find(ctx, filter, options.Find().SetSort(bson.M{"name": 1}))
	if err != nil {
		return nil, mongoErr(entityCategory, err)
	}
	defer cur.Close(ctx)
	out := []models.Category{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, mongoErr(entityCategory, err)
	}
	return out, nil
}

// DeleteCategory removes the category and unlinks it from posts.
func (db *DB) DeleteCategory(ctx context.Context, id string) error {
	res, err := db.Categories().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(entityCategory, err)
	}
	if res.DeletedCount == 0 {
		return NotFound(entityCategory)
	}
	_, err = db.Posts().UpdateMany(ctx, bson.M{"categoryIds": id}, bson.M{"$pull": bson.M{"categoryIds": id}})
	return mongoErr(entityPost, err)
}
