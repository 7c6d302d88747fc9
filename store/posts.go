package store

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/kevinaaaquil/compro/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const entityPost = "post"

// postDoc is the stored shape of a post. The editor document is kept as a
// native BSON value so it stays queryable.
type postDoc struct {
	models.Post `bson:",inline"`
	Content     bson.RawValue `bson:"content"`
}

func (d postDoc) model() (models.Post, error) {
	p := d.Post
	content, err := contentToJSON(d.Content)
	if err != nil {
		return p, err
	}
	p.Content = content
	return p, nil
}

// contentToBSON converts a JSON editor document (object, HTML string or null)
// into a BSON value.
func contentToBSON(raw json.RawMessage) (bson.RawValue, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage("null")
	}
	wrapped := make([]byte, 0, len(raw)+6)
	wrapped = append(wrapped, `{"v":`...)
	wrapped = append(wrapped, raw...)
	wrapped = append(wrapped, '}')
	var doc bson.Raw
	if err := bson.UnmarshalExtJSON(wrapped, false, &doc); err != nil {
		return bson.RawValue{}, err
	}
	return doc.LookupErr("v")
}

// contentToJSON is the inverse of contentToBSON. Binary values written by
// older builds hold the JSON bytes directly.
func contentToJSON(v bson.RawValue) (json.RawMessage, error) {
	switch v.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return json.RawMessage("null"), nil
	case bsontype.Binary:
		_, data := v.Binary()
		return json.RawMessage(data), nil
	}
	out, err := bson.MarshalExtJSON(bson.D{{Key: "v", Value: v}}, false, false)
	if err != nil {
		return nil, err
	}
	var wrapped struct {
		V json.RawMessage `json:"v"`
	}
	if err := json.Unmarshal(out, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.V, nil
}

func (db *DB) CreatePost(ctx context.Context, post *models.Post) error {
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.CategoryIDs == nil {
		post.CategoryIDs = []string{}
	}
	content, err := contentToBSON(post.Content)
	if err != nil {
		return Internal(entityPost, err)
	}
	_, err = db.Posts().InsertOne(ctx, postDoc{Post: *post, Content: content})
	return mongoErr(entityPost, err)
}

// ListPosts returns posts newest first with author and category projections.
func (db *DB) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	q := bson.M{}
	if filter.Status != "" {
		q["status"] = filter.Status
	}
	if filter.AuthorID != "" {
		q["authorId"] = filter.AuthorID
	}
	cur, err := db.Posts().Find(ctx, q, options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, mongoErr(entityPost, err)
	}
	defer cur.Close(ctx)
	var docs []postDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, mongoErr(entityPost, err)
	}
	posts := make([]models.Post, 0, len(docs))
	for _, d := range docs {
		p, err := d.model()
		if err != nil {
			return nil, Internal(entityPost, err)
		}
		posts = append(posts, p)
	}
	if err := db.project(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (db *DB) findPost(ctx context.Context, filter bson.M) (*models.Post, error) {
	var d postDoc
	if err := db.Posts().FindOne(ctx, filter).Decode(&d); err != nil {
		return nil, mongoErr(entityPost, err)
	}
	p, err := d.model()
	if err != nil {
		return nil, Internal(entityPost, err)
	}
	posts := []models.Post{p}
	if err := db.project(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (db *DB) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return db.findPost(ctx, bson.M{"slug": slug})
}

func (db *DB) PostByID(ctx context.Context, id string) (*models.Post, error) {
	return db.findPost(ctx, bson.M{"_id": id})
}

// project fills Author and Categories with two batched lookups.
func (db *DB) project(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	authorIDs := map[string]struct{}{}
	categoryIDs := map[string]struct{}{}
	for _, p := range posts {
		authorIDs[p.AuthorID] = struct{}{}
		for _, c := range p.CategoryIDs {
			categoryIDs[c] = struct{}{}
		}
	}

	authors := map[string]*models.AuthorSummary{}
	cur, err := db.Users().Find(ctx,
		bson.M{"_id": bson.M{"$in": keys(authorIDs)}},
		options.Find().SetProjection(bson.M{"username": 1, "fullName": 1}))
	if err != nil {
		return mongoErr(entityUser, err)
	}
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return mongoErr(entityUser, err)
	}
	for _, u := range users {
		authors[u.ID] = &models.AuthorSummary{ID: u.ID, Username: u.Username, FullName: u.FullName}
	}

	names := map[string]string{}
	if len(categoryIDs) > 0 {
		cats, err := db.CategoriesByIDs(ctx, keys(categoryIDs))
		if err != nil {
			return err
		}
		for _, c := range cats {
			names[c.ID] = c.Name
		}
	}

	for i := range posts {
		posts[i].Author = authors[posts[i].AuthorID]
		posts[i].Categories = []models.CategorySummary{}
		for _, id := range posts[i].CategoryIDs {
			if name, ok := names[id]; ok {
				posts[i].Categories = append(posts[i].Categories, models.CategorySummary{ID: id, Name: name})
			}
		}
	}
	return nil
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func (db *DB) UpdatePost(ctx context.Context, id string, upd models.PostUpdate) error {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Slug != nil {
		set["slug"] = *upd.Slug
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Content != nil {
		content, err := contentToBSON(*upd.Content)
		if err != nil {
			return Internal(entityPost, err)
		}
		set["content"] = content
	}
	if upd.Thumbnail != nil {
		set["thumbnail"] = *upd.Thumbnail
	}
	if upd.ImageURL != nil {
		set["imageUrl"] = *upd.ImageURL
	}
	if upd.VideoURL != nil {
		set["videoUrl"] = *upd.VideoURL
	}
	if upd.Tags != nil {
		set["tags"] = *upd.Tags
	}
	if upd.CategoryIDs != nil {
		set["categoryIds"] = *upd.CategoryIDs
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	res, err := db.Posts().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return mongoErr(entityPost, err)
	}
	if res.MatchedCount == 0 {
		return NotFound(entityPost)
	}
	return nil
}

func (db *DB) DeletePost(ctx context.Context, id string) error {
	res, err := db.Posts().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return mongoErr(entityPost, err)
	}
	if res.DeletedCount == 0 {
		return NotFound(entityPost)
	}
	return nil
}
