package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/kevinaaaquil/compro/models"
)

const entityPost = "post"

const postSelect = `SELECT p.id, p.author_id, p.title, p.slug, p.description, p.content,
       p.thumbnail, p.image_url, p.video_url, p.tags, p.status, p.created_at, p.updated_at,
       COALESCE(u.username, '') AS author_username, COALESCE(u.full_name, '') AS author_full_name
FROM posts p
LEFT JOIN users u ON u.id = p.author_id`

type postRow struct {
	ID             string         `db:"id"`
	AuthorID       string         `db:"author_id"`
	Title          string         `db:"title"`
	Slug           string         `db:"slug"`
	Description    string         `db:"description"`
	Content        []byte         `db:"content"`
	Thumbnail      string         `db:"thumbnail"`
	ImageURL       string         `db:"image_url"`
	VideoURL       string         `db:"video_url"`
	Tags           pq.StringArray `db:"tags"`
	Status         string         `db:"status"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	AuthorUsername string         `db:"author_username"`
	AuthorFullName string         `db:"author_full_name"`
}

func (r postRow) model() models.Post {
	p := models.Post{
		ID:          r.ID,
		AuthorID:    r.AuthorID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		Content:     json.RawMessage(r.Content),
		Thumbnail:   r.Thumbnail,
		ImageURL:    r.ImageURL,
		VideoURL:    r.VideoURL,
		Tags:        []string(r.Tags),
		Status:      r.Status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
		CategoryIDs: []string{},
		Categories:  []models.CategorySummary{},
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if r.AuthorUsername != "" {
		p.Author = &models.AuthorSummary{ID: r.AuthorID, Username: r.AuthorUsername, FullName: r.AuthorFullName}
	}
	return p
}

func contentValue(c json.RawMessage) string {
	if len(c) == 0 {
		return "null"
	}
	return string(c)
}

func (d *DB) CreatePost(ctx context.Context, p *models.Post) error {
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.CategoryIDs == nil {
		p.CategoryIDs = []string{}
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO posts
    (id, author_id, title, slug, description, content, thumbnail, image_url, video_url, tags, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			p.ID, p.AuthorID, p.Title, p.Slug, p.Description, contentValue(p.Content),
			p.Thumbnail, p.ImageURL, p.VideoURL, pq.Array(p.Tags), p.Status, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return err
		}
		return linkCategories(ctx, tx, p.ID, p.CategoryIDs)
	})
	return pgErr(entityPost, err)
}

func linkCategories(ctx context.Context, tx *sqlx.Tx, postID string, categoryIDs []string) error {
	for _, c := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, c,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListPosts returns posts newest first with author and category projections.
func (d *DB) ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error) {
	var rows []postRow
	err := d.db.SelectContext(ctx, &rows,
		postSelect+`
WHERE ($1 = '' OR p.status = $1) AND ($2 = '' OR p.author_id = $2)
ORDER BY p.created_at DESC`,
		filter.Status, filter.AuthorID,
	)
	if err != nil {
		return nil, pgErr(entityPost, err)
	}
	posts := make([]models.Post, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, r.model())
	}
	if err := d.attachCategories(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (d *DB) getPost(ctx context.Context, where string, arg string) (*models.Post, error) {
	var row postRow
	if err := d.db.GetContext(ctx, &row, postSelect+` WHERE `+where+` = $1`, arg); err != nil {
		return nil, pgErr(entityPost, err)
	}
	posts := []models.Post{row.model()}
	if err := d.attachCategories(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (d *DB) PostBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return d.getPost(ctx, "p.slug", slug)
}

func (d *DB) PostByID(ctx context.Context, id string) (*models.Post, error) {
	return d.getPost(ctx, "p.id", id)
}

type postCategoryRow struct {
	PostID string `db:"post_id"`
	ID     string `db:"id"`
	Name   string `db:"name"`
}

func (d *DB) attachCategories(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}
	var rows []postCategoryRow
	err := d.db.SelectContext(ctx, &rows, `SELECT pc.post_id, c.id, c.name
FROM post_categories pc
JOIN categories c ON c.id = pc.category_id
WHERE pc.post_id = ANY($1)
ORDER BY c.name`, pq.Array(ids))
	if err != nil {
		return pgErr(entityPost, err)
	}
	for _, r := range rows {
		p := &posts[index[r.PostID]]
		p.CategoryIDs = append(p.CategoryIDs, r.ID)
		p.Categories = append(p.Categories, models.CategorySummary{ID: r.ID, Name: r.Name})
	}
	return nil
}

func (d *DB) UpdatePost(ctx context.Context, id string, upd models.PostUpdate) error {
	var s setter
	if upd.Title != nil {
		s.add("title", *upd.Title)
	}
	if upd.Slug != nil {
		s.add("slug", *upd.Slug)
	}
	if upd.Description != nil {
		s.add("description", *upd.Description)
	}
	if upd.Content != nil {
		s.add("content", contentValue(*upd.Content))
	}
	if upd.Thumbnail != nil {
		s.add("thumbnail", *upd.Thumbnail)
	}
	if upd.ImageURL != nil {
		s.add("image_url", *upd.ImageURL)
	}
	if upd.VideoURL != nil {
		s.add("video_url", *upd.VideoURL)
	}
	if upd.Tags != nil {
		s.add("tags", pq.Array(*upd.Tags))
	}
	if upd.Status != nil {
		s.add("status", *upd.Status)
	}
	q, args := s.update("posts", id)
	err := d.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, q, args...)
		if err != nil {
			return err
		}
		if err := rowsAffected(entityPost, res); err != nil {
			return err
		}
		if upd.CategoryIDs == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_categories WHERE post_id = $1`, id); err != nil {
			return err
		}
		return linkCategories(ctx, tx, id, *upd.CategoryIDs)
	})
	return pgErr(entityPost, err)
}

func (d *DB) DeletePost(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return pgErr(entityPost, err)
	}
	return rowsAffected(entityPost, res)
}
