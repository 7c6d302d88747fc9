package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/kevinaaaquil/compro/models"
)

const entityCategory = "category"

type categoryRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	CreatedAt time.Time `db:"created_at"`
}

func (d *DB) CreateCategory(ctx context.Context, c *models.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	_, err := d.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, slug, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Slug, c.CreatedAt,
	)
	return pgErr(entityCategory, err)
}

func (d *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	return d.selectCategories(ctx, `SELECT id, name, slug, created_at FROM categories ORDER BY name`)
}

func (d *DB) CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	if len(ids) == 0 {
		return []models.Category{}, nil
	}
	return d.selectCategories(ctx,
		`SELECT id, name, slug, created_at FROM categories WHERE id = ANY($1) ORDER BY name`, pq.Array(ids))
}

func (d *DB) selectCategories(ctx context.Context, q string, args ...interface{}) ([]models.Category, error) {
	var rows []categoryRow
	if err := d.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, pgErr(entityCategory, err)
	}
	out := make([]models.Category, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.Category{ID: r.ID, Name: r.Name, Slug: r.Slug, CreatedAt: r.CreatedAt})
	}
	return out, nil
}

func (d *DB) DeleteCategory(ctx context.Context, id string) error {
	res, err := d.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return pgErr(entityCategory, err)
	}
	return rowsAffected(entityCategory, res)
}
