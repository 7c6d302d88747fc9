package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lib/pq"

	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
)

const entityWebsite = "website profile"

const websiteColumns = `id, name, description, logo_url, address, phone, email, social_links, gallery,
       is_user_registration_enabled, is_blog_enabled, is_product_enabled,
       is_comment_enabled, is_like_enabled, is_review_enabled, created_at, updated_at`

type websiteRow struct {
	ID                        string         `db:"id"`
	Name                      string         `db:"name"`
	Description               string         `db:"description"`
	LogoURL                   string         `db:"logo_url"`
	Address                   string         `db:"address"`
	Phone                     string         `db:"phone"`
	Email                     string         `db:"email"`
	SocialLinks               []byte         `db:"social_links"`
	Gallery                   pq.StringArray `db:"gallery"`
	IsUserRegistrationEnabled bool           `db:"is_user_registration_enabled"`
	IsBlogEnabled             bool           `db:"is_blog_enabled"`
	IsProductEnabled          bool           `db:"is_product_enabled"`
	IsCommentEnabled          bool           `db:"is_comment_enabled"`
	IsLikeEnabled             bool           `db:"is_like_enabled"`
	IsReviewEnabled           bool           `db:"is_review_enabled"`
	CreatedAt                 time.Time      `db:"created_at"`
	UpdatedAt                 time.Time      `db:"updated_at"`
}

func (r websiteRow) model() (*models.WebsiteProfile, error) {
	links := map[string]string{}
	if len(r.SocialLinks) > 0 {
		if err := json.Unmarshal(r.SocialLinks, &links); err != nil {
			return nil, store.Internal(entityWebsite, err)
		}
	}
	gallery := []string(r.Gallery)
	if gallery == nil {
		gallery = []string{}
	}
	return &models.WebsiteProfile{
		ID:                        r.ID,
		Name:                      r.Name,
		Description:               r.Description,
		LogoURL:                   r.LogoURL,
		Address:                   r.Address,
		Phone:                     r.Phone,
		Email:                     r.Email,
		SocialLinks:               links,
		Gallery:                   gallery,
		IsUserRegistrationEnabled: r.IsUserRegistrationEnabled,
		IsBlogEnabled:             r.IsBlogEnabled,
		IsProductEnabled:          r.IsProductEnabled,
		IsCommentEnabled:          r.IsCommentEnabled,
		IsLikeEnabled:             r.IsLikeEnabled,
		IsReviewEnabled:           r.IsReviewEnabled,
		CreatedAt:                 r.CreatedAt,
		UpdatedAt:                 r.UpdatedAt,
	}, nil
}

func (d *DB) WebsiteProfile(ctx context.Context) (*models.WebsiteProfile, error) {
	var row websiteRow
	if err := d.db.GetContext(ctx, &row, `SELECT `+websiteColumns+` FROM website_profile WHERE id = $1`, models.WebsiteProfileID); err != nil {
		return nil, pgErr(entityWebsite, err)
	}
	return row.model()
}

func socialLinksValue(m map[string]string) (string, error) {
	if m == nil {
		m = map[string]string{}
	}
	b, err := json.Marshal(m)
	return string(b), err
}

// CreateWebsiteProfile inserts the singleton row; the primary key rejects a second one.
func (d *DB) CreateWebsiteProfile(ctx context.Context, p *models.WebsiteProfile) error {
	p.ID = models.WebsiteProfileID
	if p.Gallery == nil {
		p.Gallery = []string{}
	}
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	links, err := socialLinksValue(p.SocialLinks)
	if err != nil {
		return store.Internal(entityWebsite, err)
	}
	_, err = d.db.ExecContext(ctx, `INSERT INTO website_profile (`+websiteColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		p.ID, p.Name, p.Description, p.LogoURL, p.Address, p.Phone, p.Email, links, pq.Array(p.Gallery),
		p.IsUserRegistrationEnabled, p.IsBlogEnabled, p.IsProductEnabled,
		p.IsCommentEnabled, p.IsLikeEnabled, p.IsReviewEnabled, p.CreatedAt, p.UpdatedAt,
	)
	return pgErr(entityWebsite, err)
}

func (d *DB) UpdateWebsiteProfile(ctx context.Context, upd models.WebsiteProfileUpdate) error {
	var s setter
	strs := []struct {
		col string
		v   *string
	}{
		{"name", upd.Name},
		{"description", upd.Description},
		{"logo_url", upd.LogoURL},
		{"address", upd.Address},
		{"phone", upd.Phone},
		{"email", upd.Email},
	}
	for _, f := range strs {
		if f.v != nil {
			s.add(f.col, *f.v)
		}
	}
	if upd.SocialLinks != nil {
		links, err := socialLinksValue(*upd.SocialLinks)
		if err != nil {
			return store.Internal(entityWebsite, err)
		}
		s.add("social_links", links)
	}
	if upd.Gallery != nil {
		s.add("gallery", pq.Array(*upd.Gallery))
	}
	flags := []struct {
		col string
		v   *bool
	}{
		{"is_user_registration_enabled", upd.IsUserRegistrationEnabled},
		{"is_blog_enabled", upd.IsBlogEnabled},
		{"is_product_enabled", upd.IsProductEnabled},
		{"is_comment_enabled", upd.IsCommentEnabled},
		{"is_like_enabled", upd.IsLikeEnabled},
		{"is_review_enabled", upd.IsReviewEnabled},
	}
	for _, f := range flags {
		if f.v != nil {
			s.add(f.col, *f.v)
		}
	}
	q, args := s.update("website_profile", models.WebsiteProfileID)
	res, err := d.db.ExecContext(ctx, q, args...)
	if err != nil {
		return pgErr(entityWebsite, err)
	}
	return rowsAffected(entityWebsite, res)
}

func (d *DB) AppendGalleryImage(ctx context.Context, url string) error {
	res, err := d.db.ExecContext(ctx,
		`UPDATE website_profile SET gallery = array_append(gallery, $1), updated_at = now() WHERE id = $2`,
		url, models.WebsiteProfileID,
	)
	if err != nil {
		return pgErr(entityWebsite, err)
	}
	return rowsAffected(entityWebsite, res)
}
