package store

import (
	"context"

	"github.com/kevinaaaquil/compro/models"
)

type UserStore interface {
	CountUsers(ctx context.Context) (int64, error)
	CountUsersWithRole(ctx context.Context, role string) (int64, error)
	CreateUser(ctx context.Context, user *models.User) error
	// ClaimFirstUser records userID as the bootstrap administrator. It returns false
	// when another user already holds the claim. Deleting the holder releases it.
	ClaimFirstUser(ctx context.Context, userID string) (bool, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) error
	DeleteUser(ctx context.Context, id string) error
}

type PostStore interface {
	CreatePost(ctx context.Context, post *models.Post) error
	ListPosts(ctx context.Context, filter models.PostFilter) ([]models.Post, error)
	PostBySlug(ctx context.Context, slug string) (*models.Post, error)
	PostByID(ctx context.Context, id string) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, upd models.PostUpdate) error
	DeletePost(ctx context.Context, id string) error
}

type CategoryStore interface {
	CreateCategory(ctx context.Context, c *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoriesByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type WebsiteStore interface {
	WebsiteProfile(ctx context.Context) (*models.WebsiteProfile, error)
	CreateWebsiteProfile(ctx context.Context, p *models.WebsiteProfile) error
	UpdateWebsiteProfile(ctx context.Context, upd models.WebsiteProfileUpdate) error
	AppendGalleryImage(ctx context.Context, url string) error
}

// Store is the process-wide persistence handle built once in main.
type Store interface {
	UserStore
	PostStore
	CategoryStore
	WebsiteStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
