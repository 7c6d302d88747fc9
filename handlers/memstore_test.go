package handlers

import (
	"context"
	"sort"
	"sync"

	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
)

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	mu         sync.Mutex
	users      map[string]models.User
	posts      map[string]models.Post
	categories map[string]models.Category
	website    *models.WebsiteProfile
	claimed    string
}

var _ store.Store = (*memStore)(nil)

func newMemStore() *memStore {
	return &memStore{
		users:      map[string]models.User{},
		posts:      map[string]models.Post{},
		categories: map[string]models.Category{},
	}
}

func (m *memStore) Ping(context.Context) error  { return nil }
func (m *memStore) Close(context.Context) error { return nil }

func (m *memStore) CountUsers(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memStore) CountUsersWithRole(_ context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.HasRole(role) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) userConflict(u models.User) error {
	for id, o := range m.users {
		if id == u.ID {
			continue
		}
		if o.Email == u.Email {
			return store.Unique("user", "email", nil)
		}
		if o.Username == u.Username {
			return store.Unique("user", "username", nil)
		}
	}
	return nil
}

func (m *memStore) CreateUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.userConflict(*u); err != nil {
		return err
	}
	m.users[u.ID] = *u
	return nil
}

func (m *memStore) ClaimFirstUser(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.claimed != "" {
		return false, nil
	}
	m.claimed = id
	return true, nil
}

func (m *memStore) UserByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.NotFound("user")
	}
	return &u, nil
}

func (m *memStore) findUser(match func(models.User) bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			u := u
			return &u, nil
		}
	}
	return nil, store.NotFound("user")
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Email == email })
}

func (m *memStore) UserByUsername(_ context.Context, username string) (*models.User, error) {
	return m.findUser(func(u models.User) bool { return u.Username == username })
}

func (m *memStore) ListUsers(context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) UpdateUser(_ context.Context, id string, upd models.UserUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.NotFound("user")
	}
	if upd.Username != nil {
		u.Username = *upd.Username
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Email != nil {
		u.Email = *upd.Email
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	if upd.Roles != nil {
		u.Roles = *upd.Roles
	}
	if upd.EmailVerified != nil {
		u.EmailVerified = *upd.EmailVerified
	}
	if err := m.userConflict(u); err != nil {
		return err
	}
	m.users[id] = u
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.NotFound("user")
	}
	delete(m.users, id)
	if m.claimed == id {
		m.claimed = ""
	}
	for pid, p := range m.posts {
		if p.AuthorID == id {
			delete(m.posts, pid)
		}
	}
	return nil
}

func (m *memStore) project(p models.Post) models.Post {
	if u, ok := m.users[p.AuthorID]; ok {
		p.Author = &models.AuthorSummary{ID: u.ID, Username: u.Username, FullName: u.FullName}
	}
	p.Categories = []models.CategorySummary{}
	for _, id := range p.CategoryIDs {
		if c, ok := m.categories[id]; ok {
			p.Categories = append(p.Categories, models.CategorySummary{ID: c.ID, Name: c.Name})
		}
	}
	return p
}

func (m *memStore) CreatePost(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.posts {
		if o.Slug == p.Slug {
			return store.Unique("post", "slug", nil)
		}
	}
	m.posts[p.ID] = *p
	return nil
}

func (m *memStore) ListPosts(_ context.Context, f models.PostFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Post
	for _, p := range m.posts {
		if (f.Status == "" || p.Status == f.Status) && (f.AuthorID == "" || p.AuthorID == f.AuthorID) {
			out = append(out, m.project(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) PostBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.posts {
		if p.Slug == slug {
			p = m.project(p)
			return &p, nil
		}
	}
	return nil, store.NotFound("post")
}

func (m *memStore) PostByID(_ context.Context, id string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, store.NotFound("post")
	}
	p = m.project(p)
	return &p, nil
}

func (m *memStore) UpdatePost(_ context.Context, id string, upd models.PostUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return store.NotFound("post")
	}
	if upd.Slug != nil {
		for oid, o := range m.posts {
			if oid != id && o.Slug == *upd.Slug {
				return store.Unique("post", "slug", nil)
			}
		}
		p.Slug = *upd.Slug
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Title, upd.Title)
	set(&p.Description, upd.Description)
	set(&p.Thumbnail, upd.Thumbnail)
	set(&p.ImageURL, upd.ImageURL)
	set(&p.VideoURL, upd.VideoURL)
	set(&p.Status, upd.Status)
	if upd.Content != nil {
		p.Content = *upd.Content
	}
	if upd.Tags != nil {
		p.Tags = *upd.Tags
	}
	if upd.CategoryIDs != nil {
		p.CategoryIDs = *upd.CategoryIDs
	}
	m.posts[id] = p
	return nil
}

func (m *memStore) DeletePost(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return store.NotFound("post")
	}
	delete(m.posts, id)
	return nil
}

func (m *memStore) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.categories {
		if o.Name == c.Name {
			return store.Unique("category", "name", nil)
		}
		if o.Slug == c.Slug {
			return store.Unique("category", "slug", nil)
		}
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) ListCategories(context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CategoriesByIDs(_ context.Context, ids []string) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, id := range ids {
		if c, ok := m.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memStore) DeleteCategory(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return store.NotFound("category")
	}
	delete(m.categories, id)
	return nil
}

func (m *memStore) WebsiteProfile(context.Context) (*models.WebsiteProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.website == nil {
		return nil, store.NotFound("website profile")
	}
	p := *m.website
	p.Gallery = append([]string{}, m.website.Gallery...)
	return &p, nil
}

func (m *memStore) CreateWebsiteProfile(_ context.Context, p *models.WebsiteProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.website != nil {
		return store.Unique("website profile", "id", nil)
	}
	c := *p
	m.website = &c
	return nil
}

func (m *memStore) UpdateWebsiteProfile(_ context.Context, upd models.WebsiteProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.website == nil {
		return store.NotFound("website profile")
	}
	applyProfile(m.website, upd)
	return nil
}

func (m *memStore) AppendGalleryImage(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.website == nil {
		return store.NotFound("website profile")
	}
	m.website.Gallery = append(m.website.Gallery, url)
	return nil
}
