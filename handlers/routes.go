package handlers

import (
	"github.com/go-chi/chi/v5"

	"github.com/kevinaaaquil/compro/middleware"
	"github.com/kevinaaaquil/compro/models"
)

// API groups the resource handlers mounted under /api.
type API struct {
	Auth       *AuthHandler
	Users      *UsersHandler
	Posts      *PostsHandler
	Categories *CategoriesHandler
	Website    *WebsiteHandler
	Upload     *UploadHandler
	JWTSecret  string
}

func (a *API) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Session(a.JWTSecret))

	r.Post("/auth/register", a.Auth.Register)
	r.Post("/auth/login", a.Auth.Login)
	r.Post("/auth/logout", a.Auth.Logout)
	r.With(middleware.RequireAuth).Get("/auth/session", a.Auth.Session)

	r.Route("/user", func(r chi.Router) {
		r.With(middleware.RequireAuth).Get("/", a.Users.List)
		r.Get("/{key}", a.Users.Get)
		r.With(middleware.RequireRole(models.RoleSuperAdmin)).Post("/", a.Users.Create)
		r.With(middleware.RequireAuth).Put("/{id}", a.Users.Update)
		r.With(middleware.RequireAuth).Delete("/{id}", a.Users.Delete)
	})

	r.Route("/post", func(r chi.Router) {
		r.Get("/", a.Posts.List)
		r.Get("/{slug}", a.Posts.Get)
		r.Get("/{slug}/export", a.Posts.Export)
		r.With(middleware.RequireRole(models.PostEditorRoles...)).Post("/", a.Posts.Create)
		r.With(middleware.RequireAuth).Put("/{id}", a.Posts.Update)
		r.With(middleware.RequireAuth).Delete("/{id}", a.Posts.Delete)
	})

	r.Route("/category", func(r chi.Router) {
		r.Get("/", a.Categories.List)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.PostEditorRoles...))
			r.Post("/", a.Categories.Create)
			r.Delete("/{id}", a.Categories.Delete)
		})
	})

	r.Route("/website", func(r chi.Router) {
		r.Get("/", a.Website.Get)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(models.RoleSuperAdmin))
			r.Post("/", a.Website.Create)
			r.Put("/", a.Website.Update)
			r.Post("/gallery", a.Website.Gallery)
		})
	})

	r.With(middleware.RequireRole(models.PostEditorRoles...)).Post("/upload", a.Upload.Upload)
	return r
}
