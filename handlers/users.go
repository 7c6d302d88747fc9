package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/middleware"
	"github.com/kevinaaaquil/compro/models"
	"github.com/kevinaaaquil/compro/store"
	"github.com/kevinaaaquil/compro/utils"
)

type UsersHandler struct {
	Store store.Store
	Log   *zap.SugaredLogger
}

func validRoles(roles []string) bool {
	if len(roles) == 0 {
		return false
	}
	for _, r := range roles {
		if !models.RoleValid(r) {
			return false
		}
	}
	return true
}

func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers(r.Context())
	if err != nil {
		storeError(w, h.Log, err, "failed to list users")
		return
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get looks a user up by id, falling back to username.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	user, err := h.Store.UserByID(r.Context(), key)
	if store.IsNotFound(err) {
		user, err = h.Store.UserByUsername(r.Context(), key)
	}
	if err != nil {
		storeError(w, h.Log, err, "failed to load user")
		return
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(user))
}

// Create adds an account on behalf of an administrator.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = normalizeEmail(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	if req.Username == "" {
		req.Username = usernameFromEmail(req.Email)
	}
	if req.Roles == nil {
		req.Roles = []string{models.RoleMember}
	}
	if !validRoles(req.Roles) {
		writeError(w, http.StatusBadRequest, "invalid role; use SUPER_ADMIN, MANAGER or MEMBER")
		return
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		nopIfNil(h.Log).Errorw("hash password", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	now := time.Now().UTC()
	user := &models.User{
		ID:            utils.NewID(),
		Username:      req.Username,
		FullName:      strings.TrimSpace(req.FullName),
		Email:         req.Email,
		PasswordHash:  hash,
		Roles:         req.Roles,
		EmailVerified: req.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		storeError(w, h.Log, err, "failed to create user")
		return
	}
	writeJSON(w, http.StatusCreated, dto.NewUserResponse(user))
}

// canManageUser reports whether the session may edit or delete the account id.
func canManageUser(claims *middleware.Claims, id string) bool {
	return claims != nil && (claims.UserID == id || claims.HasAnyRole(models.RoleSuperAdmin))
}

// wouldOrphanAdmins reports whether removing SUPER_ADMIN from target leaves none.
func (h *UsersHandler) wouldOrphanAdmins(r *http.Request, target *models.User) (bool, error) {
	if !target.HasRole(models.RoleSuperAdmin) {
		return false, nil
	}
	n, err := h.Store.CountUsersWithRole(r.Context(), models.RoleSuperAdmin)
	if err != nil {
		return false, err
	}
	return n <= 1, nil
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	claims := middleware.ClaimsFromContext(r.Context())
	if !canManageUser(claims, id) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Privileged() && !claims.HasAnyRole(models.RoleSuperAdmin) {
		writeError(w, http.StatusForbidden, "only a super admin may change roles or verification")
		return
	}

	target, err := h.Store.UserByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Log, err, "failed to update user")
		return
	}

	var upd models.UserUpdate
	if req.Username != nil {
		u := strings.TrimSpace(*req.Username)
		if u == "" {
			writeError(w, http.StatusBadRequest, "username cannot be empty")
			return
		}
		upd.Username = &u
	}
	if req.FullName != nil {
		n := strings.TrimSpace(*req.FullName)
		upd.FullName = &n
	}
	if req.Email != nil {
		e := normalizeEmail(*req.Email)
		if e == "" {
			writeError(w, http.StatusBadRequest, "email cannot be empty")
			return
		}
		upd.Email = &e
	}
	if req.Password != nil {
		if *req.Password == "" {
			writeError(w, http.StatusBadRequest, "password cannot be empty")
			return
		}
		hash, err := hashPassword(*req.Password)
		if err != nil {
			nopIfNil(h.Log).Errorw("hash password", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update user")
			return
		}
		upd.PasswordHash = &hash
	}
	if req.Roles != nil {
		if !validRoles(*req.Roles) {
			writeError(w, http.StatusBadRequest, "invalid role; use SUPER_ADMIN, MANAGER or MEMBER")
			return
		}
		if !models.HasAnyRole(*req.Roles, models.RoleSuperAdmin) {
			orphan, err := h.wouldOrphanAdmins(r, target)
			if err != nil {
				storeError(w, h.Log, err, "failed to update user")
				return
			}
			if orphan {
				writeError(w, http.StatusBadRequest, "cannot remove the last super admin")
				return
			}
		}
		upd.Roles = req.Roles
	}
	upd.EmailVerified = req.EmailVerified

	if !upd.Empty() {
		if err := h.Store.UpdateUser(r.Context(), id, upd); err != nil {
			storeError(w, h.Log, err, "failed to update user")
			return
		}
		if target, err = h.Store.UserByID(r.Context(), id); err != nil {
			storeError(w, h.Log, err, "failed to update user")
			return
		}
	}
	writeJSON(w, http.StatusOK, dto.NewUserResponse(target))
}

// Delete removes an account together with its posts.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !canManageUser(middleware.ClaimsFromContext(r.Context()), id) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	target, err := h.Store.UserByID(r.Context(), id)
	if err != nil {
		storeError(w, h.Log, err, "failed to delete user")
		return
	}
	orphan, err := h.wouldOrphanAdmins(r, target)
	if err != nil {
		storeError(w, h.Log, err, "failed to delete user")
		return
	}
	if orphan {
		writeError(w, http.StatusBadRequest, "cannot delete the last super admin")
		return
	}
	if err := h.Store.DeleteUser(r.Context(), id); err != nil {
		storeError(w, h.Log, err, "failed to delete user")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
