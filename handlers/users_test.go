package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/compro/dto"
	"github.com/kevinaaaquil/compro/models"
)

func strPtr(s string) *string { return &s }

func TestUsers_ListAndGet(t *testing.T) {
	env := newTestEnv(t, false)
	member, token := env.seedUser(t, "member", models.RoleMember)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/user", "", nil).Code)

	rec := env.do(t, http.MethodGet, "/api/user", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []dto.UserResponse
	decode(t, rec, &list)
	require.Len(t, list, 1)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	for _, key := range []string{member.ID, member.Username} {
		rec = env.do(t, http.MethodGet, "/api/user/"+key, "", nil)
		require.Equal(t, http.StatusOK, rec.Code, key)
		var got dto.UserResponse
		decode(t, rec, &got)
		assert.Equal(t, member.ID, got.ID)
	}
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/user/missing", "", nil).Code)
}

func TestUsers_Create(t *testing.T) {
	env := newTestEnv(t, false)
	_, admin := env.seedUser(t, "root", models.RoleSuperAdmin)
	_, member := env.seedUser(t, "member", models.RoleMember)

	req := dto.CreateUserRequest{Email: "new@example.com", Password: "pw", Roles: []string{models.RoleManager}}
	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/user", member, req).Code)

	rec := env.do(t, http.MethodPost, "/api/user", admin, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var got dto.UserResponse
	decode(t, rec, &got)
	assert.Equal(t, "new", got.Username)
	assert.Equal(t, []string{models.RoleManager}, got.Roles)

	assert.Equal(t, http.StatusConflict, env.do(t, http.MethodPost, "/api/user", admin, req).Code)

	bad := dto.CreateUserRequest{Email: "x@example.com", Password: "pw", Roles: []string{"OWNER"}}
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/user", admin, bad).Code)
}

func TestUsers_Update(t *testing.T) {
	env := newTestEnv(t, false)
	admin, adminTok := env.seedUser(t, "root", models.RoleSuperAdmin)
	member, memberTok := env.seedUser(t, "member", models.RoleMember)
	other, _ := env.seedUser(t, "other", models.RoleMember)

	rec := env.do(t, http.MethodPut, "/api/user/"+other.ID, memberTok, dto.UpdateUserRequest{FullName: strPtr("x")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	roles := []string{models.RoleSuperAdmin}
	rec = env.do(t, http.MethodPut, "/api/user/"+member.ID, memberTok, dto.UpdateUserRequest{Roles: &roles})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPut, "/api/user/"+member.ID, memberTok, dto.UpdateUserRequest{FullName: strPtr("Member Name")})
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.UserResponse
	decode(t, rec, &got)
	assert.Equal(t, "Member Name", got.FullName)

	rec = env.do(t, http.MethodPut, "/api/user/"+member.ID, memberTok, dto.UpdateUserRequest{Username: strPtr("other")})
	assert.Equal(t, http.StatusConflict, rec.Code)

	demote := []string{models.RoleMember}
	rec = env.do(t, http.MethodPut, "/api/user/"+admin.ID, adminTok, dto.UpdateUserRequest{Roles: &demote})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "cannot remove the last super admin", errorOf(t, rec))

	rec = env.do(t, http.MethodPut, "/api/user/missing", adminTok, dto.UpdateUserRequest{FullName: strPtr("x")})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	promote := []string{models.RoleManager, models.RoleSuperAdmin}
	rec = env.do(t, http.MethodPut, "/api/user/"+member.ID, adminTok, dto.UpdateUserRequest{Roles: &promote})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPut, "/api/user/"+admin.ID, adminTok, dto.UpdateUserRequest{Roles: &demote})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUsers_Delete(t *testing.T) {
	env := newTestEnv(t, false)
	admin, adminTok := env.seedUser(t, "root", models.RoleSuperAdmin)
	member, memberTok := env.seedUser(t, "member", models.RoleMember)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodDelete, "/api/user/"+admin.ID, memberTok, nil).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodDelete, "/api/user/"+admin.ID, adminTok, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/user/missing", adminTok, nil).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/user/"+member.ID, memberTok, nil).Code)

	_, err := env.store.UserByID(t.Context(), member.ID)
	assert.Error(t, err)
}
