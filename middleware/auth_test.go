package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kevinaaaquil/compro/models"
)

const testSecret = "0123456789abcdef-test"

func testUser(roles ...string) *models.User {
	return &models.User{ID: "u1", Email: "a@example.com", Roles: roles}
}

func TestNewTokenAndParse(t *testing.T) {
	t.Parallel()

	raw, claims, err := NewToken(testSecret, testUser(models.RoleMember), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	got, err := ParseToken(testSecret, raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "a@example.com", got.Email)
	assert.Equal(t, []string{models.RoleMember}, got.Roles)
}

func TestParseToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, _, err := NewToken(testSecret, testUser(), -time.Second)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, expired)
	assert.Error(t, err)

	valid, _, err := NewToken(testSecret, testUser(), time.Hour)
	require.NoError(t, err)
	_, err = ParseToken("another-secret-value", valid)
	assert.Error(t, err)

	_, err = ParseToken(testSecret, "not-a-token")
	assert.Error(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(testSecret, unsigned)
	assert.Error(t, err)
}

func TestTokenFromRequest(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", TokenFromRequest(r))

	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
	assert.Equal(t, "from-cookie", TokenFromRequest(r))
}

func serve(h http.Handler, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserIDFromContext(r.Context())
		w.Write([]byte(id))
	})
	h := Session(testSecret)(RequireRole(models.RoleSuperAdmin)(ok))

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())

	member, _, _ := NewToken(testSecret, testUser(models.RoleMember), time.Hour)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+member)
	assert.Equal(t, http.StatusForbidden, serve(h, r).Code)

	admin, _, _ := NewToken(testSecret, testUser(models.RoleSuperAdmin), time.Hour)
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookie, Value: admin})
	rec = serve(h, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", rec.Body.String())
}

func TestRequireAuth_InvalidTokenIsAbsent(t *testing.T) {
	t.Parallel()

	h := Session(testSecret)(RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, serve(h, r).Code)
}
