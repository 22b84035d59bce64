package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/models"
	"github.com/tvanngo/clothes-shop/internal/token"
)

var testSecret = []byte("test-secret")

func newTestMiddleware(t *testing.T) *Middleware {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return &Middleware{DB: db, JWTSecret: testSecret}
}

func createUser(t *testing.T, db *gorm.DB, role string) models.User {
	t.Helper()

	u := models.User{Name: "Someone", Email: role + "@example.com", PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func requestWithToken(raw string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if raw != "" {
		req.Header.Set(TokenHeader, raw)
	}
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func okNext(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func httpErrorCode(t *testing.T, err error) int {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code
}

func TestRequireAuthMissingToken(t *testing.T) {
	m := newTestMiddleware(t)

	_, c := requestWithToken("")
	err := m.RequireAuth(okNext)(c)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestRequireAuthBadToken(t *testing.T) {
	m := newTestMiddleware(t)

	_, c := requestWithToken("definitely-not-a-jwt")
	err := m.RequireAuth(okNext)(c)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestRequireAuthWrongSecret(t *testing.T) {
	m := newTestMiddleware(t)
	u := createUser(t, m.DB, models.RoleUser)

	raw, err := token.Sign(u.ID, []byte("other-secret"))
	require.NoError(t, err)

	_, c := requestWithToken(raw)
	err = m.RequireAuth(okNext)(c)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	m := newTestMiddleware(t)
	u := createUser(t, m.DB, models.RoleUser)

	raw, err := token.Sign(u.ID, testSecret)
	require.NoError(t, err)

	rec, c := requestWithToken(raw)
	require.NoError(t, m.RequireAuth(okNext)(c))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, u.ID, c.Get("userID"))
	require.Equal(t, u.Name, c.Get("userName"))
	require.Equal(t, models.RoleUser, c.Get("role"))
}

func TestRequireAuthDeletedUser(t *testing.T) {
	m := newTestMiddleware(t)
	u := createUser(t, m.DB, models.RoleUser)

	raw, err := token.Sign(u.ID, testSecret)
	require.NoError(t, err)
	require.NoError(t, m.DB.Unscoped().Delete(&u).Error)

	_, c := requestWithToken(raw)
	err = m.RequireAuth(okNext)(c)
	require.Equal(t, http.StatusNotFound, httpErrorCode(t, err))
}

func TestRequireAdminRejectsUsers(t *testing.T) {
	m := newTestMiddleware(t)
	u := createUser(t, m.DB, models.RoleUser)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", u.ID)

	// 401, not 403: the clients key off this exact status
	err := m.RequireAdmin(okNext)(c)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}

func TestRequireAdminReReadsRole(t *testing.T) {
	m := newTestMiddleware(t)
	u := createUser(t, m.DB, models.RoleAdmin)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("userID", u.ID)
	c.Set("role", models.RoleAdmin)

	require.NoError(t, m.RequireAdmin(okNext)(c))
	require.Equal(t, http.StatusOK, rec.Code)

	// demote in the store; the stale context role must not be trusted
	require.NoError(t, m.DB.Model(&u).Update("role", models.RoleUser).Error)

	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec2)
	c2.Set("userID", u.ID)
	c2.Set("role", models.RoleAdmin)

	err := m.RequireAdmin(okNext)(c2)
	require.Equal(t, http.StatusUnauthorized, httpErrorCode(t, err))
}
