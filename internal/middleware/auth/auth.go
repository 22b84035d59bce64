package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/tvanngo/clothes-shop/internal/models"
	"github.com/tvanngo/clothes-shop/internal/token"
)

// TokenHeader is the custom header the clients send the auth token in.
const TokenHeader = "x-auth-token"

type Middleware struct {
	DB        *gorm.DB
	JWTSecret []byte
}

// RequireAuth verifies the token from the x-auth-token header and resolves
// the asserted user id against the store, attaching id, name and role to the
// request context.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(TokenHeader)
		if raw == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no auth token, access denied")
		}

		userID, err := token.Verify(raw, m.JWTSecret)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "token verification failed, authorization denied")
		}

		var user models.User
		if err := m.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		c.Set("userID", user.ID)
		c.Set("userName", user.Name)
		c.Set("role", user.Role)
		return next(c)
	}
}

// RequireAdmin must be composed after RequireAuth. The role is re-read from
// the store on every call, never trusted from the request context, so a
// demoted admin loses access immediately. Non-admins get 401, not 403; the
// clients depend on that status.
func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := c.Get("userID").(uint)
		if !ok || userID == 0 {
			return echo.NewHTTPError(http.StatusUnauthorized, "no auth token, access denied")
		}

		var user models.User
		if err := m.DB.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		if user.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusUnauthorized, "you are not an admin")
		}
		return next(c)
	}
}
