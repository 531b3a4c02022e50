package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/skovalev/blueprinthub/internal/models"
	"github.com/skovalev/blueprinthub/internal/repo"
	"github.com/skovalev/blueprinthub/internal/tokens"
)

const claimsContextKey = "session_claims"

type Auth struct {
	Tokens *tokens.Service
	Repo   *repo.GormRepo
}

func NewAuth(tokenSvc *tokens.Service, r *repo.GormRepo) *Auth {
	return &Auth{Tokens: tokenSvc, Repo: r}
}

// RequireAuth verifies the bearer token: signature and expiry from the token
// itself, revocation against the store. Missing, expired and revoked tokens
// are 401; tokens that fail to parse or verify are 422.
func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "request does not contain an access token")
		}

		claims, err := m.Tokens.Parse(raw)
		if err != nil {
			if errors.Is(err, tokens.ErrTokenExpired) {
				return echo.NewHTTPError(http.StatusUnauthorized, tokens.ErrTokenExpired.Error())
			}
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
		}

		revoked, err := m.Repo.IsRevoked(c.Request().Context(), claims.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
		if revoked {
			return echo.NewHTTPError(http.StatusUnauthorized, tokens.ErrTokenRevoked.Error())
		}

		c.Set(claimsContextKey, claims)
		return next(c)
	}
}

// RequireAdmin gates on the user's current role in the store, so revoking
// admin takes effect immediately even for tokens issued with the admin role.
func (m *Auth) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "request does not contain an access token")
		}
		userID, err := claims.UserID()
		if err != nil {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
		}

		user, err := m.Repo.GetUserByID(c.Request().Context(), userID)
		if err != nil || user.Role != models.RoleAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return next(c)
	}
}

func ClaimsFrom(c echo.Context) *tokens.SessionClaims {
	if v := c.Get(claimsContextKey); v != nil {
		if claims, ok := v.(*tokens.SessionClaims); ok {
			return claims
		}
	}
	return nil
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", tokens.ErrTokenMissing
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", tokens.ErrTokenMissing
	}
	return parts[1], nil
}
