package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	mw "github.com/skovalev/blueprinthub/internal/middleware"
	"github.com/skovalev/blueprinthub/internal/service"
)

func (h *AuthHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	profile, err := h.Svc.GetProfile(ctx, claims.Email)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *AuthHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	upd := service.ProfileUpdate{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	}
	if err := h.Svc.UpdateProfile(ctx, userID, upd); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Profile updated successfully",
	})
}

func (h *AuthHTTP) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	summary, err := h.Svc.Dashboard(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, summary)
}

func (h *AuthHTTP) ListUsers(c echo.Context) error {
	users, err := h.Svc.ListUsers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AuthHTTP) DeleteUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}

	if err := h.Svc.DeleteUser(c.Request().Context(), uint(id)); err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "User deleted successfully",
	})
}
