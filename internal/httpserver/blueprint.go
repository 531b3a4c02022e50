package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/skovalev/blueprinthub/internal/logging"
	mw "github.com/skovalev/blueprinthub/internal/middleware"
	"github.com/skovalev/blueprinthub/internal/service"
)

type BlueprintHTTP struct {
	Svc  *service.BlueprintService
	Auth *service.AuthService
}

func (h *BlueprintHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "blueprint_upload")

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	// Role is re-read from the store here: upload is the one place where a
	// role change must not wait for the token to expire.
	isAdmin, err := h.Auth.IsAdmin(ctx, userID)
	if err != nil || !isAdmin {
		l.Warn("upload_forbidden", "status", 403, "user_id", userID)
		return echo.NewHTTPError(http.StatusForbidden, "admin access required")
	}

	fileHeader, err := c.FormFile("blueprint")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file part")
	}
	if fileHeader.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no selected file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read file")
	}
	defer src.Close()

	id, err := h.Svc.Upload(ctx, userID, fileHeader.Filename, src)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Blueprint uploaded successfully, conversion in progress",
		"blueprint_id": id,
	})
}

func (h *BlueprintHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	bps, err := h.Svc.List(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bps)
}

func (h *BlueprintHTTP) Get(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blueprint id")
	}

	bp, err := h.Svc.Get(ctx, userID, uint(id))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, bp)
}

func (h *BlueprintHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blueprint id")
	}

	if err := h.Svc.Delete(ctx, userID, uint(id)); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Blueprint deleted successfully",
	})
}

func (h *BlueprintHTTP) UpdateColor(c echo.Context) error {
	ctx := c.Request().Context()

	claims := mw.ClaimsFrom(c)
	userID, err := claims.UserID()
	if err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid token")
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid blueprint id")
	}

	var req struct {
		Color string `json:"color"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.UpdateColor(ctx, userID, uint(id), req.Color); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Blueprint color updated",
	})
}
