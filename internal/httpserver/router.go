package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	mw "github.com/skovalev/blueprinthub/internal/middleware"
)

type Deps struct {
	AuthHandler      *AuthHTTP
	BlueprintHandler *BlueprintHTTP
	ExportsHandler   *ExportsHTTP
	AuthMW           *mw.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/exports/:filename", d.ExportsHandler.Serve)

	api := e.Group("/api")

	api.POST("/register", d.AuthHandler.Register)
	api.POST("/login", d.AuthHandler.Login)
	api.POST("/forgot-password", d.AuthHandler.ForgotPassword)

	private := api.Group("", d.AuthMW.RequireAuth)

	private.POST("/logout", d.AuthHandler.Logout)
	private.POST("/reset-password", d.AuthHandler.ResetPassword)
	private.GET("/profile", d.AuthHandler.Profile)
	private.PUT("/profile", d.AuthHandler.UpdateProfile)
	private.GET("/dashboard", d.AuthHandler.Dashboard)

	private.POST("/blueprint/upload", d.BlueprintHandler.Upload)
	private.GET("/blueprints", d.BlueprintHandler.List)
	private.GET("/blueprints/:id", d.BlueprintHandler.Get)
	private.DELETE("/blueprints/:id", d.BlueprintHandler.Delete)
	private.PATCH("/blueprints/:id/color", d.BlueprintHandler.UpdateColor)

	admin := private.Group("/admin", d.AuthMW.RequireAdmin)

	admin.GET("/users", d.AuthHandler.ListUsers)
	admin.DELETE("/users/:id", d.AuthHandler.DeleteUser)
}
