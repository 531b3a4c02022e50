package httpserver

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
)

type ExportsHTTP struct {
	Dir string
}

// Serve hands out generated export files by bare filename; anything that
// looks like a path is rejected outright.
func (h *ExportsHTTP) Serve(c echo.Context) error {
	name := c.Param("filename")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	path := filepath.Join(h.Dir, name)
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		return echo.NewHTTPError(http.StatusNotFound, "file not found")
	}

	return c.File(path)
}
