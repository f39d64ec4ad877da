package routers

import (
	"io"
	"net/http"

	"aiconsole/internal/ctx"
	"aiconsole/internal/shared"

	"github.com/labstack/echo/v4"
)

func registerUploadRoutes(g *echo.Group, console *Console) {
	g.POST("/upload_file", console.uploadFile)
}

// uploadFile accepts one multipart file plus the owning session id and
// returns the attachment id under which the processed pages are stored.
func (con *Console) uploadFile(cc echo.Context) error {
	c := cc.(*ctx.Context)

	fh, err := c.FormFile("file")
	if err != nil {
		return jsonError(c, shared.ErrNoFile)
	}
	if fh.Filename == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No selected file"})
	}

	sessionID := c.FormValue("session_id")
	if sessionID == "" {
		sessionID = "unknown_session"
	}

	f, err := fh.Open()
	if err != nil {
		return jsonError(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return jsonError(c, err)
	}

	id, err := con.Uploads.Process(c.Request().Context(), sessionID, fh.Filename, data)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"file_id": id})
}
