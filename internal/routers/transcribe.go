package routers

import (
	"net/http"

	"aiconsole/internal/ctx"
	"aiconsole/internal/shared"

	"github.com/labstack/echo/v4"
)

func registerTranscribeRoutes(g *echo.Group, console *Console) {
	g.POST("/transcribe", console.transcribeAudio)
}

func (con *Console) transcribeAudio(cc echo.Context) error {
	c := cc.(*ctx.Context)

	fh, err := c.FormFile("audio_data")
	if err != nil {
		return jsonError(c, shared.ErrNoAudio)
	}

	language := c.FormValue("language")
	if language == "" {
		language = "en"
	}

	f, err := fh.Open()
	if err != nil {
		return jsonError(c, err)
	}
	defer f.Close()

	text, err := con.Transcribe.Transcribe(c.Request().Context(), f, fh.Filename, language)
	if err != nil {
		return jsonError(c, err)
	}
	if text == "" {
		return c.JSON(http.StatusOK, map[string]string{"status": "no_speech"})
	}
	return c.JSON(http.StatusOK, map[string]string{"transcribedText": text})
}
