package routers

import (
	"encoding/json"
	"io"
	"net/http"
	"slices"

	"aiconsole/internal/ctx"
	"aiconsole/internal/shared"

	"github.com/labstack/echo/v4"
)

func registerSettingsRoutes(g *echo.Group, console *Console) {
	g.GET("/get_settings", console.getSettings)
	g.POST("/save_settings", console.saveSettings)
	g.GET("/models", console.listModels)
	g.POST("/change_model", console.changeModel)
}

func (con *Console) getSettings(cc echo.Context) error {
	c := cc.(*ctx.Context)

	s, err := con.Settings.Load(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (con *Console) saveSettings(cc echo.Context) error {
	c := cc.(*ctx.Context)

	patch, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read request body"})
	}

	if _, err := con.Settings.Save(c.Request().Context(), json.RawMessage(patch)); err != nil {
		return jsonError(c, err)
	}
	c.Log.Infow("saved user settings")
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

// listModels reports the models the inference engine has locally plus the
// last selected one, so the client can restore its selector.
func (con *Console) listModels(cc echo.Context) error {
	c := cc.(*ctx.Context)
	reqCtx := c.Request().Context()

	models, err := con.Engine.Models(reqCtx)
	if err != nil {
		c.Log.Errorw("failed to list engine models", "error", err)
		return jsonError(c, err)
	}

	current, err := con.Settings.LastModel(reqCtx)
	if err != nil {
		return jsonError(c, err)
	}
	if current == "" && len(models) > 0 {
		current = models[0]
	}

	return c.JSON(http.StatusOK, map[string]any{
		"models":        models,
		"current_model": current,
	})
}

func (con *Console) changeModel(cc echo.Context) error {
	c := cc.(*ctx.Context)
	reqCtx := c.Request().Context()

	var body struct {
		Model string `json:"model"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format"})
	}

	models, err := con.Engine.Models(reqCtx)
	if err != nil {
		return jsonError(c, err)
	}
	if !slices.Contains(models, body.Model) {
		return jsonError(c, shared.ErrUnknownModel)
	}

	if err := con.Settings.SetLastModel(reqCtx, body.Model); err != nil {
		return jsonError(c, err)
	}
	c.Log.Infow("model changed", "model", body.Model)
	return c.JSON(http.StatusOK, map[string]string{"status": "success", "current_model": body.Model})
}
