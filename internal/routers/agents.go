package routers

import (
	"net/http"

	"aiconsole/internal/ctx"
	"aiconsole/internal/handlers/agents"

	"github.com/labstack/echo/v4"
)

func registerAgentRoutes(g *echo.Group, console *Console) {
	g.GET("/agents", console.listAgents)
	g.POST("/agents", console.createAgent)
	g.POST("/agents/reorder", console.reorderAgents)
	g.PUT("/agents/:id", console.updateAgent)
	g.POST("/agents/:id/settings", console.saveAgentSettings)
	g.DELETE("/agents/:id", console.deleteAgent)
}

func (con *Console) listAgents(cc echo.Context) error {
	c := cc.(*ctx.Context)

	list, err := con.Agents.List(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (con *Console) createAgent(cc echo.Context) error {
	c := cc.(*ctx.Context)
	reqCtx := c.Request().Context()

	var doc agents.Agent
	if err := c.Bind(&doc); err != nil {
		c.Log.Warnw("failed to parse agent body", "error", err)
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Missing agent data"})
	}

	// A new agent starts from the current global settings and model.
	inherited := make(map[string]any)
	if s, err := con.Settings.Load(reqCtx); err == nil {
		raw := map[string]any{
			"tts_enabled": s.TTSEnabled, "tts_lang": s.TTSLang, "tts_voice": s.TTSVoice,
			"tts_speed": s.TTSSpeed, "num_ctx": s.NumCtx, "temperature": s.Temperature,
			"top_p": s.TopP,
		}
		for k, v := range raw {
			inherited[k] = v
		}
	}
	if model, err := con.Settings.LastModel(reqCtx); err == nil && model != "" {
		inherited["model"] = model
	}

	created, err := con.Agents.Create(reqCtx, doc, inherited)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (con *Console) reorderAgents(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var body struct {
		Order []string `json:"order"`
	}
	if err := c.Bind(&body); err != nil || body.Order == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format"})
	}

	if err := con.Agents.Reorder(c.Request().Context(), body.Order); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (con *Console) updateAgent(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var patch map[string]any
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format"})
	}

	updated, err := con.Agents.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (con *Console) saveAgentSettings(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var body map[string]any
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid data format"})
	}

	if err := con.Agents.SaveSettings(c.Request().Context(), c.Param("id"), body); err != nil {
		return jsonError(c, err)
	}
	c.Log.Infow("saved agent settings", "agent_id", c.Param("id"))
	return c.JSON(http.StatusOK, map[string]string{"status": "success"})
}

func (con *Console) deleteAgent(cc echo.Context) error {
	c := cc.(*ctx.Context)

	if err := con.Agents.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
