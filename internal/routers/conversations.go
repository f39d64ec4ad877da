package routers

import (
	"encoding/json"
	"net/http"

	"aiconsole/internal/ctx"
	"aiconsole/internal/handlers/conversations"

	"github.com/labstack/echo/v4"
)

func registerConversationRoutes(g *echo.Group, console *Console) {
	g.GET("/conversations", console.listConversations)
	g.POST("/conversations/:agent_id", console.saveConversation)
	g.PUT("/conversations/:agent_id/:chat_id", console.updateConversation)
	g.PUT("/conversations/:agent_id/:chat_id/title", console.renameConversation)
	g.DELETE("/conversations/:agent_id/:chat_id", console.deleteConversation)
}

func (con *Console) listConversations(cc echo.Context) error {
	c := cc.(*ctx.Context)

	all, err := con.Conversations.List(c.Request().Context())
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

func (con *Console) saveConversation(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var chat conversations.Chat
	if err := c.Bind(&chat); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid chat session format"})
	}

	if err := con.Conversations.Save(c.Request().Context(), c.Param("agent_id"), chat); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

func (con *Console) updateConversation(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var body struct {
		History json.RawMessage `json:"history"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid update format, missing history"})
	}

	err := con.Conversations.UpdateHistory(c.Request().Context(), c.Param("agent_id"), c.Param("chat_id"), body.History)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "updated"})
}

func (con *Console) renameConversation(cc echo.Context) error {
	c := cc.(*ctx.Context)

	var body struct {
		Title string `json:"title"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid or missing title"})
	}

	title, err := con.Conversations.Rename(c.Request().Context(), c.Param("agent_id"), c.Param("chat_id"), body.Title)
	if err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"status": "title updated", "newTitle": title})
}

func (con *Console) deleteConversation(cc echo.Context) error {
	c := cc.(*ctx.Context)

	if err := con.Conversations.Delete(c.Request().Context(), c.Param("agent_id"), c.Param("chat_id")); err != nil {
		return jsonError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
