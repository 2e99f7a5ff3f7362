package handlers

import (
	"errors"
	"net/http"

	"lostfound/internal/middleware"
	"lostfound/internal/models"
	"lostfound/internal/services"

	"github.com/gin-gonic/gin"
)

// Mine GET /account：自己没有提交时显示空列表
func (h *ItemHandler) Mine(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	items, err := h.items.ListForUser(c.Request.Context(), user.DisplayName)
	if err != nil && !errors.Is(err, services.ErrNotFound) {
		_ = c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load your reports. Please try again.")
		return
	}
	h.renderAccount(c, user.DisplayName, items, true)
}

// ForUser GET /account/:username；没有记录按“用户不存在”处理
func (h *ItemHandler) ForUser(c *gin.Context) {
	name := c.Param("username")

	items, err := h.items.ListForUser(c.Request.Context(), name)
	if errors.Is(err, services.ErrNotFound) {
		RenderError(c, http.StatusNotFound, "User "+name+" has no reports.")
		return
	}
	if err != nil {
		_ = c.Error(err)
		RenderError(c, http.StatusInternalServerError, "Could not load reports. Please try again.")
		return
	}

	me, _ := middleware.CurrentUser(c)
	h.renderAccount(c, name, items, me.DisplayName == name)
}

func (h *ItemHandler) renderAccount(c *gin.Context, name string, items []models.Item, own bool) {
	Render(c, http.StatusOK, "account.html", gin.H{
		"Title": name + "'s reports",
		"Owner": name,
		"Own":   own,
		"Items": items,
	})
}
