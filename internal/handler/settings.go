package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type SettingsHandler struct {
	Settings *service.SystemSettingsService
}

func (h *SettingsHandler) Register(r *gin.Engine) {
	group := r.Group("/admin/settings")
	group.GET("", h.list)
	group.PATCH("/:key", h.patch)
}

func (h *SettingsHandler) list(c *gin.Context) {
	if h.Settings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	items, err := h.Settings.List(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

type patchSettingRequest struct {
	Value json.RawMessage `json:"value" binding:"required"`
}

func (h *SettingsHandler) patch(c *gin.Context) {
	if h.Settings == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	key := strings.TrimSpace(c.Param("key"))
	if key == "" {
		Error(c, http.StatusBadRequest, "invalid key", nil)
		return
	}
	var req patchSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Settings.Set(c.Request.Context(), key, req.Value)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
