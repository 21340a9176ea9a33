package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type CategoryHandler struct {
	Categories *service.CategoryService
}

func (h *CategoryHandler) Register(r *gin.Engine) {
	admin := r.Group("/admin/categories")
	admin.POST("", h.create)
	admin.PATCH("/:catId", h.update)
	admin.DELETE("/:catId", h.remove)

	public := r.Group("/categories")
	public.GET("", h.list)
	public.GET("/:catId", h.get)
}

func (h *CategoryHandler) create(c *gin.Context) {
	if h.Categories == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Categories.Create(c.Request.Context(), in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *CategoryHandler) update(c *gin.Context) {
	if h.Categories == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "catId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid catId", nil)
		return
	}
	var in service.CategoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Categories.Update(c.Request.Context(), id, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *CategoryHandler) remove(c *gin.Context) {
	if h.Categories == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "catId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid catId", nil)
		return
	}
	if err := h.Categories.Delete(c.Request.Context(), id); err != nil {
		ServiceError(c, err)
		return
	}
	NoContent(c)
}

func (h *CategoryHandler) list(c *gin.Context) {
	if h.Categories == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, offset := pageParams(c)
	items, err := h.Categories.List(c.Request.Context(), limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *CategoryHandler) get(c *gin.Context) {
	if h.Categories == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "catId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid catId", nil)
		return
	}
	item, err := h.Categories.GetByID(c.Request.Context(), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
