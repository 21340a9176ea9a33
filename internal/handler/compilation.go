package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type CompilationHandler struct {
	Compilations *service.CompilationService
}

func (h *CompilationHandler) Register(r *gin.Engine) {
	admin := r.Group("/admin/compilations")
	admin.POST("", h.create)
	admin.PATCH("/:compId", h.update)
	admin.DELETE("/:compId", h.remove)

	public := r.Group("/compilations")
	public.GET("", h.list)
	public.GET("/:compId", h.get)
}

func (h *CompilationHandler) create(c *gin.Context) {
	if h.Compilations == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var in service.NewCompilationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Compilations.Create(c.Request.Context(), in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *CompilationHandler) update(c *gin.Context) {
	if h.Compilations == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "compId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid compId", nil)
		return
	}
	var in service.UpdateCompilationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Compilations.Update(c.Request.Context(), id, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *CompilationHandler) remove(c *gin.Context) {
	if h.Compilations == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "compId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid compId", nil)
		return
	}
	if err := h.Compilations.Delete(c.Request.Context(), id); err != nil {
		ServiceError(c, err)
		return
	}
	NoContent(c)
}

func (h *CompilationHandler) list(c *gin.Context) {
	if h.Compilations == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, offset := pageParams(c)
	pinned := boolQueryPtr(c, "pinned")
	items, total, err := h.Compilations.List(c.Request.Context(), pinned, limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *CompilationHandler) get(c *gin.Context) {
	if h.Compilations == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "compId")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid compId", nil)
		return
	}
	item, err := h.Compilations.GetByID(c.Request.Context(), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
