package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type UserHandler struct {
	Users *service.UserService
}

func (h *UserHandler) Register(r *gin.Engine) {
	group := r.Group("/admin/users")
	group.POST("", h.create)
	group.GET("", h.list)
	group.DELETE("/:userId", h.remove)
}

func (h *UserHandler) create(c *gin.Context) {
	if h.Users == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	var in service.NewUserInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Users.Create(c.Request.Context(), in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *UserHandler) list(c *gin.Context) {
	if h.Users == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, offset := pageParams(c)
	ids := uint64ListQuery(c, "ids")
	items, total, err := h.Users.List(c.Request.Context(), ids, limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

func (h *UserHandler) remove(c *gin.Context) {
	if h.Users == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	if userID == 0 {
		Error(c, http.StatusBadRequest, "invalid userId", nil)
		return
	}
	if err := h.Users.Delete(c.Request.Context(), userID); err != nil {
		ServiceError(c, err)
		return
	}
	NoContent(c)
}
