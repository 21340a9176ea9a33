package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type CommentHandler struct {
	Comments *service.CommentService
}

func (h *CommentHandler) Register(r *gin.Engine) {
	group := r.Group("/users/:userId/comments")
	group.POST("", h.create)
	group.GET("/:comId", h.get)
	group.PATCH("/:comId", h.update)
	group.DELETE("/:comId", h.remove)

	r.GET("/events/:id/comments", h.listForEvent)
	r.DELETE("/admin/comments/:comId", h.removeByAdmin)
}

// @Summary Post a comment
// @Tags comments
// @Param userId path int true "author id"
// @Param eventId query int true "event id"
// @Param body body service.CommentInput true "comment"
// @Success 201 {object} apiResponse
// @Router /users/{userId}/comments [post]
func (h *CommentHandler) create(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Query(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in service.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Comments.Create(c.Request.Context(), userID, eventID, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *CommentHandler) get(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commentID := uint64Param(c, "comId")
	if commentID == 0 {
		Error(c, http.StatusBadRequest, "invalid comId", nil)
		return
	}
	item, err := h.Comments.GetByID(c.Request.Context(), commentID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *CommentHandler) update(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	commentID := uint64Param(c, "comId")
	if userID == 0 || commentID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in service.CommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Comments.Update(c.Request.Context(), userID, commentID, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *CommentHandler) remove(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	commentID := uint64Param(c, "comId")
	if userID == 0 || commentID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	if err := h.Comments.DeleteByAuthor(c.Request.Context(), userID, commentID); err != nil {
		ServiceError(c, err)
		return
	}
	NoContent(c)
}

func (h *CommentHandler) listForEvent(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	eventID := uint64Param(c, "id")
	if eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	limit, offset := pageParams(c)
	items, err := h.Comments.ListForEvent(c.Request.Context(), eventID, limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *CommentHandler) removeByAdmin(c *gin.Context) {
	if h.Comments == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	commentID := uint64Param(c, "comId")
	if commentID == 0 {
		Error(c, http.StatusBadRequest, "invalid comId", nil)
		return
	}
	if err := h.Comments.DeleteByAdmin(c.Request.Context(), commentID); err != nil {
		ServiceError(c, err)
		return
	}
	NoContent(c)
}
