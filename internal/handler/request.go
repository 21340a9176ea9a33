package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type RequestHandler struct {
	Requests *service.RequestService
}

func (h *RequestHandler) Register(r *gin.Engine) {
	group := r.Group("/users/:userId/requests")
	group.GET("", h.list)
	group.POST("", h.create)
	group.PATCH("/:requestId/cancel", h.cancel)
}

func (h *RequestHandler) list(c *gin.Context) {
	if h.Requests == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	if userID == 0 {
		Error(c, http.StatusBadRequest, "invalid userId", nil)
		return
	}
	items, err := h.Requests.ListByUser(c.Request.Context(), userID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

// @Summary File a participation request
// @Tags requests
// @Param userId path int true "requester id"
// @Param eventId query int true "event id"
// @Success 201 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /users/{userId}/requests [post]
func (h *RequestHandler) create(c *gin.Context) {
	if h.Requests == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Query(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Requests.Create(c.Request.Context(), userID, eventID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *RequestHandler) cancel(c *gin.Context) {
	if h.Requests == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	requestID := uint64Param(c, "requestId")
	if userID == 0 || requestID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Requests.Cancel(c.Request.Context(), userID, requestID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
