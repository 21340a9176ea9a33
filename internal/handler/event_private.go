package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/models"
	"evently/internal/service"
)

// PrivateEventHandler serves the initiator-facing event surface, including
// moderation of participation requests on the initiator's own events.
type PrivateEventHandler struct {
	Events   *service.EventService
	Requests *service.RequestService
}

func (h *PrivateEventHandler) Register(r *gin.Engine) {
	group := r.Group("/users/:userId/events")
	group.POST("", h.create)
	group.GET("", h.listMine)
	group.GET("/:eventId", h.getMine)
	group.PATCH("/:eventId", h.update)
	group.GET("/:eventId/requests", h.listRequests)
	group.PATCH("/:eventId/requests", h.moderateRequests)
}

// @Summary Create event
// @Tags private-events
// @Param userId path int true "initiator id"
// @Param body body service.NewEventInput true "new event"
// @Success 201 {object} apiResponse
// @Router /users/{userId}/events [post]
func (h *PrivateEventHandler) create(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	if userID == 0 {
		Error(c, http.StatusBadRequest, "invalid userId", nil)
		return
	}
	var in service.NewEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Events.Create(c.Request.Context(), userID, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, item)
}

func (h *PrivateEventHandler) listMine(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	if userID == 0 {
		Error(c, http.StatusBadRequest, "invalid userId", nil)
		return
	}
	limit, offset := pageParams(c)
	items, err := h.Events.GetMyEvents(c.Request.Context(), userID, limit, offset)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

func (h *PrivateEventHandler) getMine(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Param(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Events.GetMyEventByID(c.Request.Context(), userID, eventID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *PrivateEventHandler) update(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Param(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in service.UpdateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Events.UpdateByOwner(c.Request.Context(), userID, eventID, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *PrivateEventHandler) listRequests(c *gin.Context) {
	if h.Requests == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Param(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	items, err := h.Requests.ListForEvent(c.Request.Context(), userID, eventID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, nil)
}

type moderationInput struct {
	RequestIDs []uint64             `json:"requestIds" binding:"required,min=1"`
	Status     models.RequestStatus `json:"status" binding:"required"`
}

// @Summary Moderate participation requests
// @Tags private-events
// @Param userId path int true "initiator id"
// @Param eventId path int true "event id"
// @Param body body moderationInput true "verdict"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /users/{userId}/events/{eventId}/requests [patch]
func (h *PrivateEventHandler) moderateRequests(c *gin.Context) {
	if h.Requests == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	userID := uint64Param(c, "userId")
	eventID := uint64Param(c, "eventId")
	if userID == 0 || eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	var in moderationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	result, err := h.Requests.Moderate(c.Request.Context(), userID, eventID, in.Status, in.RequestIDs)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, result, nil)
}
