package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

type AdminEventHandler struct {
	Events *service.EventService
}

func (h *AdminEventHandler) Register(r *gin.Engine) {
	group := r.Group("/admin/events")
	group.GET("", h.search)
	group.PATCH("/:eventId", h.update)
	group.PATCH("/:eventId/publish", h.publish)
}

// @Summary Search events
// @Tags admin-events
// @Param users query []int false "initiator ids"
// @Param states query []string false "event states"
// @Param categories query []int false "category ids"
// @Param text query string false "substring to search in annotation and description"
// @Param rangeStart query string false "earliest event date"
// @Param rangeEnd query string false "latest event date"
// @Param from query int false "offset"
// @Param size query int false "page size"
// @Success 200 {object} apiResponse
// @Router /admin/events [get]
func (h *AdminEventHandler) search(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, offset := pageParams(c)
	params := service.AdminSearchParams{
		UserIDs:     uint64ListQuery(c, "users"),
		States:      statesQuery(c, "states"),
		CategoryIDs: uint64ListQuery(c, "categories"),
		Text:        strQueryPtr(c, "text"),
		RangeStart:  timeQueryPtr(c, "rangeStart"),
		RangeEnd:    timeQueryPtr(c, "rangeEnd"),
		Limit:       limit,
		Offset:      offset,
	}
	items, total, err := h.Events.AdminSearch(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Update event as admin
// @Tags admin-events
// @Param eventId path int true "event id"
// @Param body body service.UpdateEventInput true "patch"
// @Success 200 {object} apiResponse
// @Failure 409 {object} apiResponse
// @Router /admin/events/{eventId} [patch]
func (h *AdminEventHandler) update(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	eventID := uint64Param(c, "eventId")
	if eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid eventId", nil)
		return
	}
	var in service.UpdateEventInput
	if err := c.ShouldBindJSON(&in); err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item, err := h.Events.UpdateByAdmin(c.Request.Context(), eventID, in)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}

func (h *AdminEventHandler) publish(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	eventID := uint64Param(c, "eventId")
	if eventID == 0 {
		Error(c, http.StatusBadRequest, "invalid eventId", nil)
		return
	}
	item, err := h.Events.Publish(c.Request.Context(), eventID)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, item, nil)
}
