package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"evently/internal/service"
)

// PublicEventHandler serves the anonymous read surface. Every request records
// a hit with the stats collector so view counts stay meaningful.
type PublicEventHandler struct {
	Events    *service.EventService
	Telemetry *service.TelemetryService
}

func (h *PublicEventHandler) Register(r *gin.Engine) {
	group := r.Group("/events")
	group.GET("", h.search)
	group.GET("/:id", h.get)
}

// @Summary Search published events
// @Tags public-events
// @Param text query string false "substring to search in annotation and description"
// @Param categories query []int false "category ids"
// @Param paid query bool false "paid filter"
// @Param rangeStart query string false "earliest event date"
// @Param rangeEnd query string false "latest event date"
// @Param onlyAvailable query bool false "drop events with an exhausted participant limit"
// @Param sort query string false "EVENT_DATE or VIEWS"
// @Param from query int false "offset"
// @Param size query int false "page size"
// @Success 200 {object} apiResponse
// @Router /events [get]
func (h *PublicEventHandler) search(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	limit, offset := pageParams(c)
	params := service.PublicSearchParams{
		Text:          strQueryPtr(c, "text"),
		CategoryIDs:   uint64ListQuery(c, "categories"),
		Paid:          boolQueryPtr(c, "paid"),
		RangeStart:    timeQueryPtr(c, "rangeStart"),
		RangeEnd:      timeQueryPtr(c, "rangeEnd"),
		OnlyAvailable: boolQuery(c, "onlyAvailable", false),
		Sort:          c.Query("sort"),
		Limit:         limit,
		Offset:        offset,
	}
	items, total, err := h.Events.PublicSearch(c.Request.Context(), params)
	if err != nil {
		ServiceError(c, err)
		return
	}
	h.Telemetry.Record(c.Request.URL.Path, c.ClientIP())
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Get published event
// @Tags public-events
// @Param id path int true "event id"
// @Success 200 {object} apiResponse
// @Failure 404 {object} apiResponse
// @Router /events/{id} [get]
func (h *PublicEventHandler) get(c *gin.Context) {
	if h.Events == nil {
		Error(c, http.StatusInternalServerError, "service unavailable", nil)
		return
	}
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	item, err := h.Events.GetPublishedByID(c.Request.Context(), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	h.Telemetry.Record(service.EventURI(id), c.ClientIP())
	Ok(c, item, nil)
}
