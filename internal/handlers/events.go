package handlers

import (
	"net/http"
	"time"

	"cor_dashboard/internal/models"
	"cor_dashboard/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Raw module events
// @Description  Filter by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only endDate is treated as end of day inclusive. Unknown serial numbers return no modules.
// @Tags         events
// @Produce      json
// @Param        serial     path      string  true   "System serial number"
// @Param        startDate  query     string  false  "Start of range"  example(2026-02-05)
// @Param        endDate    query     string  false  "End of range. Date-only treated as end of day."  example(2026-02-05)
// @Success      200        {object}  models.SystemEventsResponse
// @Failure      400        {object}  map[string]string
// @Failure      500        {object}  map[string]string
// @Router       /api/v1/systems/{serial}/events [get]
func (h *Handler) getSystemEvents(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}
	serial := c.Param("serial")

	resp, err := h.services.Events.SystemEvents(c.Request.Context(), models.SystemEventsRequest{
		SerialNumber: serial,
		StartDate:    from,
		EndDate:      to,
	})
	if err != nil {
		h.serviceError(c, err, errLoadEvents, "system_events_failed", "serial_number", serial, "from", from, "to", to)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary      Processed timeline
// @Description  Swim lanes with their processed data. referenceTime ages open workflows and defaults to now.
// @Tags         events
// @Produce      json
// @Param        serial         path      string  true   "System serial number"
// @Param        startDate      query     string  false  "Start of range"  example(2026-02-05)
// @Param        endDate        query     string  false  "End of range. Date-only treated as end of day."  example(2026-02-05)
// @Param        referenceTime  query     string  false  "Instant used to classify open workflows"
// @Success      200            {object}  models.Timeline
// @Failure      400            {object}  map[string]string
// @Failure      404            {object}  map[string]string
// @Failure      422            {object}  map[string]string
// @Failure      500            {object}  map[string]string
// @Router       /api/v1/systems/{serial}/timeline [get]
func (h *Handler) getTimeline(c *gin.Context) {
	from, to, ok := parseDateRange(c)
	if !ok {
		return
	}

	var ref time.Time
	if qs := c.Query("referenceTime"); qs != "" {
		var err error
		if ref, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errRefInvalid})
			return
		}
	}
	serial := c.Param("serial")

	timeline, err := h.services.Timelines.Timeline(c.Request.Context(), service.TimelineRequest{
		SerialNumber:  serial,
		StartDate:     from,
		EndDate:       to,
		ReferenceTime: ref,
	})
	if err != nil {
		h.serviceError(c, err, errLoadTimeline, "timeline_build_failed", "serial_number", serial)
		return
	}
	c.JSON(http.StatusOK, timeline)
}
