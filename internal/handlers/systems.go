package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      List systems
// @Tags         systems
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "systems"
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/systems [get]
func (h *Handler) listSystems(c *gin.Context) {
	systems, err := h.services.Systems.List(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSystems, "systems_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"systems": systems})
}

// @Summary      Systems grouped by region
// @Description  Regions in display order; empty regions are omitted.
// @Tags         systems
// @Produce      json
// @Param        q    query     string  false  "Serial number substring (case-insensitive)"
// @Success      200  {array}   models.SystemsByRegion
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/systems/by-region [get]
func (h *Handler) systemsByRegion(c *gin.Context) {
	q := c.Query("q")
	groups, err := h.services.Systems.ByRegion(c.Request.Context(), q)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListSystems, "systems_by_region_failed", err, "q", q)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// @Summary      Get system
// @Tags         systems
// @Produce      json
// @Param        serial  path      string  true  "System serial number"
// @Success      200     {object}  models.System
// @Failure      404     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/systems/{serial} [get]
func (h *Handler) getSystem(c *gin.Context) {
	serial := c.Param("serial")
	sys, err := h.services.Systems.Get(c.Request.Context(), serial)
	if err != nil {
		h.serviceError(c, err, errLoadSystem, "system_get_failed", "serial_number", serial)
		return
	}
	c.JSON(http.StatusOK, sys)
}

// @Summary      Swim-lane layout
// @Description  Left analyzer, right analyzer, then the PX controller.
// @Tags         systems
// @Produce      json
// @Param        serial  path      string  true  "System serial number"
// @Success      200     {array}   models.SwimLaneConfig
// @Failure      404     {object}  map[string]string
// @Failure      422     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/systems/{serial}/swim-lanes [get]
func (h *Handler) getSwimLanes(c *gin.Context) {
	serial := c.Param("serial")
	lanes, err := h.services.Systems.SwimLanes(c.Request.Context(), serial)
	if err != nil {
		h.serviceError(c, err, errLoadSystem, "swim_lanes_failed", "serial_number", serial)
		return
	}
	c.JSON(http.StatusOK, lanes)
}
