package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary      Reference data
// @Tags         reference
// @Produce      json
// @Success      200  {object}  models.ReferenceData
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/reference-data [get]
func (h *Handler) getReferenceData(c *gin.Context) {
	data, err := h.services.Reference.ReferenceData(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadReference, "reference_data_failed", err)
		return
	}
	c.JSON(http.StatusOK, data)
}
