package handlers

import (
	"net/http"

	"cor_dashboard/internal/models"

	"github.com/gin-gonic/gin"
)

// @Summary      Ingest message
// @Description  Stores one instrument message bundle. Every event needs eventCode and associatedDateTimeOffset; other fields are kept as sent.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Param        body  body      models.Message  true  "Message bundle"
// @Success      202   {object}  service.IngestResult
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/messages [post]
func (h *Handler) postMessage(c *gin.Context) {
	var msg models.Message
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBody + err.Error()})
		return
	}

	res, err := h.services.Ingestor.Ingest(c.Request.Context(), msg)
	if err != nil {
		h.serviceError(c, err, errIngest, "ingest_failed", "serial_number", msg.SerialNumber)
		return
	}
	c.JSON(http.StatusAccepted, res)
}
