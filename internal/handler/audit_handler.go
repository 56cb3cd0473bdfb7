package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/response"
)

type auditReader interface {
	ListForResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error)
}

// AuditHandler exposes the audit trail of a licence.
type AuditHandler struct {
	reader auditReader
}

// NewAuditHandler builds a new handler.
func NewAuditHandler(reader auditReader) *AuditHandler {
	return &AuditHandler{reader: reader}
}

// History godoc
// @Summary List audit events for a licence, newest first
// @Tags Admin
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/audit [get]
func (h *AuditHandler) History(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	logs, err := h.reader.ListForResource(c.Request.Context(), models.AuditResourceLicence, strconv.FormatInt(bookingID, 10))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, logs)
}
