package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

type auditReaderStub struct {
	resource   string
	resourceID string
	logs       []models.AuditLog
	err        error
}

func (s *auditReaderStub) ListForResource(ctx context.Context, resource, resourceID string) ([]models.AuditLog, error) {
	s.resource, s.resourceID = resource, resourceID
	return s.logs, s.err
}

func TestAuditHandlerHistory(t *testing.T) {
	reader := &auditReaderStub{logs: []models.AuditLog{{ID: "a1", Action: models.AuditActionSend}}}
	h := NewAuditHandler(reader)

	c, w := testContext(http.MethodGet, "/licences/42/audit", "", booking("42"), models.RoleCA)
	h.History(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.AuditResourceLicence, reader.resource)
	assert.Equal(t, "42", reader.resourceID)
	assert.Contains(t, string(decode(t, w).Data), `"action":"SEND"`)

	reader.err = errors.New("db down")
	c, w = testContext(http.MethodGet, "/licences/42/audit", "", booking("42"), models.RoleCA)
	h.History(c)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
