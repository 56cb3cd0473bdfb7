package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/middleware"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/response"
)

type caseListService interface {
	List(ctx context.Context, actor service.Actor, tab string) ([]models.CaseSummary, bool, error)
	Export(ctx context.Context, actor service.Actor, tab, format string) (*service.ExportFile, error)
}

// CaseListHandler exposes the role-specific case lists.
type CaseListHandler struct {
	service caseListService
}

// NewCaseListHandler builds a new handler.
func NewCaseListHandler(service caseListService) *CaseListHandler {
	return &CaseListHandler{service: service}
}

// List godoc
// @Summary List cases needing the caller's attention
// @Tags CaseList
// @Produce json
// @Param tab query string false "active or inactive" Enums(active, inactive)
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /caselist [get]
func (h *CaseListHandler) List(c *gin.Context) {
	cases, hit, err := h.service.List(c.Request.Context(), actorFromContext(c), c.Query("tab"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)

	page, pagination := paginate(cases, c.Query("page"), c.DefaultQuery("limit", "50"))
	response.JSON(c, http.StatusOK, page, pagination, middleware.ExtractMeta(c))
}

// paginate slices the cached list in memory. Without a page parameter the whole list is returned.
func paginate(cases []models.CaseSummary, pageParam, limitParam string) ([]models.CaseSummary, *models.Pagination) {
	if pageParam == "" {
		return cases, nil
	}
	page, err := strconv.Atoi(pageParam)
	if err != nil || page < 1 {
		page = 1
	}
	size, err := strconv.Atoi(limitParam)
	if err != nil || size <= 0 {
		size = 50
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(cases)}

	start := (page - 1) * size
	if start >= len(cases) {
		return []models.CaseSummary{}, pagination
	}
	end := start + size
	if end > len(cases) {
		end = len(cases)
	}
	return cases[start:end], pagination
}

// Export godoc
// @Summary Download the case list
// @Tags CaseList
// @Produce text/csv
// @Produce application/pdf
// @Param tab query string false "active or inactive" Enums(active, inactive)
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /caselist/export [get]
func (h *CaseListHandler) Export(c *gin.Context) {
	file, err := h.service.Export(c.Request.Context(), actorFromContext(c), c.Query("tab"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, file.Filename, file.ContentType, file.Body)
}
