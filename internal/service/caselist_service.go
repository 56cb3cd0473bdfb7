package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/export"
)

// Case list tabs.
const (
	TabActive   = "active"
	TabInactive = "inactive"
)

// Export formats.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// CaseSource lists stored licences, optionally restricted to stages.
type CaseSource interface {
	ListCases(ctx context.Context, stages []models.Stage) ([]models.LicenceRow, error)
}

type datasetRenderer interface {
	ContentType() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered case-list export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

var (
	roStages = []models.Stage{
		models.StageProcessingRO, models.StageProcessingCA, models.StageApproval,
		models.StageDecided, models.StageModified, models.StageModifiedApproval,
	}
	dmStages = []models.Stage{models.StageProcessingCA, models.StageApproval, models.StageDecided}

	inactiveStages = map[models.Stage]bool{
		models.StageDecided:          true,
		models.StageModified:         true,
		models.StageModifiedApproval: true,
		models.StageVary:             true,
	}
)

// CaseListService builds the per-role case lists with their status labels.
type CaseListService struct {
	source    CaseSource
	cache     *CacheService
	labels    workflow.LabelTable
	cacheTTL  time.Duration
	renderers map[string]datasetRenderer
	logger    *zap.Logger
}

// NewCaseListService constructs a CaseListService. The cache may be nil.
func NewCaseListService(source CaseSource, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *CaseListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaseListService{
		source:   source,
		cache:    cache,
		labels:   workflow.DefaultLabelTable,
		cacheTTL: cacheTTL,
		renderers: map[string]datasetRenderer{
			FormatCSV: export.NewCSVExporter(),
			FormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// List returns the cases on a tab of actor's case list. The boolean reports a cache hit.
func (s *CaseListService) List(ctx context.Context, actor Actor, tab string) ([]models.CaseSummary, bool, error) {
	if tab == "" {
		tab = TabActive
	}
	if tab != TabActive && tab != TabInactive {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown case list tab %q", tab))
	}

	key := caseListKey(actor.Role, actor.Username, tab)
	var cached []models.CaseSummary
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	rows, err := s.source.ListCases(ctx, stagesForRole(actor.Role))
	if err != nil {
		s.logger.Error("list cases failed", zap.String("username", actor.Username), zap.String("role", string(actor.Role)), zap.Error(err))
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list cases")
	}

	cases := make([]models.CaseSummary, 0, len(rows))
	for i := range rows {
		summary := s.summarise(&rows[i], actor.Role)
		if !neededForRole(summary, actor.Role) {
			continue
		}
		if summary.ActiveCase != (tab == TabActive) {
			continue
		}
		cases = append(cases, summary)
	}

	if err := s.cache.Set(ctx, key, cases, s.cacheTTL); err != nil {
		s.logger.Debug("case list not cached", zap.String("key", key), zap.Error(err))
	}
	return cases, false, nil
}

// Export renders a tab of the case list as CSV or PDF.
func (s *CaseListService) Export(ctx context.Context, actor Actor, tab, format string) (*ExportFile, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = FormatCSV
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	cases, _, err := s.List(ctx, actor, tab)
	if err != nil {
		return nil, err
	}

	body, err := renderer.Render(caseDataset(cases))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render case list")
	}
	if tab == "" {
		tab = TabActive
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("caselist-%s-%s.%s", strings.ToLower(string(actor.Role)), tab, format),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *CaseListService) summarise(row *models.LicenceRow, role models.UserRole) models.CaseSummary {
	status := workflow.Classify(row.Licence, row.Stage)
	return models.CaseSummary{
		BookingID:   row.BookingID,
		Stage:       row.Stage,
		Version:     fmt.Sprintf("%d.%d", row.Version, row.VaryVersion),
		StatusLabel: s.labels.Resolve(&status, role),
		ActiveCase:  !inactiveStages[row.Stage],
		Role:        role,
	}
}

// stagesForRole narrows the store query. Nil means every stage.
func stagesForRole(role models.UserRole) []models.Stage {
	switch role {
	case models.RoleRO:
		return roStages
	case models.RoleDM:
		return dmStages
	}
	return nil
}

// neededForRole applies the filters a stage list cannot express. A DM only sees PROCESSING_CA cases
// that were postponed.
func neededForRole(summary models.CaseSummary, role models.UserRole) bool {
	switch role {
	case models.RoleRO:
		return contains(roStages, summary.Stage)
	case models.RoleDM:
		if summary.Stage == models.StageProcessingCA {
			return summary.StatusLabel == "Postponed"
		}
		return summary.Stage == models.StageApproval || summary.Stage == models.StageDecided
	}
	return true
}

func contains(stages []models.Stage, stage models.Stage) bool {
	for _, s := range stages {
		if s == stage {
			return true
		}
	}
	return false
}

func caseDataset(cases []models.CaseSummary) export.Dataset {
	rows := make([]map[string]string, 0, len(cases))
	for _, c := range cases {
		rows = append(rows, map[string]string{
			"bookingId": strconv.FormatInt(c.BookingID, 10),
			"stage":     string(c.Stage),
			"version":   c.Version,
			"status":    c.StatusLabel,
		})
	}
	return export.Dataset{
		Title: "HDC case list",
		Columns: []export.Column{
			{Key: "bookingId", Header: "Booking", Width: 1},
			{Key: "stage", Header: "Stage", Width: 2},
			{Key: "version", Header: "Version", Width: 1},
			{Key: "status", Header: "Status", Width: 3},
		},
		Rows: rows,
	}
}
