package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/tasklist"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

type licenceReader interface {
	Get(ctx context.Context, bookingID int64) (*models.LicenceRecord, error)
}

// LicenceOverview is a licence with everything derived from it for one role.
type LicenceOverview struct {
	Record            *models.LicenceRecord  `json:"record"`
	Status            workflow.LicenceStatus `json:"status"`
	StatusLabel       string                 `json:"statusLabel"`
	AllowedTransition string                 `json:"allowedTransition,omitempty"`
	Version           workflow.VersionInfo   `json:"versionInfo"`
}

// TaskListView is the overview plus the rendered task list.
type TaskListView struct {
	LicenceOverview
	TaskList tasklist.TaskList `json:"taskList"`
}

// TaskListService derives read views of a licence. Nothing it returns is persisted.
type TaskListService struct {
	licences licenceReader
	engine   *tasklist.Engine
	labels   workflow.LabelTable
	logger   *zap.Logger
}

// NewTaskListService constructs the read-side service. A nil label table uses the built-in one.
func NewTaskListService(licences licenceReader, engine *tasklist.Engine, labels workflow.LabelTable, logger *zap.Logger) *TaskListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if labels == nil {
		labels = workflow.DefaultLabelTable
	}
	return &TaskListService{licences: licences, engine: engine, labels: labels, logger: logger}
}

// Overview classifies the licence for role.
func (s *TaskListService) Overview(ctx context.Context, bookingID int64, role models.UserRole) (*LicenceOverview, error) {
	record, err := s.licences.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no licence for booking %d", bookingID))
	}
	return s.overview(record, role), nil
}

func (s *TaskListService) overview(record *models.LicenceRecord, role models.UserRole) *LicenceOverview {
	status := workflow.ClassifyRecord(record)
	return &LicenceOverview{
		Record:            record,
		Status:            status,
		StatusLabel:       s.labels.Resolve(&status, role),
		AllowedTransition: workflow.AllowedTransition(status, role),
		Version:           workflow.VersionInfoFor(record),
	}
}

// TaskList renders the task list role sees for the booking. A booking without a licence gets the
// empty-stage catalog rather than an error so a CA can start one.
func (s *TaskListService) TaskList(ctx context.Context, bookingID int64, role models.UserRole, postRelease bool) (*TaskListView, error) {
	record, err := s.licences.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &models.LicenceRecord{BookingID: bookingID, Licence: models.Licence("{}"), Stage: models.StageUnstarted}
	}
	overview := s.overview(record, role)
	list := s.engine.Build(role, postRelease, overview.Status, overview.Version, overview.AllowedTransition)
	s.logger.Debug("task list built",
		zap.Int64("booking_id", bookingID),
		zap.String("role", string(role)),
		zap.String("catalog", list.Catalog),
		zap.Int("tasks", len(list.Tasks)),
	)
	return &TaskListView{LicenceOverview: *overview, TaskList: list}, nil
}
