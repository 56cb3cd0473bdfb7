package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// licenceStoreStub keeps licences in memory and records the calls made against it.
type licenceStoreStub struct {
	rows     map[int64]*models.LicenceRow
	approved map[int64]*models.ApprovedVersion

	getErr    error
	updateErr error
	stageErr  error
	deleteErr error

	updates        int
	sectionUpdates []string
	stages         []models.Stage
	savedTemplates []string
	postRelease    []bool
	deleted        bool
}

func newLicenceStoreStub() *licenceStoreStub {
	return &licenceStoreStub{rows: map[int64]*models.LicenceRow{}, approved: map[int64]*models.ApprovedVersion{}}
}

func (s *licenceStoreStub) put(bookingID int64, stage models.Stage, licence string) {
	s.rows[bookingID] = &models.LicenceRow{BookingID: bookingID, Licence: models.Licence(licence), Stage: stage, Version: 1}
}

func (s *licenceStoreStub) GetLicence(ctx context.Context, bookingID int64) (*models.LicenceRow, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	row, ok := s.rows[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *row
	return &copied, nil
}

func (s *licenceStoreStub) GetApprovedLicenceVersion(ctx context.Context, bookingID int64) (*models.ApprovedVersion, error) {
	return s.approved[bookingID], nil
}

func (s *licenceStoreStub) CreateLicence(ctx context.Context, row *models.LicenceRow) error {
	copied := *row
	s.rows[row.BookingID] = &copied
	return nil
}

func (s *licenceStoreStub) UpdateLicence(ctx context.Context, bookingID int64, licence models.Licence, postRelease bool) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	row, ok := s.rows[bookingID]
	if !ok {
		return sql.ErrNoRows
	}
	s.updates++
	s.postRelease = append(s.postRelease, postRelease)
	row.Licence = licence
	return nil
}

func (s *licenceStoreStub) UpdateSection(ctx context.Context, section string, bookingID int64, value []byte, postRelease bool) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	row, ok := s.rows[bookingID]
	if !ok {
		return sql.ErrNoRows
	}
	updated, err := document.SetRaw(row.Licence, value, section)
	if err != nil {
		return err
	}
	s.sectionUpdates = append(s.sectionUpdates, section)
	s.postRelease = append(s.postRelease, postRelease)
	row.Licence = updated
	return nil
}

func (s *licenceStoreStub) UpdateStage(ctx context.Context, bookingID int64, stage models.Stage) error {
	if s.stageErr != nil {
		return s.stageErr
	}
	row, ok := s.rows[bookingID]
	if !ok {
		return sql.ErrNoRows
	}
	s.stages = append(s.stages, stage)
	row.Stage = stage
	return nil
}

func (s *licenceStoreStub) SaveApprovedLicenceVersion(ctx context.Context, bookingID int64, template string) error {
	row := s.rows[bookingID]
	s.savedTemplates = append(s.savedTemplates, template)
	s.approved[bookingID] = &models.ApprovedVersion{
		BookingID:   bookingID,
		Version:     row.Version,
		VaryVersion: row.VaryVersion,
		Template:    template,
		Timestamp:   time.Now().UTC(),
		Licence:     row.Licence,
	}
	return nil
}

func (s *licenceStoreStub) DeleteAll(ctx context.Context) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = true
	s.rows = map[int64]*models.LicenceRow{}
	return nil
}

func (s *licenceStoreStub) ListCases(ctx context.Context, stages []models.Stage) ([]models.LicenceRow, error) {
	out := make([]models.LicenceRow, 0, len(s.rows))
	for _, row := range s.rows {
		if stages == nil || contains(stages, row.Stage) {
			out = append(out, *row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingID < out[j].BookingID })
	return out, nil
}

type auditStub struct {
	logs []*models.AuditLog
	err  error
}

func (a *auditStub) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	a.logs = append(a.logs, log)
	return a.err
}

func (a *auditStub) actions() []string {
	out := make([]string, len(a.logs))
	for i, log := range a.logs {
		out[i] = log.Action
	}
	return out
}

type notifierStub struct {
	mu     sync.Mutex
	events []HandoverEvent
	err    error
}

func (n *notifierStub) Notify(ctx context.Context, event HandoverEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

type cacheRepoStub struct {
	values      map[string]interface{}
	invalidated []string
}

func newCacheRepoStub() *cacheRepoStub {
	return &cacheRepoStub{values: map[string]interface{}{}}
}

func (c *cacheRepoStub) Get(ctx context.Context, key string, dest interface{}) error {
	value, ok := c.values[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	if target, ok := dest.(*[]models.CaseSummary); ok {
		*target = value.([]models.CaseSummary)
	}
	return nil
}

func (c *cacheRepoStub) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *cacheRepoStub) DeleteByPattern(ctx context.Context, pattern string) error {
	c.invalidated = append(c.invalidated, pattern)
	c.values = map[string]interface{}{}
	return nil
}

func newFormValidator(t *testing.T) *forms.Validator {
	t.Helper()
	registry, err := forms.DefaultRegistry()
	require.NoError(t, err)
	validator, err := forms.NewValidator(registry, nil)
	require.NoError(t, err)
	return validator
}

var caActor = Actor{Username: "ca.user", Role: models.RoleCA}
