package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

type licenceStore interface {
	GetLicence(ctx context.Context, bookingID int64) (*models.LicenceRow, error)
	GetApprovedLicenceVersion(ctx context.Context, bookingID int64) (*models.ApprovedVersion, error)
	CreateLicence(ctx context.Context, row *models.LicenceRow) error
	UpdateLicence(ctx context.Context, bookingID int64, licence models.Licence, postRelease bool) error
	UpdateSection(ctx context.Context, section string, bookingID int64, value []byte, postRelease bool) error
	UpdateStage(ctx context.Context, bookingID int64, stage models.Stage) error
	SaveApprovedLicenceVersion(ctx context.Context, bookingID int64, template string) error
	DeleteAll(ctx context.Context) error
}

type auditWriter interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type handoverPublisher interface {
	Notify(ctx context.Context, event HandoverEvent) error
}

// Actor identifies the user performing an operation.
type Actor struct {
	Username  string
	Role      models.UserRole
	IPAddress string
	UserAgent string
}

// ActorFromClaims builds an actor from verified token claims.
func ActorFromClaims(claims *models.JWTClaims) Actor {
	if claims == nil {
		return Actor{}
	}
	return Actor{Username: claims.Username, Role: claims.Role}
}

// UpdateRequest carries raw form input for one licence form.
type UpdateRequest struct {
	BookingID   int64
	Section     string
	Form        string
	Input       map[string]interface{}
	PostRelease bool
}

// UpdateResult is the outcome of an update. Errors is set, and nothing is stored, when the form
// validates on save and the answers are invalid.
type UpdateResult struct {
	Licence models.Licence `json:"licence"`
	Stage   models.Stage   `json:"stage"`
	Changed bool           `json:"changed"`
	Errors  forms.Errors   `json:"errors,omitempty"`
}

// HandoverResult describes a completed handover.
type HandoverResult struct {
	Transition workflow.Transition `json:"transition"`
	From       models.Stage        `json:"from"`
	To         models.Stage        `json:"to"`
}

// LicenceService owns every mutation of a licence document. Each call is a sequential
// read-modify-write; concurrent edits to one booking are last-write-wins.
type LicenceService struct {
	store    licenceStore
	forms    *forms.Validator
	audit    auditWriter
	cache    *CacheService
	metrics  *MetricsService
	notifier handoverPublisher
	logger   *zap.Logger
}

// LicenceServiceOption customises the licence service.
type LicenceServiceOption func(*LicenceService)

// WithLicenceAudit records audit entries through writer.
func WithLicenceAudit(writer auditWriter) LicenceServiceOption {
	return func(s *LicenceService) { s.audit = writer }
}

// WithLicenceCache invalidates cached case lists after changes.
func WithLicenceCache(cache *CacheService) LicenceServiceOption {
	return func(s *LicenceService) { s.cache = cache }
}

// WithLicenceMetrics counts updates and transitions.
func WithLicenceMetrics(metrics *MetricsService) LicenceServiceOption {
	return func(s *LicenceService) { s.metrics = metrics }
}

// WithHandoverNotifier publishes handover events.
func WithHandoverNotifier(notifier handoverPublisher) LicenceServiceOption {
	return func(s *LicenceService) { s.notifier = notifier }
}

// NewLicenceService constructs the licence mutation service.
func NewLicenceService(store licenceStore, validator *forms.Validator, logger *zap.Logger, opts ...LicenceServiceOption) *LicenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LicenceService{store: store, forms: validator, logger: logger}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Get returns the licence for a booking with its approved version, or nil when none exists.
func (s *LicenceService) Get(ctx context.Context, bookingID int64) (*models.LicenceRecord, error) {
	row, err := s.store.GetLicence(ctx, bookingID)
	if err != nil {
		return nil, s.storeError(err, "get licence", bookingID, Actor{})
	}
	if row == nil {
		return nil, nil
	}
	approved, err := s.store.GetApprovedLicenceVersion(ctx, bookingID)
	if err != nil {
		return nil, s.storeError(err, "get approved licence version", bookingID, Actor{})
	}
	return models.NewLicenceRecord(row, approved), nil
}

func (s *LicenceService) load(ctx context.Context, bookingID int64) (*models.LicenceRecord, error) {
	record, err := s.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no licence for booking %d", bookingID))
	}
	return record, nil
}

// Create starts a licence for a booking. The stage defaults to ELIGIBILITY; a licence created in
// VARY starts at version 1.1.
func (s *LicenceService) Create(ctx context.Context, actor Actor, bookingID int64, data models.Licence, stage models.Stage) (*models.LicenceRecord, error) {
	if stage == "" {
		stage = models.StageEligibility
	}
	if !stage.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown stage %s", stage))
	}
	existing, err := s.store.GetLicence(ctx, bookingID)
	if err != nil {
		return nil, s.storeError(err, "get licence", bookingID, actor)
	}
	if existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("licence already exists for booking %d", bookingID))
	}

	row := &models.LicenceRow{
		BookingID: bookingID,
		Licence:   models.Licence(document.Normalize(data)),
		Stage:     stage,
		Version:   1,
	}
	if stage == models.StageVary {
		row.VaryVersion = 1
	}
	if err := s.store.CreateLicence(ctx, row); err != nil {
		return nil, s.storeError(err, "create licence", bookingID, actor)
	}
	s.record(ctx, actor, models.AuditActionCreateLicence, bookingID, map[string]interface{}{"stage": stage})
	s.invalidateCaseLists(ctx)
	return s.load(ctx, bookingID)
}

// Update maps raw form input to answers and replaces licence[section][form] with them. Structurally
// unchanged answers are a no-op: nothing is stored and the stage does not move.
func (s *LicenceService) Update(ctx context.Context, actor Actor, req UpdateRequest) (*UpdateResult, error) {
	form, err := s.forms.Registry().Form(req.Section, req.Form)
	if err != nil {
		return nil, err
	}
	record, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	answers := forms.Answers(form.Fields, req.Input)
	result := &UpdateResult{Licence: record.Licence, Stage: record.Stage}
	if form.Validate {
		if errs := s.forms.Validate(form, answers); len(errs) > 0 {
			result.Errors = errs
			return result, nil
		}
	}

	unchanged, err := document.EqualValue(record.Licence, answers, req.Section, req.Form)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compare answers")
	}
	if unchanged {
		return result, nil
	}

	updated, err := document.Set(record.Licence, answers, req.Section, req.Form)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply answers")
	}
	if err := s.store.UpdateLicence(ctx, req.BookingID, updated, req.PostRelease); err != nil {
		return nil, s.storeError(err, "update licence", req.BookingID, actor)
	}
	stage, err := s.applyModificationStage(ctx, actor, req.BookingID, record.Stage, form.ModificationOptions())
	if err != nil {
		return nil, err
	}

	s.record(ctx, actor, models.AuditActionUpdateSection, req.BookingID, map[string]interface{}{
		"section": req.Section, "form": req.Form, "answers": answers,
	})
	s.metrics.RecordLicenceUpdate(req.Section)
	s.invalidateCaseLists(ctx)

	result.Licence = updated
	result.Stage = stage
	result.Changed = true
	return result, nil
}

// applyModificationStage moves a decided licence into modification after an edit.
func (s *LicenceService) applyModificationStage(ctx context.Context, actor Actor, bookingID int64, stage models.Stage, opts workflow.ModificationOptions) (models.Stage, error) {
	next, changed := workflow.ModifiedStage(stage, opts)
	if !changed {
		return stage, nil
	}
	if err := s.store.UpdateStage(ctx, bookingID, next); err != nil {
		return stage, s.storeError(err, "update licence stage", bookingID, actor)
	}
	s.logger.Info("licence modified", zap.Int64("booking_id", bookingID), zap.String("from", string(stage)), zap.String("to", string(next)))
	return next, nil
}

// MarkForHandover moves the licence to the stage owned by transitionType. Unknown transitions are
// configuration errors; a caller whose role does not send the transition is forbidden.
func (s *LicenceService) MarkForHandover(ctx context.Context, actor Actor, bookingID int64, transitionType string) (*HandoverResult, error) {
	transition, err := workflow.LookupTransition(transitionType)
	if err != nil {
		s.logger.Error("invalid handover transition", zap.String("transition", transitionType), zap.Int64("booking_id", bookingID), zap.String("username", actor.Username))
		return nil, err
	}
	if actor.Role != transition.Sender {
		return nil, appErrors.Clone(appErrors.ErrForbidden, fmt.Sprintf("role %s cannot send %s", actor.Role, transitionType))
	}
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.store.UpdateStage(ctx, bookingID, transition.Stage); err != nil {
		return nil, s.storeError(err, "update licence stage", bookingID, actor)
	}

	s.record(ctx, actor, models.AuditActionSend, bookingID, map[string]interface{}{
		"transitionType": transitionType, "from": record.Stage, "to": transition.Stage,
	})
	s.metrics.RecordTransition(transitionType)
	s.invalidateCaseLists(ctx)
	if s.notifier != nil {
		event := HandoverEvent{BookingID: bookingID, Transition: transition, Sender: actor.Username, OccurredAt: time.Now().UTC()}
		if err := s.notifier.Notify(ctx, event); err != nil {
			s.logger.Warn("handover notification not queued", zap.Int64("booking_id", bookingID), zap.String("transition", transitionType), zap.Error(err))
		}
	}
	return &HandoverResult{Transition: transition, From: record.Stage, To: transition.Stage}, nil
}

// RemoveDecision deletes the approval section, withdrawing the DM decision.
func (s *LicenceService) RemoveDecision(ctx context.Context, actor Actor, bookingID int64) (models.Licence, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	updated, err := document.Delete(record.Licence, "approval")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove decision")
	}
	if err := s.store.UpdateLicence(ctx, bookingID, updated, false); err != nil {
		return nil, s.storeError(err, "update licence", bookingID, actor)
	}
	s.record(ctx, actor, models.AuditActionUpdateSection, bookingID, map[string]interface{}{"section": "approval", "removed": true})
	s.invalidateCaseLists(ctx)
	return updated, nil
}

// UpdateLicenceTemplate records the chosen licence template and saves an approved version when the
// template changed, no version was saved yet, or the licence moved on since the last one.
func (s *LicenceService) UpdateLicenceTemplate(ctx context.Context, actor Actor, bookingID int64, input map[string]interface{}, postRelease bool) (*UpdateResult, bool, error) {
	result, err := s.Update(ctx, actor, UpdateRequest{
		BookingID: bookingID, Section: "document", Form: "template", Input: input, PostRelease: postRelease,
	})
	if err != nil || len(result.Errors) > 0 {
		return result, false, err
	}
	template := document.Str(result.Licence, "document", "template", "decision")
	if template == "" {
		return result, false, nil
	}

	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	version := workflow.VersionInfoFor(record)
	if !version.IsNewVersion && version.LastTemplate == template {
		return result, false, nil
	}
	if err := s.store.SaveApprovedLicenceVersion(ctx, bookingID, template); err != nil {
		return nil, false, s.storeError(err, "save approved licence version", bookingID, actor)
	}
	s.record(ctx, actor, models.AuditActionSaveVersion, bookingID, map[string]interface{}{"template": template, "version": record.Version})
	return result, true, nil
}

// ChangesSinceApproval renders a unified diff between the last approved version and the current
// licence. It is empty when nothing changed.
func (s *LicenceService) ChangesSinceApproval(ctx context.Context, bookingID int64) (string, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return "", err
	}
	approved := record.ApprovedVersionDetails
	if approved == nil {
		return "", appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no approved version for booking %d", bookingID))
	}
	return document.Diff("approved v"+approved.DisplayVersion(), "current v"+record.Version, approved.Licence, record.Licence), nil
}

// Reset deletes every licence and approved version.
func (s *LicenceService) Reset(ctx context.Context, actor Actor) error {
	if err := s.store.DeleteAll(ctx); err != nil {
		s.logger.Error("reset licences failed", zap.String("username", actor.Username), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset licences")
	}
	s.record(ctx, actor, models.AuditActionReset, 0, nil)
	s.invalidateCaseLists(ctx)
	return nil
}

// ValidateForm maps raw input for a form and validates the answers.
func (s *LicenceService) ValidateForm(section, name string, input map[string]interface{}) (forms.Errors, error) {
	form, err := s.forms.Registry().Form(section, name)
	if err != nil {
		return nil, err
	}
	return s.forms.Validate(form, forms.Answers(form.Fields, input)), nil
}

// ValidateGroup validates the stored licence against a form group. An empty group is derived from
// the licence's classification.
func (s *LicenceService) ValidateGroup(ctx context.Context, bookingID int64, group string) (forms.Errors, string, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if group == "" {
		group = forms.GroupName(workflow.ClassifyRecord(record))
	}
	errs, err := s.forms.ValidateGroup(record.Licence, group)
	if err != nil {
		return nil, group, err
	}
	return errs, group, nil
}

func (s *LicenceService) storeError(err error, op string, bookingID int64, actor Actor) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no licence for booking %d", bookingID))
	}
	s.logger.Error(op+" failed", zap.Int64("booking_id", bookingID), zap.String("username", actor.Username), zap.Error(err))
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to "+op)
}

// record writes an audit entry. Audit failures are logged and never fail the operation.
func (s *LicenceService) record(ctx context.Context, actor Actor, action string, bookingID int64, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  models.AuditResourceLicence,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}
	if actor.Username != "" {
		username := actor.Username
		entry.UserID = &username
	}
	if bookingID != 0 {
		resourceID := fmt.Sprint(bookingID)
		entry.ResourceID = &resourceID
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.NewValues = raw
		}
	}
	if err := s.audit.CreateAuditLog(ctx, entry); err != nil {
		s.logger.Warn("failed to record audit log", zap.String("action", action), zap.Int64("booking_id", bookingID), zap.Error(err))
	}
}

func (s *LicenceService) invalidateCaseLists(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, caseListPattern); err != nil {
		s.logger.Warn("failed to invalidate case lists", zap.Error(err))
	}
}
