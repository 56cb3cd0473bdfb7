package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/dto"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/forms"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/service"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/response"
)

type licenceService interface {
	Create(ctx context.Context, actor service.Actor, bookingID int64, data models.Licence, stage models.Stage) (*models.LicenceRecord, error)
	Update(ctx context.Context, actor service.Actor, req service.UpdateRequest) (*service.UpdateResult, error)
	CreateFromFlatInput(ctx context.Context, actor service.Actor, req service.FlatInputRequest) (*service.UpdateResult, error)
	UpdateLicenceConditions(ctx context.Context, actor service.Actor, bookingID int64, conditions map[string]interface{}, postRelease bool) (*service.UpdateResult, error)
	DeleteLicenceCondition(ctx context.Context, actor service.Actor, bookingID int64, conditionID string) (*service.UpdateResult, error)
	RejectProposedAddress(ctx context.Context, actor service.Actor, bookingID int64, withdrawalReason string) (models.Licence, error)
	ReinstateProposedAddress(ctx context.Context, actor service.Actor, bookingID int64) (models.Licence, error)
	RejectBass(ctx context.Context, actor service.Actor, bookingID int64, bassRequested, reason string) (models.Licence, error)
	WithdrawBass(ctx context.Context, actor service.Actor, bookingID int64, withdrawal string) (models.Licence, error)
	ReinstateBass(ctx context.Context, actor service.Actor, bookingID int64) (models.Licence, error)
	MarkForHandover(ctx context.Context, actor service.Actor, bookingID int64, transitionType string) (*service.HandoverResult, error)
	UpdateLicenceTemplate(ctx context.Context, actor service.Actor, bookingID int64, input map[string]interface{}, postRelease bool) (*service.UpdateResult, bool, error)
	RemoveDecision(ctx context.Context, actor service.Actor, bookingID int64) (models.Licence, error)
	ChangesSinceApproval(ctx context.Context, bookingID int64) (string, error)
	ValidateGroup(ctx context.Context, bookingID int64, group string) (forms.Errors, string, error)
	Reset(ctx context.Context, actor service.Actor) error
}

type taskListService interface {
	Overview(ctx context.Context, bookingID int64, role models.UserRole) (*service.LicenceOverview, error)
	TaskList(ctx context.Context, bookingID int64, role models.UserRole, postRelease bool) (*service.TaskListView, error)
}

// LicenceHandler exposes licence workflow endpoints.
type LicenceHandler struct {
	licences licenceService
	tasks    taskListService
}

// NewLicenceHandler builds a new handler.
func NewLicenceHandler(licences licenceService, tasks taskListService) *LicenceHandler {
	return &LicenceHandler{licences: licences, tasks: tasks}
}

// Get godoc
// @Summary Get a licence with its classified status
// @Tags Licences
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /licences/{bookingId} [get]
func (h *LicenceHandler) Get(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	overview, err := h.tasks.Overview(c.Request.Context(), bookingID, actorFromContext(c).Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, overview)
}

// Create godoc
// @Summary Start a licence for a booking
// @Tags Licences
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.CreateLicenceRequest false "Initial licence"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /licences/{bookingId} [post]
func (h *LicenceHandler) Create(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateLicenceRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid licence payload"))
			return
		}
	}
	record, err := h.licences.Create(c.Request.Context(), actorFromContext(c), bookingID, req.Licence, req.Stage)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Tasks godoc
// @Summary Build the task list for the caller's role
// @Tags Licences
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param postRelease query bool false "Post-release variation"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/tasks [get]
func (h *LicenceHandler) Tasks(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.tasks.TaskList(c.Request.Context(), bookingID, actorFromContext(c).Role, boolQuery(c, "postRelease"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// UpdateSection godoc
// @Summary Save answers for one licence form
// @Tags Licences
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param section path string true "Licence section"
// @Param form path string true "Form name"
// @Param payload body dto.FormInput true "Form answers"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /licences/{bookingId}/sections/{section}/{form} [put]
func (h *LicenceHandler) UpdateSection(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.FormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid form payload"))
		return
	}
	result, err := h.licences.Update(c.Request.Context(), actorFromContext(c), service.UpdateRequest{
		BookingID:   bookingID,
		Section:     c.Param("section"),
		Form:        c.Param("form"),
		Input:       req.Answers,
		PostRelease: req.PostRelease,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result.Errors) > 0 {
		response.Invalid(c, result.Errors)
		return
	}
	response.OK(c, result)
}

// VaryInput godoc
// @Summary Save a vary page onto a released licence
// @Tags Licences
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param form path string true "Vary form name"
// @Param payload body dto.FormInput true "Form answers"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /licences/{bookingId}/vary/{form} [post]
func (h *LicenceHandler) VaryInput(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.FormInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid form payload"))
		return
	}
	result, err := h.licences.CreateFromFlatInput(c.Request.Context(), actorFromContext(c), service.FlatInputRequest{
		BookingID:   bookingID,
		Form:        c.Param("form"),
		Input:       req.Answers,
		PostRelease: req.PostRelease,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result.Errors) > 0 {
		response.Invalid(c, result.Errors)
		return
	}
	response.OK(c, result)
}

// UpdateConditions godoc
// @Summary Merge licence conditions
// @Tags Conditions
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.ConditionsRequest true "Conditions"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/conditions [post]
func (h *LicenceHandler) UpdateConditions(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ConditionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid conditions payload"))
		return
	}
	result, err := h.licences.UpdateLicenceConditions(c.Request.Context(), actorFromContext(c), bookingID, req.Conditions, req.PostRelease)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// DeleteCondition godoc
// @Summary Remove an additional or bespoke condition
// @Tags Conditions
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param conditionId path string true "Condition ID or bespoke-<id>"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /licences/{bookingId}/conditions/{conditionId} [delete]
func (h *LicenceHandler) DeleteCondition(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.licences.DeleteLicenceCondition(c.Request.Context(), actorFromContext(c), bookingID, c.Param("conditionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// RejectAddress godoc
// @Summary Archive the proposed curfew address
// @Tags Archive
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.RejectAddressRequest false "Withdrawal reason"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/address/reject [post]
func (h *LicenceHandler) RejectAddress(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RejectAddressRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, bindError(err, "invalid address rejection"))
			return
		}
	}
	licence, err := h.licences.RejectProposedAddress(c.Request.Context(), actorFromContext(c), bookingID, req.WithdrawalReason)
	h.respondLicence(c, licence, err)
}

// ReinstateAddress godoc
// @Summary Restore the most recently archived address
// @Tags Archive
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /licences/{bookingId}/address/reinstate [post]
func (h *LicenceHandler) ReinstateAddress(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	licence, err := h.licences.ReinstateProposedAddress(c.Request.Context(), actorFromContext(c), bookingID)
	h.respondLicence(c, licence, err)
}

// RejectBass godoc
// @Summary Archive the BASS referral as rejected
// @Tags Archive
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.RejectBassRequest true "Rejection"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/bass/reject [post]
func (h *LicenceHandler) RejectBass(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.RejectBassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid bass rejection"))
		return
	}
	licence, err := h.licences.RejectBass(c.Request.Context(), actorFromContext(c), bookingID, req.BassRequested, req.Reason)
	h.respondLicence(c, licence, err)
}

// WithdrawBass godoc
// @Summary Archive the BASS referral as withdrawn
// @Tags Archive
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.WithdrawBassRequest true "Withdrawal"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/bass/withdraw [post]
func (h *LicenceHandler) WithdrawBass(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.WithdrawBassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid bass withdrawal"))
		return
	}
	licence, err := h.licences.WithdrawBass(c.Request.Context(), actorFromContext(c), bookingID, req.Withdrawal)
	h.respondLicence(c, licence, err)
}

// ReinstateBass godoc
// @Summary Restore the most recently archived BASS referral
// @Tags Archive
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /licences/{bookingId}/bass/reinstate [post]
func (h *LicenceHandler) ReinstateBass(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	licence, err := h.licences.ReinstateBass(c.Request.Context(), actorFromContext(c), bookingID)
	h.respondLicence(c, licence, err)
}

// Handover godoc
// @Summary Send the licence to the next role
// @Tags Licences
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.HandoverRequest true "Transition"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /licences/{bookingId}/handover [post]
func (h *LicenceHandler) Handover(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.HandoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid handover payload"))
		return
	}
	result, err := h.licences.MarkForHandover(c.Request.Context(), actorFromContext(c), bookingID, req.TransitionType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}

// Template godoc
// @Summary Select the licence template
// @Tags Licences
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param payload body dto.TemplateRequest true "Template"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /licences/{bookingId}/template [post]
func (h *LicenceHandler) Template(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid template payload"))
		return
	}
	input := map[string]interface{}{"decision": req.Decision}
	if req.OffenceCommittedBefore != "" {
		input["offenceCommittedBefore"] = req.OffenceCommittedBefore
	}
	result, saved, err := h.licences.UpdateLicenceTemplate(c.Request.Context(), actorFromContext(c), bookingID, input, req.PostRelease)
	if err != nil {
		response.Error(c, err)
		return
	}
	if len(result.Errors) > 0 {
		response.Invalid(c, result.Errors)
		return
	}
	response.OK(c, dto.TemplateResponse{Licence: result.Licence, VersionSaved: saved})
}

// RemoveDecision godoc
// @Summary Withdraw the approval decision
// @Tags Licences
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/decision [delete]
func (h *LicenceHandler) RemoveDecision(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	licence, err := h.licences.RemoveDecision(c.Request.Context(), actorFromContext(c), bookingID)
	h.respondLicence(c, licence, err)
}

// Changes godoc
// @Summary Diff the licence against its approved version
// @Tags Licences
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /licences/{bookingId}/changes [get]
func (h *LicenceHandler) Changes(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	diff, err := h.licences.ChangesSinceApproval(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ChangesResponse{Diff: diff, Changed: diff != ""})
}

// Validation godoc
// @Summary Validate the licence against a form group
// @Tags Licences
// @Produce json
// @Param bookingId path int true "Booking ID"
// @Param group query string false "Validation group (derived from status when empty)"
// @Success 200 {object} response.Envelope
// @Router /licences/{bookingId}/validation [get]
func (h *LicenceHandler) Validation(c *gin.Context) {
	bookingID, err := bookingIDParam(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	errs, group, err := h.licences.ValidateGroup(c.Request.Context(), bookingID, c.Query("group"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ValidationResponse{Group: group, Valid: len(errs) == 0, Errors: errs})
}

// Reset godoc
// @Summary Delete every licence
// @Tags Admin
// @Success 204
// @Router /admin/licences [delete]
func (h *LicenceHandler) Reset(c *gin.Context) {
	if err := h.licences.Reset(c.Request.Context(), actorFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

func (h *LicenceHandler) respondLicence(c *gin.Context, licence models.Licence, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"licence": licence}, nil)
}
