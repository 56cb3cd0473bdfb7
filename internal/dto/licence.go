package dto

import "github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"

// CreateLicenceRequest starts a licence for a booking.
type CreateLicenceRequest struct {
	Stage   models.Stage   `json:"stage"`
	Licence models.Licence `json:"licence" swaggertype:"object"`
}

// FormInput carries raw answers for one licence form.
type FormInput struct {
	Answers     map[string]interface{} `json:"answers" binding:"required"`
	PostRelease bool                   `json:"postRelease"`
}

// ConditionsRequest merges standard, additional and bespoke conditions into the licence.
type ConditionsRequest struct {
	Conditions  map[string]interface{} `json:"conditions" binding:"required"`
	PostRelease bool                   `json:"postRelease"`
}

// RejectAddressRequest archives the proposed curfew address.
type RejectAddressRequest struct {
	WithdrawalReason string `json:"withdrawalReason" binding:"omitempty,max=100"`
}

// RejectBassRequest archives the current BASS referral.
type RejectBassRequest struct {
	BassRequested string `json:"bassRequested" binding:"required,oneof=Yes No"`
	Reason        string `json:"reason" binding:"omitempty,max=500"`
}

// WithdrawBassRequest archives the BASS referral as withdrawn.
type WithdrawBassRequest struct {
	Withdrawal string `json:"withdrawal" binding:"required,oneof=offer request"`
}

// HandoverRequest names the transition to perform.
type HandoverRequest struct {
	TransitionType string `json:"transitionType" binding:"required"`
}

// TemplateRequest selects the licence template.
type TemplateRequest struct {
	Decision               string `json:"decision" binding:"required"`
	OffenceCommittedBefore string `json:"offenceCommittedBefore,omitempty"`
	PostRelease            bool   `json:"postRelease"`
}

// TemplateResponse reports the stored template and whether a version was saved.
type TemplateResponse struct {
	Licence      models.Licence `json:"licence" swaggertype:"object"`
	VersionSaved bool           `json:"versionSaved"`
}

// ChangesResponse is the unified diff between the approved version and the current licence.
type ChangesResponse struct {
	Diff    string `json:"diff"`
	Changed bool   `json:"changed"`
}

// ValidationResponse reports group validation errors.
type ValidationResponse struct {
	Group  string                 `json:"group"`
	Valid  bool                   `json:"valid"`
	Errors map[string]interface{} `json:"errors,omitempty"`
}
