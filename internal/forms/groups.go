package forms

import (
	"fmt"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// Validation group names.
const (
	GroupEligibility                       = "ELIGIBILITY"
	GroupProcessingRO                      = "PROCESSING_RO"
	GroupProcessingROApprovedPremises      = "PROCESSING_RO_APPROVED_PREMISES"
	GroupProcessingROAddressReviewRejected = "PROCESSING_RO_ADDRESS_REVIEW_REJECTED"
	GroupProcessingRORiskRejected          = "PROCESSING_RO_RISK_REJECTED"
	GroupProcessingROBassRequested         = "PROCESSING_RO_BASS_REQUESTED"
	GroupBassRequest                       = "BASS_REQUEST"
	GroupBassArea                          = "BASS_AREA"
	GroupProcessingCA                      = "PROCESSING_CA"
)

type groupForm struct {
	section string
	form    string
}

var (
	curfewAddressForm    = groupForm{"proposedAddress", "curfewAddress"}
	addressReviewForm    = groupForm{"curfew", "curfewAddressReview"}
	approvedPremisesForm = groupForm{"curfew", "approvedPremisesAddress"}
	riskForm             = groupForm{"risk", "riskManagement"}
	victimForm           = groupForm{"victim", "victimLiaison"}
	curfewHoursForm      = groupForm{"curfew", "curfewHours"}
	reportingForm        = groupForm{"reporting", "reportingInstructions"}
	bassRequestForm      = groupForm{"bassReferral", "bassRequest"}
	bassAreaForm         = groupForm{"bassReferral", "bassAreaCheck"}
)

// groups lists, per group, the forms that must be present and valid before a handover.
var groups = map[string][]groupForm{
	GroupEligibility:                       {curfewAddressForm},
	GroupProcessingRO:                      {addressReviewForm, riskForm, victimForm, curfewHoursForm, reportingForm},
	GroupProcessingROApprovedPremises:      {approvedPremisesForm, riskForm, victimForm, curfewHoursForm, reportingForm},
	GroupProcessingROAddressReviewRejected: {addressReviewForm},
	GroupProcessingRORiskRejected:          {addressReviewForm, riskForm},
	GroupProcessingROBassRequested:         {bassAreaForm, riskForm, victimForm, curfewHoursForm, reportingForm},
	GroupBassRequest:                       {bassRequestForm},
	GroupBassArea:                          {bassAreaForm},
	GroupProcessingCA: {
		{"finalChecks", "seriousOffence"},
		{"finalChecks", "onRemand"},
		{"finalChecks", "confiscationOrder"},
	},
}

// GroupName picks the validation group for a classified licence. In PROCESSING_RO the address route
// decides the group; elsewhere a freshly proposed BASS request or address is validated as at
// eligibility. Stages with no group of their own validate as PROCESSING_CA.
func GroupName(status workflow.LicenceStatus) string {
	d := status.Decisions
	if d == nil {
		d = &workflow.Decisions{}
	}
	stage := status.Stage

	if stage == models.StageProcessingRO {
		switch {
		case d.ApprovedPremisesRequired:
			return GroupProcessingROApprovedPremises
		case d.AddressReviewFailed:
			return GroupProcessingROAddressReviewRejected
		case d.AddressUnsuitable:
			return GroupProcessingRORiskRejected
		case d.BassAreaNotSuitable:
			return GroupBassArea
		case d.BassReferralNeeded:
			return GroupProcessingROBassRequested
		}
		return GroupProcessingRO
	}

	newBassArea := status.Tasks.Is(workflow.TaskBassAreaCheck, workflow.Unstarted)
	if d.BassReferralNeeded && (stage == models.StageEligibility || newBassArea) {
		return GroupBassRequest
	}
	if status.Tasks.Is(workflow.TaskCurfewAddressReview, workflow.Unstarted) {
		return GroupEligibility
	}
	if _, ok := groups[string(stage)]; ok {
		return string(stage)
	}
	return GroupProcessingCA
}

// ValidateGroup validates every form in group against the licence. Missing forms report the form's
// missing message. Errors are keyed section -> form -> field.
func (v *Validator) ValidateGroup(licence models.Licence, group string) (Errors, error) {
	members, ok := groups[group]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownValidationGroup, fmt.Sprintf("unknown validation group %q", group))
	}

	errs := Errors{}
	for _, member := range members {
		form, err := v.registry.Form(member.section, member.form)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrUnknownValidationGroup.Code, appErrors.ErrUnknownValidationGroup.Status,
				fmt.Sprintf("group %s references a missing form", group))
		}

		var formErrs interface{}
		answers, err := document.Decode(licence, member.section, member.form)
		object, isObject := answers.(map[string]interface{})
		switch {
		case err != nil || !isObject || len(object) == 0:
			formErrs = missingMessage(form)
		default:
			if fieldErrs := v.Validate(form, object); len(fieldErrs) > 0 {
				formErrs = fieldErrs
			}
		}
		if formErrs == nil {
			continue
		}

		section, _ := errs[member.section].(Errors)
		if section == nil {
			section = Errors{}
			errs[member.section] = section
		}
		section[member.form] = formErrs
	}
	return errs, nil
}

func missingMessage(form *Form) string {
	if form.MissingMessage != "" {
		return form.MissingMessage
	}
	return fmt.Sprintf("Enter the %s details", form.Name)
}
