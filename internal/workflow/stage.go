package workflow

import (
	"fmt"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// Handover transition names.
const (
	TransitionCaToRo                = "caToRo"
	TransitionCaToDm                = "caToDm"
	TransitionCaToDmRefusal         = "caToDmRefusal"
	TransitionCaToDmResubmit        = "caToDmResubmit"
	TransitionRoToCa                = "roToCa"
	TransitionRoToCaAddressRejected = "roToCaAddressRejected"
	TransitionRoToCaOptedOut        = "roToCaOptedOut"
	TransitionDmToCa                = "dmToCa"
	TransitionDmToCaReturn          = "dmToCaReturn"
)

// Transition is a named handover from one role to another.
type Transition struct {
	Name     string          `json:"name"`
	Sender   models.UserRole `json:"sender"`
	Receiver models.UserRole `json:"receiver"`
	Stage    models.Stage    `json:"stage"`
}

var transitions = map[string]Transition{
	TransitionCaToRo:                {Name: TransitionCaToRo, Sender: models.RoleCA, Receiver: models.RoleRO, Stage: models.StageProcessingRO},
	TransitionCaToDm:                {Name: TransitionCaToDm, Sender: models.RoleCA, Receiver: models.RoleDM, Stage: models.StageApproval},
	TransitionCaToDmRefusal:         {Name: TransitionCaToDmRefusal, Sender: models.RoleCA, Receiver: models.RoleDM, Stage: models.StageApproval},
	TransitionCaToDmResubmit:        {Name: TransitionCaToDmResubmit, Sender: models.RoleCA, Receiver: models.RoleDM, Stage: models.StageApproval},
	TransitionRoToCa:                {Name: TransitionRoToCa, Sender: models.RoleRO, Receiver: models.RoleCA, Stage: models.StageProcessingCA},
	TransitionRoToCaAddressRejected: {Name: TransitionRoToCaAddressRejected, Sender: models.RoleRO, Receiver: models.RoleCA, Stage: models.StageProcessingCA},
	TransitionRoToCaOptedOut:        {Name: TransitionRoToCaOptedOut, Sender: models.RoleRO, Receiver: models.RoleCA, Stage: models.StageProcessingCA},
	TransitionDmToCa:                {Name: TransitionDmToCa, Sender: models.RoleDM, Receiver: models.RoleCA, Stage: models.StageDecided},
	TransitionDmToCaReturn:          {Name: TransitionDmToCaReturn, Sender: models.RoleDM, Receiver: models.RoleCA, Stage: models.StageProcessingCA},
}

// LookupTransition returns the transition registered under name. Unknown names are configuration
// errors.
func LookupTransition(name string) (Transition, error) {
	transition, ok := transitions[name]
	if !ok {
		return Transition{}, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("Invalid handover transition: %s", name))
	}
	return transition, nil
}

// ModificationOptions tune the modification rule for one edit.
type ModificationOptions struct {
	RequiresApproval bool
	NoModify         bool
}

// ModifiedStage applies the modification rule to a licence at stage and returns the stage it should
// move to, or ok=false when the stage does not change.
//
// Edits to a DECIDED licence move it to MODIFIED. Edits that need re-approval move a DECIDED or
// MODIFIED licence to MODIFIED_APPROVAL. Edits before DECIDED, and edits flagged NoModify, never
// change stage.
func ModifiedStage(stage models.Stage, opts ModificationOptions) (models.Stage, bool) {
	if opts.NoModify {
		return stage, false
	}
	if opts.RequiresApproval && (stage == models.StageDecided || stage == models.StageModified) {
		return models.StageModifiedApproval, true
	}
	if stage == models.StageDecided {
		return models.StageModified, true
	}
	return stage, false
}

// AllowedTransition returns the handover the role may currently perform, or "" when none is
// available. The name is injected into task-list filters so submission tasks render only when the
// handover is possible.
func AllowedTransition(status LicenceStatus, role models.UserRole) string {
	if status.Decisions == nil {
		return ""
	}
	switch role {
	case models.RoleRO:
		if canSendRoToCa(status) {
			return TransitionRoToCa
		}
	case models.RoleDM:
		if status.Stage != models.StageApproval {
			return ""
		}
		if status.Tasks.Is(TaskApproval, Done) {
			return TransitionDmToCa
		}
		return TransitionDmToCaReturn
	case models.RoleCA:
		if canSendCaToDmRefusal(status) {
			return TransitionCaToDmRefusal
		}
		if canSendCaToDm(status) {
			return TransitionCaToDm
		}
		if canSendCaToRo(status) {
			return TransitionCaToRo
		}
	}
	return ""
}

func canSendRoToCa(status LicenceStatus) bool {
	if status.Stage != models.StageProcessingRO {
		return false
	}
	d, tasks := status.Decisions, status.Tasks
	if d.OptedOut || d.CurfewAddressRejected {
		return true
	}
	if d.BassReferralNeeded {
		if d.BassAreaNotSuitable {
			return true
		}
		if !tasks.Is(TaskBassAreaCheck, Done) {
			return false
		}
	} else if d.ApprovedPremisesRequired {
		if !tasks.Is(TaskApprovedPremisesAddress, Done) {
			return false
		}
	} else if !tasks.Is(TaskCurfewAddressReview, Done) {
		return false
	}
	for _, topic := range []string{TaskRiskManagement, TaskVictim, TaskCurfewHours, TaskLicenceConditions, TaskReportingInstructions} {
		if !tasks.Is(topic, Done) {
			return false
		}
	}
	return true
}

func canSendCaToDmRefusal(status LicenceStatus) bool {
	d := status.Decisions
	switch status.Stage {
	case models.StageEligibility:
		return d.InsufficientTimeStop
	case models.StageProcessingCA, models.StageModified, models.StageModifiedApproval:
		if d.BassReferralNeeded {
			return d.BassAreaNotSuitable || d.BassExcluded
		}
		return d.CurfewAddressRejected
	}
	return false
}

func canSendCaToDm(status LicenceStatus) bool {
	switch status.Stage {
	case models.StageProcessingCA, models.StageModified, models.StageModifiedApproval:
	default:
		return false
	}
	d, tasks := status.Decisions, status.Tasks
	if d.Postponed || !tasks.Is(TaskFinalChecks, Done) {
		return false
	}
	if d.FinalChecksRefused {
		return true
	}
	return d.CurfewAddressApproved || d.BassOfferMade || d.ApprovedPremisesRequired
}

func canSendCaToRo(status LicenceStatus) bool {
	d, tasks := status.Decisions, status.Tasks
	switch status.Stage {
	case models.StageEligibility:
		if !d.Eligible || d.OptedOut || !tasks.Is(TaskOptOut, Done) {
			return false
		}
		if d.BassReferralNeeded {
			return tasks.Is(TaskBassRequest, Done)
		}
		return tasks.Is(TaskCurfewAddress, Done)
	case models.StageProcessingCA:
		if d.BassReferralNeeded {
			return !d.BassWithdrawn && tasks.Is(TaskBassRequest, Done) && tasks.Is(TaskBassAreaCheck, Unstarted)
		}
		return tasks.Is(TaskCurfewAddress, Done) && tasks.Is(TaskCurfewAddressReview, Unstarted)
	}
	return false
}
