package tasklist

import (
	"fmt"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

// Functions is the registry computed catalog fields are bound against.
type Functions struct {
	Text   map[string]TextFunc
	Action map[string]ActionFunc
}

const (
	actionButton          = "btn"
	actionSecondaryButton = "btn-secondary"
	actionLink            = "link"
	notCompleted          = "Not completed"
)

// DefaultFunctions returns the computed labels and actions used by the embedded catalogs.
func DefaultFunctions() Functions {
	return Functions{
		Text: map[string]TextFunc{
			"approvedVersionLabel":   approvedVersionLabel,
			"nextVersionLabel":       nextVersionLabel,
			"approvedVersionPdfLink": approvedVersionPdfLink,
			"postponementLabel":      postponementLabel,
			"bassOfferLabel":         bassOfferLabel,
			"proposedAddressLabel":   proposedAddressLabel,
			"riskManagementLabel":    riskManagementLabel,
			"victimLiaisonLabel":     victimLiaisonLabel,
			"curfewHoursLabel":       confirmedLabel(workflow.TaskCurfewHours),
			"conditionsLabel":        conditionsLabel,
			"reportingLabel":         confirmedLabel(workflow.TaskReportingInstructions),
			"finalChecksLabel":       finalChecksLabel,
		},
		Action: map[string]ActionFunc{
			"postponementAction": postponementAction,
			"bassOfferAction":    bassOfferAction,
		},
	}
}

func approvedVersionLabel(ctx Context) string {
	return fmt.Sprintf("Licence version %s", ctx.ApprovedVersion)
}

func nextVersionLabel(ctx Context) string {
	return fmt.Sprintf("Ready to create version %s", ctx.Version)
}

func approvedVersionPdfLink(ctx Context) string {
	if ctx.ApprovedVersionDetails == nil {
		return ""
	}
	return fmt.Sprintf("/hdc/pdf/create/%s/", ctx.ApprovedVersionDetails.Template)
}

func postponementLabel(ctx Context) string {
	if ctx.Decisions.Postponed {
		return "HDC application postponed"
	}
	if ctx.Decisions.FinalChecksRefused {
		return "HDC refused"
	}
	return "Postpone or refuse the case if there is a reason it cannot go ahead"
}

func postponementAction(ctx Context) *Action {
	if ctx.Decisions.Postponed {
		return &Action{Type: actionSecondaryButton, Text: "Resume", Href: "/hdc/finalChecks/postpone/", DataQa: "postpone"}
	}
	return &Action{Type: actionSecondaryButton, Text: "Postpone", Href: "/hdc/finalChecks/postpone/", DataQa: "postpone"}
}

func bassOfferLabel(ctx Context) string {
	d := ctx.Decisions
	switch {
	case d.BassWithdrawn && d.BassWithdrawalReason == "offer":
		return "BASS offer withdrawn"
	case d.BassWithdrawn:
		return "BASS request withdrawn"
	case d.BassAccepted == workflow.BassAcceptedYes:
		return "Offer made"
	case d.BassAccepted == workflow.BassAcceptedUnsuitable:
		return "Not suitable for BASS"
	case d.BassAccepted == workflow.BassAcceptedUnavailable:
		return "BASS offer not available"
	case d.BassAreaNotSuitable:
		return "BASS area rejected"
	case !ctx.Tasks.Is(workflow.TaskBassAreaCheck, workflow.Done):
		return "BASS referral requested"
	default:
		return notCompleted
	}
}

func bassOfferAction(ctx Context) *Action {
	d := ctx.Decisions
	if d.BassWithdrawn {
		return &Action{Type: actionButton, Text: "Reinstate", Href: "/hdc/bassReferral/reinstate/", DataQa: "bass-reinstate"}
	}
	if !ctx.Tasks.Is(workflow.TaskBassAreaCheck, workflow.Done) {
		return &Action{Type: actionLink, Text: "Change", Href: "/hdc/bassReferral/bassRequest/", DataQa: "bass-request"}
	}
	if ctx.Tasks.Is(workflow.TaskBassOffer, workflow.Done) {
		return &Action{Type: actionLink, Text: "Change", Href: "/hdc/bassReferral/bassOffer/", DataQa: "bass-offer"}
	}
	return &Action{Type: actionButton, Text: "Continue", Href: "/hdc/bassReferral/bassOffer/", DataQa: "bass-offer"}
}

func proposedAddressLabel(ctx Context) string {
	d := ctx.Decisions
	switch {
	case d.AddressWithdrawn:
		return "Address withdrawn"
	case d.ApprovedPremisesRequired:
		return "Approved premises required"
	case d.CurfewAddressRejected:
		return "Address rejected"
	case d.CurfewAddressApproved:
		return "Address approved"
	default:
		return notCompleted
	}
}

func riskManagementLabel(ctx Context) string {
	d := ctx.Decisions
	switch {
	case d.AddressUnsuitable:
		return "Address unsuitable"
	case d.AwaitingRiskInformation:
		return "Still waiting for information"
	case d.RiskManagementNeeded:
		return "Risk management required"
	case ctx.Tasks.Is(workflow.TaskRiskManagement, workflow.Done):
		return "No risks"
	default:
		return notCompleted
	}
}

func victimLiaisonLabel(ctx Context) string {
	switch {
	case ctx.Decisions.VictimLiaisonNeeded:
		return "Victim liaison required"
	case ctx.Tasks.Is(workflow.TaskVictim, workflow.Done):
		return "No victim liaison required"
	default:
		return notCompleted
	}
}

func conditionsLabel(ctx Context) string {
	d := ctx.Decisions
	if d.StandardOnly {
		return "Standard conditions only"
	}
	total := d.AdditionalConditions + d.BespokeConditions
	switch {
	case total == 1:
		return "1 condition added"
	case total > 1:
		return fmt.Sprintf("%d conditions added", total)
	default:
		return notCompleted
	}
}

func finalChecksLabel(ctx Context) string {
	d := ctx.Decisions
	switch {
	case d.SeriousOffence:
		return "The offender is under investigation or has been charged for a serious offence in custody"
	case d.OnRemand:
		return "The offender is on remand"
	case d.ConfiscationOrder:
		return "The offender is subject to a confiscation order"
	case ctx.Tasks.Is(workflow.TaskFinalChecks, workflow.Done):
		return "Confirmed"
	default:
		return notCompleted
	}
}

func confirmedLabel(topic string) TextFunc {
	return func(ctx Context) string {
		if ctx.Tasks.Is(topic, workflow.Done) {
			return "Confirmed"
		}
		return notCompleted
	}
}
