package tasklist

import (
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

// DM tasks depend on which address route the case took, so they are built procedurally.

func view(href string) *ActionSpec {
	return &ActionSpec{Type: Literal(actionLink), Text: Literal("View"), Href: Literal(href)}
}

func viewTask(title string, label TextFunc, href string) Entry {
	return Entry{Title: Literal(title), Label: Computed(label), Action: view(href)}
}

var (
	dmFinalDecision      = Entry{Task: "finalDecisionTask"}
	dmEligibilitySummary = Entry{Task: "eligibilitySummaryTask"}
)

func dmTasks(ctx Context, _ FilterSet) []Entry {
	d := ctx.Decisions

	if d.InsufficientTimeStop {
		return []Entry{
			dmEligibilitySummary,
			{Title: Literal("Refusal reason"), Label: Literal("There is not enough time before release"), Action: view("/hdc/review/eligibility/")},
			dmFinalDecision,
		}
	}

	var address Entry
	switch {
	case d.BassReferralNeeded:
		address = Entry{Title: Literal("BASS address"), Label: Computed(bassOfferLabel), Action: view("/hdc/review/bassOffer/")}
	case d.ApprovedPremisesRequired:
		address = viewTask("Approved premises", proposedAddressLabel, "/hdc/review/approvedPremisesAddress/")
	default:
		address = viewTask("Proposed curfew address", proposedAddressLabel, "/hdc/review/address/")
	}

	addressFailed := (d.BassReferralNeeded && (d.BassAreaNotSuitable || d.BassExcluded || d.BassWithdrawn)) ||
		(!d.BassReferralNeeded && !d.ApprovedPremisesRequired && d.AddressReviewFailed)
	if addressFailed {
		return []Entry{dmEligibilitySummary, address, dmFinalDecision}
	}
	if d.AddressUnsuitable {
		return []Entry{
			dmEligibilitySummary,
			address,
			viewTask("Risk management", riskManagementLabel, "/hdc/review/risk/"),
			dmFinalDecision,
		}
	}

	entries := []Entry{
		address,
		viewTask("Risk management", riskManagementLabel, "/hdc/review/risk/"),
		viewTask("Victim liaison", victimLiaisonLabel, "/hdc/review/victimLiaison/"),
		viewTask("Curfew hours", confirmedLabel(workflow.TaskCurfewHours), "/hdc/review/curfewHours/"),
		viewTask("Additional conditions", conditionsLabel, "/hdc/review/conditions/"),
		viewTask("Reporting instructions", confirmedLabel(workflow.TaskReportingInstructions), "/hdc/review/reporting/"),
		viewTask("Review case", finalChecksLabel, "/hdc/review/finalChecks/"),
	}
	if d.Postponed {
		entries = append(entries, Entry{Title: Literal("Postponement"), Label: Literal("HDC application postponed")})
	}
	return append(entries, dmFinalDecision)
}
