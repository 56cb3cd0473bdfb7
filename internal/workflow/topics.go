package workflow

import (
	"github.com/tidwall/gjson"

	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
)

const (
	yes = "Yes"
	no  = "No"
)

// requirement is one answer a topic needs before it is complete. When dependentOn is set the answer
// is only required while the dependent field equals predicate; otherwise it never blocks completion.
// Any of several paths may satisfy a requirement.
type requirement struct {
	paths       []string
	dependentOn string
	predicate   string
}

func required(paths ...string) requirement {
	return requirement{paths: paths}
}

func requiredWhen(dependentOn, predicate string, paths ...string) requirement {
	return requirement{paths: paths, dependentOn: dependentOn, predicate: predicate}
}

// topicRule describes how a topic's answers inside one licence section map to a task state.
// A terminal answer such as a root decision of "No" completes the topic because every follow-up
// requirement depends on the non-terminal answer.
type topicRule struct {
	section  string
	root     string
	required []requirement
}

func (r topicRule) state(licence []byte) TaskState {
	section := document.Get(licence, r.section)
	if !document.Answered(section.Get(r.root)) {
		return Unstarted
	}
	for _, req := range r.required {
		if req.dependentOn != "" && section.Get(req.dependentOn).String() != req.predicate {
			continue
		}
		if !anyAnswered(section, req.paths) {
			return Started
		}
	}
	return Done
}

func anyAnswered(section gjson.Result, paths []string) bool {
	for _, path := range paths {
		if document.Answered(section.Get(path)) {
			return true
		}
	}
	return false
}

// overall folds sub-topic states into one: Done only when all are Done, Unstarted only when all are
// Unstarted, Started otherwise.
func overall(states ...TaskState) TaskState {
	allDone, allUnstarted := true, true
	for _, state := range states {
		if state != Done {
			allDone = false
		}
		if state != Unstarted {
			allUnstarted = false
		}
	}
	switch {
	case allDone:
		return Done
	case allUnstarted:
		return Unstarted
	default:
		return Started
	}
}

var dayFields = func() []requirement {
	days := []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
	out := make([]requirement, 0, len(days)*2)
	for _, day := range days {
		out = append(out,
			requiredWhen("daySpecificInputs", yes, day+"From"),
			requiredWhen("daySpecificInputs", yes, day+"Until"),
		)
	}
	return out
}()

// topicRules covers every topic whose state is a direct function of its own answers. Eligibility and
// final checks are aggregates and are derived separately.
var topicRules = map[string]topicRule{
	TaskExclusion: {section: "eligibility", root: "excluded.decision"},
	TaskCrdTime: {section: "eligibility", root: "crdTime", required: []requirement{
		required("crdTime.decision"),
		requiredWhen("crdTime.decision", yes, "crdTime.dmApproval"),
	}},
	TaskSuitability: {section: "eligibility", root: "suitability.decision", required: []requirement{
		requiredWhen("suitability.decision", yes, "exceptionalCircumstances.decision"),
	}},
	TaskOptOut: {section: "proposedAddress", root: "optOut.decision"},
	TaskCurfewAddress: {section: "proposedAddress", root: "curfewAddress", required: []requirement{
		required("curfewAddress.addressLine1"),
		required("curfewAddress.addressTown"),
		required("curfewAddress.postCode"),
	}},
	TaskBassRequest: {section: "bassReferral", root: "bassRequest.bassRequested", required: []requirement{
		requiredWhen("bassRequest.bassRequested", yes, "bassRequest.specificArea"),
		requiredWhen("bassRequest.specificArea", yes, "bassRequest.bassCounty", "bassRequest.bassTown"),
	}},
	TaskBassAreaCheck: {section: "bassReferral", root: "bassAreaCheck.bassAreaSuitable", required: []requirement{
		requiredWhen("bassAreaCheck.bassAreaSuitable", no, "bassAreaCheck.bassAreaReason"),
	}},
	TaskBassOffer: {section: "bassReferral", root: "bassOffer.bassAccepted", required: []requirement{
		requiredWhen("bassOffer.bassAccepted", yes, "bassOffer.addressLine1"),
		requiredWhen("bassOffer.bassAccepted", yes, "bassOffer.addressTown"),
		requiredWhen("bassOffer.bassAccepted", yes, "bassOffer.postCode"),
	}},
	TaskCurfewAddressReview: {section: "curfew", root: "curfewAddressReview", required: []requirement{
		required("curfewAddressReview.consent"),
		requiredWhen("curfewAddressReview.consent", yes, "curfewAddressReview.electricity"),
		requiredWhen("curfewAddressReview.consent", yes, "curfewAddressReview.homeVisitConducted"),
	}},
	TaskApprovedPremisesAddress: {section: "curfew", root: "approvedPremisesAddress", required: []requirement{
		required("approvedPremisesAddress.addressLine1"),
		required("approvedPremisesAddress.addressTown"),
		required("approvedPremisesAddress.postCode"),
	}},
	TaskRiskManagement: {section: "risk", root: "riskManagement", required: []requirement{
		required("riskManagement.planningActions"),
		required("riskManagement.awaitingInformation"),
		required("riskManagement.proposedAddressSuitable"),
		requiredWhen("riskManagement.proposedAddressSuitable", no, "riskManagement.unsuitableReason"),
	}},
	TaskVictim: {section: "victim", root: "victimLiaison.decision", required: []requirement{
		requiredWhen("victimLiaison.decision", yes, "victimLiaison.victimLiaisonDetails"),
	}},
	TaskCurfewHours: {section: "curfew", root: "curfewHours", required: append([]requirement{
		required("curfewHours.daySpecificInputs"),
		requiredWhen("curfewHours.daySpecificInputs", no, "curfewHours.allFrom"),
		requiredWhen("curfewHours.daySpecificInputs", no, "curfewHours.allUntil"),
	}, prefixed("curfewHours.", dayFields)...)},
	TaskLicenceConditions: {section: "licenceConditions", root: "standard.additionalConditionsRequired", required: []requirement{
		requiredWhen("standard.additionalConditionsRequired", yes, "additional", "bespoke"),
	}},
	TaskReportingInstructions: {section: "reporting", root: "reportingInstructions", required: []requirement{
		required("reportingInstructions.name"),
		required("reportingInstructions.buildingAndStreet1"),
		required("reportingInstructions.townOrCity"),
		required("reportingInstructions.postcode"),
		required("reportingInstructions.telephone"),
	}},
	TaskSeriousOffenceCheck: {section: "finalChecks", root: "seriousOffence.decision"},
	TaskOnRemandCheck:       {section: "finalChecks", root: "onRemand.decision"},
	TaskConfiscationOrderCheck: {section: "finalChecks", root: "confiscationOrder.decision", required: []requirement{
		requiredWhen("confiscationOrder.decision", yes, "confiscationOrder.confiscationUnitConsulted"),
	}},
	TaskApproval: {section: "approval", root: "release.decision", required: []requirement{
		requiredWhen("release.decision", no, "release.reason"),
	}},
	TaskCreateLicence: {section: "document", root: "template.decision"},
}

func prefixed(prefix string, reqs []requirement) []requirement {
	out := make([]requirement, 0, len(reqs))
	for _, req := range reqs {
		paths := make([]string, 0, len(req.paths))
		for _, path := range req.paths {
			paths = append(paths, prefix+path)
		}
		out = append(out, requirement{paths: paths, dependentOn: prefix + req.dependentOn, predicate: req.predicate})
	}
	return out
}
