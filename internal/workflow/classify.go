package workflow

import (
	"github.com/tidwall/gjson"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
)

// Classify derives task states and decisions for a licence at the given stage. It is total over any
// document, including nil and malformed input, and does not modify licence.
func Classify(licence models.Licence, stage models.Stage) LicenceStatus {
	doc := document.Normalize(licence)

	tasks := make(Tasks, len(topicRules)+2)
	for topic, rule := range topicRules {
		tasks[topic] = rule.state(doc)
	}

	decisions := &Decisions{}
	eligibilityDecisions(doc, tasks, decisions)
	addressDecisions(doc, decisions)
	bassDecisions(doc, tasks, decisions)
	roDecisions(doc, decisions)
	finalCheckDecisions(doc, tasks, decisions)
	approvalDecisions(doc, decisions)

	return LicenceStatus{Stage: stage, Decisions: decisions, Tasks: tasks}
}

// ClassifyRecord classifies a stored licence record. A nil record classifies as an empty licence.
func ClassifyRecord(record *models.LicenceRecord) LicenceStatus {
	if record == nil {
		return Classify(nil, models.StageUnstarted)
	}
	return Classify(record.Licence, record.Stage)
}

func eligibilityDecisions(doc []byte, tasks Tasks, d *Decisions) {
	d.Excluded = document.Str(doc, "eligibility", "excluded", "decision") == yes

	crdDecision := document.Str(doc, "eligibility", "crdTime", "decision")
	dmApproval := document.Str(doc, "eligibility", "crdTime", "dmApproval")
	d.InsufficientTime = crdDecision == yes
	d.InsufficientTimeContinue = d.InsufficientTime && dmApproval == yes
	d.InsufficientTimeStop = d.InsufficientTime && dmApproval == no

	exceptional := document.Str(doc, "eligibility", "exceptionalCircumstances", "decision")
	d.Unsuitable = document.Str(doc, "eligibility", "suitability", "decision") == yes
	d.ExceptionalCircumstances = exceptional == yes
	d.UnsuitableResult = d.Unsuitable && exceptional == no

	if d.Excluded || d.InsufficientTimeStop || d.UnsuitableResult {
		tasks[TaskEligibility] = Done
		d.Eligible = false
		return
	}
	tasks[TaskEligibility] = overall(tasks.Get(TaskExclusion), tasks.Get(TaskCrdTime), tasks.Get(TaskSuitability))
	d.Eligible = tasks[TaskEligibility] == Done
}

func addressDecisions(doc []byte, d *Decisions) {
	d.OptedOut = document.Str(doc, "proposedAddress", "optOut", "decision") == yes
	d.AddressProposed = document.Str(doc, "proposedAddress", "addressProposed", "decision") == yes

	consent := document.Str(doc, "curfew", "curfewAddressReview", "consent")
	electricity := document.Str(doc, "curfew", "curfewAddressReview", "electricity")
	suitable := document.Str(doc, "risk", "riskManagement", "proposedAddressSuitable")

	d.AddressReviewFailed = consent == no || electricity == no
	d.AddressUnsuitable = suitable == no
	d.CurfewAddressApproved = consent == yes && electricity == yes && suitable == yes
	d.CurfewAddressRejected = d.AddressReviewFailed || d.AddressUnsuitable
	d.ApprovedPremisesRequired = document.Str(doc, "curfew", "approvedPremises", "required") == yes

	if !document.Has(doc, "proposedAddress", "curfewAddress") {
		rejections := document.Get(doc, "proposedAddress", "rejections")
		if rejections.IsArray() {
			items := rejections.Array()
			if len(items) > 0 {
				d.AddressWithdrawn = document.Answered(items[len(items)-1].Get("withdrawalReason"))
			}
		}
	}
}

// bassDecisions derives the BASS referral facts. A withdrawn referral stays withdrawn until the CA
// starts filling in the fresh request.
func bassDecisions(doc []byte, tasks Tasks, d *Decisions) {
	requested := document.Str(doc, "bassReferral", "bassRequest", "bassRequested")
	addressProposed := document.Str(doc, "proposedAddress", "addressProposed", "decision")
	d.BassReferralNeeded = requested == yes && addressProposed == no

	areaSuitable := document.Str(doc, "bassReferral", "bassAreaCheck", "bassAreaSuitable")
	d.BassAreaSuitable = areaSuitable == yes
	d.BassAreaNotSuitable = areaSuitable == no

	d.BassAccepted = document.Str(doc, "bassReferral", "bassOffer", "bassAccepted")
	d.BassExcluded = d.BassAccepted == BassAcceptedUnavailable || d.BassAccepted == BassAcceptedUnsuitable

	rejections := document.Get(doc, "bassRejections")
	if rejections.IsArray() {
		items := rejections.Array()
		if len(items) > 0 {
			withdrawal := items[len(items)-1].Get("withdrawal")
			fresh := !document.Has(doc, "bassReferral", "bassAreaCheck") &&
				!document.Has(doc, "bassReferral", "bassRequest", "specificArea")
			if document.Answered(withdrawal) && fresh {
				d.BassWithdrawn = true
				d.BassWithdrawalReason = withdrawal.String()
			}
		}
	}

	active := d.BassReferralNeeded && !d.BassWithdrawn && !d.BassExcluded
	d.BassChecksDone = active && tasks.Is(TaskBassAreaCheck, Done)
	d.BassOfferMade = active && tasks.Is(TaskBassOffer, Done)
}

func roDecisions(doc []byte, d *Decisions) {
	d.RiskManagementNeeded = document.Str(doc, "risk", "riskManagement", "planningActions") == yes
	d.AwaitingRiskInformation = document.Str(doc, "risk", "riskManagement", "awaitingInformation") == yes
	d.VictimLiaisonNeeded = document.Str(doc, "victim", "victimLiaison", "decision") == yes

	d.StandardOnly = document.Str(doc, "licenceConditions", "standard", "additionalConditionsRequired") == no
	additional := document.Get(doc, "licenceConditions", "additional")
	if additional.IsObject() {
		additional.ForEach(func(_, _ gjson.Result) bool {
			d.AdditionalConditions++
			return true
		})
	}
	if bespoke := document.Get(doc, "licenceConditions", "bespoke"); bespoke.IsArray() {
		d.BespokeConditions = len(bespoke.Array())
	}
}

func finalCheckDecisions(doc []byte, tasks Tasks, d *Decisions) {
	d.SeriousOffence = document.Str(doc, "finalChecks", "seriousOffence", "decision") == yes
	d.OnRemand = document.Str(doc, "finalChecks", "onRemand", "decision") == yes
	d.ConfiscationOrder = document.Str(doc, "finalChecks", "confiscationOrder", "decision") == yes
	d.Postponed = document.Str(doc, "finalChecks", "postpone", "decision") == yes
	d.FinalChecksRefused = document.Str(doc, "finalChecks", "refusal", "decision") == yes

	tasks[TaskFinalChecks] = overall(
		tasks.Get(TaskSeriousOffenceCheck),
		tasks.Get(TaskOnRemandCheck),
		tasks.Get(TaskConfiscationOrderCheck),
	)
	d.FinalChecksPass = tasks[TaskFinalChecks] == Done && !d.SeriousOffence && !d.OnRemand
}

func approvalDecisions(doc []byte, d *Decisions) {
	decision := document.Str(doc, "approval", "release", "decision")
	d.Approved = decision == yes
	d.DmRefused = decision == no
	d.Refused = d.DmRefused || d.FinalChecksRefused
}
