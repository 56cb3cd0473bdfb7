package workflow

import (
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

// DefaultStatusLabel is shown for missing or unclassified cases.
const DefaultStatusLabel = "Not started"

// LabelRule maps a predicate over a classified licence to a case-list label.
type LabelRule struct {
	When  func(LicenceStatus) bool
	Label string
}

// StageLabels is the ordered rule list for one stage. The first matching rule wins; Default applies
// when none match.
type StageLabels struct {
	Rules   []LabelRule
	Default string
}

// LabelTable holds the label rules per role and stage.
type LabelTable map[models.UserRole]map[models.Stage]StageLabels

func decision(pick func(*Decisions) bool) func(LicenceStatus) bool {
	return func(status LicenceStatus) bool {
		return pick(status.Decisions)
	}
}

func fixed(label string) StageLabels {
	return StageLabels{Default: label}
}

var decidedLabels = StageLabels{Rules: []LabelRule{
	{When: decision(func(d *Decisions) bool { return d.Refused }), Label: "Refused"},
	{When: decision(func(d *Decisions) bool { return d.Approved }), Label: "Approved"},
}, Default: DefaultStatusLabel}

var roProcessingTasks = []string{
	TaskCurfewAddressReview,
	TaskApprovedPremisesAddress,
	TaskBassAreaCheck,
	TaskRiskManagement,
	TaskVictim,
	TaskCurfewHours,
	TaskLicenceConditions,
	TaskReportingInstructions,
}

// DefaultLabelTable is the canonical precedence table. In the CA final-checks stage Postponed outranks
// a final-checks refusal, which outranks ineligibility, which outranks a rejected address.
var DefaultLabelTable = LabelTable{
	models.RoleCA: {
		models.StageUnstarted: fixed(DefaultStatusLabel),
		models.StageEligibility: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.Excluded }), Label: "Not eligible"},
			{When: decision(func(d *Decisions) bool { return d.UnsuitableResult }), Label: "Presumed unsuitable"},
			{When: decision(func(d *Decisions) bool { return d.InsufficientTime || d.InsufficientTimeContinue }), Label: "Not enough time"},
			{When: decision(func(d *Decisions) bool { return d.OptedOut }), Label: "Opted out"},
			{When: decision(func(d *Decisions) bool { return d.CurfewAddressRejected }), Label: "Address not suitable"},
			{When: decision(func(d *Decisions) bool { return d.BassReferralNeeded || d.Eligible }), Label: "Eligible"},
		}, Default: DefaultStatusLabel},
		models.StageProcessingRO: fixed("With responsible officer"),
		models.StageProcessingCA: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.Postponed }), Label: "Postponed"},
			{When: decision(func(d *Decisions) bool { return d.FinalChecksRefused }), Label: "Refused"},
			{When: decision(func(d *Decisions) bool { return d.Excluded }), Label: "Not eligible"},
			{When: decision(func(d *Decisions) bool { return d.CurfewAddressRejected }), Label: "Address not suitable"},
			{When: decision(func(d *Decisions) bool { return d.BassWithdrawalReason == "offer" }), Label: "BASS offer withdrawn"},
			{When: decision(func(d *Decisions) bool { return d.BassWithdrawalReason == "request" }), Label: "BASS request withdrawn"},
			{When: decision(func(d *Decisions) bool { return d.ApprovedPremisesRequired }), Label: "Approved premises"},
		}, Default: "Address suitable"},
		models.StageApproval:         fixed("With decision maker"),
		models.StageDecided:          decidedLabels,
		models.StageModified:         fixed("Licence updated"),
		models.StageModifiedApproval: fixed("Modified - awaiting approval"),
		models.StageVary:             fixed("Varying licence"),
	},
	models.RoleRO: {
		models.StageEligibility: fixed("With prison"),
		models.StageProcessingRO: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.BassAreaNotSuitable }), Label: "BASS area rejected"},
			{When: func(status LicenceStatus) bool { return status.Tasks.AnyStarted(roProcessingTasks...) }, Label: "In progress"},
		}, Default: DefaultStatusLabel},
		models.StageProcessingCA: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.Postponed }), Label: "Postponed"},
			{When: decision(func(d *Decisions) bool { return !d.Eligible }), Label: "Not eligible"},
		}, Default: "With prison"},
		models.StageApproval:         fixed("With decision maker"),
		models.StageDecided:          decidedLabels,
		models.StageModified:         fixed("Licence updated"),
		models.StageModifiedApproval: fixed("With decision maker"),
		models.StageVary:             fixed("Varying licence"),
	},
	models.RoleDM: {
		models.StageEligibility:  fixed("With prison"),
		models.StageProcessingRO: fixed("With responsible officer"),
		models.StageProcessingCA: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.Postponed }), Label: "Postponed"},
		}, Default: "With prison"},
		models.StageApproval: {Rules: []LabelRule{
			{When: decision(func(d *Decisions) bool { return d.InsufficientTimeStop }), Label: "Awaiting refusal"},
		}, Default: DefaultStatusLabel},
		models.StageDecided:          decidedLabels,
		models.StageModified:         fixed("Licence updated"),
		models.StageModifiedApproval: fixed(DefaultStatusLabel),
	},
}

// StatusLabel resolves the case-list label for a classified licence using the default table.
func StatusLabel(status *LicenceStatus, role models.UserRole) string {
	return DefaultLabelTable.Resolve(status, role)
}

// Resolve evaluates the rules for the status' role and stage top to bottom. Missing status, stage,
// decisions or tasks resolve to DefaultStatusLabel.
func (t LabelTable) Resolve(status *LicenceStatus, role models.UserRole) string {
	if status == nil || status.Stage == "" || status.Decisions == nil || status.Tasks == nil {
		return DefaultStatusLabel
	}
	stages, ok := t[role]
	if !ok {
		stages = t[models.RoleCA]
	}
	labels, ok := stages[status.Stage]
	if !ok {
		return DefaultStatusLabel
	}
	for _, rule := range labels.Rules {
		if rule.When(*status) {
			return rule.Label
		}
	}
	if labels.Default == "" {
		return DefaultStatusLabel
	}
	return labels.Default
}
