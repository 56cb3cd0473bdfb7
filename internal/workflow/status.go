// Package workflow derives task states, decisions and status labels from licence documents and
// owns the stage/transition state machine. Everything here is pure: no I/O, no errors, no panics on
// malformed documents.
package workflow

import (
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
)

// TaskState is the completion state of one licence topic.
type TaskState string

const (
	Unstarted TaskState = "UNSTARTED"
	Started   TaskState = "STARTED"
	Done      TaskState = "DONE"
)

// Topic names used as task keys.
const (
	TaskExclusion               = "exclusion"
	TaskCrdTime                 = "crdTime"
	TaskSuitability             = "suitability"
	TaskEligibility             = "eligibility"
	TaskOptOut                  = "optOut"
	TaskCurfewAddress           = "curfewAddress"
	TaskBassRequest             = "bassRequest"
	TaskBassAreaCheck           = "bassAreaCheck"
	TaskBassOffer               = "bassOffer"
	TaskCurfewAddressReview     = "curfewAddressReview"
	TaskApprovedPremisesAddress = "approvedPremisesAddress"
	TaskRiskManagement          = "riskManagement"
	TaskVictim                  = "victim"
	TaskCurfewHours             = "curfewHours"
	TaskLicenceConditions       = "licenceConditions"
	TaskReportingInstructions   = "reportingInstructions"
	TaskSeriousOffenceCheck     = "seriousOffenceCheck"
	TaskOnRemandCheck           = "onRemandCheck"
	TaskConfiscationOrderCheck  = "confiscationOrderCheck"
	TaskFinalChecks             = "finalChecks"
	TaskApproval                = "approval"
	TaskCreateLicence           = "createLicence"
)

// Tasks maps topic names to their state. Missing topics read as Unstarted.
type Tasks map[string]TaskState

// Get returns the state of topic, defaulting to Unstarted.
func (t Tasks) Get(topic string) TaskState {
	if state, ok := t[topic]; ok && state != "" {
		return state
	}
	return Unstarted
}

// Is reports whether topic is in the given state.
func (t Tasks) Is(topic string, state TaskState) bool {
	return t.Get(topic) == state
}

// AnyStarted reports whether any of the topics has moved past Unstarted.
func (t Tasks) AnyStarted(topics ...string) bool {
	for _, topic := range topics {
		if t.Get(topic) != Unstarted {
			return true
		}
	}
	return false
}

// BassAccepted values recorded by the CA when making a BASS offer.
const (
	BassAcceptedYes         = "Yes"
	BassAcceptedUnavailable = "Unavailable"
	BassAcceptedUnsuitable  = "Unsuitable"
)

// Decisions are derived facts about a licence. They are recomputed on every read and never stored.
type Decisions struct {
	Eligible                 bool `json:"eligible"`
	Excluded                 bool `json:"excluded"`
	Unsuitable               bool `json:"unsuitable"`
	ExceptionalCircumstances bool `json:"exceptionalCircumstances"`
	UnsuitableResult         bool `json:"unsuitableResult"`
	InsufficientTime         bool `json:"insufficientTime"`
	InsufficientTimeContinue bool `json:"insufficientTimeContinue"`
	InsufficientTimeStop     bool `json:"insufficientTimeStop"`

	OptedOut            bool `json:"optedOut"`
	AddressProposed     bool `json:"addressProposed"`
	BassReferralNeeded  bool `json:"bassReferralNeeded"`
	BassAreaSuitable    bool `json:"bassAreaSuitable"`
	BassAreaNotSuitable bool `json:"bassAreaNotSuitable"`
	// BassAccepted is the raw offer answer: Yes, Unavailable or Unsuitable.
	BassAccepted         string `json:"bassAccepted,omitempty"`
	BassExcluded         bool   `json:"bassExcluded"`
	BassWithdrawn        bool   `json:"bassWithdrawn"`
	BassWithdrawalReason string `json:"bassWithdrawalReason,omitempty"`
	BassChecksDone       bool   `json:"bassChecksDone"`
	BassOfferMade        bool   `json:"bassOfferMade"`

	CurfewAddressApproved    bool `json:"curfewAddressApproved"`
	CurfewAddressRejected    bool `json:"curfewAddressRejected"`
	AddressReviewFailed      bool `json:"addressReviewFailed"`
	AddressUnsuitable        bool `json:"addressUnsuitable"`
	ApprovedPremisesRequired bool `json:"approvedPremisesRequired"`
	AddressWithdrawn         bool `json:"addressWithdrawn"`

	RiskManagementNeeded    bool `json:"riskManagementNeeded"`
	AwaitingRiskInformation bool `json:"awaitingRiskInformation"`
	VictimLiaisonNeeded     bool `json:"victimLiaisonNeeded"`

	StandardOnly         bool `json:"standardOnly"`
	AdditionalConditions int  `json:"additionalConditions"`
	BespokeConditions    int  `json:"bespokeConditions"`

	SeriousOffence     bool `json:"seriousOffence"`
	OnRemand           bool `json:"onRemand"`
	ConfiscationOrder  bool `json:"confiscationOrder"`
	FinalChecksPass    bool `json:"finalChecksPass"`
	Postponed          bool `json:"postponed"`
	FinalChecksRefused bool `json:"finalChecksRefused"`

	Approved  bool `json:"approved"`
	Refused   bool `json:"refused"`
	DmRefused bool `json:"dmRefused"`
}

// LicenceStatus is the classification of a licence at a stage.
type LicenceStatus struct {
	Stage     models.Stage `json:"stage"`
	Decisions *Decisions   `json:"decisions"`
	Tasks     Tasks        `json:"tasks"`
}
