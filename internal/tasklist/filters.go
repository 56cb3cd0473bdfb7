package tasklist

import (
	"sort"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
)

// FilterSet is the set of predicate names that currently hold.
type FilterSet map[string]struct{}

// NewFilterSet builds a set from names. Duplicates collapse.
func NewFilterSet(names ...string) FilterSet {
	set := make(FilterSet, len(names))
	for _, name := range names {
		set.Add(name)
	}
	return set
}

// Add inserts name. Empty names are ignored.
func (s FilterSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Has reports whether name is present.
func (s FilterSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the sorted members.
func (s FilterSet) Names() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Filter predicate names understood by the catalogs.
const (
	FilterBassReferralNeeded                  = "bassReferralNeeded"
	FilterOptedOut                            = "optedOut"
	FilterEligible                            = "eligible"
	FilterDmRefused                           = "dmRefused"
	FilterCurfewAddressRejected               = "curfewAddressRejected"
	FilterApprovedPremisesRequired            = "approvedPremisesRequired"
	FilterEligibilityDone                     = "eligibilityDone"
	FilterOptOutDone                          = "optOutDone"
	FilterOptOutUnstarted                     = "optOutUnstarted"
	FilterAddressOrBassChecksDone             = "addressOrBassChecksDone"
	FilterAddressOrBassChecksDoneOrUnsuitable = "addressOrBassChecksDoneOrUnsuitable"
	FilterAddressOrBassOffered                = "addressOrBassOffered"
	FilterAddressOrBassOfferedOrUnsuitable    = "addressOrBassOfferedOrUnsuitable"
	FilterAddressRejectedInReviewTask         = "addressRejectedInReviewTask"
	FilterAddressRejectedInRiskTask           = "addressRejectedInRiskTask"
	FilterBassAreaNotSuitable                 = "bassAreaNotSuitable"
	FilterPostponed                           = "postponed"
	FilterLicenceUnstarted                    = "licenceUnstarted"
	FilterLicenceVersionExists                = "licenceVersionExists"
	FilterIsNewVersion                        = "isNewVersion"
)

// Filters derives the filter set for a classified licence. allowedTransition, when set, is added as a
// predicate of the same name.
func Filters(status workflow.LicenceStatus, version workflow.VersionInfo, allowedTransition string) FilterSet {
	d := status.Decisions
	if d == nil {
		d = &workflow.Decisions{}
	}
	tasks := status.Tasks

	addressOrBassChecksDone := d.CurfewAddressApproved || d.BassChecksDone
	addressOrBassOffered := d.CurfewAddressApproved || d.BassOfferMade

	set := NewFilterSet(allowedTransition)
	flags := map[string]bool{
		FilterBassReferralNeeded:                  d.BassReferralNeeded,
		FilterOptedOut:                            d.OptedOut,
		FilterEligible:                            d.Eligible,
		FilterDmRefused:                           d.DmRefused,
		FilterCurfewAddressRejected:               d.CurfewAddressRejected,
		FilterApprovedPremisesRequired:            d.ApprovedPremisesRequired,
		FilterEligibilityDone:                     tasks.Is(workflow.TaskEligibility, workflow.Done),
		FilterOptOutDone:                          tasks.Is(workflow.TaskOptOut, workflow.Done),
		FilterOptOutUnstarted:                     tasks.Is(workflow.TaskOptOut, workflow.Unstarted),
		FilterAddressOrBassChecksDone:             addressOrBassChecksDone,
		FilterAddressOrBassChecksDoneOrUnsuitable: addressOrBassChecksDone || d.AddressUnsuitable,
		FilterAddressOrBassOffered:                addressOrBassOffered,
		FilterAddressOrBassOfferedOrUnsuitable:    addressOrBassOffered || d.AddressUnsuitable,
		FilterAddressRejectedInReviewTask:         d.AddressReviewFailed,
		FilterAddressRejectedInRiskTask:           d.AddressUnsuitable,
		FilterBassAreaNotSuitable:                 d.BassAreaNotSuitable,
		FilterPostponed:                           d.Postponed,
		FilterLicenceUnstarted:                    status.Stage == models.StageUnstarted,
		FilterLicenceVersionExists:                version.ApprovedVersionDetails != nil,
		FilterIsNewVersion:                        version.IsNewVersion,
	}
	for name, on := range flags {
		if on {
			set.Add(name)
		}
	}
	return set
}
