package service

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// Archive lists. Entries are appended on rejection and reinstate always pops the last one.
var (
	addressRejectionsPath = []string{"proposedAddress", "rejections"}
	bassRejectionsPath    = []string{"bassRejections"}
)

// Answers cleared when a proposed address is rejected, in the order they are restored.
var (
	curfewAddressPath       = []string{"proposedAddress", "curfewAddress"}
	addressSuitablePath     = []string{"risk", "riskManagement", "proposedAddressSuitable"}
	unsuitableReasonPath    = []string{"risk", "riskManagement", "unsuitableReason"}
	curfewAddressReviewPath = []string{"curfew", "curfewAddressReview"}
)

// RejectProposedAddress archives the proposed address together with its review and risk answers
// into proposedAddress.rejections and clears them from the active licence.
func (s *LicenceService) RejectProposedAddress(ctx context.Context, actor Actor, bookingID int64, withdrawalReason string) (models.Licence, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	licence := []byte(record.Licence)

	entry := []byte(`{}`)
	steps := []struct {
		raw  gjson.Result
		path []string
	}{
		{document.Get(licence, curfewAddressPath...), []string{"address"}},
		{document.Get(licence, curfewAddressReviewPath...), []string{"addressReview", "curfewAddressReview"}},
		{document.Get(licence, addressSuitablePath...), []string{"riskManagement", "proposedAddressSuitable"}},
		{document.Get(licence, unsuitableReasonPath...), []string{"riskManagement", "unsuitableReason"}},
	}
	for _, step := range steps {
		if !document.Answered(step.raw) {
			continue
		}
		if entry, err = document.SetRaw(entry, []byte(step.raw.Raw), step.path...); err != nil {
			return nil, archiveError(err)
		}
	}
	if withdrawalReason != "" {
		if entry, err = document.Set(entry, withdrawalReason, "withdrawalReason"); err != nil {
			return nil, archiveError(err)
		}
	}

	updated, err := document.Append(licence, entry, addressRejectionsPath...)
	if err != nil {
		return nil, archiveError(err)
	}
	for _, path := range [][]string{curfewAddressPath, addressSuitablePath, unsuitableReasonPath, curfewAddressReviewPath} {
		if updated, err = document.Delete(updated, path...); err != nil {
			return nil, archiveError(err)
		}
	}
	return s.saveArchived(ctx, actor, bookingID, updated, "rejectProposedAddress")
}

// ReinstateProposedAddress restores the most recently rejected address and removes it from the
// rejection list.
func (s *LicenceService) ReinstateProposedAddress(ctx context.Context, actor Actor, bookingID int64) (models.Licence, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	updated, entry, ok, err := document.Pop(record.Licence, addressRejectionsPath...)
	if err != nil {
		return nil, archiveError(err)
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNothingToReinstate, "no rejected address to reinstate")
	}

	restores := []struct {
		from []string
		to   []string
	}{
		{[]string{"address"}, curfewAddressPath},
		{[]string{"riskManagement", "proposedAddressSuitable"}, addressSuitablePath},
		{[]string{"riskManagement", "unsuitableReason"}, unsuitableReasonPath},
		{[]string{"addressReview", "curfewAddressReview"}, curfewAddressReviewPath},
	}
	archived := []byte(entry.Raw)
	for _, restore := range restores {
		value := document.Get(archived, restore.from...)
		if !document.Answered(value) {
			continue
		}
		if updated, err = document.SetRaw(updated, []byte(value.Raw), restore.to...); err != nil {
			return nil, archiveError(err)
		}
	}
	return s.saveArchived(ctx, actor, bookingID, updated, "reinstateProposedAddress")
}

// RejectBass archives the current BASS referral with the rejection reason and starts a new request
// recording whether another BASS area is wanted. A licence without a referral is returned unchanged.
func (s *LicenceService) RejectBass(ctx context.Context, actor Actor, bookingID int64, bassRequested, reason string) (models.Licence, error) {
	return s.deactivateBass(ctx, actor, bookingID, "rejectionReason", reason, bassRequested, "rejectBass")
}

// WithdrawBass archives the current BASS referral with the withdrawal type and starts a new request.
func (s *LicenceService) WithdrawBass(ctx context.Context, actor Actor, bookingID int64, withdrawal string) (models.Licence, error) {
	return s.deactivateBass(ctx, actor, bookingID, "withdrawal", withdrawal, "Yes", "withdrawBass")
}

func (s *LicenceService) deactivateBass(ctx context.Context, actor Actor, bookingID int64, key, value, bassRequested, op string) (models.Licence, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	current := document.Get(record.Licence, "bassReferral")
	if !current.Exists() {
		return record.Licence, nil
	}

	archived, err := document.Set([]byte(current.Raw), value, key)
	if err != nil {
		return nil, archiveError(err)
	}
	updated, err := document.Append(record.Licence, archived, bassRejectionsPath...)
	if err != nil {
		return nil, archiveError(err)
	}
	fresh := map[string]interface{}{"bassRequest": map[string]interface{}{"bassRequested": bassRequested}}
	if updated, err = document.Set(updated, fresh, "bassReferral"); err != nil {
		return nil, archiveError(err)
	}
	return s.saveArchived(ctx, actor, bookingID, updated, op)
}

// ReinstateBass restores the most recently archived BASS referral, dropping its withdrawal marker.
func (s *LicenceService) ReinstateBass(ctx context.Context, actor Actor, bookingID int64) (models.Licence, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	updated, entry, ok, err := document.Pop(record.Licence, bassRejectionsPath...)
	if err != nil {
		return nil, archiveError(err)
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNothingToReinstate, "no BASS referral to reinstate")
	}
	restored, err := document.Delete([]byte(entry.Raw), "withdrawal")
	if err != nil {
		return nil, archiveError(err)
	}
	if updated, err = document.SetRaw(updated, restored, "bassReferral"); err != nil {
		return nil, archiveError(err)
	}
	return s.saveArchived(ctx, actor, bookingID, updated, "reinstateBass")
}

func (s *LicenceService) saveArchived(ctx context.Context, actor Actor, bookingID int64, updated []byte, op string) (models.Licence, error) {
	if err := s.store.UpdateLicence(ctx, bookingID, updated, false); err != nil {
		return nil, s.storeError(err, "update licence", bookingID, actor)
	}
	s.record(ctx, actor, models.AuditActionUpdateSection, bookingID, map[string]interface{}{"operation": op})
	s.invalidateCaseLists(ctx)
	return updated, nil
}

func archiveError(err error) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update licence archive")
}
