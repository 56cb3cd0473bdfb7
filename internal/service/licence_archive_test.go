package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

const addressLicence = `{
	"proposedAddress": {"curfewAddress": {"addressLine1": "1 High Street", "postCode": "S1 1AA"}},
	"curfew": {"curfewAddressReview": {"consent": "Yes"}, "curfewHours": {"allFrom": "19:00"}},
	"risk": {"riskManagement": {"proposedAddressSuitable": "No", "unsuitableReason": "Victim nearby", "planningActions": "No"}}
}`

func TestRejectAndReinstateProposedAddress(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingCA, addressLicence)
	ctx := context.Background()

	rejected, err := f.svc.RejectProposedAddress(ctx, caActor, 1, "consentWithdrawn")
	require.NoError(t, err)

	assert.False(t, document.Has(rejected, "proposedAddress", "curfewAddress"))
	assert.False(t, document.Has(rejected, "curfew", "curfewAddressReview"))
	assert.False(t, document.Has(rejected, "risk", "riskManagement", "proposedAddressSuitable"))
	assert.Equal(t, "19:00", document.Str(rejected, "curfew", "curfewHours", "allFrom"))
	assert.Equal(t, "No", document.Str(rejected, "risk", "riskManagement", "planningActions"))

	entry := document.Get(rejected, "proposedAddress", "rejections", "0")
	assert.Equal(t, "1 High Street", entry.Get("address.addressLine1").String())
	assert.Equal(t, "Yes", entry.Get("addressReview.curfewAddressReview.consent").String())
	assert.Equal(t, "Victim nearby", entry.Get("riskManagement.unsuitableReason").String())
	assert.Equal(t, "consentWithdrawn", entry.Get("withdrawalReason").String())

	reinstated, err := f.svc.ReinstateProposedAddress(ctx, caActor, 1)
	require.NoError(t, err)
	assert.Equal(t, "S1 1AA", document.Str(reinstated, "proposedAddress", "curfewAddress", "postCode"))
	assert.Equal(t, "Yes", document.Str(reinstated, "curfew", "curfewAddressReview", "consent"))
	assert.Equal(t, "No", document.Str(reinstated, "risk", "riskManagement", "proposedAddressSuitable"))
	assert.Len(t, document.Get(reinstated, "proposedAddress", "rejections").Array(), 0)
	assert.Equal(t, 2, f.store.updates)
}

func TestReinstateProposedAddressWithNothingArchived(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingCA, `{}`)

	_, err := f.svc.ReinstateProposedAddress(context.Background(), caActor, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNothingToReinstate.Code, appErrors.FromError(err).Code)
	assert.Zero(t, f.store.updates)
}

func TestRejectBassStartsNewRequest(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingCA, `{"bassReferral":{"bassRequest":{"bassRequested":"Yes","specificArea":"No"},"bassOffer":{"bassAccepted":"Unsuitable"}}}`)
	ctx := context.Background()

	updated, err := f.svc.RejectBass(ctx, caActor, 1, "No", "area unsuitable")
	require.NoError(t, err)
	assert.Equal(t, "No", document.Str(updated, "bassReferral", "bassRequest", "bassRequested"))
	assert.False(t, document.Has(updated, "bassReferral", "bassOffer"))

	archived := document.Get(updated, "bassRejections", "0")
	assert.Equal(t, "area unsuitable", archived.Get("rejectionReason").String())
	assert.Equal(t, "Unsuitable", archived.Get("bassOffer.bassAccepted").String())

	restored, err := f.svc.ReinstateBass(ctx, caActor, 1)
	require.NoError(t, err)
	assert.Equal(t, "Unsuitable", document.Str(restored, "bassReferral", "bassOffer", "bassAccepted"))
	assert.Len(t, document.Get(restored, "bassRejections").Array(), 0)
}

func TestWithdrawBassDropsWithdrawalOnReinstate(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingCA, `{"bassReferral":{"bassRequest":{"bassRequested":"Yes"}}}`)
	ctx := context.Background()

	withdrawn, err := f.svc.WithdrawBass(ctx, caActor, 1, "offer")
	require.NoError(t, err)
	assert.Equal(t, "offer", document.Get(withdrawn, "bassRejections", "0", "withdrawal").String())
	assert.Equal(t, "Yes", document.Str(withdrawn, "bassReferral", "bassRequest", "bassRequested"))

	restored, err := f.svc.ReinstateBass(ctx, caActor, 1)
	require.NoError(t, err)
	assert.False(t, document.Has(restored, "bassReferral", "withdrawal"))
}

func TestRejectBassWithoutReferralIsUnchanged(t *testing.T) {
	f := newLicenceFixture(t)
	f.store.put(1, models.StageProcessingCA, `{"eligibility":{}}`)

	updated, err := f.svc.RejectBass(context.Background(), caActor, 1, "Yes", "reason")
	require.NoError(t, err)
	assert.JSONEq(t, `{"eligibility":{}}`, string(updated))
	assert.Zero(t, f.store.updates)

	_, err = f.svc.ReinstateBass(context.Background(), caActor, 1)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNothingToReinstate.Code, appErrors.FromError(err).Code)
}
