package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

func caseListStore() *licenceStoreStub {
	store := newLicenceStoreStub()
	store.put(1, models.StageEligibility, `{}`)
	store.put(2, models.StageProcessingRO, `{}`)
	store.put(3, models.StageProcessingCA, `{"finalChecks":{"postpone":{"decision":"Yes"}}}`)
	store.put(4, models.StageProcessingCA, `{}`)
	store.put(5, models.StageApproval, `{}`)
	store.put(6, models.StageDecided, `{"approval":{"release":{"decision":"Yes"}}}`)
	return store
}

func bookingIDs(cases []models.CaseSummary) []int64 {
	ids := make([]int64, len(cases))
	for i, c := range cases {
		ids[i] = c.BookingID
	}
	return ids
}

func TestCaseListNeededForRole(t *testing.T) {
	cases := []struct {
		role     models.UserRole
		active   []int64
		inactive []int64
	}{
		{models.RoleCA, []int64{1, 2, 3, 4, 5}, []int64{6}},
		{models.RoleAdmin, []int64{1, 2, 3, 4, 5}, []int64{6}},
		{models.RoleRO, []int64{2, 3, 4, 5}, []int64{6}},
		{models.RoleDM, []int64{3, 5}, []int64{6}},
	}
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			svc := NewCaseListService(caseListStore(), nil, 0, nil)
			actor := Actor{Username: "user", Role: tc.role}

			active, hit, err := svc.List(context.Background(), actor, TabActive)
			require.NoError(t, err)
			assert.False(t, hit)
			assert.Equal(t, tc.active, bookingIDs(active))

			inactive, _, err := svc.List(context.Background(), actor, TabInactive)
			require.NoError(t, err)
			assert.Equal(t, tc.inactive, bookingIDs(inactive))
		})
	}
}

func TestCaseListLabels(t *testing.T) {
	svc := NewCaseListService(caseListStore(), nil, 0, nil)

	cases, _, err := svc.List(context.Background(), Actor{Username: "dm", Role: models.RoleDM}, "")
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "Postponed", cases[0].StatusLabel)
	assert.Equal(t, "1.0", cases[0].Version)
	assert.True(t, cases[0].ActiveCase)
}

func TestCaseListUsesCache(t *testing.T) {
	repo := newCacheRepoStub()
	cache := NewCacheService(repo, NewMetricsService(), 0, nil, true)
	svc := NewCaseListService(caseListStore(), cache, 0, nil)
	actor := Actor{Username: "ca", Role: models.RoleCA}

	first, hit, err := svc.List(context.Background(), actor, TabActive)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Contains(t, repo.values, "caselist:CA:ca:active")

	second, hit, err := svc.List(context.Background(), actor, TabActive)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)

	require.NoError(t, cache.Invalidate(context.Background(), caseListPattern))
	_, hit, err = svc.List(context.Background(), actor, TabActive)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestCaseListRejectsUnknownTab(t *testing.T) {
	svc := NewCaseListService(caseListStore(), nil, 0, nil)

	_, _, err := svc.List(context.Background(), caActor, "archived")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCaseListExport(t *testing.T) {
	svc := NewCaseListService(caseListStore(), nil, 0, nil)
	actor := Actor{Username: "dm", Role: models.RoleDM}

	file, err := svc.Export(context.Background(), actor, TabActive, "CSV")
	require.NoError(t, err)
	assert.Equal(t, "caselist-dm-active.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "Booking,Stage,Version,Status\n3,PROCESSING_CA,1.0,Postponed\n5,APPROVAL,1.0,Not started\n", string(file.Body))

	file, err = svc.Export(context.Background(), actor, "", FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
	assert.Equal(t, "caselist-dm-active.pdf", file.Filename)

	_, err = svc.Export(context.Background(), actor, TabActive, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
