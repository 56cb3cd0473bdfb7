package service

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/workflow"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

const (
	conditionsSection = "licenceConditions"
	bespokePrefix     = "bespoke-"
)

// UpdateLicenceConditions merges conditions into the licenceConditions section. Bespoke conditions
// get a stable id the first time they are stored so later deletes cannot hit the wrong entry.
// Changing conditions on a decided licence requires re-approval.
func (s *LicenceService) UpdateLicenceConditions(ctx context.Context, actor Actor, bookingID int64, conditions map[string]interface{}, postRelease bool) (*UpdateResult, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	current, err := document.Decode(record.Licence, conditionsSection)
	if err != nil {
		return nil, archiveError(err)
	}
	existing, _ := current.(map[string]interface{})

	merged := make(map[string]interface{}, len(existing)+len(conditions))
	for key, value := range existing {
		merged[key] = value
	}
	for key, value := range conditions {
		merged[key] = value
	}
	if incoming, ok := conditions["bespoke"].([]interface{}); ok {
		previous, _ := existing["bespoke"].([]interface{})
		merged["bespoke"] = assignBespokeIDs(previous, incoming)
	}

	canonical, err := document.Canonical(merged)
	if err != nil {
		return nil, archiveError(err)
	}
	result := &UpdateResult{Licence: record.Licence, Stage: record.Stage}
	if current != nil && reflect.DeepEqual(current, canonical) {
		return result, nil
	}

	updated, err := s.writeConditions(ctx, actor, bookingID, record.Licence, canonical, postRelease)
	if err != nil {
		return nil, err
	}
	stage, err := s.applyModificationStage(ctx, actor, bookingID, record.Stage, workflow.ModificationOptions{RequiresApproval: true})
	if err != nil {
		return nil, err
	}
	result.Licence, result.Stage, result.Changed = updated, stage, true
	return result, nil
}

// DeleteLicenceCondition removes one condition. Ids of the form bespoke-<id> address bespoke
// conditions; any other id is a key of the additional conditions.
func (s *LicenceService) DeleteLicenceCondition(ctx context.Context, actor Actor, bookingID int64, conditionID string) (*UpdateResult, error) {
	record, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	current, err := document.Decode(record.Licence, conditionsSection)
	if err != nil {
		return nil, archiveError(err)
	}
	conditions, _ := current.(map[string]interface{})
	notFound := appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("condition %s not found", conditionID))
	if conditions == nil {
		return nil, notFound
	}

	if strings.HasPrefix(conditionID, bespokePrefix) {
		bespoke, _ := conditions["bespoke"].([]interface{})
		index := bespokeIndex(bespoke, strings.TrimPrefix(conditionID, bespokePrefix))
		if index < 0 {
			return nil, notFound
		}
		remaining := make([]interface{}, 0, len(bespoke)-1)
		remaining = append(remaining, bespoke[:index]...)
		conditions["bespoke"] = append(remaining, bespoke[index+1:]...)
	} else {
		additional, _ := conditions["additional"].(map[string]interface{})
		if _, ok := additional[conditionID]; !ok {
			return nil, notFound
		}
		delete(additional, conditionID)
	}

	updated, err := s.writeConditions(ctx, actor, bookingID, record.Licence, conditions, false)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Licence: updated, Stage: record.Stage, Changed: true}, nil
}

func (s *LicenceService) writeConditions(ctx context.Context, actor Actor, bookingID int64, licence []byte, conditions interface{}, postRelease bool) ([]byte, error) {
	raw, err := json.Marshal(conditions)
	if err != nil {
		return nil, archiveError(err)
	}
	if err := s.store.UpdateSection(ctx, conditionsSection, bookingID, raw, postRelease); err != nil {
		return nil, s.storeError(err, "update licence conditions", bookingID, actor)
	}
	updated, err := document.SetRaw(licence, raw, conditionsSection)
	if err != nil {
		return nil, archiveError(err)
	}
	s.record(ctx, actor, models.AuditActionUpdateSection, bookingID, map[string]interface{}{"section": conditionsSection})
	s.metrics.RecordLicenceUpdate(conditionsSection)
	s.invalidateCaseLists(ctx)
	return updated, nil
}

// assignBespokeIDs gives every incoming bespoke condition an id, reusing the id of an identical
// stored condition so resubmitting unchanged conditions is not a change.
func assignBespokeIDs(previous, incoming []interface{}) []interface{} {
	used := make(map[int]bool, len(previous))
	out := make([]interface{}, 0, len(incoming))
	for _, item := range incoming {
		condition, ok := item.(map[string]interface{})
		if !ok {
			out = append(out, item)
			continue
		}
		copied := make(map[string]interface{}, len(condition)+1)
		for key, value := range condition {
			copied[key] = value
		}
		if id, _ := copied["id"].(string); id == "" {
			copied["id"] = matchingBespokeID(previous, copied, used)
		}
		out = append(out, copied)
	}
	return out
}

func matchingBespokeID(previous []interface{}, condition map[string]interface{}, used map[int]bool) string {
	want, _ := document.Canonical(withoutID(condition))
	for i, item := range previous {
		stored, ok := item.(map[string]interface{})
		if !ok || used[i] {
			continue
		}
		id, _ := stored["id"].(string)
		if id == "" {
			continue
		}
		if have, _ := document.Canonical(withoutID(stored)); reflect.DeepEqual(want, have) {
			used[i] = true
			return id
		}
	}
	return uuid.NewString()
}

func withoutID(condition map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(condition))
	for key, value := range condition {
		if key != "id" {
			out[key] = value
		}
	}
	return out
}

// bespokeIndex finds a bespoke condition by id. Conditions stored before ids existed are addressed
// by their list index.
func bespokeIndex(bespoke []interface{}, id string) int {
	for i, item := range bespoke {
		if condition, ok := item.(map[string]interface{}); ok && condition["id"] == id {
			return i
		}
	}
	index, err := strconv.Atoi(id)
	if err != nil || index < 0 || index >= len(bespoke) {
		return -1
	}
	if condition, ok := bespoke[index].(map[string]interface{}); ok {
		if stored, _ := condition["id"].(string); stored != "" {
			return -1
		}
	}
	return index
}
