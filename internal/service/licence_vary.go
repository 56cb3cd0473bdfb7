package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/uk-gov-mirror/ministryofjustice.licences/internal/models"
	"github.com/uk-gov-mirror/ministryofjustice.licences/pkg/document"
	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// VarySection holds the forms used to vary a released licence.
const VarySection = "vary"

// FlatInputRequest carries the input of one vary page.
type FlatInputRequest struct {
	BookingID   int64
	Form        string
	Input       map[string]interface{}
	PostRelease bool
}

// CreateFromFlatInput writes each field of a flat vary form to its licence position. Empty inputs
// leave the licence untouched at that position. The stage never moves.
func (s *LicenceService) CreateFromFlatInput(ctx context.Context, actor Actor, req FlatInputRequest) (*UpdateResult, error) {
	form, err := s.forms.Registry().Form(VarySection, req.Form)
	if err != nil {
		return nil, err
	}
	if !form.FlatInput() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("form %s/%s does not take flat input", VarySection, req.Form))
	}
	record, err := s.load(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	input := withCurfewHours(req.Input)
	result := &UpdateResult{Licence: record.Licence, Stage: record.Stage}
	if form.Validate {
		if errs := s.forms.Validate(form, input); len(errs) > 0 {
			result.Errors = errs
			return result, nil
		}
	}

	updated := []byte(record.Licence)
	written := map[string]interface{}{}
	for _, field := range form.Fields {
		value, ok := input[field.Name]
		if !ok || len(field.LicencePosition) == 0 || isEmptyInput(value) {
			continue
		}
		if updated, err = document.Set(updated, value, field.LicencePosition...); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to apply vary input")
		}
		written[strings.Join(field.LicencePosition, ".")] = value
	}
	if document.Equal(record.Licence, updated) {
		return result, nil
	}

	if err := s.store.UpdateLicence(ctx, req.BookingID, updated, req.PostRelease); err != nil {
		return nil, s.storeError(err, "update licence from vary input", req.BookingID, actor)
	}
	s.record(ctx, actor, models.AuditActionUpdateSection, req.BookingID, map[string]interface{}{
		"section": VarySection, "form": req.Form, "answers": written,
	})
	s.metrics.RecordLicenceUpdate(VarySection)
	s.invalidateCaseLists(ctx)

	result.Licence = updated
	result.Changed = true
	return result, nil
}

// withCurfewHours copies allFrom and allUntil into every *From and *Until input unless the hours
// are day specific. input is not modified.
func withCurfewHours(input map[string]interface{}) map[string]interface{} {
	if input["daySpecificInputs"] == "Yes" {
		return input
	}
	out := make(map[string]interface{}, len(input))
	for key, value := range input {
		switch {
		case strings.Contains(key, "From"):
			out[key] = input["allFrom"]
		case strings.Contains(key, "Until"):
			out[key] = input["allUntil"]
		default:
			out[key] = value
		}
	}
	return out
}

func isEmptyInput(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	}
	return false
}
