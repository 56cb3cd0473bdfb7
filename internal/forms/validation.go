package forms

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/uk-gov-mirror/ministryofjustice.licences/pkg/errors"
)

// Errors maps a field name to its message, or to nested Errors for inner objects, list items
// (keyed by index) and, in group validation, sections and forms.
type Errors map[string]interface{}

var (
	postcodePattern = regexp.MustCompile(`(?i)^(GIR ?0AA|[A-Z]{1,2}[0-9][A-Z0-9]? ?[0-9][A-Z]{2})$`)
	phonePattern    = regexp.MustCompile(`^[0-9+\s]+$`)
)

// Validator checks mapped answers against the rules in a form's field map.
type Validator struct {
	registry *Registry
	validate *validator.Validate
}

// customRules are the tags forms.yaml may use beyond the validator built-ins.
var customRules = map[string]validator.Func{
	"postcode": func(fl validator.FieldLevel) bool {
		return postcodePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	},
	"phone": func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	},
	"age": func(fl validator.FieldLevel) bool {
		age, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
		return err == nil && age >= 0 && age <= 110
	},
}

// NewValidator constructs a validator over registry. A nil validate gets a fresh instance; the
// custom rules are registered on it either way.
func NewValidator(registry *Registry, validate *validator.Validate) (*Validator, error) {
	if validate == nil {
		validate = validator.New()
	}
	if err := registerRules(validate, customRules); err != nil {
		return nil, err
	}
	return &Validator{registry: registry, validate: validate}, nil
}

func registerRules(validate *validator.Validate, rules map[string]validator.Func) error {
	for tag, fn := range rules {
		if err := validate.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %q rule: %w", tag, err)
		}
	}
	return nil
}

// Registry returns the form registry the validator reads.
func (v *Validator) Registry() *Registry {
	return v.registry
}

// ValidateForm validates answers for the named form. An unknown form is an error; invalid answers
// are not.
func (v *Validator) ValidateForm(section, name string, answers map[string]interface{}) (Errors, error) {
	form, err := v.registry.Form(section, name)
	if err != nil {
		return nil, err
	}
	return v.Validate(form, answers), nil
}

// Validate checks answers against form. The result is empty when the answers are valid.
func (v *Validator) Validate(form *Form, answers map[string]interface{}) Errors {
	return v.fields(form.Fields, answers)
}

func (v *Validator) fields(fields []Field, answers map[string]interface{}) Errors {
	errs := Errors{}
	for _, field := range fields {
		// A conditional field is only checked while its dependency equals the predicate.
		if field.DependentOn != "" && stringValue(answers[field.DependentOn]) != field.Predicate {
			continue
		}
		value := answers[field.Name]
		if message, ok := v.check(field, value); !ok {
			errs[field.Name] = message
			continue
		}

		switch field.Kind {
		case KindInnerObject:
			if nested := v.fields(field.Contains, asObject(value)); len(nested) > 0 && value != nil {
				errs[field.Name] = nested
			}
		case KindList:
			items, _ := value.([]interface{})
			nested := Errors{}
			for i, item := range items {
				if itemErrs := v.fields(field.Contains, asObject(item)); len(itemErrs) > 0 {
					nested[strconv.Itoa(i)] = itemErrs
				}
			}
			if len(nested) > 0 {
				errs[field.Name] = nested
			}
		}
	}
	return errs
}

func (v *Validator) check(field Field, value interface{}) (message string, ok bool) {
	if field.Rule == "" {
		return "", true
	}
	switch value.(type) {
	case nil:
		value = ""
	case float64, bool:
		value = fmt.Sprint(value)
	}

	// validator panics when a tag does not support the value's kind, e.g. oneof on a list.
	defer func() {
		if recovered := recover(); recovered != nil {
			message, ok = field.failure(fmt.Errorf("%v", recovered)), false
		}
	}()
	if err := v.validate.Var(value, field.Rule); err != nil {
		return field.failure(err), false
	}
	return "", true
}

func (f Field) failure(err error) string {
	if f.Message != "" {
		return f.Message
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return fmt.Sprintf("%s failed %s validation", f.Name, fieldErrs[0].Tag())
	}
	return fmt.Sprintf("%s is invalid", f.Name)
}

// Failed wraps errs in an unprocessable-entity error for the HTTP layer.
func Failed(errs Errors) error {
	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errors: errs}
}

// ValidationError carries form errors through error returns.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	return appErrors.ErrUnprocessable.Message
}

// Unwrap exposes the unprocessable-entity error so callers can map the status.
func (e *ValidationError) Unwrap() error {
	return appErrors.ErrUnprocessable
}
