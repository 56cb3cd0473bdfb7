// Package forms maps raw form input onto licence answers and validates them.
package forms

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind is the shape of a mapped field.
type Kind int

const (
	// KindPlain copies the input value as-is.
	KindPlain Kind = iota
	// KindConditionalOn copies the input value only while its dependency holds.
	KindConditionalOn
	// KindList maps each item of a list input through the contained fields.
	KindList
	// KindInnerObject maps a nested object through the contained fields.
	KindInnerObject
	// KindSplitDate joins separate day, month and year inputs into dd/mm/yyyy.
	KindSplitDate
)

func (k Kind) String() string {
	switch k {
	case KindConditionalOn:
		return "conditionalOn"
	case KindList:
		return "list"
	case KindInnerObject:
		return "innerObject"
	case KindSplitDate:
		return "splitDate"
	default:
		return "plain"
	}
}

// SplitDate names the inputs holding each part of a date.
type SplitDate struct {
	Day   string `yaml:"day"`
	Month string `yaml:"month"`
	Year  string `yaml:"year"`
}

// LimitedBy truncates a list input to a number of items chosen by the value of another input. A limit
// of zero leaves the list whole.
type LimitedBy struct {
	Field  string
	Limits map[string]int
}

// UnmarshalYAML reads {field: name, <value>: limit, ...}.
func (l *LimitedBy) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}
	fieldNode, ok := raw["field"]
	if !ok || fieldNode.Value == "" {
		return fmt.Errorf("line %d: limitedBy needs a field", node.Line)
	}
	l.Field = fieldNode.Value
	l.Limits = make(map[string]int, len(raw)-1)
	for key, value := range raw {
		if key == "field" {
			continue
		}
		var limit int
		if err := value.Decode(&limit); err != nil {
			return fmt.Errorf("line %d: limit for %q: %w", value.Line, key, err)
		}
		l.Limits[key] = limit
	}
	return nil
}

// Field is one entry of a form's field map.
type Field struct {
	Name        string
	Kind        Kind
	DependentOn string
	Predicate   string
	Contains    []Field
	SaveEmpty   bool
	SplitDate   *SplitDate
	LimitedBy   *LimitedBy
	// Rule is a go-playground/validator tag applied to the mapped answer.
	Rule    string
	Message string
	// LicencePosition is where a flat-input field is written, as path segments from the licence root.
	LicencePosition []string
}

type fieldSpec struct {
	Name        string     `yaml:"name"`
	DependentOn string     `yaml:"dependentOn"`
	Predicate   string     `yaml:"predicate"`
	IsList      bool       `yaml:"isList"`
	Contains    []Field    `yaml:"contains"`
	SaveEmpty   bool       `yaml:"saveEmpty"`
	SplitDate   *SplitDate `yaml:"splitDate"`
	LimitedBy   *LimitedBy `yaml:"limitedBy"`
	Validate    string     `yaml:"validate"`
	Message     string     `yaml:"message"`
	Position    []string   `yaml:"licencePosition"`
}

// UnmarshalYAML derives the field kind from the configured keys.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	var spec fieldSpec
	if err := node.Decode(&spec); err != nil {
		return err
	}
	if spec.Name == "" {
		return fmt.Errorf("line %d: field needs a name", node.Line)
	}
	if spec.IsList && len(spec.Contains) == 0 {
		return fmt.Errorf("line %d: list field %q needs contains", node.Line, spec.Name)
	}

	*f = Field{
		Name:        spec.Name,
		DependentOn: spec.DependentOn,
		Predicate:   spec.Predicate,
		Contains:    spec.Contains,
		SaveEmpty:   spec.SaveEmpty,
		SplitDate:   spec.SplitDate,
		LimitedBy:   spec.LimitedBy,
		Rule:        spec.Validate,
		Message:     spec.Message,

		LicencePosition: spec.Position,
	}
	switch {
	case spec.IsList:
		f.Kind = KindList
	case len(spec.Contains) > 0:
		f.Kind = KindInnerObject
	case spec.SplitDate != nil:
		f.Kind = KindSplitDate
	case spec.DependentOn != "":
		f.Kind = KindConditionalOn
	default:
		f.Kind = KindPlain
	}
	return nil
}

// active reports whether the field is mapped for this input. A field with a dependency is kept when
// the dependency has no value or equals the predicate.
func (f Field) active(input map[string]interface{}) bool {
	if f.DependentOn == "" {
		return true
	}
	dependency, ok := input[f.DependentOn]
	if !ok || isEmptyValue(dependency) {
		return true
	}
	value, isString := dependency.(string)
	return isString && value == f.Predicate
}

// Answers maps raw input through fields, producing the answer object stored in the licence.
func Answers(fields []Field, input map[string]interface{}) map[string]interface{} {
	answers := make(map[string]interface{}, len(fields))
	for _, field := range fields {
		if !field.active(input) {
			continue
		}
		switch field.Kind {
		case KindList:
			answers[field.Name] = listAnswers(field, input)
		case KindInnerObject:
			inner := Answers(field.Contains, asObject(input[field.Name]))
			if !field.SaveEmpty && allValuesEmpty(inner) {
				continue
			}
			answers[field.Name] = inner
		case KindSplitDate:
			answers[field.Name] = field.SplitDate.join(input)
		default:
			if value, ok := input[field.Name]; ok {
				answers[field.Name] = value
			}
		}
	}
	return answers
}

func listAnswers(field Field, input map[string]interface{}) []interface{} {
	items, _ := input[field.Name].([]interface{})
	if limit, ok := field.LimitedBy.limit(input); ok && limit < len(items) {
		items = items[:limit]
	}
	out := make([]interface{}, 0, len(items))
	for _, item := range items {
		answers := Answers(field.Contains, asObject(item))
		if allValuesEmpty(answers) {
			continue
		}
		out = append(out, answers)
	}
	return out
}

func (l *LimitedBy) limit(input map[string]interface{}) (int, bool) {
	if l == nil {
		return 0, false
	}
	value, _ := input[l.Field].(string)
	limit, ok := l.Limits[value]
	if !ok || limit <= 0 {
		return 0, false
	}
	return limit, true
}

func (s *SplitDate) join(input map[string]interface{}) string {
	day, month, year := stringValue(input[s.Day]), stringValue(input[s.Month]), stringValue(input[s.Year])
	if day == "" && month == "" && year == "" {
		return ""
	}
	return strings.Join([]string{day, month, year}, "/")
}

func asObject(value interface{}) map[string]interface{} {
	if object, ok := value.(map[string]interface{}); ok {
		return object
	}
	return map[string]interface{}{}
}

func stringValue(value interface{}) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func isEmptyValue(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []interface{}:
		return len(v) == 0
	case map[string]interface{}:
		return len(v) == 0
	default:
		return false
	}
}

func allValuesEmpty(object map[string]interface{}) bool {
	for _, value := range object {
		if !isEmptyValue(value) {
			return false
		}
	}
	return true
}
