package forms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parseFields(t *testing.T, src string) []Field {
	t.Helper()
	var fields []Field
	require.NoError(t, yaml.Unmarshal([]byte(src), &fields))
	return fields
}

func TestFieldKinds(t *testing.T) {
	fields := parseFields(t, `
- name: plain
- name: conditional
  dependentOn: plain
  predicate: "Yes"
- name: inner
  contains: [{name: a}]
- name: list
  isList: true
  contains: [{name: a}]
- name: date
  splitDate: {day: d, month: m, year: y}
`)
	kinds := make([]Kind, 0, len(fields))
	for _, field := range fields {
		kinds = append(kinds, field.Kind)
	}
	assert.Equal(t, []Kind{KindPlain, KindConditionalOn, KindInnerObject, KindList, KindSplitDate}, kinds)
	assert.Equal(t, "splitDate", KindSplitDate.String())
}

func TestFieldYAMLErrors(t *testing.T) {
	var fields []Field
	assert.Error(t, yaml.Unmarshal([]byte(`[{validate: required}]`), &fields))
	assert.Error(t, yaml.Unmarshal([]byte(`[{name: l, isList: true}]`), &fields))
	assert.Error(t, yaml.Unmarshal([]byte(`[{name: l, isList: true, contains: [{name: a}], limitedBy: {Yes: 1}}]`), &fields))
}

func TestAnswersConditionalFields(t *testing.T) {
	fields := parseFields(t, `
- name: decision
- name: reason
  dependentOn: decision
  predicate: "Yes"
`)

	answers := Answers(fields, map[string]interface{}{"decision": "No", "reason": "stale"})
	assert.Equal(t, map[string]interface{}{"decision": "No"}, answers)

	answers = Answers(fields, map[string]interface{}{"decision": "Yes", "reason": "because"})
	assert.Equal(t, map[string]interface{}{"decision": "Yes", "reason": "because"}, answers)

	// Without a dependency value the field is still mapped.
	answers = Answers(fields, map[string]interface{}{"reason": "kept"})
	assert.Equal(t, map[string]interface{}{"reason": "kept"}, answers)

	answers = Answers(fields, map[string]interface{}{"unknown": "dropped"})
	assert.Empty(t, answers)
}

func TestAnswersInnerObject(t *testing.T) {
	fields := parseFields(t, `
- name: occupier
  contains: [{name: name}, {name: relationship}]
- name: kept
  saveEmpty: true
  contains: [{name: value}]
`)
	answers := Answers(fields, map[string]interface{}{
		"occupier": map[string]interface{}{"name": "", "relationship": ""},
		"kept":     map[string]interface{}{"value": ""},
	})
	assert.Equal(t, map[string]interface{}{"kept": map[string]interface{}{"value": ""}}, answers)

	answers = Answers(fields, map[string]interface{}{
		"occupier": map[string]interface{}{"name": "Ann", "extra": "x"},
	})
	assert.Equal(t, map[string]interface{}{"name": "Ann"}, answers["occupier"])
}

func TestAnswersListWithLimit(t *testing.T) {
	fields := parseFields(t, `
- name: count
- name: residents
  isList: true
  limitedBy: {field: count, None: 0, One: 1, Two: 2}
  contains: [{name: name}, {name: age}]
`)
	input := map[string]interface{}{
		"count": "Two",
		"residents": []interface{}{
			map[string]interface{}{"name": "A", "age": "30"},
			map[string]interface{}{"name": "", "age": ""},
			map[string]interface{}{"name": "C"},
		},
	}
	answers := Answers(fields, input)
	assert.Equal(t, []interface{}{map[string]interface{}{"name": "A", "age": "30"}}, answers["residents"])

	input["count"] = "Many"
	answers = Answers(fields, input)
	assert.Len(t, answers["residents"], 2)

	input["count"] = "None"
	answers = Answers(fields, input)
	assert.Len(t, answers["residents"], 2)

	answers = Answers(fields, map[string]interface{}{})
	assert.Equal(t, []interface{}{}, answers["residents"])
}

func TestAnswersSplitDate(t *testing.T) {
	fields := parseFields(t, `[{name: reportingDate, splitDate: {day: d, month: m, year: y}}]`)

	answers := Answers(fields, map[string]interface{}{"d": "01", "m": "02", "y": "2025"})
	assert.Equal(t, "01/02/2025", answers["reportingDate"])

	answers = Answers(fields, map[string]interface{}{"d": "", "m": ""})
	assert.Equal(t, "", answers["reportingDate"])
}
