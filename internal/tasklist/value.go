package tasklist

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// TextFunc computes a text field from the decoration context.
type TextFunc func(Context) string

// ActionFunc computes a whole action from the decoration context.
type ActionFunc func(Context) *Action

// Value is either a literal string or a computed one. Computed values loaded from YAML carry only a
// function name until they are bound against a Functions registry.
type Value struct {
	literal string
	name    string
	fn      TextFunc
}

// Literal wraps a fixed string.
func Literal(s string) Value {
	return Value{literal: s}
}

// Computed wraps a function evaluated at decoration time.
func Computed(fn TextFunc) Value {
	return Value{fn: fn}
}

// IsZero reports whether the value is empty.
func (v Value) IsZero() bool {
	return v.literal == "" && v.name == "" && v.fn == nil
}

// Resolve returns the literal, or the computed result.
func (v Value) Resolve(ctx Context) string {
	if v.fn != nil {
		return v.fn(ctx)
	}
	return v.literal
}

// UnmarshalYAML accepts a scalar literal or a mapping of the form {computed: name}.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		v.literal = node.Value
		return nil
	case yaml.MappingNode:
		var ref struct {
			Computed string `yaml:"computed"`
		}
		if err := node.Decode(&ref); err != nil {
			return err
		}
		if ref.Computed == "" {
			return fmt.Errorf("line %d: mapping value must name a computed function", node.Line)
		}
		v.name = ref.Computed
		return nil
	default:
		return fmt.Errorf("line %d: unsupported value", node.Line)
	}
}

func (v *Value) bind(fns Functions) error {
	if v.name == "" || v.fn != nil {
		return nil
	}
	fn, ok := fns.Text[v.name]
	if !ok {
		return fmt.Errorf("unknown text function %q", v.name)
	}
	v.fn = fn
	return nil
}

// Action is a rendered task action.
type Action struct {
	Type   string `json:"type"`
	Text   string `json:"text,omitempty"`
	Href   string `json:"href,omitempty"`
	DataQa string `json:"dataQa,omitempty"`
}

// ActionSpec is a catalog action: either a whole computed action or an object whose fields are
// themselves literal or computed.
type ActionSpec struct {
	Type   Value `yaml:"type"`
	Text   Value `yaml:"text"`
	Href   Value `yaml:"href"`
	DataQa Value `yaml:"dataQa"`

	name string
	fn   ActionFunc
}

// ComputedAction wraps a function returning the whole action.
func ComputedAction(fn ActionFunc) *ActionSpec {
	return &ActionSpec{fn: fn}
}

// UnmarshalYAML accepts {computed: name} or an action object.
func (a *ActionSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: action must be a mapping", node.Line)
	}
	var probe map[string]yaml.Node
	if err := node.Decode(&probe); err != nil {
		return err
	}
	if ref, ok := probe["computed"]; ok {
		if len(probe) != 1 || ref.Value == "" {
			return fmt.Errorf("line %d: computed action takes no other fields", node.Line)
		}
		a.name = ref.Value
		return nil
	}
	type plain ActionSpec
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	*a = ActionSpec(decoded)
	return nil
}

func (a *ActionSpec) bind(fns Functions) error {
	if a.name != "" && a.fn == nil {
		fn, ok := fns.Action[a.name]
		if !ok {
			return fmt.Errorf("unknown action function %q", a.name)
		}
		a.fn = fn
		return nil
	}
	for _, field := range []*Value{&a.Type, &a.Text, &a.Href, &a.DataQa} {
		if err := field.bind(fns); err != nil {
			return err
		}
	}
	return nil
}

// Resolve renders the action. A computed action may resolve to nil.
func (a *ActionSpec) Resolve(ctx Context) *Action {
	if a == nil {
		return nil
	}
	if a.fn != nil {
		return a.fn(ctx)
	}
	return &Action{
		Type:   a.Type.Resolve(ctx),
		Text:   a.Text.Resolve(ctx),
		Href:   a.Href.Resolve(ctx),
		DataQa: a.DataQa.Resolve(ctx),
	}
}
