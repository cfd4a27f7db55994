package value

import (
	"errors"
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Binding is the widget-facing view of a bound value.
type Binding interface {
	Kind() Kind
	// HasValue is false for a binding that exists but holds nothing yet.
	HasValue() bool
	Get() cty.Value
	Set(v cty.Value) error
	// Display is the string shown next to the pin. For primitive kinds it is
	// also the persisted content form.
	Display() string
}

// ErrNotWhole is returned when a fractional number is stored in an int binding.
var ErrNotWhole = errors.New("value must be a whole number")

// primitive implements Binding for the four scalar kinds. The kind decides
// how incoming values are coerced.
type primitive struct {
	kind Kind
	val  cty.Value
}

// NewBool returns a bool binding holding b.
func NewBool(b bool) Binding {
	return &primitive{kind: KindBool, val: cty.BoolVal(b)}
}

// NewInt returns an int binding holding n.
func NewInt(n int64) Binding {
	return &primitive{kind: KindInt, val: cty.NumberIntVal(n)}
}

// NewFloat returns a float binding holding f.
func NewFloat(f float64) Binding {
	return &primitive{kind: KindFloat, val: cty.NumberFloatVal(f)}
}

// NewString returns a string binding holding s.
func NewString(s string) Binding {
	return &primitive{kind: KindString, val: cty.StringVal(s)}
}

// Empty returns a binding of the given primitive kind with no value.
func Empty(k Kind) (Binding, error) {
	if k == KindExternal {
		return nil, fmt.Errorf("external bindings need an object")
	}
	return &primitive{kind: k, val: cty.NullVal(k.Type())}, nil
}

func (p *primitive) Kind() Kind { return p.kind }

func (p *primitive) HasValue() bool {
	return !p.val.IsNull() && p.val.IsKnown()
}

func (p *primitive) Get() cty.Value { return p.val }

func (p *primitive) Set(v cty.Value) error {
	coerced, err := coerce(p.kind, v)
	if err != nil {
		return fmt.Errorf("set %s value: %w", p.kind, err)
	}
	p.val = coerced
	return nil
}

func (p *primitive) Display() string {
	if !p.HasValue() {
		return ""
	}
	s, err := convert.Convert(p.val, cty.String)
	if err != nil {
		return p.val.GoString()
	}
	return s.AsString()
}

func coerce(k Kind, v cty.Value) (cty.Value, error) {
	if v == cty.NilVal {
		return cty.NullVal(k.Type()), nil
	}
	out, err := convert.Convert(v, k.Type())
	if err != nil {
		return cty.NilVal, err
	}
	if k == KindInt && !out.IsNull() && out.IsKnown() {
		if !out.AsBigFloat().IsInt() {
			return cty.NilVal, ErrNotWhole
		}
	}
	return out, nil
}

// FromGo builds a primitive binding from a native Go value, inferring the
// kind from its cty type. Go integer kinds map to KindInt.
func FromGo(v any) (Binding, error) {
	switch n := v.(type) {
	case int:
		return NewInt(int64(n)), nil
	case int32:
		return NewInt(int64(n)), nil
	case int64:
		return NewInt(n), nil
	}
	ty, err := gocty.ImpliedType(v)
	if err != nil {
		return nil, fmt.Errorf("unable to infer cty.Type: %w", err)
	}
	val, err := gocty.ToCtyValue(v, ty)
	if err != nil {
		return nil, err
	}
	switch {
	case ty.Equals(cty.Bool):
		return &primitive{kind: KindBool, val: val}, nil
	case ty.Equals(cty.Number):
		return &primitive{kind: KindFloat, val: val}, nil
	case ty.Equals(cty.String):
		return &primitive{kind: KindString, val: val}, nil
	default:
		return nil, fmt.Errorf("no primitive kind for %s", ty.FriendlyName())
	}
}
