package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Object is an external value owned by the value runtime. Implementations
// must make HasValue and Display safe to call from the frame loop even when
// the runtime mutates the value from another goroutine between frames.
type Object interface {
	HasValue() bool
	Value() (cty.Value, error)
	SetValue(v cty.Value) error
	Display() string
}

// Runtime recreates external objects from their persisted content.
type Runtime interface {
	Revive(content string) (Object, error)
}

type external struct {
	obj Object
}

// NewExternal wraps a runtime object.
func NewExternal(obj Object) Binding {
	return &external{obj: obj}
}

func (e *external) Kind() Kind { return KindExternal }

func (e *external) HasValue() bool {
	return e.obj != nil && e.obj.HasValue()
}

func (e *external) Get() cty.Value {
	if e.obj == nil {
		return cty.DynamicVal
	}
	v, err := e.obj.Value()
	if err != nil {
		return cty.DynamicVal
	}
	return v
}

func (e *external) Set(v cty.Value) error {
	if e.obj == nil {
		return fmt.Errorf("external binding has no object")
	}
	return e.obj.SetValue(v)
}

func (e *external) Display() string {
	if e.obj == nil {
		return ""
	}
	return e.obj.Display()
}

// ObjectOf returns the wrapped runtime object, or nil when b is not external.
func ObjectOf(b Binding) Object {
	if e, ok := b.(*external); ok {
		return e.obj
	}
	return nil
}

// Detached is the placeholder object used when a document carries external
// content but no runtime is attached. It keeps the text so that saving the
// graph again does not lose it.
type Detached struct {
	Text string
}

func (d *Detached) HasValue() bool { return d.Text != "" }

func (d *Detached) Value() (cty.Value, error) {
	return cty.StringVal(d.Text), nil
}

func (d *Detached) SetValue(v cty.Value) error {
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return err
	}
	if s.IsNull() {
		d.Text = ""
		return nil
	}
	d.Text = s.AsString()
	return nil
}

func (d *Detached) Display() string { return d.Text }
