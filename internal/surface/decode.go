package surface

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-viper/mapstructure/v2"

	"github.com/specialistvlad/pingraph/internal/ident"
	"github.com/specialistvlad/pingraph/internal/render"
)

// DecodeGesture converts an untyped payload, such as a decoded socket.io
// message, into a validated gesture. Numeric IDs may arrive as JSON numbers
// or decimal strings.
func DecodeGesture(raw any) (render.Gesture, error) {
	var g render.Gesture
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       idHook,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &g,
	})
	if err != nil {
		return g, err
	}
	if err := dec.Decode(raw); err != nil {
		return g, fmt.Errorf("decode gesture: %w", err)
	}
	if err := g.Validate(); err != nil {
		return g, err
	}
	return g, nil
}

var idType = reflect.TypeOf(ident.ID(0))

// idHook parses string IDs with ident.Parse and refuses negative or
// fractional numbers, which the weakly typed decoder would otherwise wrap
// or truncate.
func idHook(from, to reflect.Type, data any) (any, error) {
	if to != idType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch v.Kind() {
	case reflect.String:
		return ident.Parse(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.Int() < 0 {
			return nil, fmt.Errorf("invalid identifier %d", v.Int())
		}
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); f < 0 || f != math.Trunc(f) {
			return nil, fmt.Errorf("invalid identifier %v", f)
		}
	}
	return data, nil
}

// PushRaw decodes raw and queues it. Malformed payloads are returned as
// errors and not queued.
func (r *Recorder) PushRaw(raw any) error {
	g, err := DecodeGesture(raw)
	if err != nil {
		return err
	}
	r.Push(g)
	return nil
}
