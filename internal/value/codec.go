package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Encode returns the persisted content string for b. The boolean is false
// when there is nothing worth writing.
func Encode(b Binding) (string, bool) {
	if b == nil || !b.HasValue() {
		return "", false
	}
	return b.Display(), true
}

// Decode rebuilds a binding of kind k from persisted content. External
// content is handed to rt; without a runtime it is kept as Detached text.
func Decode(k Kind, content string, rt Runtime) (Binding, error) {
	if k == KindExternal {
		if rt == nil {
			return NewExternal(&Detached{Text: content}), nil
		}
		obj, err := rt.Revive(content)
		if err != nil {
			return nil, fmt.Errorf("revive external content: %w", err)
		}
		return NewExternal(obj), nil
	}

	b, err := Empty(k)
	if err != nil {
		return nil, err
	}
	if err := b.Set(cty.StringVal(content)); err != nil {
		return nil, fmt.Errorf("decode %s content %q: %w", k, content, err)
	}
	return b, nil
}
