package value

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Kind tags the capability set of a Binding.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindFloat
	KindString
	KindExternal
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindExternal:
		return "external"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Type returns the cty type values of this kind are converted to.
// External values are unconstrained.
func (k Kind) Type() cty.Type {
	switch k {
	case KindBool:
		return cty.Bool
	case KindInt, KindFloat:
		return cty.Number
	case KindString:
		return cty.String
	default:
		return cty.DynamicPseudoType
	}
}
