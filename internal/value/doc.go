// Package value models the contents bound to a pin or a node attribute.
//
// The graph core never interprets bound contents. It holds a Binding, a small
// capability-tagged variant with one implementation per primitive kind plus an
// opaque external tag. Primitive values are carried as cty values, which gives
// the editor typed get/set with lossless conversion to and from the textual
// form stored in documents. External objects belong to a value runtime that
// lives outside the graph (a script host, for example); the binding only asks
// it whether it has a value, for its display string and for typed get/set.
package value
