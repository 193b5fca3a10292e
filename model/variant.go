package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind is the type tag of a Variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindDouble
	KindString
	KindCombo
	KindVector
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindCombo:
		return "combo"
	case KindVector:
		return "vector"
	default:
		return "invalid"
	}
}

// Variant is the value held by one data role of an item. The zero Variant is
// invalid, and setting it on a role removes that role.
type Variant struct {
	kind  Kind
	b     bool
	i     int
	d     float64
	s     string
	combo ComboProperty
	vec   []float64
}

// Invalid returns the empty variant.
func Invalid() Variant { return Variant{} }

func BoolVariant(v bool) Variant { return Variant{kind: KindBool, b: v} }

func IntVariant(v int) Variant { return Variant{kind: KindInt, i: v} }

func DoubleVariant(v float64) Variant { return Variant{kind: KindDouble, d: v} }

func StringVariant(v string) Variant { return Variant{kind: KindString, s: v} }

func ComboVariant(c ComboProperty) Variant {
	return Variant{kind: KindCombo, combo: c.clone()}
}

// VectorVariant copies values; later changes to the argument do not leak in.
func VectorVariant(values ...float64) Variant {
	return Variant{kind: KindVector, vec: append([]float64{}, values...)}
}

func (v Variant) Kind() Kind { return v.kind }

func (v Variant) IsValid() bool { return v.kind != KindInvalid }

func (v Variant) Bool() bool { return v.b }

func (v Variant) Int() int { return v.i }

func (v Variant) Double() float64 { return v.d }

// Str returns the string payload; String formats any variant for display.
func (v Variant) Str() string { return v.s }

func (v Variant) Combo() ComboProperty {
	return v.combo.clone()
}

func (v Variant) Vector() []float64 {
	return append([]float64{}, v.vec...)
}

// Value returns the payload as an untyped value, nil for the invalid variant.
func (v Variant) Value() interface{} {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindDouble:
		return v.d
	case KindString:
		return v.s
	case KindCombo:
		return v.combo.clone()
	case KindVector:
		return v.Vector()
	default:
		return nil
	}
}

// SameKind reports whether both variants carry the same type tag.
func (v Variant) SameKind(other Variant) bool {
	return v.kind == other.kind
}

// IsTheSame compares kind and value.
func (v Variant) IsTheSame(other Variant) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindDouble:
		return sameDouble(v.d, other.d)
	case KindString:
		return v.s == other.s
	case KindCombo:
		return v.combo.Equal(other.combo)
	case KindVector:
		if len(v.vec) != len(other.vec) {
			return false
		}
		for i := range v.vec {
			if !sameDouble(v.vec[i], other.vec[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// sameDouble treats NaN as equal to itself, so storing NaN twice is no change.
func sameDouble(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func (v Variant) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindDouble:
		return strconv.FormatFloat(v.d, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.s)
	case KindCombo:
		return fmt.Sprintf("combo(%s)", v.combo.Value())
	case KindVector:
		parts := make([]string, len(v.vec))
		for i, x := range v.vec {
			parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "<invalid>"
	}
}

// ComboProperty is the payload of an enum-like variant: a fixed list of
// values with one selected.
type ComboProperty struct {
	values   []string
	selected int
}

// NewComboProperty returns a combo selecting the first value, or none if the
// list is empty.
func NewComboProperty(values ...string) ComboProperty {
	c := ComboProperty{values: append([]string{}, values...), selected: -1}
	if len(values) > 0 {
		c.selected = 0
	}
	return c
}

func (c ComboProperty) Values() []string {
	return append([]string{}, c.values...)
}

func (c ComboProperty) SelectedIndex() int {
	return c.selected
}

// Value returns the selected value, or "" when nothing is selected.
func (c ComboProperty) Value() string {
	if c.selected < 0 || c.selected >= len(c.values) {
		return ""
	}
	return c.values[c.selected]
}

// WithValue returns a copy selecting value.
func (c ComboProperty) WithValue(value string) (ComboProperty, error) {
	for i, v := range c.values {
		if v == value {
			result := c.clone()
			result.selected = i
			return result, nil
		}
	}
	return c, fmt.Errorf("%q: %w", value, ErrComboValue)
}

// WithIndex returns a copy selecting the value at index.
func (c ComboProperty) WithIndex(index int) (ComboProperty, error) {
	if index < 0 || index >= len(c.values) {
		return c, fmt.Errorf("combo index %d of %d: %w", index, len(c.values), ErrIndexOutOfRange)
	}
	result := c.clone()
	result.selected = index
	return result, nil
}

func (c ComboProperty) Equal(other ComboProperty) bool {
	if c.selected != other.selected || len(c.values) != len(other.values) {
		return false
	}
	for i := range c.values {
		if c.values[i] != other.values[i] {
			return false
		}
	}
	return true
}

func (c ComboProperty) clone() ComboProperty {
	return ComboProperty{values: append([]string{}, c.values...), selected: c.selected}
}
