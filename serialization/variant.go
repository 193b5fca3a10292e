// Package serialization converts variants, item trees and whole models to and
// from JSON documents.
package serialization

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/CrimsonAS/qmvvm/model"
)

var (
	// ErrUnknownVariantType indicates a variant type name no converter knows.
	ErrUnknownVariantType = errors.New("unknown variant type")

	// ErrModelMismatch indicates a model document written by another model type.
	ErrModelMismatch = errors.New("document belongs to another model type")
)

// Variant type names as they appear in documents.
const (
	TypeInvalid = "invalid"
	TypeBool    = "bool"
	TypeInt     = "int"
	TypeDouble  = "double"
	TypeString  = "std::string"
	TypeCombo   = "ComboProperty"
	TypeVector  = "std::vector<double>"
)

type variantJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// JSON has no literals for non-finite numbers; doubles use these strings.
const (
	jsonInf    = "inf"
	jsonNegInf = "-inf"
	jsonNaN    = "nan"
)

func doubleToJSON(d float64) interface{} {
	switch {
	case math.IsNaN(d):
		return jsonNaN
	case math.IsInf(d, 1):
		return jsonInf
	case math.IsInf(d, -1):
		return jsonNegInf
	}
	return d
}

func jsonToDouble(raw json.RawMessage) (float64, error) {
	var d float64
	if err := json.Unmarshal(raw, &d); err == nil {
		return d, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("not a number: %s", raw)
	}
	switch s {
	case jsonInf:
		return math.Inf(1), nil
	case jsonNegInf:
		return math.Inf(-1), nil
	case jsonNaN:
		return math.NaN(), nil
	}
	return 0, fmt.Errorf("not a number: %q", s)
}

type comboJSON struct {
	Values   []string `json:"values"`
	Selected int      `json:"selectedIndex"`
}

// MarshalVariant encodes v as {"type": ..., "value": ...}.
func MarshalVariant(v model.Variant) ([]byte, error) {
	vj, err := variantToJSON(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(vj)
}

// UnmarshalVariant is the inverse of MarshalVariant.
func UnmarshalVariant(data []byte) (model.Variant, error) {
	var vj variantJSON
	if err := json.Unmarshal(data, &vj); err != nil {
		return model.Invalid(), err
	}
	return jsonToVariant(vj)
}

func typeName(kind model.Kind) (string, error) {
	switch kind {
	case model.KindInvalid:
		return TypeInvalid, nil
	case model.KindBool:
		return TypeBool, nil
	case model.KindInt:
		return TypeInt, nil
	case model.KindDouble:
		return TypeDouble, nil
	case model.KindString:
		return TypeString, nil
	case model.KindCombo:
		return TypeCombo, nil
	case model.KindVector:
		return TypeVector, nil
	}
	return "", fmt.Errorf("kind %d: %w", kind, ErrUnknownVariantType)
}

func variantToJSON(v model.Variant) (variantJSON, error) {
	name, err := typeName(v.Kind())
	if err != nil {
		return variantJSON{}, err
	}
	var payload interface{}
	switch v.Kind() {
	case model.KindInvalid:
		return variantJSON{Type: name}, nil
	case model.KindCombo:
		c := v.Combo()
		payload = comboJSON{Values: c.Values(), Selected: c.SelectedIndex()}
	case model.KindDouble:
		payload = doubleToJSON(v.Double())
	case model.KindVector:
		values := v.Vector()
		elems := make([]interface{}, len(values))
		for i, x := range values {
			elems[i] = doubleToJSON(x)
		}
		payload = elems
	default:
		payload = v.Value()
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return variantJSON{}, err
	}
	return variantJSON{Type: name, Value: raw}, nil
}

func jsonToVariant(vj variantJSON) (model.Variant, error) {
	decode := func(target interface{}) error {
		if len(vj.Value) == 0 {
			return fmt.Errorf("%s variant without value", vj.Type)
		}
		if err := json.Unmarshal(vj.Value, target); err != nil {
			return fmt.Errorf("%s variant: %w", vj.Type, err)
		}
		return nil
	}

	switch vj.Type {
	case TypeInvalid, "":
		return model.Invalid(), nil
	case TypeBool:
		var b bool
		if err := decode(&b); err != nil {
			return model.Invalid(), err
		}
		return model.BoolVariant(b), nil
	case TypeInt:
		var i int
		if err := decode(&i); err != nil {
			return model.Invalid(), err
		}
		return model.IntVariant(i), nil
	case TypeDouble:
		var raw json.RawMessage
		if err := decode(&raw); err != nil {
			return model.Invalid(), err
		}
		d, err := jsonToDouble(raw)
		if err != nil {
			return model.Invalid(), fmt.Errorf("%s variant: %w", vj.Type, err)
		}
		return model.DoubleVariant(d), nil
	case TypeString:
		var s string
		if err := decode(&s); err != nil {
			return model.Invalid(), err
		}
		return model.StringVariant(s), nil
	case TypeVector:
		var elems []json.RawMessage
		if err := decode(&elems); err != nil {
			return model.Invalid(), err
		}
		values := make([]float64, len(elems))
		for i, raw := range elems {
			d, err := jsonToDouble(raw)
			if err != nil {
				return model.Invalid(), fmt.Errorf("%s variant element %d: %w", vj.Type, i, err)
			}
			values[i] = d
		}
		return model.VectorVariant(values...), nil
	case TypeCombo:
		var cj comboJSON
		if err := decode(&cj); err != nil {
			return model.Invalid(), err
		}
		combo := model.NewComboProperty(cj.Values...)
		if len(cj.Values) > 0 {
			var err error
			if combo, err = combo.WithIndex(cj.Selected); err != nil {
				return model.Invalid(), err
			}
		}
		return model.ComboVariant(combo), nil
	}
	return model.Invalid(), fmt.Errorf("%q: %w", vj.Type, ErrUnknownVariantType)
}
