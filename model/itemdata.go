package model

import "fmt"

// Roles known to the framework. Applications may use any larger value.
const (
	RoleIdentifier = iota
	RoleData
	RoleDisplay
	RoleAppearance
	RoleTooltip
	RoleEditorType
)

// DataRole is one typed data cell of an item.
type DataRole struct {
	Role  int
	Value Variant
}

// ItemData holds the data cells of an item, at most one per role, in the
// order roles were first set.
type ItemData struct {
	values []DataRole
}

func (d *ItemData) Roles() []int {
	roles := make([]int, 0, len(d.values))
	for _, v := range d.values {
		roles = append(roles, v.Role)
	}
	return roles
}

// Data returns the value for role or the invalid variant.
func (d *ItemData) Data(role int) Variant {
	for _, v := range d.values {
		if v.Role == role {
			return v.Value
		}
	}
	return Invalid()
}

func (d *ItemData) HasRole(role int) bool {
	for _, v := range d.values {
		if v.Role == role {
			return true
		}
	}
	return false
}

// SetData stores value under role and reports whether anything changed. An
// invalid value removes the role. A valid value of another kind than the one
// already stored fails with ErrTypeMismatch and leaves the cell untouched.
func (d *ItemData) SetData(value Variant, role int) (bool, error) {
	for i, v := range d.values {
		if v.Role != role {
			continue
		}
		if !value.IsValid() {
			d.values = append(d.values[:i], d.values[i+1:]...)
			return true, nil
		}
		if !v.Value.SameKind(value) {
			return false, fmt.Errorf("role %d holds %s, got %s: %w", role, v.Value.Kind(), value.Kind(), ErrTypeMismatch)
		}
		if v.Value.IsTheSame(value) {
			return false, nil
		}
		d.values[i].Value = value
		return true, nil
	}

	if !value.IsValid() {
		return false, nil
	}
	d.values = append(d.values, DataRole{Role: role, Value: value})
	return true, nil
}

// Cells returns a copy of all data cells.
func (d *ItemData) Cells() []DataRole {
	return append([]DataRole{}, d.values...)
}
