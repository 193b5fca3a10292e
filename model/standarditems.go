package model

import "fmt"

// Model types of the standard items.
const (
	SessionItemType = "SessionItem"
	PropertyType    = "Property"
	CompoundType    = "Compound"
	VectorType      = "Vector"
)

// Property names of a vector item.
const (
	VectorX = "X"
	VectorY = "Y"
	VectorZ = "Z"
)

// NewPropertyItem returns a leaf carrying one value in the data role.
func NewPropertyItem() *SessionItem {
	return NewSessionItem(PropertyType)
}

// NewCompoundItem returns an item meant to hold named properties.
func NewCompoundItem(modelType string) *SessionItem {
	return NewSessionItem(modelType)
}

// NewVectorItem returns a compound with X, Y and Z double properties.
func NewVectorItem() *SessionItem {
	item := NewCompoundItem(VectorType)
	for _, name := range []string{VectorX, VectorY, VectorZ} {
		item.AddProperty(name, DoubleVariant(0))
	}
	return item
}

// AddProperty registers a single-property tag called name and fills it with
// a property item holding value.
func (item *SessionItem) AddProperty(name string, value Variant) (*SessionItem, error) {
	if err := item.RegisterTag(PropertyTag(name, PropertyType), false); err != nil {
		return nil, err
	}
	property := NewPropertyItem()
	property.data.SetData(StringVariant(name), RoleDisplay)
	if value.IsValid() {
		property.data.SetData(value, RoleData)
	}
	if err := item.InsertItem(property, name, 0); err != nil {
		return nil, err
	}
	return property, nil
}

// Property returns the value of the named property.
func (item *SessionItem) Property(name string) Variant {
	if p := item.GetItem(name, 0); p != nil {
		return p.Data(RoleData)
	}
	return Invalid()
}

// SetProperty changes the value of the named property.
func (item *SessionItem) SetProperty(name string, value Variant) error {
	p := item.GetItem(name, 0)
	if p == nil {
		return fmt.Errorf("property %q: %w", name, ErrUnknownTag)
	}
	_, err := p.SetData(value, RoleData)
	return err
}

// PropertyItem returns the item behind the named property, or nil.
func (item *SessionItem) PropertyItem(name string) *SessionItem {
	return item.GetItem(name, 0)
}
