package model

import "fmt"

// ItemFactoryFunc builds a new, detached item subtree.
type ItemFactoryFunc func() *SessionItem

type catalogueEntry struct {
	modelType string
	label     string
	factory   ItemFactoryFunc
}

// ItemCatalogue maps model types to factories. Each model owns its
// catalogue; there is no process-wide registry.
type ItemCatalogue struct {
	entries []catalogueEntry
}

func NewItemCatalogue() *ItemCatalogue {
	return &ItemCatalogue{}
}

// RegisterItem adds a factory. The label is a human readable name for menus;
// empty defaults to the model type.
func (c *ItemCatalogue) RegisterItem(modelType, label string, factory ItemFactoryFunc) error {
	if modelType == "" {
		return fmt.Errorf("empty model type: %w", ErrUnknownModelType)
	}
	if factory == nil {
		return fmt.Errorf("%q has no factory: %w", modelType, ErrUnknownModelType)
	}
	if c.Contains(modelType) {
		return fmt.Errorf("%q: %w", modelType, ErrDuplicateModelType)
	}
	if label == "" {
		label = modelType
	}
	c.entries = append(c.entries, catalogueEntry{modelType: modelType, label: label, factory: factory})
	return nil
}

func (c *ItemCatalogue) Contains(modelType string) bool {
	return c.find(modelType) != nil
}

func (c *ItemCatalogue) Factory(modelType string) (ItemFactoryFunc, error) {
	e := c.find(modelType)
	if e == nil {
		return nil, fmt.Errorf("%q: %w", modelType, ErrUnknownModelType)
	}
	return e.factory, nil
}

// Create builds a new item of modelType.
func (c *ItemCatalogue) Create(modelType string) (*SessionItem, error) {
	factory, err := c.Factory(modelType)
	if err != nil {
		return nil, err
	}
	item := factory()
	if item == nil {
		return nil, fmt.Errorf("factory for %q returned nothing: %w", modelType, ErrInvalidItem)
	}
	return item, nil
}

func (c *ItemCatalogue) ModelTypes() []string {
	result := make([]string, len(c.entries))
	for i, e := range c.entries {
		result[i] = e.modelType
	}
	return result
}

func (c *ItemCatalogue) Labels() []string {
	result := make([]string, len(c.entries))
	for i, e := range c.entries {
		result[i] = e.label
	}
	return result
}

// Merge adds every entry of other, failing on the first model type that is
// already known.
func (c *ItemCatalogue) Merge(other *ItemCatalogue) error {
	for _, e := range other.entries {
		if c.Contains(e.modelType) {
			return fmt.Errorf("merge %q: %w", e.modelType, ErrDuplicateModelType)
		}
	}
	c.entries = append(c.entries, other.entries...)
	return nil
}

func (c *ItemCatalogue) find(modelType string) *catalogueEntry {
	for i := range c.entries {
		if c.entries[i].modelType == modelType {
			return &c.entries[i]
		}
	}
	return nil
}

// StandardCatalogue knows the item types the framework ships with.
func StandardCatalogue() *ItemCatalogue {
	c := NewItemCatalogue()
	c.RegisterItem(SessionItemType, "", func() *SessionItem { return NewSessionItem(SessionItemType) })
	c.RegisterItem(PropertyType, "", func() *SessionItem { return NewPropertyItem() })
	c.RegisterItem(CompoundType, "", func() *SessionItem { return NewCompoundItem(CompoundType) })
	c.RegisterItem(VectorType, "", func() *SessionItem { return NewVectorItem() })
	return c
}
