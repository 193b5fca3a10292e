package model

import "fmt"

// RootItemType is the model type of every model's invisible root.
const RootItemType = "RootItem"

// ModelOptions configures a SessionModel.
type ModelOptions struct {
	// Catalogue used to build items by model type. Nil selects
	// StandardCatalogue.
	Catalogue *ItemCatalogue

	// Pool for identifiers. Nil gives the model a pool of its own. Models
	// may share a pool to resolve cross-model references.
	Pool *ItemPool
}

// SessionModel owns a tree of session items below an invisible root and
// tells its mapper's listeners about every change.
type SessionModel struct {
	modelType string
	root      *SessionItem
	catalogue *ItemCatalogue
	pool      *ItemPool
	mapper    *ModelMapper
}

func NewSessionModel(modelType string) *SessionModel {
	return NewSessionModelWithOptions(modelType, ModelOptions{})
}

func NewSessionModelWithOptions(modelType string, options ModelOptions) *SessionModel {
	m := &SessionModel{
		modelType: modelType,
		catalogue: options.Catalogue,
		pool:      options.Pool,
	}
	if m.catalogue == nil {
		m.catalogue = StandardCatalogue()
	}
	if m.pool == nil {
		m.pool = NewItemPool()
	}
	m.mapper = newModelMapper(m)
	m.createRoot()
	return m
}

func (m *SessionModel) createRoot() {
	m.root = NewSessionItem(RootItemType)
	m.root.setModel(m)
}

func (m *SessionModel) ModelType() string         { return m.modelType }
func (m *SessionModel) RootItem() *SessionItem    { return m.root }
func (m *SessionModel) Catalogue() *ItemCatalogue { return m.catalogue }
func (m *SessionModel) Pool() *ItemPool           { return m.pool }
func (m *SessionModel) Mapper() *ModelMapper      { return m.mapper }

// RegisterItems merges an application catalogue into the model's own.
func (m *SessionModel) RegisterItems(catalogue *ItemCatalogue) error {
	return m.catalogue.Merge(catalogue)
}

func (m *SessionModel) Factory(modelType string) (ItemFactoryFunc, error) {
	return m.catalogue.Factory(modelType)
}

// TopItems are the children of the root.
func (m *SessionModel) TopItems() []*SessionItem {
	return m.root.Children()
}

func (m *SessionModel) parentOrRoot(parent *SessionItem) (*SessionItem, error) {
	if parent == nil {
		return m.root, nil
	}
	if parent.model != m {
		return nil, fmt.Errorf("parent %q belongs to another model: %w", parent.modelType, ErrInvalidItem)
	}
	return parent, nil
}

// InsertNewItem builds an item of modelType and inserts it. A nil parent
// means the root item.
func (m *SessionModel) InsertNewItem(modelType string, parent *SessionItem, tag string, row int) (*SessionItem, error) {
	parent, err := m.parentOrRoot(parent)
	if err != nil {
		return nil, err
	}
	item, err := m.catalogue.Create(modelType)
	if err != nil {
		return nil, err
	}
	if err := parent.InsertItem(item, tag, row); err != nil {
		item.Destroy()
		return nil, err
	}
	return item, nil
}

// InsertItem inserts a detached item.
func (m *SessionModel) InsertItem(item *SessionItem, parent *SessionItem, tag string, row int) error {
	parent, err := m.parentOrRoot(parent)
	if err != nil {
		return err
	}
	return parent.InsertItem(item, tag, row)
}

// TakeItem detaches a child and hands it over to the caller.
func (m *SessionModel) TakeItem(parent *SessionItem, tag string, row int) (*SessionItem, error) {
	parent, err := m.parentOrRoot(parent)
	if err != nil {
		return nil, err
	}
	return parent.TakeItem(tag, row)
}

// RemoveItem detaches a child and destroys it.
func (m *SessionModel) RemoveItem(parent *SessionItem, tag string, row int) error {
	item, err := m.TakeItem(parent, tag, row)
	if err != nil {
		return err
	}
	item.Destroy()
	return nil
}

// MoveItem relocates item under newParent. The row is interpreted after the
// item has been taken out of its old place. If the insertion fails the item
// goes back where it was.
func (m *SessionModel) MoveItem(item, newParent *SessionItem, tag string, row int) error {
	if item == nil || item.model != m || item.parent == nil {
		return ErrInvalidItem
	}
	newParent, err := m.parentOrRoot(newParent)
	if err != nil {
		return err
	}
	if newParent == item || newParent.isAncestor(item) {
		return ErrInvalidMove
	}

	oldParent := item.parent
	origin, _ := oldParent.TagRowOfItem(item)
	taken, err := oldParent.TakeItem(origin.Tag, origin.Row)
	if err != nil {
		return err
	}
	if err := newParent.InsertItem(taken, tag, row); err != nil {
		if restoreErr := oldParent.InsertItem(taken, origin.Tag, origin.Row); restoreErr != nil {
			return fmt.Errorf("%w (restore failed: %v)", err, restoreErr)
		}
		return err
	}
	return nil
}

func (m *SessionModel) SetData(item *SessionItem, value Variant, role int) (bool, error) {
	if item == nil || item.model != m {
		return false, ErrInvalidItem
	}
	return item.SetData(value, role)
}

// FindItem resolves an identifier to an item of this model.
func (m *SessionModel) FindItem(identifier string) (*SessionItem, error) {
	item, err := m.pool.ItemForKey(identifier)
	if err != nil {
		return nil, err
	}
	if item.model != m {
		return nil, fmt.Errorf("%q belongs to another model: %w", identifier, ErrUnknownIdentifier)
	}
	return item, nil
}

// PathFromItem walks up from item to the root. The root has the empty path.
func (m *SessionModel) PathFromItem(item *SessionItem) (Path, error) {
	if item == nil || item.model != m {
		return nil, fmt.Errorf("item not in model %q: %w", m.modelType, ErrInvalidPath)
	}
	var reversed []TagRow
	for current := item; current != m.root; current = current.parent {
		if current.parent == nil {
			return nil, fmt.Errorf("item is detached from the root: %w", ErrInvalidPath)
		}
		tagRow, ok := current.parent.TagRowOfItem(current)
		if !ok {
			return nil, fmt.Errorf("item missing from its parent: %w", ErrInvalidPath)
		}
		reversed = append(reversed, tagRow)
	}
	path := make(Path, len(reversed))
	for i, step := range reversed {
		path[len(reversed)-1-i] = step
	}
	return path, nil
}

// ItemFromPath resolves path step by step from the root.
func (m *SessionModel) ItemFromPath(path Path) (*SessionItem, error) {
	current := m.root
	for i, step := range path {
		c, err := current.tags.Container(step.Tag)
		if err != nil {
			return nil, fmt.Errorf("step %d of %q: %v: %w", i, path.String(), err, ErrInvalidPath)
		}
		next := c.ItemAt(step.Row)
		if next == nil {
			return nil, fmt.Errorf("step %d of %q: row %d of %d: %w", i, path.String(), step.Row, c.Size(), ErrInvalidPath)
		}
		current = next
	}
	return current, nil
}

// Clear destroys all content and hands the fresh root to rebuild, if not
// nil, before listeners hear about the reset.
func (m *SessionModel) Clear(rebuild func(root *SessionItem)) {
	m.mapper.callOnModelAboutToBeReset()
	m.root.Destroy()
	m.createRoot()
	if rebuild != nil {
		rebuild(m.root)
	}
	m.mapper.callOnModelReset()
}

// Destroy tears down the whole tree. The model must not be used afterwards.
func (m *SessionModel) Destroy() {
	m.root.Destroy()
	m.mapper.callOnModelDestroyed()
}
