package model

import (
	"errors"
	"fmt"

	"github.com/CrimsonAS/qmvvm/internal/observability"
)

// DefaultTagName is the universal tag every new item starts with.
const DefaultTagName = "defaultTag"

// SessionItem is one node of the observable application data tree.
//
// An item owns its children; Destroy tears down the whole subtree. Parent,
// model and pool are back-references and never keep anything alive on their
// own. Items are not safe for concurrent use; all mutations of a tree must
// happen on one goroutine.
type SessionItem struct {
	modelType string
	data      ItemData
	tags      *ItemTags

	parent *SessionItem
	model  *SessionModel
	pool   *ItemPool
	mapper *ItemMapper

	destroyed bool
}

// NewSessionItem returns a detached item with a universal default tag.
func NewSessionItem(modelType string) *SessionItem {
	item := &SessionItem{
		modelType: modelType,
		tags:      NewItemTags(),
	}
	item.tags.RegisterTag(UniversalTag(DefaultTagName), true)
	return item
}

func (item *SessionItem) ModelType() string     { return item.modelType }
func (item *SessionItem) Parent() *SessionItem  { return item.parent }
func (item *SessionItem) Model() *SessionModel  { return item.model }
func (item *SessionItem) IsDestroyed() bool     { return item.destroyed }
func (item *SessionItem) Roles() []int          { return item.data.Roles() }
func (item *SessionItem) Data(role int) Variant { return item.data.Data(role) }

// Identifier returns the pool key held in the identifier role, or "".
func (item *SessionItem) Identifier() string {
	return item.data.Data(RoleIdentifier).Str()
}

// DisplayName falls back to the model type when no display role is set.
func (item *SessionItem) DisplayName() string {
	if v := item.data.Data(RoleDisplay); v.Kind() == KindString {
		return v.Str()
	}
	return item.modelType
}

func (item *SessionItem) SetDisplayName(name string) error {
	_, err := item.SetData(StringVariant(name), RoleDisplay)
	return err
}

// Mapper returns the item's notification hub, creating it on first use.
func (item *SessionItem) Mapper() *ItemMapper {
	if item.mapper == nil {
		item.mapper = newItemMapper()
	}
	return item.mapper
}

// SetData stores value under role and reports whether the stored value
// changed. Setting the invalid variant removes the role. Listeners are
// notified only when something changed.
func (item *SessionItem) SetData(value Variant, role int) (bool, error) {
	if item.destroyed {
		return false, ErrInvalidItem
	}
	if role == RoleIdentifier && value.IsValid() {
		if err := item.checkIdentifier(value); err != nil {
			return false, err
		}
	}

	oldKey := item.Identifier()
	changed, err := item.data.SetData(value, role)
	if err != nil || !changed {
		return changed, err
	}
	if role == RoleIdentifier && item.pool != nil {
		if key := item.Identifier(); key == "" {
			item.unregister()
		} else {
			item.pool.rekey(item, oldKey, key)
		}
	}

	item.notifyDataChange(role)
	return true, nil
}

func (item *SessionItem) checkIdentifier(value Variant) error {
	if value.Kind() != KindString {
		return fmt.Errorf("identifier must be a string, got %s: %w", value.Kind(), ErrTypeMismatch)
	}
	if item.pool == nil {
		return nil
	}
	if owner, err := item.pool.ItemForKey(value.Str()); err == nil && owner != item {
		return fmt.Errorf("%q: %w", value.Str(), ErrDuplicateKey)
	}
	return nil
}

func (item *SessionItem) notifyDataChange(role int) {
	if item.mapper != nil {
		item.mapper.callOnDataChange(item, role)
	}
	if parent := item.parent; parent != nil && parent.mapper != nil {
		if tagRow, ok := parent.tags.TagRowOfItem(item); ok {
			parent.mapper.callOnPropertyChange(parent, tagRow.Tag)
		}
	}
	if item.model != nil {
		item.model.mapper.callOnDataChange(item, role)
	}
}

// RegisterTag adds a child slot. Registering a name twice fails with
// ErrDuplicateTag.
func (item *SessionItem) RegisterTag(info TagInfo, setAsDefault bool) error {
	return item.tags.RegisterTag(info, setAsDefault)
}

func (item *SessionItem) IsTag(name string) bool {
	return item.tags.Exists(name)
}

func (item *SessionItem) DefaultTag() string {
	return item.tags.DefaultTag()
}

// TagInfos lists the registered tags in registration order.
func (item *SessionItem) TagInfos() []TagInfo {
	return item.tags.TagInfos()
}

// ResetTags destroys every child and replaces the tag registry. Converters
// use it to rebuild an item from its serialized form.
func (item *SessionItem) ResetTags(infos []TagInfo, defaultTag string) error {
	tags := NewItemTags()
	for _, info := range infos {
		if err := tags.RegisterTag(info, info.Name == defaultTag); err != nil {
			return err
		}
	}
	if defaultTag != "" && !tags.Exists(defaultTag) {
		return fmt.Errorf("default %q: %w", defaultTag, ErrUnknownTag)
	}

	for _, c := range item.tags.containers {
		for i := c.Size() - 1; i >= 0; i-- {
			if child := item.takeItem(c, i, true); child != nil {
				child.Destroy()
			}
		}
	}
	item.tags = tags
	return nil
}

// Children returns all children, tag by tag in registration order.
func (item *SessionItem) Children() []*SessionItem {
	return item.tags.AllItems()
}

func (item *SessionItem) ChildrenCount() int {
	n := 0
	for _, c := range item.tags.containers {
		n += c.Size()
	}
	return n
}

// ChildAt uses the row numbering of Children and returns nil out of range.
func (item *SessionItem) ChildAt(row int) *SessionItem {
	if row < 0 {
		return nil
	}
	for _, c := range item.tags.containers {
		if row < c.Size() {
			return c.items[row]
		}
		row -= c.Size()
	}
	return nil
}

// RowOfChild returns the row of child in Children, or -1.
func (item *SessionItem) RowOfChild(child *SessionItem) int {
	if child == nil {
		return -1
	}
	offset := 0
	for _, c := range item.tags.containers {
		if index := c.IndexOf(child); index != -1 {
			return offset + index
		}
		offset += c.Size()
	}
	return -1
}

// TagRowOfItem returns where child sits among this item's children.
func (item *SessionItem) TagRowOfItem(child *SessionItem) (TagRow, bool) {
	return item.tags.TagRowOfItem(child)
}

// GetItem returns nil for an unknown tag or row.
func (item *SessionItem) GetItem(tag string, row int) *SessionItem {
	c, err := item.tags.Container(tag)
	if err != nil {
		return nil
	}
	return c.ItemAt(row)
}

func (item *SessionItem) GetItems(tag string) []*SessionItem {
	items, _ := item.tags.Items(tag)
	return items
}

// ItemCount returns 0 for an unknown tag.
func (item *SessionItem) ItemCount(tag string) int {
	c, err := item.tags.Container(tag)
	if err != nil {
		return 0
	}
	return c.Size()
}

func (item *SessionItem) isAncestor(other *SessionItem) bool {
	for p := item.parent; p != nil; p = p.parent {
		if p == other {
			return true
		}
	}
	return false
}

// InsertItem makes child the row'th item of tag. Row -1 or the current
// count appends; an empty tag selects the default tag.
func (item *SessionItem) InsertItem(child *SessionItem, tag string, row int) error {
	if item.destroyed || child == nil || child.destroyed {
		return ErrInvalidItem
	}
	if child.parent != nil || child == item || item.isAncestor(child) {
		return ErrDuplicateChild
	}
	if child.model != nil && child.model.root == child {
		return fmt.Errorf("root of model %q: %w", child.model.modelType, ErrDuplicateChild)
	}
	c, err := item.tags.Container(tag)
	if err != nil {
		return err
	}
	if err := c.checkInsert(child, row); err != nil {
		return err
	}
	if row == -1 {
		row = c.Size()
	}

	tagRow := TagRow{Tag: c.Name(), Row: row}
	model := item.model
	if model != nil {
		model.mapper.callOnAboutToInsertItem(item, tagRow)
	}
	// listeners may have changed the container
	if err := c.InsertItem(child, row); err != nil {
		return err
	}
	child.parent = item
	child.setModel(model)

	if item.mapper != nil {
		item.mapper.callOnItemInserted(item, tagRow)
	}
	if model != nil {
		model.mapper.callOnItemInserted(item, tagRow)
	}
	return nil
}

// TakeItem detaches the child at tag/row and hands it to the caller, who is
// responsible for inserting it elsewhere or destroying it.
func (item *SessionItem) TakeItem(tag string, row int) (*SessionItem, error) {
	c, err := item.tags.Container(tag)
	if err != nil {
		return nil, err
	}
	if err := c.checkTake(row); err != nil {
		return nil, err
	}
	child := item.takeItem(c, row, false)
	if child == nil {
		return nil, fmt.Errorf("tag %q row %d vanished during removal: %w", c.Name(), row, ErrIndexOutOfRange)
	}
	return child, nil
}

// takeItem removes the row'th item of c, notifying listeners. With force the
// container minimum is ignored, which only Destroy and ResetTags need.
func (item *SessionItem) takeItem(c *TagContainer, row int, force bool) *SessionItem {
	child := c.ItemAt(row)
	tagRow := TagRow{Tag: c.Name(), Row: row}
	model := item.model

	if item.mapper != nil {
		item.mapper.callOnAboutToRemoveItem(item, tagRow)
	}
	if model != nil {
		model.mapper.callOnAboutToRemoveItem(item, tagRow)
	}

	// listeners may have moved things around
	if row = c.IndexOf(child); row == -1 {
		return nil
	}
	if !force {
		if err := c.checkTake(row); err != nil {
			return nil
		}
	}
	c.items = append(c.items[:row], c.items[row+1:]...)
	child.parent = nil
	child.setModel(nil)

	if model != nil {
		model.mapper.callOnItemRemoved(item, TagRow{Tag: c.Name(), Row: row})
	}
	return child
}

// setModel propagates model to the subtree and moves pool registration along.
func (item *SessionItem) setModel(model *SessionModel) {
	if item.model != nil && item.model != model && item.pool == item.model.pool {
		item.unregister()
	}
	item.model = model
	if model != nil {
		item.RegisterItem(model.pool)
	}
	for _, child := range item.tags.AllItems() {
		child.setModel(model)
	}
}

// RegisterItem enters the item into pool, reusing the identifier the item
// already carries. A nil pool is a no-op so items can live unpooled. An item
// belongs to at most one pool; registering elsewhere leaves the old one.
func (item *SessionItem) RegisterItem(pool *ItemPool) {
	if pool == nil || item.pool == pool || item.destroyed {
		return
	}

	_, err := pool.RegisterItem(item, item.Identifier())
	if errors.Is(err, ErrDuplicateKey) {
		observability.Component("model").Warn("identifier clash, assigning a new one",
			"identifier", item.Identifier(), "modelType", item.modelType)
		_, err = pool.RegisterItem(item, "")
	}
	if err != nil {
		observability.Component("model").Error("pool registration failed", "error", err)
	}
}

func (item *SessionItem) unregister() {
	if item.pool != nil {
		item.pool.UnregisterItem(item)
		item.pool = nil
	}
}

// Destroy tears down the item and its subtree. An item still attached to a
// parent is removed through the parent first, with the usual notifications,
// so a parent never keeps an empty slot. Listeners receive OnItemDestroy
// exactly once per item; further calls do nothing.
func (item *SessionItem) Destroy() {
	if item.destroyed {
		return
	}
	if parent := item.parent; parent != nil {
		if tagRow, ok := parent.tags.TagRowOfItem(item); ok {
			c, _ := parent.tags.Container(tagRow.Tag)
			parent.takeItem(c, tagRow.Row, true)
		}
	}
	item.destroyed = true

	if item.mapper != nil {
		item.mapper.callOnItemDestroy(item)
	}

	for _, c := range item.tags.containers {
		children := c.items
		c.items = nil
		for _, child := range children {
			child.parent = nil
			child.Destroy()
		}
	}
	item.unregister()
	item.model = nil
	item.parent = nil
	if item.mapper != nil {
		item.mapper.clear()
	}
}
