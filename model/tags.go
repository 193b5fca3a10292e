package model

import "fmt"

// TagContainer is the ordered, bounded list of children under one tag.
type TagContainer struct {
	info  TagInfo
	items []*SessionItem
}

func NewTagContainer(info TagInfo) *TagContainer {
	return &TagContainer{info: info}
}

func (c *TagContainer) Name() string     { return c.info.Name }
func (c *TagContainer) TagInfo() TagInfo { return c.info }
func (c *TagContainer) Size() int        { return len(c.items) }
func (c *TagContainer) Empty() bool      { return len(c.items) == 0 }

// Items returns a snapshot of the children.
func (c *TagContainer) Items() []*SessionItem {
	return append([]*SessionItem{}, c.items...)
}

// ItemAt returns nil for an out of range index.
func (c *TagContainer) ItemAt(index int) *SessionItem {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return c.items[index]
}

// IndexOf returns -1 if item is not in the container.
func (c *TagContainer) IndexOf(item *SessionItem) int {
	for i, it := range c.items {
		if it == item {
			return i
		}
	}
	return -1
}

func (c *TagContainer) maximumReached() bool {
	return c.info.Max != -1 && len(c.items) >= c.info.Max
}

func (c *TagContainer) minimumReached() bool {
	return c.info.Min > 0 && len(c.items) <= c.info.Min
}

// checkInsert validates an insertion without changing anything. Index -1
// means append.
func (c *TagContainer) checkInsert(item *SessionItem, index int) error {
	if index < -1 || index > len(c.items) {
		return fmt.Errorf("tag %q row %d of %d: %w", c.info.Name, index, len(c.items), ErrIndexOutOfRange)
	}
	if c.maximumReached() {
		return fmt.Errorf("tag %q holds %d: %w", c.info.Name, c.info.Max, ErrCapacityExceeded)
	}
	if !c.info.IsValidChild(item.ModelType()) {
		return fmt.Errorf("%q in tag %q: %w", item.ModelType(), c.info.Name, ErrInvalidChildType)
	}
	if c.IndexOf(item) != -1 {
		return fmt.Errorf("tag %q: %w", c.info.Name, ErrDuplicateChild)
	}
	return nil
}

// InsertItem places item at index, -1 appends.
func (c *TagContainer) InsertItem(item *SessionItem, index int) error {
	if item == nil {
		return ErrInvalidItem
	}
	if err := c.checkInsert(item, index); err != nil {
		return err
	}
	if index == -1 {
		index = len(c.items)
	}
	c.items = append(c.items, nil)
	copy(c.items[index+1:], c.items[index:])
	c.items[index] = item
	return nil
}

func (c *TagContainer) checkTake(index int) error {
	if index < 0 || index >= len(c.items) {
		return fmt.Errorf("tag %q row %d of %d: %w", c.info.Name, index, len(c.items), ErrIndexOutOfRange)
	}
	if c.minimumReached() {
		return fmt.Errorf("tag %q requires %d: %w", c.info.Name, c.info.Min, ErrMinimumReached)
	}
	return nil
}

// TakeItem removes and returns the item at index.
func (c *TagContainer) TakeItem(index int) (*SessionItem, error) {
	if err := c.checkTake(index); err != nil {
		return nil, err
	}
	item := c.items[index]
	c.items = append(c.items[:index], c.items[index+1:]...)
	return item, nil
}

// ItemTags owns the tag containers of one item.
type ItemTags struct {
	containers []*TagContainer
	defaultTag string
}

func NewItemTags() *ItemTags {
	return &ItemTags{}
}

// RegisterTag adds a container. When setAsDefault is true the tag becomes
// the target for empty tag names.
func (t *ItemTags) RegisterTag(info TagInfo, setAsDefault bool) error {
	if t.Exists(info.Name) {
		return fmt.Errorf("%q: %w", info.Name, ErrDuplicateTag)
	}
	t.containers = append(t.containers, NewTagContainer(info))
	if setAsDefault {
		t.defaultTag = info.Name
	}
	return nil
}

func (t *ItemTags) Exists(name string) bool {
	return t.find(name) != nil
}

func (t *ItemTags) DefaultTag() string {
	return t.defaultTag
}

// Container resolves an empty name to the default tag.
func (t *ItemTags) Container(name string) (*TagContainer, error) {
	if name == "" {
		name = t.defaultTag
	}
	c := t.find(name)
	if c == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownTag)
	}
	return c, nil
}

// Containers returns the containers in registration order.
func (t *ItemTags) Containers() []*TagContainer {
	return append([]*TagContainer{}, t.containers...)
}

func (t *ItemTags) TagInfos() []TagInfo {
	infos := make([]TagInfo, 0, len(t.containers))
	for _, c := range t.containers {
		infos = append(infos, c.info)
	}
	return infos
}

func (t *ItemTags) Items(tag string) ([]*SessionItem, error) {
	c, err := t.Container(tag)
	if err != nil {
		return nil, err
	}
	return c.Items(), nil
}

// AllItems concatenates the containers in registration order.
func (t *ItemTags) AllItems() []*SessionItem {
	var result []*SessionItem
	for _, c := range t.containers {
		result = append(result, c.items...)
	}
	return result
}

func (t *ItemTags) InsertItem(item *SessionItem, index int, tag string) error {
	c, err := t.Container(tag)
	if err != nil {
		return err
	}
	return c.InsertItem(item, index)
}

func (t *ItemTags) TakeItem(index int, tag string) (*SessionItem, error) {
	c, err := t.Container(tag)
	if err != nil {
		return nil, err
	}
	return c.TakeItem(index)
}

// TagRowOfItem scans containers in registration order. The boolean is false
// when item is not found.
func (t *ItemTags) TagRowOfItem(item *SessionItem) (TagRow, bool) {
	for _, c := range t.containers {
		if index := c.IndexOf(item); index != -1 {
			return TagRow{Tag: c.info.Name, Row: index}, true
		}
	}
	return TagRow{Row: -1}, false
}

func (t *ItemTags) find(name string) *TagContainer {
	for _, c := range t.containers {
		if c.info.Name == name {
			return c
		}
	}
	return nil
}
