package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagInfo(t *testing.T) {
	universal := UniversalTag("items")
	assert.Equal(t, 0, universal.Min)
	assert.Equal(t, -1, universal.Max)
	assert.True(t, universal.IsValidChild("anything"))
	assert.False(t, universal.IsSinglePropertyTag())

	property := PropertyTag("thickness", PropertyType)
	assert.True(t, property.IsSinglePropertyTag())
	assert.True(t, property.IsValidChild(PropertyType))
	assert.False(t, property.IsValidChild(VectorType))

	assert.True(t, property.Equal(PropertyTag("thickness", PropertyType)))
	assert.False(t, property.Equal(universal))
}

func TestTagContainerBounds(t *testing.T) {
	c := NewTagContainer(TagInfo{Name: "pair", Min: 0, Max: 2})
	a, b, extra := NewSessionItem("A"), NewSessionItem("B"), NewSessionItem("C")

	require.NoError(t, c.InsertItem(a, -1))
	require.NoError(t, c.InsertItem(b, 0))
	assert.Equal(t, []*SessionItem{b, a}, c.Items())

	assert.ErrorIs(t, c.InsertItem(extra, -1), ErrCapacityExceeded)
	assert.Equal(t, 2, c.Size())

	taken, err := c.TakeItem(1)
	require.NoError(t, err)
	assert.Same(t, a, taken)

	_, err = c.TakeItem(5)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	assert.ErrorIs(t, c.InsertItem(extra, 3), ErrIndexOutOfRange)
	assert.Nil(t, c.ItemAt(-1))
}

func TestTagContainerMinimum(t *testing.T) {
	c := NewTagContainer(PropertyTag("value", PropertyType))
	p := NewPropertyItem()
	require.NoError(t, c.InsertItem(p, -1))

	_, err := c.TakeItem(0)
	assert.ErrorIs(t, err, ErrMinimumReached)
	assert.Equal(t, 1, c.Size())

	assert.ErrorIs(t, c.InsertItem(NewSessionItem("Other"), -1), ErrCapacityExceeded)
}

func TestTagContainerModelTypes(t *testing.T) {
	c := NewTagContainer(UniversalTag("layers", "Layer"))
	assert.ErrorIs(t, c.InsertItem(NewSessionItem("Multilayer"), -1), ErrInvalidChildType)
	assert.NoError(t, c.InsertItem(NewSessionItem("Layer"), -1))
}

func TestItemTags(t *testing.T) {
	tags := NewItemTags()
	require.NoError(t, tags.RegisterTag(UniversalTag("a"), false))
	require.NoError(t, tags.RegisterTag(UniversalTag("b"), true))
	assert.ErrorIs(t, tags.RegisterTag(UniversalTag("a"), false), ErrDuplicateTag)

	assert.Equal(t, "b", tags.DefaultTag())
	assert.True(t, tags.Exists("a"))
	assert.False(t, tags.Exists("c"))

	x, y := NewSessionItem("X"), NewSessionItem("Y")
	require.NoError(t, tags.InsertItem(x, -1, ""))
	require.NoError(t, tags.InsertItem(y, -1, "a"))

	assert.Equal(t, []*SessionItem{y, x}, tags.AllItems(), "registration order")

	tagRow, ok := tags.TagRowOfItem(x)
	require.True(t, ok)
	assert.Equal(t, TagRow{Tag: "b", Row: 0}, tagRow)

	_, ok = tags.TagRowOfItem(NewSessionItem("Z"))
	assert.False(t, ok)

	_, err := tags.Container("c")
	assert.ErrorIs(t, err, ErrUnknownTag)

	taken, err := tags.TakeItem(0, "a")
	require.NoError(t, err)
	assert.Same(t, y, taken)

	names := []string{}
	for _, info := range tags.TagInfos() {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestPath(t *testing.T) {
	p := Path{}.Append("layers", 2).Append("a b/c", 0)
	assert.Equal(t, "layers:2/a%20b%2Fc:0", p.String())

	parsed, err := ParsePath(p.String())
	require.NoError(t, err)
	assert.True(t, p.Equal(parsed))

	empty, err := ParsePath("")
	require.NoError(t, err)
	assert.Empty(t, empty)

	for _, bad := range []string{"layers", "layers:x", "layers:-1", "a:1/"} {
		_, err := ParsePath(bad)
		assert.ErrorIs(t, err, ErrInvalidPath, bad)
	}

	base := Path{{Tag: "a", Row: 0}}
	extended := base.Append("b", 1)
	assert.Len(t, base, 1, "Append does not modify the receiver")
	assert.Len(t, extended, 2)
}
