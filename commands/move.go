package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
)

// MoveItemCommand relocates an item within its model. Paths are recomputed
// after every execute and undo because the move itself shifts them.
type MoveItemCommand struct {
	baseCommand
	model *model.SessionModel

	itemPath   model.Path
	targetPath model.Path
	tag        string
	row        int

	originPath model.Path
	origin     model.TagRow
}

func NewMoveItemCommand(m *model.SessionModel, item, newParent *model.SessionItem, tag string, row int) (*MoveItemCommand, error) {
	if item == nil || item.Model() != m || item.Parent() == nil {
		return nil, model.ErrInvalidItem
	}
	if newParent == nil {
		newParent = m.RootItem()
	}
	for p := newParent; p != nil; p = p.Parent() {
		if p == item {
			return nil, model.ErrInvalidMove
		}
	}
	itemPath, err := m.PathFromItem(item)
	if err != nil {
		return nil, err
	}
	targetPath, err := m.PathFromItem(newParent)
	if err != nil {
		return nil, err
	}
	return &MoveItemCommand{
		baseCommand: baseCommand{description: fmt.Sprintf("Move item to tag:'%s', row:%d", tag, row)},
		model:       m,
		itemPath:    itemPath,
		targetPath:  targetPath,
		tag:         tag,
		row:         row,
	}, nil
}

func (c *MoveItemCommand) Execute() error {
	return c.run(func() error {
		item, err := c.model.ItemFromPath(c.itemPath)
		if err != nil {
			return err
		}
		target, err := c.model.ItemFromPath(c.targetPath)
		if err != nil {
			return err
		}
		origin := item.Parent()
		if origin == nil {
			return model.ErrInvalidItem
		}
		originTagRow, _ := origin.TagRowOfItem(item)
		if err := c.model.MoveItem(item, target, c.tag, c.row); err != nil {
			return err
		}
		c.origin = originTagRow
		return c.recompute(item, origin, target)
	})
}

func (c *MoveItemCommand) Undo() error {
	return c.revert(func() error {
		item, err := c.model.ItemFromPath(c.itemPath)
		if err != nil {
			return err
		}
		origin, err := c.model.ItemFromPath(c.originPath)
		if err != nil {
			return err
		}
		target := item.Parent()
		if err := c.model.MoveItem(item, origin, c.origin.Tag, c.origin.Row); err != nil {
			return err
		}
		return c.recompute(item, origin, target)
	})
}

func (c *MoveItemCommand) recompute(item, origin, target *model.SessionItem) error {
	var err error
	if c.itemPath, err = c.model.PathFromItem(item); err != nil {
		return err
	}
	if c.originPath, err = c.model.PathFromItem(origin); err != nil {
		return err
	}
	c.targetPath, err = c.model.PathFromItem(target)
	return err
}
