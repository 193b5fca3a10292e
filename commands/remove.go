package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
	"github.com/CrimsonAS/qmvvm/serialization"
)

// RemoveItemCommand destroys a child. The subtree is kept as JSON, so undo
// puts back an equal tree with the same identifiers.
type RemoveItemCommand struct {
	baseCommand
	model      *model.SessionModel
	parentPath model.Path
	tag        string
	row        int

	backup []byte
}

func NewRemoveItemCommand(m *model.SessionModel, parent *model.SessionItem, tag string, row int) (*RemoveItemCommand, error) {
	parentPath, err := pathOf(m, parent)
	if err != nil {
		return nil, err
	}
	if parent == nil {
		parent = m.RootItem()
	}
	if tag == "" {
		tag = parent.DefaultTag()
	}
	return &RemoveItemCommand{
		baseCommand: baseCommand{description: fmt.Sprintf("Remove item from tag:'%s', row:%d", tag, row)},
		model:       m,
		parentPath:  parentPath,
		tag:         tag,
		row:         row,
	}, nil
}

func (c *RemoveItemCommand) Execute() error {
	return c.run(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		item := parent.GetItem(c.tag, c.row)
		if item == nil {
			return fmt.Errorf("tag %q row %d: %w", c.tag, c.row, model.ErrIndexOutOfRange)
		}
		backup, err := serialization.ItemToJSON(item)
		if err != nil {
			return err
		}
		if err := c.model.RemoveItem(parent, c.tag, c.row); err != nil {
			return err
		}
		c.backup = backup
		return nil
	})
}

func (c *RemoveItemCommand) Undo() error {
	return c.revert(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		item, err := serialization.JSONToItem(c.model.Catalogue(), c.backup)
		if err != nil {
			return err
		}
		if err := parent.InsertItem(item, c.tag, c.row); err != nil {
			item.Destroy()
			return err
		}
		return nil
	})
}
