package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
	"github.com/CrimsonAS/qmvvm/serialization"
)

// InsertNewItemCommand creates an item with a factory and inserts it.
type InsertNewItemCommand struct {
	baseCommand
	model      *model.SessionModel
	modelType  string
	factory    model.ItemFactoryFunc
	parentPath model.Path
	tag        string
	row        int

	identifier string
	result     *model.SessionItem
}

// NewInsertNewItemCommand prepares the insertion of a new modelType item
// under parent; nil parent means the root item. A nil factory is looked up
// in the model's catalogue.
func NewInsertNewItemCommand(m *model.SessionModel, modelType string, factory model.ItemFactoryFunc, parent *model.SessionItem, tag string, row int) (*InsertNewItemCommand, error) {
	if factory == nil {
		var err error
		if factory, err = m.Factory(modelType); err != nil {
			return nil, err
		}
	}
	parentPath, err := pathOf(m, parent)
	if err != nil {
		return nil, err
	}
	return &InsertNewItemCommand{
		baseCommand: baseCommand{description: fmt.Sprintf("New item type '%s' tag:'%s', row:%d", modelType, tag, row)},
		model:       m,
		modelType:   modelType,
		factory:     factory,
		parentPath:  parentPath,
		tag:         tag,
		row:         row,
	}, nil
}

// Result is the inserted item while the command is executed, nil otherwise.
// Every execution builds a fresh item; only the identifier carries over.
func (c *InsertNewItemCommand) Result() *model.SessionItem { return c.result }

func (c *InsertNewItemCommand) Execute() error {
	return c.run(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		child := c.factory()
		if child == nil {
			return fmt.Errorf("factory for %q returned nothing: %w", c.modelType, model.ErrInvalidItem)
		}
		if c.identifier != "" {
			if _, err := child.SetData(model.StringVariant(c.identifier), model.RoleIdentifier); err != nil {
				child.Destroy()
				return err
			}
		}
		if err := parent.InsertItem(child, c.tag, c.row); err != nil {
			child.Destroy()
			return err
		}
		c.identifier = child.Identifier()
		c.result = child
		return nil
	})
}

func (c *InsertNewItemCommand) Undo() error {
	return c.revert(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		row := c.row
		if row < 0 {
			row = parent.ItemCount(c.tag) - 1
		}
		if err := c.model.RemoveItem(parent, c.tag, row); err != nil {
			return err
		}
		c.result = nil
		return nil
	})
}

// InsertItemCommand inserts an item the caller has prepared. The command
// takes ownership of the item. The first execution inserts the item itself;
// undo keeps a JSON copy from which redo rebuilds it with the same
// identifiers.
type InsertItemCommand struct {
	baseCommand
	model      *model.SessionModel
	parentPath model.Path
	tag        string
	row        int

	pending *model.SessionItem
	backup  []byte
	tagRow  model.TagRow
	result  *model.SessionItem
}

func NewInsertItemCommand(m *model.SessionModel, item, parent *model.SessionItem, tag string, row int) (*InsertItemCommand, error) {
	if item == nil || item.IsDestroyed() {
		return nil, model.ErrInvalidItem
	}
	if item.Parent() != nil || item.Model() != nil {
		return nil, model.ErrDuplicateChild
	}
	parentPath, err := pathOf(m, parent)
	if err != nil {
		return nil, err
	}
	return &InsertItemCommand{
		baseCommand: baseCommand{description: fmt.Sprintf("Insert item type '%s' tag:'%s', row:%d", item.ModelType(), tag, row)},
		model:       m,
		parentPath:  parentPath,
		tag:         tag,
		row:         row,
		pending:     item,
	}, nil
}

func (c *InsertItemCommand) Result() *model.SessionItem { return c.result }

func (c *InsertItemCommand) Execute() error {
	return c.run(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		item := c.pending
		if item == nil {
			if item, err = serialization.JSONToItem(c.model.Catalogue(), c.backup); err != nil {
				return err
			}
		}
		if err := parent.InsertItem(item, c.tag, c.row); err != nil {
			if item != c.pending {
				item.Destroy()
			}
			return err
		}
		c.tagRow, _ = parent.TagRowOfItem(item)
		c.pending = nil
		c.result = item
		return nil
	})
}

func (c *InsertItemCommand) Undo() error {
	return c.revert(func() error {
		parent, err := c.model.ItemFromPath(c.parentPath)
		if err != nil {
			return err
		}
		item := parent.GetItem(c.tagRow.Tag, c.tagRow.Row)
		if item == nil {
			return fmt.Errorf("tag %q row %d: %w", c.tagRow.Tag, c.tagRow.Row, model.ErrIndexOutOfRange)
		}
		backup, err := serialization.ItemToJSON(item)
		if err != nil {
			return err
		}
		if err := c.model.RemoveItem(parent, c.tagRow.Tag, c.tagRow.Row); err != nil {
			return err
		}
		c.backup = backup
		c.result = nil
		return nil
	})
}
