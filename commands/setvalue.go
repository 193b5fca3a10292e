package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
)

// SetValueCommand sets one data role. Execute and undo both swap the stored
// value with the one held by the command.
type SetValueCommand struct {
	baseCommand
	model    *model.SessionModel
	itemPath model.Path
	role     int
	value    model.Variant
	changed  bool
}

func NewSetValueCommand(m *model.SessionModel, item *model.SessionItem, value model.Variant, role int) (*SetValueCommand, error) {
	if item == nil || item.Model() != m {
		return nil, model.ErrInvalidItem
	}
	itemPath, err := m.PathFromItem(item)
	if err != nil {
		return nil, err
	}
	return &SetValueCommand{
		baseCommand: baseCommand{description: fmt.Sprintf("Set value: %s", value)},
		model:       m,
		itemPath:    itemPath,
		role:        role,
		value:       value,
	}, nil
}

// Changed reports whether the last execution changed the item.
func (c *SetValueCommand) Changed() bool { return c.changed }

func (c *SetValueCommand) Execute() error {
	return c.run(func() error {
		changed, err := c.swap()
		if err != nil {
			return err
		}
		c.changed = changed
		c.obsolete = !changed
		return nil
	})
}

func (c *SetValueCommand) Undo() error {
	return c.revert(func() error {
		_, err := c.swap()
		return err
	})
}

func (c *SetValueCommand) swap() (bool, error) {
	item, err := c.model.ItemFromPath(c.itemPath)
	if err != nil {
		return false, err
	}
	old := item.Data(c.role)
	changed, err := item.SetData(c.value, c.role)
	if err != nil {
		return false, err
	}
	c.value = old
	return changed, nil
}
