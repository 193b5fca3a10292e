// Package commands implements reversible edits of a session model and the
// undo stack that records them.
//
// Commands never hold item pointers between executions. They address items
// by path and identifier, so a command stays valid after its items have been
// destroyed and rebuilt by an undo.
package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/model"
)

type State int

const (
	StateCreated State = iota
	StateExecuted
	StateUndone
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateExecuted:
		return "executed"
	case StateUndone:
		return "undone"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Command is one reversible edit. Execute moves a created or undone command
// to executed, Undo moves an executed command to undone.
type Command interface {
	Execute() error
	Undo() error
	Description() string
	State() State
	// IsObsolete reports an execution that changed nothing. Obsolete
	// commands are not recorded.
	IsObsolete() bool
}

type baseCommand struct {
	description string
	state       State
	obsolete    bool
}

func (c *baseCommand) Description() string { return c.description }
func (c *baseCommand) State() State        { return c.state }
func (c *baseCommand) IsObsolete() bool    { return c.obsolete }

func (c *baseCommand) run(execute func() error) error {
	if c.state == StateExecuted {
		return fmt.Errorf("execute %q: %w", c.description, ErrCommandState)
	}
	if err := execute(); err != nil {
		return err
	}
	c.state = StateExecuted
	return nil
}

func (c *baseCommand) revert(undo func() error) error {
	if c.state != StateExecuted {
		return fmt.Errorf("undo %q (%s): %w", c.description, c.state, ErrCommandState)
	}
	if err := undo(); err != nil {
		return err
	}
	c.state = StateUndone
	return nil
}

func pathOf(m *model.SessionModel, item *model.SessionItem) (model.Path, error) {
	if item == nil {
		return model.Path{}, nil
	}
	return m.PathFromItem(item)
}
