package commands

import (
	"errors"
	"fmt"

	"github.com/CrimsonAS/qmvvm/internal/observability"
)

// Macro groups commands into one undo step. Undo runs the commands in
// reverse order, execute in recording order.
type Macro struct {
	baseCommand
	commands []Command
}

func NewMacro(description string) *Macro {
	return &Macro{baseCommand: baseCommand{description: description}}
}

// Add appends an executed command.
func (m *Macro) Add(cmd Command) {
	m.commands = append(m.commands, cmd)
}

func (m *Macro) Len() int { return len(m.commands) }

// Commands returns the recorded commands.
func (m *Macro) Commands() []Command {
	return append([]Command{}, m.commands...)
}

// IsObsolete is true for an empty macro.
func (m *Macro) IsObsolete() bool { return len(m.commands) == 0 }

func (m *Macro) Execute() error {
	return m.run(func() error {
		for i, cmd := range m.commands {
			if err := cmd.Execute(); err != nil {
				for j := i - 1; j >= 0; j-- {
					if undoErr := m.commands[j].Undo(); undoErr != nil {
						return m.rollbackFailed(err, m.commands[j], undoErr)
					}
				}
				return err
			}
		}
		return nil
	})
}

func (m *Macro) Undo() error {
	return m.revert(func() error {
		for i := len(m.commands) - 1; i >= 0; i-- {
			if err := m.commands[i].Undo(); err != nil {
				for j := i + 1; j < len(m.commands); j++ {
					if execErr := m.commands[j].Execute(); execErr != nil {
						return m.rollbackFailed(err, m.commands[j], execErr)
					}
				}
				return err
			}
		}
		return nil
	})
}

// rollbackFailed reports a macro left half applied.
func (m *Macro) rollbackFailed(err error, cmd Command, rollbackErr error) error {
	observability.Component("commands").Error("macro rollback failed",
		"macro", m.description, "command", cmd.Description(), "error", rollbackErr)
	return errors.Join(err, fmt.Errorf("rollback of %q: %w", cmd.Description(), rollbackErr))
}
