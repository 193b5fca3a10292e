package commands

import (
	"fmt"

	"github.com/CrimsonAS/qmvvm/internal/observability"
)

type stackListener struct {
	client interface{}
	fn     func(*CommandStack)
}

// CommandStack records executed commands for undo and redo. Commands below
// Index are executed, the ones above it are undone and can be redone.
// Executing a new command drops the undone ones.
type CommandStack struct {
	commands  []Command
	index     int
	limit     int
	macros    []*Macro
	listeners []stackListener
}

func NewCommandStack() *CommandStack {
	return &CommandStack{}
}

// Execute runs cmd and records it unless it failed or changed nothing.
// While a macro is open the command joins the macro.
func (s *CommandStack) Execute(cmd Command) error {
	if err := cmd.Execute(); err != nil {
		return err
	}
	if cmd.IsObsolete() {
		return nil
	}
	if n := len(s.macros); n > 0 {
		s.macros[n-1].Add(cmd)
		return nil
	}
	s.push(cmd)
	return nil
}

func (s *CommandStack) push(cmd Command) {
	s.commands = append(s.commands[:s.index], cmd)
	s.index++
	s.applyLimit()
	observability.Component("commands").Debug("recorded", "description", cmd.Description(), "index", s.index)
	s.changed()
}

func (s *CommandStack) Undo() error {
	if len(s.macros) > 0 {
		return ErrMacroOpen
	}
	if s.index == 0 {
		return ErrNothingToUndo
	}
	if err := s.commands[s.index-1].Undo(); err != nil {
		return fmt.Errorf("undo %q: %w", s.commands[s.index-1].Description(), err)
	}
	s.index--
	s.changed()
	return nil
}

func (s *CommandStack) Redo() error {
	if len(s.macros) > 0 {
		return ErrMacroOpen
	}
	if s.index == len(s.commands) {
		return ErrNothingToRedo
	}
	if err := s.commands[s.index].Execute(); err != nil {
		return fmt.Errorf("redo %q: %w", s.commands[s.index].Description(), err)
	}
	s.index++
	s.changed()
	return nil
}

func (s *CommandStack) CanUndo() bool { return len(s.macros) == 0 && s.index > 0 }
func (s *CommandStack) CanRedo() bool { return len(s.macros) == 0 && s.index < len(s.commands) }
func (s *CommandStack) Index() int    { return s.index }
func (s *CommandStack) Count() int    { return len(s.commands) }

// UndoDescription describes the command Undo would revert, or "".
func (s *CommandStack) UndoDescription() string {
	if s.index == 0 {
		return ""
	}
	return s.commands[s.index-1].Description()
}

// RedoDescription describes the command Redo would execute, or "".
func (s *CommandStack) RedoDescription() string {
	if s.index == len(s.commands) {
		return ""
	}
	return s.commands[s.index].Description()
}

// Clear forgets all commands, including open macros, without undoing
// anything.
func (s *CommandStack) Clear() {
	s.commands = nil
	s.index = 0
	s.macros = nil
	s.changed()
}

// SetUndoLimit bounds the number of recorded commands; 0 means unbounded.
// The oldest commands go first.
func (s *CommandStack) SetUndoLimit(limit int) {
	if limit < 0 {
		limit = 0
	}
	s.limit = limit
	if s.applyLimit() {
		s.changed()
	}
}

func (s *CommandStack) UndoLimit() int { return s.limit }

func (s *CommandStack) applyLimit() bool {
	if s.limit == 0 || len(s.commands) <= s.limit {
		return false
	}
	excess := len(s.commands) - s.limit
	s.commands = append([]Command{}, s.commands[excess:]...)
	s.index -= excess
	if s.index < 0 {
		s.index = 0
	}
	return true
}

// BeginMacro opens a macro. Commands executed until the matching EndMacro
// become one undo step. Nested macros fold into the enclosing one.
func (s *CommandStack) BeginMacro(description string) {
	s.macros = append(s.macros, NewMacro(description))
}

func (s *CommandStack) EndMacro() error {
	n := len(s.macros)
	if n == 0 {
		return ErrNoMacro
	}
	macro := s.macros[n-1]
	s.macros = s.macros[:n-1]
	macro.state = StateExecuted
	if macro.IsObsolete() {
		return nil
	}
	if n > 1 {
		s.macros[n-2].Add(macro)
		return nil
	}
	s.push(macro)
	return nil
}

// IsMacroOpen reports whether commands are being grouped.
func (s *CommandStack) IsMacroOpen() bool { return len(s.macros) > 0 }

// SetOnChanged registers fn to run after every change of the stack.
func (s *CommandStack) SetOnChanged(fn func(*CommandStack), client interface{}) {
	s.listeners = append(s.listeners, stackListener{client: client, fn: fn})
}

func (s *CommandStack) Unsubscribe(client interface{}) {
	kept := s.listeners[:0:0]
	for _, l := range s.listeners {
		if l.client != client {
			kept = append(kept, l)
		}
	}
	s.listeners = kept
}

func (s *CommandStack) changed() {
	for _, l := range append([]stackListener{}, s.listeners...) {
		l.fn(s)
	}
}
