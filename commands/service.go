package commands

import (
	"github.com/CrimsonAS/qmvvm/model"
)

// Service edits a model through commands, so every edit can be undone.
// With undo disabled the edits go straight to the model.
type Service struct {
	model       *model.SessionModel
	stack       *CommandStack
	undoEnabled bool
}

func NewService(m *model.SessionModel) *Service {
	return &Service{model: m, stack: NewCommandStack(), undoEnabled: true}
}

func (s *Service) Model() *model.SessionModel { return s.model }
func (s *Service) Stack() *CommandStack       { return s.stack }
func (s *Service) IsUndoRedoEnabled() bool    { return s.undoEnabled }

// SetUndoRedoEnabled switches recording on or off. Switching it off drops
// the recorded history.
func (s *Service) SetUndoRedoEnabled(enabled bool) {
	if s.undoEnabled && !enabled {
		s.stack.Clear()
	}
	s.undoEnabled = enabled
}

func (s *Service) InsertNewItem(modelType string, parent *model.SessionItem, tag string, row int) (*model.SessionItem, error) {
	if !s.undoEnabled {
		return s.model.InsertNewItem(modelType, parent, tag, row)
	}
	cmd, err := NewInsertNewItemCommand(s.model, modelType, nil, parent, tag, row)
	if err != nil {
		return nil, err
	}
	if err := s.stack.Execute(cmd); err != nil {
		return nil, err
	}
	return cmd.Result(), nil
}

// InsertItem inserts a prepared, detached item and takes ownership of it.
func (s *Service) InsertItem(item, parent *model.SessionItem, tag string, row int) error {
	if !s.undoEnabled {
		return s.model.InsertItem(item, parent, tag, row)
	}
	cmd, err := NewInsertItemCommand(s.model, item, parent, tag, row)
	if err != nil {
		return err
	}
	return s.stack.Execute(cmd)
}

func (s *Service) RemoveItem(parent *model.SessionItem, tag string, row int) error {
	if !s.undoEnabled {
		return s.model.RemoveItem(parent, tag, row)
	}
	cmd, err := NewRemoveItemCommand(s.model, parent, tag, row)
	if err != nil {
		return err
	}
	return s.stack.Execute(cmd)
}

func (s *Service) MoveItem(item, newParent *model.SessionItem, tag string, row int) error {
	if !s.undoEnabled {
		return s.model.MoveItem(item, newParent, tag, row)
	}
	cmd, err := NewMoveItemCommand(s.model, item, newParent, tag, row)
	if err != nil {
		return err
	}
	return s.stack.Execute(cmd)
}

// SetData reports whether the value changed. Unchanged values leave no
// trace on the stack.
func (s *Service) SetData(item *model.SessionItem, value model.Variant, role int) (bool, error) {
	if !s.undoEnabled {
		return s.model.SetData(item, value, role)
	}
	cmd, err := NewSetValueCommand(s.model, item, value, role)
	if err != nil {
		return false, err
	}
	if err := s.stack.Execute(cmd); err != nil {
		return false, err
	}
	return cmd.Changed(), nil
}

func (s *Service) Undo() error { return s.stack.Undo() }
func (s *Service) Redo() error { return s.stack.Redo() }

func (s *Service) BeginMacro(description string) { s.stack.BeginMacro(description) }
func (s *Service) EndMacro() error               { return s.stack.EndMacro() }
