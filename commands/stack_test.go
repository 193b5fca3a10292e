package commands

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CrimsonAS/qmvvm/model"
)

func TestServiceUndoRedo(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)

	item, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	changed, err := s.SetData(item, model.DoubleVariant(1), model.RoleData)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = s.SetData(item, model.DoubleVariant(1), model.RoleData)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 2, s.Stack().Count(), "unchanged value is not recorded")

	require.NoError(t, s.Undo())
	assert.False(t, item.Data(model.RoleData).IsValid())
	require.NoError(t, s.Undo())
	assert.Empty(t, m.TopItems())
	assert.ErrorIs(t, s.Undo(), ErrNothingToUndo)

	require.NoError(t, s.Redo())
	require.NoError(t, s.Redo())
	require.Len(t, m.TopItems(), 1)
	assert.Equal(t, 1.0, m.TopItems()[0].Data(model.RoleData).Double())
	assert.ErrorIs(t, s.Redo(), ErrNothingToRedo)
}

func TestServiceFailedEditIsNotRecorded(t *testing.T) {
	s := NewService(model.NewSessionModel("TestModel"))
	_, err := s.InsertNewItem(model.PropertyType, nil, "", 3)
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
	assert.Equal(t, 0, s.Stack().Count())
	assert.ErrorIs(t, s.RemoveItem(nil, "", 0), model.ErrIndexOutOfRange)
	assert.Equal(t, 0, s.Stack().Count())
}

func TestStackDropsRedoTail(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)
	_, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	_, err = s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)

	require.NoError(t, s.Undo())
	assert.True(t, s.Stack().CanRedo())

	_, err = s.InsertNewItem(model.VectorType, nil, "", -1)
	require.NoError(t, err)
	assert.False(t, s.Stack().CanRedo())
	assert.Equal(t, 2, s.Stack().Count())
	assert.Equal(t, 2, s.Stack().Index())
	assert.Equal(t, "New item type 'Vector' tag:'', row:-1", s.Stack().UndoDescription())
	assert.Equal(t, "", s.Stack().RedoDescription())
}

func TestStackMacro(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)

	s.BeginMacro("add two")
	a, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	s.BeginMacro("nested")
	_, err = s.InsertNewItem(model.VectorType, nil, "", -1)
	require.NoError(t, err)
	_, err = s.SetData(a, model.IntVariant(4), model.RoleData)
	require.NoError(t, err)
	assert.ErrorIs(t, s.Undo(), ErrMacroOpen)
	require.NoError(t, s.EndMacro())
	require.NoError(t, s.EndMacro())
	assert.ErrorIs(t, s.EndMacro(), ErrNoMacro)

	assert.Equal(t, 1, s.Stack().Count())
	assert.Equal(t, "add two", s.Stack().UndoDescription())

	require.NoError(t, s.Undo())
	assert.Empty(t, m.TopItems())

	require.NoError(t, s.Redo())
	require.Len(t, m.TopItems(), 2)
	assert.Equal(t, 4, m.TopItems()[0].Data(model.RoleData).Int())
	assert.Equal(t, model.VectorType, m.TopItems()[1].ModelType())

	s.BeginMacro("empty")
	require.NoError(t, s.EndMacro())
	assert.Equal(t, 1, s.Stack().Count(), "empty macro is dropped")
}

func TestStackUndoLimit(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)
	for i := 0; i < 5; i++ {
		_, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
		require.NoError(t, err)
	}
	s.Stack().SetUndoLimit(3)
	assert.Equal(t, 3, s.Stack().Count())
	assert.Equal(t, 3, s.Stack().Index())

	_, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Stack().Count())

	for s.Stack().CanUndo() {
		require.NoError(t, s.Undo())
	}
	assert.Len(t, m.TopItems(), 3)
}

func TestStackOnChanged(t *testing.T) {
	s := NewService(model.NewSessionModel("TestModel"))
	calls := 0
	s.Stack().SetOnChanged(func(*CommandStack) { calls++ }, t)

	_, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	require.NoError(t, s.Undo())
	require.NoError(t, s.Redo())
	assert.Equal(t, 3, calls)

	s.Stack().Unsubscribe(t)
	s.Stack().Clear()
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, s.Stack().Count())
}

func TestServiceUndoDisabled(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)
	_, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)

	s.SetUndoRedoEnabled(false)
	assert.False(t, s.IsUndoRedoEnabled())
	assert.Equal(t, 0, s.Stack().Count())

	item, err := s.InsertNewItem(model.PropertyType, nil, "", -1)
	require.NoError(t, err)
	_, err = s.SetData(item, model.IntVariant(1), model.RoleData)
	require.NoError(t, err)
	require.NoError(t, s.MoveItem(item, nil, "", 0))
	require.NoError(t, s.RemoveItem(nil, "", 1))
	assert.Equal(t, 0, s.Stack().Count())
	assert.Equal(t, []*model.SessionItem{item}, m.TopItems())
}

func TestServiceMoveAndInsert(t *testing.T) {
	m := model.NewSessionModel("TestModel")
	s := NewService(m)
	group, err := s.InsertNewItem(model.CompoundType, nil, "", -1)
	require.NoError(t, err)
	require.NoError(t, s.InsertItem(model.NewVectorItem(), nil, "", -1))
	vector := m.TopItems()[1]

	require.NoError(t, s.MoveItem(vector, group, "", -1))
	assert.Same(t, group, vector.Parent())
	require.NoError(t, s.Undo())
	assert.Same(t, m.RootItem(), vector.Parent())
	require.NoError(t, s.Undo())
	assert.Len(t, m.TopItems(), 1)
}

type scriptedCommand struct {
	baseCommand
	executeErr error
	undoErr    error
}

func (c *scriptedCommand) Execute() error {
	return c.run(func() error { return c.executeErr })
}

func (c *scriptedCommand) Undo() error {
	return c.revert(func() error { return c.undoErr })
}

func TestMacroRollbackFailure(t *testing.T) {
	stuck := errors.New("cannot undo")
	broken := errors.New("cannot execute")

	macro := NewMacro("group")
	macro.Add(&scriptedCommand{baseCommand: baseCommand{description: "first"}, undoErr: stuck})
	macro.Add(&scriptedCommand{baseCommand: baseCommand{description: "second"}, executeErr: broken})

	err := macro.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, broken)
	assert.ErrorIs(t, err, stuck, "a failed rollback is reported")
	assert.Contains(t, err.Error(), `rollback of "first"`)
	assert.Equal(t, StateCreated, macro.State())

	clean := NewMacro("clean")
	first := &scriptedCommand{baseCommand: baseCommand{description: "first"}}
	clean.Add(first)
	clean.Add(&scriptedCommand{baseCommand: baseCommand{description: "second"}, executeErr: broken})
	err = clean.Execute()
	assert.ErrorIs(t, err, broken)
	assert.NotErrorIs(t, err, stuck)
	assert.Equal(t, StateUndone, first.State())
}
