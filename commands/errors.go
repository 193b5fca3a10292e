package commands

import "errors"

var (
	// ErrCommandState indicates an execute of an executed command or an
	// undo of a command that is not executed.
	ErrCommandState = errors.New("command in wrong state")

	// ErrMacroOpen indicates undo or redo while a macro is being recorded.
	ErrMacroOpen = errors.New("macro recording in progress")

	// ErrNoMacro indicates EndMacro without a matching BeginMacro.
	ErrNoMacro = errors.New("no macro recording in progress")

	// ErrNothingToUndo indicates an undo at the bottom of the stack.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates a redo at the top of the stack.
	ErrNothingToRedo = errors.New("nothing to redo")
)
