package model

import "errors"

// Tag errors
var (
	// ErrDuplicateTag indicates that a tag with the same name is already registered.
	ErrDuplicateTag = errors.New("duplicate tag")

	// ErrUnknownTag indicates that no container matches the tag name.
	ErrUnknownTag = errors.New("unknown tag")
)

// Container errors
var (
	// ErrIndexOutOfRange indicates that a row is outside of the container bounds.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrCapacityExceeded indicates that the container already holds its maximum.
	ErrCapacityExceeded = errors.New("container capacity exceeded")

	// ErrMinimumReached indicates that taking an item would go below the
	// container minimum.
	ErrMinimumReached = errors.New("container minimum reached")

	// ErrDuplicateChild indicates that the item already belongs to a parent,
	// or that inserting it would create a cycle.
	ErrDuplicateChild = errors.New("item already has a parent")

	// ErrInvalidChildType indicates that the tag does not accept the item's model type.
	ErrInvalidChildType = errors.New("model type not allowed in tag")

	// ErrInvalidItem indicates a nil or destroyed item.
	ErrInvalidItem = errors.New("invalid item")

	// ErrInvalidMove indicates a move of an item into itself or its own subtree.
	ErrInvalidMove = errors.New("item cannot be moved into its own subtree")
)

// Data errors
var (
	// ErrTypeMismatch indicates that a role already holds a value of another kind.
	ErrTypeMismatch = errors.New("variant type mismatch")

	// ErrComboValue indicates a value that is not one of a combo's values.
	ErrComboValue = errors.New("value is not a combo option")
)

// Pool errors
var (
	// ErrNotRegistered indicates that the item is not in the pool.
	ErrNotRegistered = errors.New("item not registered")

	// ErrUnknownIdentifier indicates that no live item has the identifier.
	ErrUnknownIdentifier = errors.New("unknown identifier")

	// ErrDuplicateKey indicates that the identifier belongs to another item.
	ErrDuplicateKey = errors.New("identifier already in use")
)

// Model errors
var (
	// ErrInvalidPath indicates that a path cannot be resolved or built.
	ErrInvalidPath = errors.New("invalid path")

	// ErrUnknownModelType indicates that no factory is registered for a model type.
	ErrUnknownModelType = errors.New("unknown model type")

	// ErrDuplicateModelType indicates that a factory is already registered.
	ErrDuplicateModelType = errors.New("model type already registered")
)
