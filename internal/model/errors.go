package model

import (
	"errors"
	"fmt"
)

var (
	// ErrPathNotFound is returned when a path no longer resolves against the tree.
	ErrPathNotFound = errors.New("path not found")
	// ErrNoSelection is returned by batch operations on an empty selection.
	ErrNoSelection = errors.New("no items selected")
	// ErrNoHistory is returned when there is no previous or next location.
	ErrNoHistory = errors.New("no history")
	// ErrEmptyInput is returned when required input is blank.
	ErrEmptyInput = errors.New("empty input")
	// ErrItemNotFound is returned when an index does not address an item.
	ErrItemNotFound = errors.New("item not found")
	// ErrCancelled is returned when the user declines a destructive operation.
	ErrCancelled = errors.New("cancelled")
	// ErrInvalidDestination is returned when a move targets the folder it starts from.
	ErrInvalidDestination = errors.New("invalid destination")
	// ErrNoLinks is returned when there are no valid links to open.
	ErrNoLinks = errors.New("no links found")
)

// ValidationError reports rejected user input for a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// CycleError reports an attempt to move a folder into itself or one of its subfolders.
type CycleError struct {
	FolderName string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cannot move folder %q into itself or its subfolders", e.FolderName)
}

// PersistenceError wraps a failed load or save. The in-memory tree is left as it is.
type PersistenceError struct {
	Op     string // "load" or "save"
	Source string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q failed: %v", e.Op, e.Source, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
