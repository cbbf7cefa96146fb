// Package modelgen compiles declarative entity descriptions into SQLAlchemy
// declarative model classes.
//
// The packages under compiler/ hold the loader and the code generator,
// dialect/ holds live database introspection, and cmd/modelgen is the CLI.
package modelgen

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrInvalidName is returned when an entity name cannot produce a table name.
	ErrInvalidName = errors.New("modelgen: invalid model name")

	// ErrMissingField is returned when a column, foreign key or relationship
	// definition lacks a required key.
	ErrMissingField = errors.New("modelgen: invalid model definition")

	// ErrFileNotFound is returned when a definition document does not exist.
	ErrFileNotFound = errors.New("modelgen: file not found")

	// ErrUnsupportedFormat is returned for definition documents whose
	// extension has no registered decoder.
	ErrUnsupportedFormat = errors.New("modelgen: unsupported document format")

	// ErrDirectoryCreation is returned when the destination directory cannot be created.
	ErrDirectoryCreation = errors.New("modelgen: directory creation failed")
)

// InvalidNameError represents an entity whose name is empty.
type InvalidNameError struct {
	name string
}

// Error returns the error string.
func (e *InvalidNameError) Error() string {
	return fmt.Sprintf("modelgen: invalid model name %q", e.name)
}

// Is reports whether the target error matches InvalidNameError.
func (e *InvalidNameError) Is(err error) bool {
	return err == ErrInvalidName
}

// Name returns the rejected name.
func (e *InvalidNameError) Name() string {
	return e.name
}

// NewInvalidNameError returns a new InvalidNameError for the given name.
func NewInvalidNameError(name string) *InvalidNameError {
	return &InvalidNameError{name: name}
}

// IsInvalidName returns true if the error is an InvalidNameError.
func IsInvalidName(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidNameError
	return errors.As(err, &e) || errors.Is(err, ErrInvalidName)
}

// MissingFieldError represents a definition entry that lacks a required key.
type MissingFieldError struct {
	Entity string // entity name
	Kind   string // "column", "foreign key" or "relationship"
	Index  int    // position of the entry in its list
	Field  string // missing key
}

// Error returns the error string.
func (e *MissingFieldError) Error() string {
	var b strings.Builder
	b.WriteString("modelgen: invalid model definition")
	if e.Entity != "" {
		b.WriteString(" for ")
		b.WriteString(e.Entity)
	}
	fmt.Fprintf(&b, ": %s #%d must define %q", e.Kind, e.Index+1, e.Field)
	return b.String()
}

// Is reports whether the target error matches MissingFieldError.
func (e *MissingFieldError) Is(err error) bool {
	return err == ErrMissingField
}

// NewMissingFieldError returns a new MissingFieldError.
func NewMissingFieldError(entity, kind string, index int, field string) *MissingFieldError {
	return &MissingFieldError{Entity: entity, Kind: kind, Index: index, Field: field}
}

// IsMissingField returns true if the error is a MissingFieldError.
func IsMissingField(err error) bool {
	if err == nil {
		return false
	}
	var e *MissingFieldError
	return errors.As(err, &e) || errors.Is(err, ErrMissingField)
}

// FileError represents a failure to locate or decode a definition document.
type FileError struct {
	Path string
	wrap error
}

// Error returns the error string.
func (e *FileError) Error() string {
	return fmt.Sprintf("modelgen: %s: %v", e.Path, e.wrap)
}

// Unwrap implements the errors.Wrapper interface.
func (e *FileError) Unwrap() error {
	return e.wrap
}

// NewFileError wraps err with the document path.
func NewFileError(path string, err error) *FileError {
	return &FileError{Path: path, wrap: err}
}

// IsFileNotFound returns true if the error reports a missing document.
func IsFileNotFound(err error) bool {
	return err != nil && errors.Is(err, ErrFileNotFound)
}

// DirectoryError represents a failure to create the destination directory.
type DirectoryError struct {
	Dir  string
	wrap error
}

// Error returns the error string.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("modelgen: could not create directory %s: %v", e.Dir, e.wrap)
}

// Unwrap implements the errors.Wrapper interface.
func (e *DirectoryError) Unwrap() error {
	return e.wrap
}

// Is reports whether the target error matches DirectoryError.
func (e *DirectoryError) Is(err error) bool {
	return err == ErrDirectoryCreation
}

// NewDirectoryError returns a new DirectoryError.
func NewDirectoryError(dir string, err error) *DirectoryError {
	return &DirectoryError{Dir: dir, wrap: err}
}

// IsDirectoryCreation returns true if the error is a DirectoryError.
func IsDirectoryCreation(err error) bool {
	if err == nil {
		return false
	}
	var e *DirectoryError
	return errors.As(err, &e) || errors.Is(err, ErrDirectoryCreation)
}

// AggregateError represents multiple errors that occurred during a batch operation.
type AggregateError struct {
	Errors []error
}

// Error returns the error string.
func (e *AggregateError) Error() string {
	if len(e.Errors) == 0 {
		return "modelgen: no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "modelgen: %d errors occurred:", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&b, "\n  [%d] %s", i+1, err.Error())
	}
	return b.String()
}

// Unwrap returns the list of errors for errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error {
	return e.Errors
}

// NewAggregateError returns nil when no errors are given, the error itself
// when a single one is given, and an AggregateError otherwise.
func NewAggregateError(errs ...error) error {
	var filtered []error
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	switch len(filtered) {
	case 0:
		return nil
	case 1:
		return filtered[0]
	default:
		return &AggregateError{Errors: filtered}
	}
}
