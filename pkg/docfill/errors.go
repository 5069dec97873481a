package docfill

import (
	"errors"
	"fmt"
)

// ErrUnresolved marks evaluation failures caused by a name that is simply
// absent from the data mapping. Handlers treat it as recoverable: the
// replace handler leaves the token visible, the image and table handlers
// strip the token and skip the insertion.
var ErrUnresolved = errors.New("unresolved reference")

// UnresolvedReferenceError reports an expression whose root identifier is
// not bound in the data mapping.
type UnresolvedReferenceError struct {
	Name string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference: %s", e.Name)
}

func (e *UnresolvedReferenceError) Unwrap() error {
	return ErrUnresolved
}

// IsUnresolved reports whether err stems from a missing data binding.
func IsUnresolved(err error) bool {
	return errors.Is(err, ErrUnresolved)
}

// EvaluationError reports a fatal expression failure: malformed syntax, a
// missing nested field, a bad index, or a type mismatch. Unlike unresolved
// references these abort the whole compilation.
type EvaluationError struct {
	Expression string
	Cause      error
}

func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to evaluate expression '%s': %v", e.Expression, e.Cause)
	}
	return fmt.Sprintf("failed to evaluate expression '%s'", e.Expression)
}

func (e *EvaluationError) Unwrap() error {
	return e.Cause
}

// ImageError reports a failure while embedding an image referenced by an
// image token.
type ImageError struct {
	Path  string
	Cause error
}

func (e *ImageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to embed image '%s': %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("failed to embed image '%s'", e.Path)
}

func (e *ImageError) Unwrap() error {
	return e.Cause
}

// DocumentError reports a failure in a document-level operation such as
// loading, parsing, or writing a part.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("document operation '%s' failed for '%s': %v", e.Operation, e.Path, e.Cause)
	}
	return fmt.Sprintf("document operation '%s' failed: %v", e.Operation, e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// IsEvaluationError checks if an error is an EvaluationError.
func IsEvaluationError(err error) bool {
	var evalErr *EvaluationError
	return errors.As(err, &evalErr)
}

// IsImageError checks if an error is an ImageError.
func IsImageError(err error) bool {
	var imgErr *ImageError
	return errors.As(err, &imgErr)
}

// IsDocumentError checks if an error is a DocumentError.
func IsDocumentError(err error) bool {
	var docErr *DocumentError
	return errors.As(err, &docErr)
}
