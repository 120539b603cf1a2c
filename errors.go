package graft

import (
	"errors"
	"fmt"
	"strings"
)

// Standard sentinel errors for common operations.
var (
	// ErrLoad is returned when model discovery fails entirely and no
	// definitions could be assembled.
	ErrLoad = errors.New("graft: model load failed")

	// ErrDuplicateSource is returned when a source name is registered twice.
	ErrDuplicateSource = errors.New("graft: duplicate source")
)

// LoadError represents a total failure of model discovery. It is fatal: a
// run cannot proceed without a model.
type LoadError struct {
	reason string
}

// Error returns the error string.
func (e *LoadError) Error() string {
	if e.reason != "" {
		return fmt.Sprintf("graft: model load failed: %s", e.reason)
	}
	return "graft: model load failed"
}

// Is reports whether the target error matches LoadError.
// This allows errors.Is(loadErr, ErrLoad) to return true.
func (e *LoadError) Is(err error) bool {
	return err == ErrLoad
}

// NewLoadError returns a new LoadError with the given reason.
func NewLoadError(reason string) *LoadError {
	return &LoadError{reason: reason}
}

// IsLoadError returns true if the error is a LoadError.
func IsLoadError(err error) bool {
	if err == nil {
		return false
	}
	var e *LoadError
	return errors.As(err, &e) || errors.Is(err, ErrLoad)
}

// SchemaConflictError reports that the same predicate name is used with
// incompatible value types across forms. It is warning-grade: translation
// resolves the conflict by preferring the reference (non-scalar)
// interpretation and continues.
type SchemaConflictError struct {
	// Predicate is the conflicting predicate name.
	Predicate string
	// Forms names the forms that disagree, sorted.
	Forms []string
	// Kept is the value type the resolution kept.
	Kept string
	// Dropped is the value type the resolution discarded.
	Dropped string
}

// Error returns the error string.
func (e *SchemaConflictError) Error() string {
	return fmt.Sprintf("graft: schema conflict on predicate %q between forms %s: kept %q, dropped %q",
		e.Predicate, strings.Join(e.Forms, ", "), e.Kept, e.Dropped)
}

// IsSchemaConflict returns true if the error is a SchemaConflictError.
func IsSchemaConflict(err error) bool {
	if err == nil {
		return false
	}
	var e *SchemaConflictError
	return errors.As(err, &e)
}

// ReferenceResolutionError reports that a reference property's value could
// not be resolved to a valid identity of its target form. It is per-property:
// the property is omitted with an audit record and the record's translation
// continues.
type ReferenceResolutionError struct {
	// Form and Prop locate the failing property.
	Form string
	Prop string
	// Target is the expected target form, empty for typed-union properties.
	Target string
	// Value is the unresolvable value.
	Value any
}

// Error returns the error string.
func (e *ReferenceResolutionError) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("graft: %s.%s: value %v does not resolve to a %s identity", e.Form, e.Prop, e.Value, e.Target)
	}
	return fmt.Sprintf("graft: %s.%s: value %v does not resolve to a node identity", e.Form, e.Prop, e.Value)
}

// IsReferenceResolution returns true if the error is a ReferenceResolutionError.
func IsReferenceResolution(err error) bool {
	if err == nil {
		return false
	}
	var e *ReferenceResolutionError
	return errors.As(err, &e)
}

// UnknownUnionTargetError reports that a typed-union value carried a form tag
// that is not registered in the model. It is per-property and non-fatal.
type UnknownUnionTargetError struct {
	// Form and Prop locate the failing property.
	Form string
	Prop string
	// Tag is the unregistered form tag read from the value.
	Tag string
}

// Error returns the error string.
func (e *UnknownUnionTargetError) Error() string {
	return fmt.Sprintf("graft: %s.%s: unknown union target form %q", e.Form, e.Prop, e.Tag)
}

// IsUnknownUnionTarget returns true if the error is an UnknownUnionTargetError.
func IsUnknownUnionTarget(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownUnionTargetError
	return errors.As(err, &e)
}

// UnknownScalarTypeError reports a source scalar type missing from the type
// map. It is warning-grade: the property is translated with the generic
// string value type, never dropped.
type UnknownScalarTypeError struct {
	// Form and Prop locate the property.
	Form string
	Prop string
	// Type is the unrecognized source type name.
	Type string
}

// Error returns the error string.
func (e *UnknownScalarTypeError) Error() string {
	return fmt.Sprintf("graft: %s.%s: unknown source type %q, defaulting to string", e.Form, e.Prop, e.Type)
}

// IsUnknownScalarType returns true if the error is an UnknownScalarTypeError.
func IsUnknownScalarType(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownScalarTypeError
	return errors.As(err, &e)
}

// InvalidScalarValueError reports a scalar property value that cannot be
// formatted as a literal of its declared type. It is per-property: the
// property is omitted with an audit record and the record's translation
// continues.
type InvalidScalarValueError struct {
	// Form and Prop locate the failing property.
	Form string
	Prop string
	// Type is the declared source type name.
	Type string
	// Value is the unrepresentable value.
	Value any
}

// Error returns the error string.
func (e *InvalidScalarValueError) Error() string {
	return fmt.Sprintf("graft: %s.%s: value %v is not a valid %q literal", e.Form, e.Prop, e.Value, e.Type)
}

// IsInvalidScalarValue returns true if the error is an InvalidScalarValueError.
func IsInvalidScalarValue(err error) bool {
	if err == nil {
		return false
	}
	var e *InvalidScalarValueError
	return errors.As(err, &e)
}

// UnknownPropError reports a realized property that is not declared by the
// record's form. The property is omitted with an audit record.
type UnknownPropError struct {
	// Form and Prop locate the property.
	Form string
	Prop string
}

// Error returns the error string.
func (e *UnknownPropError) Error() string {
	return fmt.Sprintf("graft: %s.%s: property not declared by form", e.Form, e.Prop)
}

// IsUnknownProp returns true if the error is an UnknownPropError.
func IsUnknownProp(err error) bool {
	if err == nil {
		return false
	}
	var e *UnknownPropError
	return errors.As(err, &e)
}
