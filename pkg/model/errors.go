package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when no document matches the requested id.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidDocument is returned when stored data cannot be decoded as a document.
	ErrInvalidDocument = errors.New("invalid document")
)

// Kind classifies a field validation failure.
type Kind string

const (
	KindRequired Kind = "required"
	KindType     Kind = "type"
	KindInvalid  Kind = "invalid"
)

// FieldError describes a single rule violation at a dotted document path.
type FieldError struct {
	Path    string `json:"path"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// ValidationError collects the rule violations for one document in validator order.
type ValidationError struct {
	Model  string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Path + ": " + f.Message
	}
	return fmt.Sprintf("%s validation failed: %s", e.Model, strings.Join(parts, ", "))
}

// RequiredPaths returns the paths of KindRequired failures in order.
func (e *ValidationError) RequiredPaths() []string {
	var paths []string
	for _, f := range e.Fields {
		if f.Kind == KindRequired {
			paths = append(paths, f.Path)
		}
	}
	return paths
}

