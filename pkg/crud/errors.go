package crud

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JaimeStill/crudify/pkg/model"
	"github.com/JaimeStill/crudify/pkg/query"
)

// ErrInvalidBody is returned when a request body is not a JSON object or array of objects.
var ErrInvalidBody = errors.New("Invalid request body")

// Kind classifies every failure a generated handler can report.
type Kind int

const (
	NotFound Kind = iota
	ValidationFailed
	RequiredFieldMissing
	MalformedQueryParameter
	UnexpectedStoreFailure
)

func (k Kind) String() string {
	switch k {
	case NotFound:
		return "not_found"
	case ValidationFailed:
		return "validation_failed"
	case RequiredFieldMissing:
		return "required_field_missing"
	case MalformedQueryParameter:
		return "malformed_query_parameter"
	default:
		return "unexpected_store_failure"
	}
}

// Status returns the HTTP status code reported for the kind.
func (k Kind) Status() int {
	switch k {
	case NotFound:
		return http.StatusNotFound
	case ValidationFailed, RequiredFieldMissing, MalformedQueryParameter:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified handler failure.
// ID is set for NotFound and Fields for RequiredFieldMissing.
type Error struct {
	Kind   Kind
	ID     string
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case NotFound:
		return fmt.Sprintf("ID: %s not found", e.ID)
	case RequiredFieldMissing:
		return fmt.Sprintf("Fields: [%s] are required and cannot be empty", strings.Join(e.Fields, ", "))
	}
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusBody reports whether the error is written as a {status, error, message} body
// rather than an {error} body.
func (e *Error) StatusBody() bool {
	return e.Kind == NotFound || e.Kind == RequiredFieldMissing
}

func notFound(id string, err error) *Error {
	return &Error{Kind: NotFound, ID: id, Err: err}
}

func invalid(err error) *Error {
	return &Error{Kind: ValidationFailed, Err: err}
}

func malformed(err error) *Error {
	return &Error{Kind: MalformedQueryParameter, Err: err}
}

// classify maps a model error for the document id onto a Kind.
func classify(id string, err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}

	if errors.Is(err, model.ErrNotFound) {
		return notFound(id, err)
	}
	if errors.Is(err, query.ErrInvalidField) {
		return malformed(err)
	}

	var ve *model.ValidationError
	if errors.As(err, &ve) {
		return invalid(err)
	}

	return &Error{Kind: UnexpectedStoreFailure, Err: err}
}

// classifyUpdate treats any missing required field as the failure to report.
// Validation failures without one are unexpected, matching other store errors.
func classifyUpdate(id string, err error) *Error {
	var ve *model.ValidationError
	if errors.As(err, &ve) {
		if paths := ve.RequiredPaths(); len(paths) > 0 {
			return &Error{Kind: RequiredFieldMissing, Fields: paths, Err: err}
		}
		return &Error{Kind: UnexpectedStoreFailure, Err: err}
	}
	return classify(id, err)
}
