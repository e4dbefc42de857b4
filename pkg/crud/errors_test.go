package crud_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JaimeStill/crudify/pkg/crud"
)

func TestKind_Status(t *testing.T) {
	tests := []struct {
		kind crud.Kind
		want int
		name string
	}{
		{crud.NotFound, http.StatusNotFound, "not_found"},
		{crud.ValidationFailed, http.StatusBadRequest, "validation_failed"},
		{crud.RequiredFieldMissing, http.StatusBadRequest, "required_field_missing"},
		{crud.MalformedQueryParameter, http.StatusBadRequest, "malformed_query_parameter"},
		{crud.UnexpectedStoreFailure, http.StatusInternalServerError, "unexpected_store_failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.kind.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
			if got := tt.kind.String(); got != tt.name {
				t.Errorf("String() = %q, want %q", got, tt.name)
			}
		})
	}
}

func TestError_Messages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name       string
		err        *crud.Error
		want       string
		statusBody bool
	}{
		{
			name:       "not found",
			err:        &crud.Error{Kind: crud.NotFound, ID: "abc"},
			want:       "ID: abc not found",
			statusBody: true,
		},
		{
			name:       "required fields",
			err:        &crud.Error{Kind: crud.RequiredFieldMissing, Fields: []string{"name", "email"}},
			want:       "Fields: [name, email] are required and cannot be empty",
			statusBody: true,
		},
		{
			name: "wrapped cause",
			err:  &crud.Error{Kind: crud.UnexpectedStoreFailure, Err: cause},
			want: "boom",
		},
		{
			name: "bare kind",
			err:  &crud.Error{Kind: crud.MalformedQueryParameter},
			want: "malformed_query_parameter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := tt.err.StatusBody(); got != tt.statusBody {
				t.Errorf("StatusBody() = %v, want %v", got, tt.statusBody)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("request: %w", &crud.Error{Kind: crud.UnexpectedStoreFailure, Err: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is() should find the wrapped cause")
	}

	var ce *crud.Error
	if !errors.As(err, &ce) || ce.Kind != crud.UnexpectedStoreFailure {
		t.Errorf("errors.As() = %v", ce)
	}
}
