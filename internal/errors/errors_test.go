package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gubarz/studymd/internal/store"
)

func TestFromStore(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		typ    ErrorType
		status int
	}{
		{"not found", fmt.Errorf("lookup: %w", store.ErrNotFound), ErrorTypeNotFound, http.StatusNotFound},
		{"invalid", fmt.Errorf("%w: title is required", store.ErrInvalid), ErrorTypeValidation, http.StatusBadRequest},
		{"other", fmt.Errorf("disk on fire"), ErrorTypeInternal, http.StatusInternalServerError},
		{"already api", NewValidationError("bad id"), ErrorTypeValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := FromStore(tt.err, "blog", 7)
			assert.Equal(t, tt.typ, apiErr.Type)
			assert.Equal(t, tt.status, apiErr.Status())
		})
	}
}

func TestNotFoundMessage(t *testing.T) {
	assert.Equal(t, "blog 7 not found", NewNotFoundError("blog", 7).Error())
}
