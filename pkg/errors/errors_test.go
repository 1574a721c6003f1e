package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorMessage(t *testing.T) {
	err := NewIOError("persist", "failed to write report")

	assert.Equal(t, "persist: io error: failed to write report", err.Error())
	assert.True(t, IsIOError(err))
	assert.False(t, IsConfigError(err))
	assert.False(t, IsSchemaError(err))
}

func TestPipelineErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isConfig bool
		isIO     bool
		isSchema bool
	}{
		{"config", NewConfigError("config", "missing data_paths.raw"), true, false, false},
		{"io", NewIOError("load", "no such file"), false, true, false},
		{"schema", NewSchemaError("load", "missing column Order_ID"), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isConfig, IsConfigError(tt.err))
			assert.Equal(t, tt.isIO, IsIOError(tt.err))
			assert.Equal(t, tt.isSchema, IsSchemaError(tt.err))
		})
	}
}

func TestPipelineErrorWrapping(t *testing.T) {
	err := NewSchemaError("load", "bad quantity")
	wrapped := fmt.Errorf("run failed: %w", err)

	// Kind checks survive further wrapping
	assert.True(t, IsSchemaError(wrapped))
}

func TestWithContext(t *testing.T) {
	err := NewSchemaError("load", "unparsable value").
		WithContext("row", 42).
		WithContext("column", "Quantity")

	assert.Equal(t, 42, err.Context["row"])
	assert.Equal(t, "Quantity", err.Context["column"])
}

func TestWithCause(t *testing.T) {
	cause := fmt.Errorf("open data/raw: no such file or directory")
	err := NewIOError("load", "cannot open source file").WithCause(cause)

	assert.Equal(t, cause.Error(), err.Context["cause"])
}
