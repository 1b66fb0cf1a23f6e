package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	assert.NoError(t, err)
	assert.True(t, JSONOutput)
	assert.NotNil(t, Logger)
}

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	assert.NoError(t, err)
	assert.False(t, JSONOutput)
}

func TestFieldsFromContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, FieldsFromContext(ctx))

	ctx = WithRequestID(ctx, "req-1")
	ctx = WithTraceID(ctx, "trace-1")
	fields := FieldsFromContext(ctx)
	assert.Equal(t, []interface{}{FieldRequestID, "req-1", FieldTraceID, "trace-1"}, fields)
}

func TestComponentLogger(t *testing.T) {
	require := ComponentLogger("poller")
	assert.NotNil(t, require)
}
