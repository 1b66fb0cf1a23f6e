package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestMinimalEncoder_EncodeEntry(t *testing.T) {
	enc := newMinimalEncoder()

	buf, err := enc.EncodeEntry(zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Message:    "batch persisted",
		LoggerName: "poller",
	}, []zapcore.Field{zapcore.Int("count", 37)})

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "poller")
	assert.Contains(t, out, "batch persisted")
	assert.Contains(t, out, "count=37")
}

func TestMinimalEncoder_Clone(t *testing.T) {
	enc := newMinimalEncoder()
	clone := enc.Clone()
	assert.NotNil(t, clone)
}
