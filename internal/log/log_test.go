package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRequestID(t *testing.T) {
	ctx, id := ContextWithRequestID(context.Background())
	require.NotEmpty(t, id)

	entry := WithRequestID(ctx)
	assert.Equal(t, id, entry.Data["request_id"])

	assert.Equal(t, "unknown", WithRequestID(context.Background()).Data["request_id"])
}

func TestFieldsHelpers(t *testing.T) {
	var buf bytes.Buffer
	prevOut, prevLevel, prevFmt := logger.Out, logger.GetLevel(), logger.Formatter
	logger.SetOutput(&buf)
	logger.SetLevel(logrus.DebugLevel)
	logger.SetFormatter(&logrus.TextFormatter{DisableColors: true})
	t.Cleanup(func() {
		logger.SetOutput(prevOut)
		logger.SetLevel(prevLevel)
		logger.SetFormatter(prevFmt)
	})

	Info(Fields{"label": "fist"}, "gesture recognized")
	assert.Contains(t, buf.String(), "gesture recognized")
	assert.Contains(t, buf.String(), "label=fist")

	buf.Reset()
	Debug(nil, "nil fields are fine")
	assert.Contains(t, buf.String(), "nil fields are fine")
}
