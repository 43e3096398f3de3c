package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func bufferLogger(buf *bytes.Buffer) *zap.Logger {
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(buf), zapcore.DebugLevel))
}

func spanContext(t *testing.T) context.Context {
	t.Helper()
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x0a, 0x1b, 0x2c, 0x3d, 0x4e, 0x5f, 0x60, 0x71, 0x82, 0x93, 0xa4, 0xb5, 0xc6, 0xd7, 0xe8, 0xf9},
		SpanID:     trace.SpanID{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08},
		TraceFlags: trace.FlagsSampled,
	})
	return trace.ContextWithSpanContext(context.Background(), sc)
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	log := zap.NewExample()
	assert.Same(t, log, FromContext(WithContext(context.Background(), log)))
}

func TestContextIdentifiers(t *testing.T) {
	ctx := WithOrderID(WithRequestID(context.Background(), "req-1"), "ord-42")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "ord-42", GetOrderID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Empty(t, GetOrderID(context.Background()))
}

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))
	assert.Equal(t, "0a1b2c3d4e5f60718293a4b5c6d7e8f9", GetTraceID(spanContext(t)))
}

func TestContextLogger_EnrichesEntries(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithContext(spanContext(t), bufferLogger(&buf))
	ctx = WithOrderID(WithRequestID(ctx, "req-9"), "ord-7")

	L(ctx).With(zap.String("format", "pdf")).Info("sheet rendered")

	out := buf.String()
	assert.Contains(t, out, `"msg":"sheet rendered"`)
	assert.Contains(t, out, `"request_id":"req-9"`)
	assert.Contains(t, out, `"order_id":"ord-7"`)
	assert.Contains(t, out, `"format":"pdf"`)
	assert.Contains(t, out, `"trace_id":"0a1b2c3d4e5f60718293a4b5c6d7e8f9"`)
	assert.Contains(t, out, `"span_id":"0102030405060708"`)
}

func TestContextLogger_OmitsMissingFields(t *testing.T) {
	var buf bytes.Buffer
	WithLogger(context.Background(), bufferLogger(&buf)).Warn("plain")

	out := buf.String()
	assert.Contains(t, out, `"msg":"plain"`)
	assert.NotContains(t, out, "request_id")
	assert.NotContains(t, out, "trace_id")
}

func TestContextLogger_NilLogger(t *testing.T) {
	cl := WithLogger(context.Background(), nil)
	assert.NotPanics(t, func() {
		cl.Debug("x")
		cl.With(zap.Int("n", 1)).Error("y")
		_ = cl.Zap()
	})
}
