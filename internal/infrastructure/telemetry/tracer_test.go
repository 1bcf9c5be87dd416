package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap/zaptest"
)

func TestNewTracerProvider_Disabled(t *testing.T) {
	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	tp, err := NewTracerProvider(ctx, Config{
		Enabled:           false,
		ServiceName:       "billing-test",
		CollectorEndpoint: "localhost:14317",
		SamplingRatio:     1.0,
	}, logger)
	require.NoError(t, err)
	require.NotNil(t, tp)

	assert.False(t, tp.IsEnabled())

	// Disabled provider still hands out usable (no-op) tracers
	tracer := tp.Tracer("billing")
	require.NotNil(t, tracer)
	_, span := tracer.Start(ctx, "check-usage")
	assert.False(t, span.IsRecording())
	span.End()

	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSampler(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  sdktrace.Sampler
	}{
		{"always", 1.0, sdktrace.AlwaysSample()},
		{"never", 0.0, sdktrace.NeverSample()},
		{"ratio", 0.25, sdktrace.TraceIDRatioBased(0.25)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want.Description(), sampler(tt.ratio).Description())
		})
	}
}

func TestServiceResource(t *testing.T) {
	res, err := serviceResource("backoffice-backend")
	require.NoError(t, err)

	found := false
	for _, attr := range res.Attributes() {
		if string(attr.Key) == "service.name" {
			found = true
			assert.Equal(t, "backoffice-backend", attr.Value.AsString())
		}
	}
	assert.True(t, found, "service.name attribute should be set")
}
