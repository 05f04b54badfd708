package composite

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace/noop"

	"imgstrip/internal/layout"
)

func TestRenderPreview_NestsLayoutSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	imgs := []image.Image{filled(4, 2, color.Black)}
	RenderPreview(context.Background(), imgs, Settings{Orientation: layout.Horizontal}, layout.Preview)

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range rec.Ended() {
		spans[s.Name()] = s
	}
	render, ok := spans["composite.render"]
	require.True(t, ok)
	compute, ok := spans["layout.compute"]
	require.True(t, ok)
	assert.Equal(t, render.SpanContext().SpanID(), compute.Parent().SpanID())
	assert.Equal(t, render.SpanContext().TraceID(), compute.SpanContext().TraceID())
}
