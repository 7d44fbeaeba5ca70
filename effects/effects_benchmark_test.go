package effects

import (
	"fmt"
	"testing"

	"github.com/nvr-ai/go-framefx/frame"
)

// Benchmarks run each effect over a centered half-frame region of the
// working resolution, the common case when a detection covers a face.

func benchBuffers() (*frame.Buffer, *frame.Buffer, frame.Region) {
	src := gradientBuffer(frame.DefaultWidth, frame.DefaultHeight)
	dst := src.Clone()
	region := frame.Rect(40, 30, 80, 60)
	return src, dst, region
}

// BenchmarkGrayscaleRegion measures the cheapest per-pixel effect.
func BenchmarkGrayscaleRegion(b *testing.B) {
	engine := NewEngine(Options{})
	src, dst, region := benchBuffers()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = engine.Apply(OpGrayscale, &region, src, dst)
	}
}

// BenchmarkPixelateRegion exercises the block mean and flood fill passes.
func BenchmarkPixelateRegion(b *testing.B) {
	engine := NewEngine(Options{BlockSize: 5})
	src, dst, region := benchBuffers()

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = engine.Apply(OpPixelate, &region, src, dst)
	}
}

// BenchmarkBlurRegion verifies the sliding-window cost stays flat as the
// radius grows; compare the sub-benchmarks.
func BenchmarkBlurRegion(b *testing.B) {
	for _, radius := range []int{2, 10, 30} {
		b.Run(fmt.Sprintf("radius-%d", radius), func(b *testing.B) {
			engine := NewEngine(Options{BlurRadius: radius})
			src, dst, region := benchBuffers()

			b.ResetTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = engine.Apply(OpBlur, &region, src, dst)
			}
		})
	}
}
