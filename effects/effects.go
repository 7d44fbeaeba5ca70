// Package effects - on-demand transforms applied only inside a detected
// region of interest.
//
// Effects are inert until a region is supplied: a trigger with no region is
// a no-op, as is a region that clips to nothing against the buffers. All
// four operations read from a caller-chosen source buffer and write only
// inside the clipped region of the destination; pixels outside it are never
// touched.
package effects

import (
	"github.com/nvr-ai/go-framefx/colorspace"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
)

// Op names one of the region effect algorithms.
type Op string

const (
	// OpGrayscale replaces region pixels with the unweighted channel mean.
	OpGrayscale Op = "grayscale"
	// OpRecode re-encodes region pixels as YCbCr components.
	OpRecode Op = "recode"
	// OpPixelate flood-fills fixed-size blocks with their mean color.
	OpPixelate Op = "pixelate"
	// OpBlur applies a radius-parameterized isotropic low-pass blur.
	OpBlur Op = "blur"
)

// Sentinel conditions. Both describe situations the caller normally
// ignores: the triggering action simply does nothing.
var (
	// ErrMissingRegion is reported when an effect is requested with no
	// detection available.
	ErrMissingRegion = errors.New("effects: no region available")
	// ErrInvalidRegion is reported when the region clips to nothing
	// against the source or destination bounds.
	ErrInvalidRegion = errors.New("effects: region entirely outside bounds")
)

// Options configures the engine's fixed algorithm parameters.
type Options struct {
	// BlockSize is the pixelate block edge. Defaults to 5.
	BlockSize int
	// BlurRadius is the blur window radius. Defaults to 10.
	BlurRadius int
}

const (
	defaultBlockSize  = 5
	defaultBlurRadius = 10
)

// Engine applies region effects. It holds no per-frame state; the latest
// region is passed in at trigger time by the caller.
type Engine struct {
	opts Options
}

// NewEngine returns an engine with defaults filled in for zero options.
func NewEngine(opts Options) *Engine {
	if opts.BlockSize <= 0 {
		opts.BlockSize = defaultBlockSize
	}
	if opts.BlurRadius <= 0 {
		opts.BlurRadius = defaultBlurRadius
	}
	return &Engine{opts: opts}
}

// Apply runs op over the clipped intersection of region with both buffers,
// reading from src and writing into dst. src and dst may be the same buffer
// or different ones; the choice of source is explicitly the caller's.
func (e *Engine) Apply(op Op, region *frame.Region, src, dst *frame.Buffer) error {
	if region == nil {
		return ErrMissingRegion
	}
	if src == nil || dst == nil {
		return errors.New("effects: nil buffer")
	}
	clipped := region.Clip(src.Width, src.Height).Clip(dst.Width, dst.Height)
	if clipped.Empty() {
		return ErrInvalidRegion
	}

	switch op {
	case OpGrayscale:
		grayscaleRegion(src, dst, clipped)
	case OpRecode:
		recodeRegion(src, dst, clipped)
	case OpPixelate:
		pixelateRegion(src, dst, clipped, e.opts.BlockSize)
	case OpBlur:
		blurRegion(src, dst, clipped, e.opts.BlurRadius)
	default:
		return errors.Errorf("effects: unknown op %q", op)
	}
	return nil
}

// grayscaleRegion writes the unweighted (R+G+B)/3 mean of each source pixel
// into the destination. Intentionally not luma weighted.
func grayscaleRegion(src, dst *frame.Buffer, r frame.Region) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			pr, pg, pb, pa := src.Get(x, y)
			mean := (int(pr) + int(pg) + int(pb)) / 3
			dst.Set(x, y, mean, mean, mean, int(pa))
		}
	}
}

// recodeRegion applies the RGB to YCbCr transform to just the region.
func recodeRegion(src, dst *frame.Buffer, r frame.Region) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			pr, pg, pb, pa := src.Get(x, y)
			yy, cb, cr := colorspace.RGBToYCbCr(pr, pg, pb)
			dst.Set(x, y, int(yy), int(cb), int(cr), int(pa))
		}
	}
}

// pixelateRegion partitions the region into blockSize-square blocks anchored
// at the region origin. Each block is flood-filled with the arithmetic mean
// of its actually-present pixels; trailing blocks at the right/bottom edge
// are smaller and average only what they cover. No wraparound, no padding.
func pixelateRegion(src, dst *frame.Buffer, r frame.Region, blockSize int) {
	for by := r.Y; by < r.Y+r.Height; by += blockSize {
		bh := min(blockSize, r.Y+r.Height-by)
		for bx := r.X; bx < r.X+r.Width; bx += blockSize {
			bw := min(blockSize, r.X+r.Width-bx)

			var sumR, sumG, sumB int
			for y := by; y < by+bh; y++ {
				for x := bx; x < bx+bw; x++ {
					pr, pg, pb, _ := src.Get(x, y)
					sumR += int(pr)
					sumG += int(pg)
					sumB += int(pb)
				}
			}
			n := bw * bh
			meanR := sumR / n
			meanG := sumG / n
			meanB := sumB / n

			for y := by; y < by+bh; y++ {
				for x := bx; x < bx+bw; x++ {
					_, _, _, pa := src.Get(x, y)
					dst.Set(x, y, meanR, meanG, meanB, int(pa))
				}
			}
		}
	}
}
