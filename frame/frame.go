// Package frame - fixed-size RGBA pixel buffers and the region model shared
// by every filter and effect in the pipeline.
package frame

// DefaultWidth and DefaultHeight are the pipeline's working resolution.
// Buffers are not restricted to this size; it is the size the capture
// adapter downscales to.
const (
	DefaultWidth  = 160
	DefaultHeight = 120
)

// Buffer is a width×height grid of 8-bit RGBA samples stored row-major,
// four bytes per pixel. It is created once per output surface and mutated
// in place by filters; it is never resized.
type Buffer struct {
	Width  int
	Height int
	// Pix holds the samples in R, G, B, A order, length Width*Height*4.
	Pix []uint8
}

// NewBuffer allocates a zeroed buffer with alpha initialized to 255.
func NewBuffer(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b := &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
	for i := 3; i < len(b.Pix); i += 4 {
		b.Pix[i] = 255
	}
	return b
}

// ClampChannel restricts a channel value to [0, 255].
func ClampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// PixOffset returns the index of the first byte of the pixel at (x, y).
// The caller must ensure (x, y) is in bounds.
func (b *Buffer) PixOffset(x, y int) int {
	return (y*b.Width + x) * 4
}

// In reports whether (x, y) addresses a pixel inside the buffer.
func (b *Buffer) In(x, y int) bool {
	return x >= 0 && x < b.Width && y >= 0 && y < b.Height
}

// Get returns the RGBA samples at (x, y). Out-of-bounds reads return zeros.
func (b *Buffer) Get(x, y int) (r, g, bl, a uint8) {
	if !b.In(x, y) {
		return 0, 0, 0, 0
	}
	i := b.PixOffset(x, y)
	p := b.Pix[i : i+4 : i+4]
	return p[0], p[1], p[2], p[3]
}

// Set stores the RGBA samples at (x, y), clamping each channel to [0, 255].
// Out-of-bounds writes are dropped silently; clipping at the edges is the
// caller-facing contract of the whole package, not an error.
func (b *Buffer) Set(x, y, r, g, bl, a int) {
	if !b.In(x, y) {
		return
	}
	i := b.PixOffset(x, y)
	p := b.Pix[i : i+4 : i+4]
	p[0] = ClampChannel(r)
	p[1] = ClampChannel(g)
	p[2] = ClampChannel(bl)
	p[3] = ClampChannel(a)
}

// SetRGB stores the color channels at (x, y) and forces alpha to 255.
func (b *Buffer) SetRGB(x, y, r, g, bl int) {
	b.Set(x, y, r, g, bl, 255)
}

// Fill sets every pixel to the given color.
func (b *Buffer) Fill(r, g, bl, a uint8) {
	for i := 0; i < len(b.Pix); i += 4 {
		p := b.Pix[i : i+4 : i+4]
		p[0] = r
		p[1] = g
		p[2] = bl
		p[3] = a
	}
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{
		Width:  b.Width,
		Height: b.Height,
		Pix:    make([]uint8, len(b.Pix)),
	}
	copy(out.Pix, b.Pix)
	return out
}

// CopyInto copies this buffer's pixels into dst. Both buffers must have the
// same dimensions; mismatched sizes copy nothing and report false.
func (b *Buffer) CopyInto(dst *Buffer) bool {
	if dst == nil || dst.Width != b.Width || dst.Height != b.Height {
		return false
	}
	copy(dst.Pix, b.Pix)
	return true
}

// Equal reports whether two buffers have identical dimensions and bytes.
func (b *Buffer) Equal(o *Buffer) bool {
	if o == nil || b.Width != o.Width || b.Height != o.Height {
		return false
	}
	if len(b.Pix) != len(o.Pix) {
		return false
	}
	for i := range b.Pix {
		if b.Pix[i] != o.Pix[i] {
			return false
		}
	}
	return true
}

// CopyFrom copies srcRegion of src into this buffer with its top-left corner
// at (dstX, dstY). The requested region is intersected with the source
// bounds, and the landing rectangle with the destination bounds; pixels that
// fall outside either are dropped rather than reported as errors. This
// clipping policy is the single boundary-safety mechanism the filters and
// the effect engine rely on.
func (b *Buffer) CopyFrom(src *Buffer, srcRegion Region, dstX, dstY int) {
	if src == nil {
		return
	}
	clipped := srcRegion.Clip(src.Width, src.Height)
	if clipped.Empty() {
		return
	}

	// Shift the destination origin by however much the source clip moved,
	// so the copied pixels keep their relative placement.
	dstX += clipped.X - srcRegion.X
	dstY += clipped.Y - srcRegion.Y

	for row := 0; row < clipped.Height; row++ {
		sy := clipped.Y + row
		dy := dstY + row
		if dy < 0 || dy >= b.Height {
			continue
		}
		// Clip the row span against the destination width.
		sx := clipped.X
		dx := dstX
		n := clipped.Width
		if dx < 0 {
			sx -= dx
			n += dx
			dx = 0
		}
		if dx+n > b.Width {
			n = b.Width - dx
		}
		if n <= 0 {
			continue
		}
		srcOff := src.PixOffset(sx, sy)
		dstOff := b.PixOffset(dx, dy)
		copy(b.Pix[dstOff:dstOff+n*4], src.Pix[srcOff:srcOff+n*4])
	}
}
