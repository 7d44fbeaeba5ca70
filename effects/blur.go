package effects

// Separable box blur over a clipped sub-rectangle, using a sliding window
// per row and per column so the cost per pixel is O(1) regardless of the
// radius. Sampling clamps to the region edge, so pixels outside the region
// never contribute and are never read.

import "github.com/nvr-ai/go-framefx/frame"

// blurRegion low-passes the source region and composites the result into
// the same rectangle of the destination. The two passes run through a
// region-sized scratch buffer; the destination outside the region is
// untouched.
func blurRegion(src, dst *frame.Buffer, r frame.Region, radius int) {
	if radius <= 0 {
		dst.CopyFrom(src, r, r.X, r.Y)
		return
	}

	// Extract the region into a working buffer so both passes can index
	// it densely starting at (0, 0).
	tmp := frame.NewBuffer(r.Width, r.Height)
	tmp.CopyFrom(src, r, 0, 0)

	horiz := frame.NewBuffer(r.Width, r.Height)
	boxBlurHoriz(tmp, horiz, radius)
	out := frame.NewBuffer(r.Width, r.Height)
	boxBlurVert(horiz, out, radius)

	dst.CopyFrom(out, frame.Full(r.Width, r.Height), r.X, r.Y)
}

// clampIndex clamps i into [0, n).
func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// boxBlurHoriz blurs each row with a sliding window: initialize the sum for
// x=0 over [-radius, radius], then step right by subtracting the sample
// leaving on the left and adding the one entering on the right.
func boxBlurHoriz(src, dst *frame.Buffer, radius int) {
	w, h := src.Width, src.Height
	if w == 0 || h == 0 {
		return
	}
	window := uint32(2*radius + 1)
	half := window / 2

	for y := 0; y < h; y++ {
		rowStart := src.PixOffset(0, y)
		load := func(x int) (r, g, b, a uint32) {
			off := rowStart + clampIndex(x, w)*4
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dx := -radius; dx <= radius; dx++ {
			r, g, b, a := load(dx)
			sumR += r
			sumG += g
			sumB += b
			sumA += a
		}

		for x := 0; x < w; x++ {
			off := dst.PixOffset(x, y)
			p := dst.Pix[off : off+4 : off+4]
			p[0] = uint8((sumR + half) / window)
			p[1] = uint8((sumG + half) / window)
			p[2] = uint8((sumB + half) / window)
			p[3] = uint8((sumA + half) / window)

			lr, lg, lb, la := load(x - radius)
			rr, rg, rb, ra := load(x + radius + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}
}

// boxBlurVert mirrors the horizontal pass along columns.
func boxBlurVert(src, dst *frame.Buffer, radius int) {
	w, h := src.Width, src.Height
	if w == 0 || h == 0 {
		return
	}
	window := uint32(2*radius + 1)
	half := window / 2

	for x := 0; x < w; x++ {
		load := func(y int) (r, g, b, a uint32) {
			off := src.PixOffset(x, clampIndex(y, h))
			p := src.Pix[off : off+4 : off+4]
			return uint32(p[0]), uint32(p[1]), uint32(p[2]), uint32(p[3])
		}

		var sumR, sumG, sumB, sumA uint32
		for dy := -radius; dy <= radius; dy++ {
			r, g, b, a := load(dy)
			sumR += r
			sumG += g
			sumB += b
			sumA += a
		}

		for y := 0; y < h; y++ {
			off := dst.PixOffset(x, y)
			p := dst.Pix[off : off+4 : off+4]
			p[0] = uint8((sumR + half) / window)
			p[1] = uint8((sumG + half) / window)
			p[2] = uint8((sumB + half) / window)
			p[3] = uint8((sumA + half) / window)

			lr, lg, lb, la := load(y - radius)
			rr, rg, rb, ra := load(y + radius + 1)
			sumR += rr - lr
			sumG += rg - lg
			sumB += rb - lb
			sumA += ra - la
		}
	}
}
