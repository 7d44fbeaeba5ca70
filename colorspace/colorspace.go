// Package colorspace - per-pixel RGB/HSV/YCbCr conversion math.
//
// The HSV encoding here is deliberately lossy: hue, saturation and value are
// re-quantized into the three 8-bit color channels (h*255/360, s*255, v*255)
// so a converted buffer can flow through the same RGBA plumbing as every
// other surface. HSVToRGB is the exact inverse of that encoding; consumers
// that want a round trip must use the pair together.
package colorspace

import "github.com/chewxy/math32"

// RGBToHSV converts an RGB pixel to the packed 8-bit HSV encoding.
// Hue is computed with the standard six-sector formula and scaled from
// degrees into [0, 255].
func RGBToHSV(r, g, b uint8) (hOut, sOut, vOut uint8) {
	rf := float32(r) / 255
	gf := float32(g) / 255
	bf := float32(b) / 255

	maxC := math32.Max(rf, math32.Max(gf, bf))
	minC := math32.Min(rf, math32.Min(gf, bf))
	diff := maxC - minC

	var h float32
	switch {
	case diff == 0:
		h = 0
	case maxC == rf:
		h = 60 * math32.Mod((gf-bf)/diff, 6)
		if h < 0 {
			h += 360
		}
	case maxC == gf:
		h = 60 * ((bf-rf)/diff + 2)
	default: // blue is max
		h = 60 * ((rf-gf)/diff + 4)
	}

	var s float32
	if maxC > 0 {
		s = diff / maxC
	}
	v := maxC

	// Round-to-nearest keeps the worst per-channel round-trip error at 3
	// (the packed hue step is ~1.4 degrees); truncation would double it.
	return uint8(math32.Round(h * 255 / 360)),
		uint8(math32.Round(s * 255)),
		uint8(math32.Round(v * 255))
}

// HSVToRGB decodes a packed 8-bit HSV pixel back to RGB. This is the exact
// inverse of RGBToHSV's encoding (chroma/x/m selection by 60-degree sector).
func HSVToRGB(h8, s8, v8 uint8) (rOut, gOut, bOut uint8) {
	h := float32(h8) / 255 * 360
	s := float32(s8) / 255
	v := float32(v8) / 255

	c := v * s
	x := c * (1 - math32.Abs(math32.Mod(h/60, 2)-1))
	m := v - c

	var rf, gf, bf float32
	switch {
	case h < 60:
		rf, gf, bf = c, x, 0
	case h < 120:
		rf, gf, bf = x, c, 0
	case h < 180:
		rf, gf, bf = 0, c, x
	case h < 240:
		rf, gf, bf = 0, x, c
	case h < 300:
		rf, gf, bf = x, 0, c
	default:
		rf, gf, bf = c, 0, x
	}

	return uint8(math32.Round((rf + m) * 255)),
		uint8(math32.Round((gf + m) * 255)),
		uint8(math32.Round((bf + m) * 255))
}

// RGBToYCbCr converts an RGB pixel to luma and chroma using the BT.601
// coefficients. No inverse is provided; downstream consumers only threshold
// the Y component.
func RGBToYCbCr(r, g, b uint8) (yOut, cbOut, crOut uint8) {
	rf := float32(r)
	gf := float32(g)
	bf := float32(b)

	y := 0.299*rf + 0.587*gf + 0.114*bf
	cb := 128 - 0.168736*rf - 0.331264*gf + 0.5*bf
	cr := 128 + 0.5*rf - 0.418688*gf - 0.081312*bf

	return clamp8(y), clamp8(cb), clamp8(cr)
}

func clamp8(v float32) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
