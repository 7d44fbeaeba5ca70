package filters

import (
	"github.com/nvr-ai/go-framefx/colorspace"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
)

// The three threshold filters share one shape: read the live threshold t,
// compare a designated component c against it with strict >, and binarize.
// A component exactly equal to the threshold takes the below branch; that
// comparison direction is load-bearing for downstream consumers and must
// not drift to >=. Alpha is forced to 255 on every output pixel.

// ChannelThreshold binarizes one raw RGB channel: above the threshold the
// pixel becomes full intensity in that channel alone, otherwise black.
type ChannelThreshold struct {
	Channel Channel
}

func (f ChannelThreshold) Name() string { return "threshold-" + f.Channel.String() }

func (f ChannelThreshold) Apply(buf *frame.Buffer, p Params) error {
	if buf == nil {
		return errNilBuffer
	}
	ch := int(f.Channel)
	if ch < 0 || ch > 2 {
		return errors.Errorf("filters: invalid channel %d", ch)
	}
	t := f.threshold(p)
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		c := px[ch]
		px[0] = 0
		px[1] = 0
		px[2] = 0
		if c > t {
			px[ch] = 255
		}
		px[3] = 255
	}
	return nil
}

func (f ChannelThreshold) threshold(p Params) uint8 {
	switch f.Channel {
	case Red:
		return p.RedThreshold
	case Green:
		return p.GreenThreshold
	default:
		return p.BlueThreshold
	}
}

// HSVThreshold consumes a buffer already encoded by the HSV filter. Pixels
// whose decoded value component exceeds the threshold are recolored with the
// decoded RGB; the rest go black.
type HSVThreshold struct{}

func (HSVThreshold) Name() string { return "threshold-hsv" }

func (HSVThreshold) Apply(buf *frame.Buffer, p Params) error {
	if buf == nil {
		return errNilBuffer
	}
	t := p.ValueThreshold
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		// The HSV filter stores v*255 in the blue channel.
		if px[2] > t {
			px[0], px[1], px[2] = colorspace.HSVToRGB(px[0], px[1], px[2])
		} else {
			px[0] = 0
			px[1] = 0
			px[2] = 0
		}
		px[3] = 255
	}
	return nil
}

// LumaThreshold consumes a buffer already encoded by the YCbCr filter.
// Pixels whose luma (stored in the red channel) exceeds the threshold become
// solid white, the rest black.
type LumaThreshold struct{}

func (LumaThreshold) Name() string { return "threshold-luma" }

func (LumaThreshold) Apply(buf *frame.Buffer, p Params) error {
	if buf == nil {
		return errNilBuffer
	}
	t := p.LumaThreshold
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		var v uint8
		if px[0] > t {
			v = 255
		}
		px[0] = v
		px[1] = v
		px[2] = v
		px[3] = 255
	}
	return nil
}
