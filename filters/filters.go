// Package filters - in-place pixel transforms sharing one flat contract.
//
// Every filter is a unary transform over a frame.Buffer. Parameterized
// filters (thresholds, brightness) read their live values from the Params
// struct passed to each invocation instead of capturing them at
// construction, so a slider change is visible on the very next cycle.
package filters

import (
	"github.com/nvr-ai/go-framefx/colorspace"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
)

// Channel identifies one of the RGB color channels.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
)

// String returns the channel name for logs and stage naming.
func (c Channel) String() string {
	switch c {
	case Red:
		return "red"
	case Green:
		return "green"
	case Blue:
		return "blue"
	default:
		return "unknown"
	}
}

// Params carries the live, UI-owned values filters read at processing time.
// The zero value of Brightness means "unset"; Grayscale treats it as 1.0.
type Params struct {
	// RedThreshold, GreenThreshold and BlueThreshold drive the per-channel
	// threshold filters.
	RedThreshold   uint8
	GreenThreshold uint8
	BlueThreshold  uint8
	// ValueThreshold drives the HSV value threshold.
	ValueThreshold uint8
	// LumaThreshold drives the YCbCr luma threshold.
	LumaThreshold uint8
	// Brightness multiplies the grayscale mean.
	Brightness float32
}

// Filter is the transform contract: mutate buf in place using the current
// params. Implementations are constructed once and invoked once per cycle.
type Filter interface {
	// Name identifies the filter in stage wiring and failure logs.
	Name() string
	// Apply mutates buf in place. A returned error leaves the caller's
	// visible output untouched (the orchestrator applies filters to a
	// scratch copy and commits only on success).
	Apply(buf *frame.Buffer, p Params) error
}

// errNilBuffer is returned by every filter handed a nil target.
var errNilBuffer = errors.New("filters: nil buffer")

// Identity is the unprocessed pass-through. The orchestrator copies the
// source frame into every stage's buffer before applying its filter, so
// Identity has nothing left to do; its output serves as the reference
// surface for region effects.
type Identity struct{}

func (Identity) Name() string { return "identity" }

func (Identity) Apply(buf *frame.Buffer, _ Params) error {
	if buf == nil {
		return errNilBuffer
	}
	return nil
}

// Grayscale replaces each pixel with the unweighted channel mean scaled by
// the live brightness multiplier. The mean is intentionally not luma
// weighted.
type Grayscale struct{}

func (Grayscale) Name() string { return "grayscale" }

func (Grayscale) Apply(buf *frame.Buffer, p Params) error {
	if buf == nil {
		return errNilBuffer
	}
	brightness := p.Brightness
	if brightness == 0 {
		brightness = 1
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		mean := (float32(px[0]) + float32(px[1]) + float32(px[2])) / 3
		v := frame.ClampChannel(int(mean * brightness))
		px[0] = v
		px[1] = v
		px[2] = v
	}
	return nil
}

// ChannelIsolate zeroes every color channel except its own.
type ChannelIsolate struct {
	Channel Channel
}

func (f ChannelIsolate) Name() string { return "isolate-" + f.Channel.String() }

func (f ChannelIsolate) Apply(buf *frame.Buffer, _ Params) error {
	if buf == nil {
		return errNilBuffer
	}
	keep := int(f.Channel)
	if keep < 0 || keep > 2 {
		return errors.Errorf("filters: invalid channel %d", keep)
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			if c != keep {
				buf.Pix[i+c] = 0
			}
		}
	}
	return nil
}

// HSV re-encodes each pixel as packed 8-bit HSV stored in the RGB channels.
// Applying it twice is lossy: the second pass treats the derived components
// as color. Downstream consumers decode with colorspace.HSVToRGB.
type HSV struct{}

func (HSV) Name() string { return "hsv" }

func (HSV) Apply(buf *frame.Buffer, _ Params) error {
	if buf == nil {
		return errNilBuffer
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		px[0], px[1], px[2] = colorspace.RGBToHSV(px[0], px[1], px[2])
	}
	return nil
}

// YCbCr stores luma and the two chroma components in the RGB channels.
type YCbCr struct{}

func (YCbCr) Name() string { return "ycbcr" }

func (YCbCr) Apply(buf *frame.Buffer, _ Params) error {
	if buf == nil {
		return errNilBuffer
	}
	for i := 0; i < len(buf.Pix); i += 4 {
		px := buf.Pix[i : i+4 : i+4]
		px[0], px[1], px[2] = colorspace.RGBToYCbCr(px[0], px[1], px[2])
	}
	return nil
}
