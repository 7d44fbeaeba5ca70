package filters

import (
	"testing"

	"github.com/nvr-ai/go-framefx/colorspace"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelThresholdBinaryOutput(t *testing.T) {
	buf := frame.NewBuffer(16, 1)
	for x := 0; x < 16; x++ {
		buf.Set(x, 0, x*17, 40, 200, 255)
	}
	require.NoError(t, ChannelThreshold{Channel: Red}.Apply(buf, Params{RedThreshold: 128}))

	for x := 0; x < 16; x++ {
		r, g, b, a := buf.Get(x, 0)
		// Binary in exactly the filter's own channel, zero elsewhere.
		assert.Contains(t, []uint8{0, 255}, r)
		assert.Equal(t, uint8(0), g)
		assert.Equal(t, uint8(0), b)
		assert.Equal(t, uint8(255), a)
	}
}

func TestChannelThresholdStrictComparison(t *testing.T) {
	buf := frame.NewBuffer(3, 1)
	buf.Set(0, 0, 127, 0, 0, 255)
	buf.Set(1, 0, 128, 0, 0, 255) // exactly the threshold: below branch
	buf.Set(2, 0, 129, 0, 0, 255)
	require.NoError(t, ChannelThreshold{Channel: Red}.Apply(buf, Params{RedThreshold: 128}))

	r0, _, _, _ := buf.Get(0, 0)
	r1, _, _, _ := buf.Get(1, 0)
	r2, _, _, _ := buf.Get(2, 0)
	assert.Equal(t, uint8(0), r0)
	assert.Equal(t, uint8(0), r1, "value equal to threshold must take the below branch")
	assert.Equal(t, uint8(255), r2)
}

func TestChannelThresholdReadsLiveValue(t *testing.T) {
	mk := func() *frame.Buffer {
		buf := frame.NewBuffer(1, 1)
		buf.Set(0, 0, 100, 0, 0, 255)
		return buf
	}
	f := ChannelThreshold{Channel: Red}

	buf := mk()
	require.NoError(t, f.Apply(buf, Params{RedThreshold: 50}))
	r, _, _, _ := buf.Get(0, 0)
	assert.Equal(t, uint8(255), r)

	// Same filter instance, changed parameter: the new value applies.
	buf = mk()
	require.NoError(t, f.Apply(buf, Params{RedThreshold: 150}))
	r, _, _, _ = buf.Get(0, 0)
	assert.Equal(t, uint8(0), r)
}

func TestGreenAndBlueThresholdsUseOwnChannel(t *testing.T) {
	buf := frame.NewBuffer(1, 1)
	buf.Set(0, 0, 0, 200, 0, 255)
	require.NoError(t, ChannelThreshold{Channel: Green}.Apply(buf, Params{GreenThreshold: 100}))
	_, g, _, _ := buf.Get(0, 0)
	assert.Equal(t, uint8(255), g)

	buf.Set(0, 0, 0, 0, 200, 255)
	require.NoError(t, ChannelThreshold{Channel: Blue}.Apply(buf, Params{BlueThreshold: 100}))
	_, _, b, _ := buf.Get(0, 0)
	assert.Equal(t, uint8(255), b)
}

func TestHSVThresholdRecolorsAboveAndBlacksBelow(t *testing.T) {
	// Encode a bright and a dark pixel, then threshold the value channel.
	hb, sb, vb := colorspace.RGBToHSV(255, 40, 40)
	hd, sd, vd := colorspace.RGBToHSV(30, 10, 10)

	buf := frame.NewBuffer(2, 1)
	buf.Set(0, 0, int(hb), int(sb), int(vb), 255)
	buf.Set(1, 0, int(hd), int(sd), int(vd), 255)

	require.NoError(t, HSVThreshold{}.Apply(buf, Params{ValueThreshold: 128}))

	// Above threshold: the decoded color, a red within quantization error.
	r, g, b, a := buf.Get(0, 0)
	assert.InDelta(t, 255, int(r), 2)
	assert.InDelta(t, 40, int(g), 2)
	assert.InDelta(t, 40, int(b), 2)
	assert.Equal(t, uint8(255), a)

	// Below threshold: black with forced alpha.
	r, g, b, a = buf.Get(1, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{r, g, b, a})
}

func TestLumaThresholdWhiteOrBlack(t *testing.T) {
	buf := frame.NewBuffer(2, 1)
	// Luma lives in the red channel after the YCbCr filter.
	buf.Set(0, 0, 200, 128, 128, 255)
	buf.Set(1, 0, 100, 128, 128, 255)
	require.NoError(t, LumaThreshold{}.Apply(buf, Params{LumaThreshold: 150}))

	r, g, b, a := buf.Get(0, 0)
	assert.Equal(t, [4]uint8{255, 255, 255, 255}, [4]uint8{r, g, b, a})
	r, g, b, a = buf.Get(1, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{r, g, b, a})
}
