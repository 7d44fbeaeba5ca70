package filters

import (
	"testing"

	"github.com/nvr-ai/go-framefx/colorspace"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuffer(r, g, b uint8) *frame.Buffer {
	buf := frame.NewBuffer(4, 4)
	buf.Fill(r, g, b, 255)
	return buf
}

func TestIdentityLeavesBufferUntouched(t *testing.T) {
	buf := newTestBuffer(12, 34, 56)
	before := buf.Clone()
	require.NoError(t, Identity{}.Apply(buf, Params{}))
	assert.True(t, buf.Equal(before))
}

func TestGrayscaleUnweightedMean(t *testing.T) {
	buf := newTestBuffer(30, 60, 90)
	require.NoError(t, Grayscale{}.Apply(buf, Params{}))
	r, g, b, a := buf.Get(0, 0)
	assert.Equal(t, uint8(60), r)
	assert.Equal(t, uint8(60), g)
	assert.Equal(t, uint8(60), b)
	assert.Equal(t, uint8(255), a)
}

func TestGrayscaleBrightnessIsReadAtCallTime(t *testing.T) {
	buf := newTestBuffer(30, 60, 90)
	require.NoError(t, Grayscale{}.Apply(buf, Params{Brightness: 2}))
	r, _, _, _ := buf.Get(0, 0)
	assert.Equal(t, uint8(120), r)

	// Same filter value, new params: the multiplier must track the call.
	buf = newTestBuffer(100, 100, 100)
	require.NoError(t, Grayscale{}.Apply(buf, Params{Brightness: 3}))
	r, _, _, _ = buf.Get(0, 0)
	assert.Equal(t, uint8(255), r, "mean 100 x3 clamps to 255")
}

func TestChannelIsolate(t *testing.T) {
	tests := []struct {
		channel Channel
		want    [3]uint8
	}{
		{Red, [3]uint8{10, 0, 0}},
		{Green, [3]uint8{0, 20, 0}},
		{Blue, [3]uint8{0, 0, 30}},
	}
	for _, tt := range tests {
		t.Run(tt.channel.String(), func(t *testing.T) {
			buf := newTestBuffer(10, 20, 30)
			require.NoError(t, ChannelIsolate{Channel: tt.channel}.Apply(buf, Params{}))
			r, g, b, a := buf.Get(2, 2)
			assert.Equal(t, tt.want, [3]uint8{r, g, b})
			assert.Equal(t, uint8(255), a)
		})
	}
}

func TestHSVEncodesIntoChannels(t *testing.T) {
	buf := newTestBuffer(0, 255, 0)
	require.NoError(t, HSV{}.Apply(buf, Params{}))
	h, s, v, _ := buf.Get(0, 0)
	wantH, wantS, wantV := colorspace.RGBToHSV(0, 255, 0)
	assert.Equal(t, wantH, h)
	assert.Equal(t, wantS, s)
	assert.Equal(t, wantV, v)
}

func TestYCbCrEncodesIntoChannels(t *testing.T) {
	buf := newTestBuffer(255, 255, 255)
	require.NoError(t, YCbCr{}.Apply(buf, Params{}))
	y, cb, cr, _ := buf.Get(0, 0)
	assert.InDelta(t, 255, int(y), 1)
	assert.InDelta(t, 128, int(cb), 1)
	assert.InDelta(t, 128, int(cr), 1)
}

func TestFiltersRejectNilBuffer(t *testing.T) {
	all := []Filter{
		Identity{}, Grayscale{},
		ChannelIsolate{Channel: Red},
		ChannelThreshold{Channel: Red},
		HSV{}, HSVThreshold{},
		YCbCr{}, LumaThreshold{},
	}
	for _, f := range all {
		assert.Error(t, f.Apply(nil, Params{}), f.Name())
	}
}
