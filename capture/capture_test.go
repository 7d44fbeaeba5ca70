package capture

import (
	"image"
	"image/color"
	"testing"

	"github.com/nvr-ai/go-framefx/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromImageSameSizeIsExact(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 80), B: 7, A: 255})
		}
	}

	buf := FromImage(img, 4, 3)
	require.Equal(t, 4, buf.Width)
	require.Equal(t, 3, buf.Height)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			r, g, b, a := buf.Get(x, y)
			assert.Equal(t, uint8(x*60), r)
			assert.Equal(t, uint8(y*80), g)
			assert.Equal(t, uint8(7), b)
			assert.Equal(t, uint8(255), a)
		}
	}
}

func TestFromImageResamplesToRequestedSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	for y := 0; y < 480; y++ {
		for x := 0; x < 640; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 120, G: 30, B: 200, A: 255})
		}
	}

	buf := FromImage(img, frame.DefaultWidth, frame.DefaultHeight)
	require.Equal(t, frame.DefaultWidth, buf.Width)
	require.Equal(t, frame.DefaultHeight, buf.Height)

	// A constant image survives Lanczos resampling within rounding.
	r, g, b, _ := buf.Get(80, 60)
	assert.InDelta(t, 120, int(r), 1)
	assert.InDelta(t, 30, int(g), 1)
	assert.InDelta(t, 200, int(b), 1)
}

func TestFromImageNilGivesBlankBuffer(t *testing.T) {
	buf := FromImage(nil, 8, 8)
	require.NotNil(t, buf)
	r, g, b, a := buf.Get(0, 0)
	assert.Equal(t, [4]uint8{0, 0, 0, 255}, [4]uint8{r, g, b, a})
}

func TestSeqNumberOrdering(t *testing.T) {
	assert.Equal(t, 7, seqNumber("frame-7.jpg"))
	assert.Equal(t, 12, seqNumber("frame-12.png"))
	assert.Equal(t, 3, seqNumber("003.bmp"))
	assert.Equal(t, -1, seqNumber("snapshot.jpg"))
}

func TestToImageRoundTrip(t *testing.T) {
	buf := frame.NewBuffer(6, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			buf.Set(x, y, x*40, y*50, (x+y)*10, 255)
		}
	}

	img := ToImage(buf)
	back := FromImage(img, 6, 5)
	assert.True(t, back.Equal(buf))
}
