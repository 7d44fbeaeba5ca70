// Package capture - the frame acquisition collaborator boundary.
//
// A Source wraps a gocv video capture (camera or file) and hands the
// pipeline one fixed-size frame.Buffer per read. Conversion between
// frame.Buffer and image.Image lives here too so the rest of the system
// never touches gocv or image types directly.
package capture

import (
	"image"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FromImage converts any image.Image into a frame.Buffer, resampling to
// width×height with Lanczos when the sizes differ.
func FromImage(img image.Image, width, height int) *frame.Buffer {
	if img == nil {
		return frame.NewBuffer(width, height)
	}
	if img.Bounds().Dx() != width || img.Bounds().Dy() != height {
		img = resize.Resize(uint(width), uint(height), img, resize.Lanczos3)
	}

	buf := frame.NewBuffer(width, height)
	bounds := img.Bounds()
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := buf.PixOffset(x, y)
			p := buf.Pix[i : i+4 : i+4]
			p[0] = uint8(r >> 8)
			p[1] = uint8(g >> 8)
			p[2] = uint8(b >> 8)
			p[3] = uint8(a >> 8)
		}
	}
	return buf
}

// ToImage copies a frame.Buffer into a stdlib RGBA image for display or
// encoding.
func ToImage(buf *frame.Buffer) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))
	copy(img.Pix, buf.Pix)
	return img
}

// Source supplies frames from a camera device or a video file.
type Source struct {
	cam    *gocv.VideoCapture
	mat    gocv.Mat
	width  int
	height int
}

// OpenDevice opens capture device id, downscaling every frame to
// width×height.
func OpenDevice(id, width, height int) (*Source, error) {
	cam, err := gocv.OpenVideoCapture(id)
	if err != nil {
		return nil, errors.Wrapf(err, "capture: opening device %d", id)
	}
	return newSource(cam, width, height), nil
}

// OpenFile opens a video file as a frame source.
func OpenFile(path string, width, height int) (*Source, error) {
	cam, err := gocv.OpenVideoCapture(path)
	if err != nil {
		return nil, errors.Wrapf(err, "capture: opening %q", path)
	}
	return newSource(cam, width, height), nil
}

func newSource(cam *gocv.VideoCapture, width, height int) *Source {
	return &Source{
		cam:    cam,
		mat:    gocv.NewMat(),
		width:  width,
		height: height,
	}
}

// Read blocks for the next frame and returns it as a pipeline-sized buffer.
// The raw full-resolution frame stays available through Mat() until the
// next Read, which is what the detector runs on.
func (s *Source) Read() (*frame.Buffer, error) {
	if ok := s.cam.Read(&s.mat); !ok {
		return nil, errors.New("capture: cannot read frame")
	}
	if s.mat.Empty() {
		return nil, errors.New("capture: empty frame")
	}
	img, err := s.mat.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "capture: converting frame")
	}
	return FromImage(img, s.width, s.height), nil
}

// Mat exposes the last raw frame read from the device.
func (s *Source) Mat() gocv.Mat {
	return s.mat
}

// RawSize returns the resolution of the last raw frame (zero before the
// first successful Read).
func (s *Source) RawSize() (width, height int) {
	if s.mat.Empty() {
		return 0, 0
	}
	return s.mat.Cols(), s.mat.Rows()
}

// Close releases the device and the frame storage.
func (s *Source) Close() {
	s.mat.Close()
	s.cam.Close()
}
