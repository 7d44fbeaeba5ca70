package detect

import (
	"image"
	"math"
	"sync"

	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// MotionConfig tunes the frame-differencing motion backend.
type MotionConfig struct {
	// DiffThreshold is the per-pixel difference that counts as change.
	// Defaults to 25.
	DiffThreshold float32
	// MinArea is the smallest contour area (in raw-frame pixels) reported
	// as a detection. Defaults to 200.
	MinArea float64
	// BlurKernel is the Gaussian kernel edge used for noise reduction
	// before differencing. Must be odd; defaults to 21.
	BlurKernel int
}

// MotionDetector reports regions of change between consecutive frames.
// It needs no model files, which makes it the fallback backend when no
// cascade or ONNX model is available. The first frame only primes the
// reference and yields no detections.
type MotionDetector struct {
	mu     sync.Mutex
	cfg    MotionConfig
	prev   gocv.Mat
	primed bool
	closed bool
}

// NewMotionDetector returns a detector with defaults filled in for zero
// config fields.
func NewMotionDetector(cfg MotionConfig) *MotionDetector {
	if cfg.DiffThreshold <= 0 {
		cfg.DiffThreshold = 25
	}
	if cfg.MinArea <= 0 {
		cfg.MinArea = 200
	}
	if cfg.BlurKernel <= 0 {
		cfg.BlurKernel = 21
	}
	if cfg.BlurKernel%2 == 0 {
		cfg.BlurKernel++
	}
	return &MotionDetector{cfg: cfg, prev: gocv.NewMat()}
}

// Detect diffs the frame against the previous one and returns a detection
// per changed area. Confidence scales with the changed fraction of the
// frame, so Best picks the largest disturbance.
func (d *MotionDetector) Detect(img gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("detect: motion detector is closed")
	}
	if img.Empty() {
		return nil, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred,
		image.Pt(d.cfg.BlurKernel, d.cfg.BlurKernel), 0, 0, gocv.BorderDefault)

	if !d.primed {
		blurred.CopyTo(&d.prev)
		d.primed = true
		return nil, nil
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, d.prev, &diff)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.Threshold(diff, &mask, d.cfg.DiffThreshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	frameArea := float64(img.Rows() * img.Cols())
	var detections []Detection
	for i := 0; i < contours.Size(); i++ {
		contour := contours.At(i)
		area := gocv.ContourArea(contour)
		rect := gocv.BoundingRect(contour)
		contour.Close()

		if area < d.cfg.MinArea {
			continue
		}
		detections = append(detections, Detection{
			Label:      "motion",
			Confidence: float32(math.Min(area/frameArea*4, 1)),
			Box:        frame.Rect(rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy()),
		})
	}

	blurred.CopyTo(&d.prev)
	return detections, nil
}

// Reset drops the reference frame; the next Detect primes again.
func (d *MotionDetector) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primed = false
}

// Close releases the reference frame storage.
func (d *MotionDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.closed {
		d.prev.Close()
		d.closed = true
	}
}
