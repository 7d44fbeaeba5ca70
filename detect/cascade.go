package detect

import (
	"sync"

	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// CascadeDetector finds faces with an OpenCV Haar cascade. It is the
// default backend: no model download, no runtime library, good enough to
// drive region effects interactively.
type CascadeDetector struct {
	mu         sync.Mutex
	classifier gocv.CascadeClassifier
	loaded     bool
}

// NewCascadeDetector loads the cascade description from xmlPath
// (e.g. haarcascade_frontalface_default.xml).
func NewCascadeDetector(xmlPath string) (*CascadeDetector, error) {
	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(xmlPath) {
		classifier.Close()
		return nil, errors.Errorf("detect: cannot read cascade file %q", xmlPath)
	}
	return &CascadeDetector{classifier: classifier, loaded: true}, nil
}

// Detect runs the cascade over the full frame and returns one detection per
// face. Haar cascades report no score, so confidence is fixed at 1.
func (d *CascadeDetector) Detect(img gocv.Mat) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.loaded {
		return nil, errors.New("detect: cascade detector is closed")
	}
	if img.Empty() {
		return nil, nil
	}

	rects := d.classifier.DetectMultiScale(img)
	detections := make([]Detection, 0, len(rects))
	for _, r := range rects {
		detections = append(detections, Detection{
			Label:      "face",
			Confidence: 1,
			Box:        frame.Rect(r.Min.X, r.Min.Y, r.Dx(), r.Dy()),
		})
	}
	return detections, nil
}

// Close releases the classifier.
func (d *CascadeDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.loaded {
		d.classifier.Close()
		d.loaded = false
	}
}
