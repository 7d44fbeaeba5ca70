package detect

import (
	"image"
	"os"
	"sort"
	"sync"

	"github.com/nfnt/resize"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"
	"gocv.io/x/gocv"
)

// ONNXConfig configures the ONNX Runtime face detection backend. The model
// is expected to follow the UltraFace layout: one image input, a scores
// output of shape [1, N, 2] and a boxes output of shape [1, N, 4] with
// normalized corner coordinates.
type ONNXConfig struct {
	// ModelPath is the .onnx model file.
	ModelPath string
	// LibraryPath is the onnxruntime shared library. Empty means the
	// binding's default lookup.
	LibraryPath string
	// InputWidth and InputHeight are the model's input resolution.
	InputWidth  int
	InputHeight int
	// InputName and the output names as exported by the model.
	InputName   string
	ScoresName  string
	BoxesName   string
	// ConfidenceThreshold drops candidates below this score.
	ConfidenceThreshold float32
	// NMSThreshold is the IoU above which overlapping boxes are suppressed.
	NMSThreshold float32
}

// ortInit guards the process-wide ONNX Runtime environment.
var ortInit sync.Once

// ONNXDetector runs face detection through an ONNX Runtime session with
// pre-bound input and output tensors.
type ONNXDetector struct {
	mu      sync.Mutex
	cfg     ONNXConfig
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	scores  *ort.Tensor[float32]
	boxes   *ort.Tensor[float32]
	anchors int
	closed  bool
}

// NewONNXDetector creates the session and its reusable tensors.
func NewONNXDetector(cfg ONNXConfig) (*ONNXDetector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "detect: model file %q", cfg.ModelPath)
	}
	if cfg.InputWidth <= 0 || cfg.InputHeight <= 0 {
		return nil, errors.Errorf("detect: invalid input shape %dx%d", cfg.InputWidth, cfg.InputHeight)
	}
	if cfg.InputName == "" {
		cfg.InputName = "input"
	}
	if cfg.ScoresName == "" {
		cfg.ScoresName = "scores"
	}
	if cfg.BoxesName == "" {
		cfg.BoxesName = "boxes"
	}
	if cfg.ConfidenceThreshold == 0 {
		cfg.ConfidenceThreshold = 0.7
	}
	if cfg.NMSThreshold == 0 {
		cfg.NMSThreshold = 0.5
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	var initErr error
	ortInit.Do(func() {
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, errors.Wrap(initErr, "detect: initializing ONNX Runtime")
	}

	// UltraFace anchor count scales with the input resolution; derive it
	// the way the reference models do (feature strides 8/16/32/64, two
	// aspect configurations per cell except the coarsest three).
	anchors := anchorCount(cfg.InputWidth, cfg.InputHeight)

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(cfg.InputHeight), int64(cfg.InputWidth)))
	if err != nil {
		return nil, errors.Wrap(err, "detect: creating input tensor")
	}
	scores, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(anchors), 2))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrap(err, "detect: creating scores tensor")
	}
	boxes, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(anchors), 4))
	if err != nil {
		input.Destroy()
		scores.Destroy()
		return nil, errors.Wrap(err, "detect: creating boxes tensor")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		input.Destroy()
		scores.Destroy()
		boxes.Destroy()
		return nil, errors.Wrap(err, "detect: creating session options")
	}
	defer options.Destroy()
	options.SetIntraOpNumThreads(2)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.ScoresName, cfg.BoxesName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{scores, boxes},
		options,
	)
	if err != nil {
		input.Destroy()
		scores.Destroy()
		boxes.Destroy()
		return nil, errors.Wrap(err, "detect: creating session")
	}

	return &ONNXDetector{
		cfg:     cfg,
		session: session,
		input:   input,
		scores:  scores,
		boxes:   boxes,
		anchors: anchors,
	}, nil
}

// anchorCount returns the number of prior boxes an UltraFace-style model
// emits for a given input resolution.
func anchorCount(w, h int) int {
	strides := []int{8, 16, 32, 64}
	priors := []int{3, 2, 2, 3}
	total := 0
	for i, s := range strides {
		fw := (w + s - 1) / s
		fh := (h + s - 1) / s
		total += fw * fh * priors[i]
	}
	return total
}

// Detect runs inference on img and returns face detections in img's
// coordinate space.
func (d *ONNXDetector) Detect(img image.Image) ([]Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, errors.New("detect: ONNX detector is closed")
	}
	if img == nil {
		return nil, errors.New("detect: nil image")
	}

	d.prepareInput(img)
	if err := d.session.Run(); err != nil {
		return nil, errors.Wrap(err, "detect: inference")
	}

	frameW := img.Bounds().Dx()
	frameH := img.Bounds().Dy()
	return d.postprocess(frameW, frameH), nil
}

// prepareInput resizes the image to the model resolution and fills the
// input tensor in NCHW order with UltraFace normalization (x-127)/128.
func (d *ONNXDetector) prepareInput(img image.Image) {
	resized := resize.Resize(uint(d.cfg.InputWidth), uint(d.cfg.InputHeight), img, resize.Lanczos3)
	data := d.input.GetData()
	plane := d.cfg.InputWidth * d.cfg.InputHeight

	for y := 0; y < d.cfg.InputHeight; y++ {
		for x := 0; x < d.cfg.InputWidth; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			i := y*d.cfg.InputWidth + x
			data[i] = (float32(r>>8) - 127) / 128
			data[plane+i] = (float32(g>>8) - 127) / 128
			data[2*plane+i] = (float32(b>>8) - 127) / 128
		}
	}
}

// postprocess filters candidates by confidence, maps the normalized boxes
// to frame coordinates and suppresses overlaps.
func (d *ONNXDetector) postprocess(frameW, frameH int) []Detection {
	scores := d.scores.GetData()
	boxes := d.boxes.GetData()

	var detections []Detection
	for i := 0; i < d.anchors; i++ {
		// Index 1 of each score pair is the face probability.
		confidence := scores[i*2+1]
		if confidence <= d.cfg.ConfidenceThreshold {
			continue
		}
		x1 := int(boxes[i*4+0] * float32(frameW))
		y1 := int(boxes[i*4+1] * float32(frameH))
		x2 := int(boxes[i*4+2] * float32(frameW))
		y2 := int(boxes[i*4+3] * float32(frameH))
		if x2 <= x1 || y2 <= y1 {
			continue
		}
		detections = append(detections, Detection{
			Label:      "face",
			Confidence: confidence,
			Box:        frame.Rect(x1, y1, x2-x1, y2-y1),
		})
	}
	return nms(detections, d.cfg.NMSThreshold)
}

// nms applies non-maximum suppression: keep the highest-scoring boxes and
// drop any later box overlapping a kept one past the threshold.
func nms(detections []Detection, threshold float32) []Detection {
	if len(detections) == 0 {
		return detections
	}
	sort.Slice(detections, func(i, j int) bool {
		return detections[i].Confidence > detections[j].Confidence
	})

	var kept []Detection
	used := make([]bool, len(detections))
	for i := range detections {
		if used[i] {
			continue
		}
		kept = append(kept, detections[i])
		used[i] = true
		for j := i + 1; j < len(detections); j++ {
			if used[j] {
				continue
			}
			if iou(detections[i].Box, detections[j].Box) > threshold {
				used[j] = true
			}
		}
	}
	return kept
}

// MatDetector adapts the ONNX backend to the gocv frame flow shared by the
// cascade and motion backends: it converts the raw Mat and delegates.
type MatDetector struct {
	*ONNXDetector
}

// Detect converts img to a stdlib image and runs the ONNX session on it.
func (d MatDetector) Detect(img gocv.Mat) ([]Detection, error) {
	if img.Empty() {
		return nil, nil
	}
	goImg, err := img.ToImage()
	if err != nil {
		return nil, errors.Wrap(err, "detect: converting frame")
	}
	return d.ONNXDetector.Detect(goImg)
}

// Close destroys the session and its tensors.
func (d *ONNXDetector) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.session.Destroy()
	d.input.Destroy()
	d.scores.Destroy()
	d.boxes.Destroy()
	d.closed = true
}
