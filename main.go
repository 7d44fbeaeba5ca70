// Interactive demo: webcam frames run through the filter pipeline, faces
// drive region effects.
//
// Keys:
//
//	1..9, 0  select the displayed output surface
//	e        display the effect surface
//	g/b/p/c  grayscale / blur / pixelate / recode the latest face region
//	t        cycle which threshold the bracket keys adjust
//	[ / ]    adjust the selected threshold and re-run the cycle
//	i        print per-stage timing
//	esc      quit
package main

import (
	"flag"
	"fmt"
	"image"
	"log"

	"gocv.io/x/gocv"

	"github.com/nvr-ai/go-framefx/capture"
	"github.com/nvr-ai/go-framefx/detect"
	"github.com/nvr-ai/go-framefx/effects"
	"github.com/nvr-ai/go-framefx/filters"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/nvr-ai/go-framefx/pipeline"
)

const (
	defaultCascade = "haarcascade_frontalface_default.xml"
	displayScale   = 4
)

// thresholdNames drive the interactive threshold selector.
var thresholdNames = []string{"red", "green", "blue", "value", "luma"}

// frameSource is satisfied by the camera/video and image-directory sources.
type frameSource interface {
	Read() (*frame.Buffer, error)
	Mat() gocv.Mat
	RawSize() (width, height int)
	Close()
}

// regionDetector is satisfied by the cascade and motion backends.
type regionDetector interface {
	Detect(img gocv.Mat) ([]detect.Detection, error)
	Close()
}

func main() {
	var (
		deviceID    int
		videoPath   string
		imagesDir   string
		loop        bool
		useMotion   bool
		cascadePath string
		onnxModel   string
		onnxLib     string
		blockSize   int
		blurRadius  int
		brightness  float64

		redT, greenT, blueT, valueT, lumaT int
	)
	flag.IntVar(&deviceID, "device", 0, "Video capture device id")
	flag.StringVar(&videoPath, "video", "", "Video file to process instead of a camera")
	flag.StringVar(&imagesDir, "images", "", "Directory of still images to play as frames")
	flag.BoolVar(&loop, "loop", false, "Restart the image sequence at its end")
	flag.BoolVar(&useMotion, "motion", false, "Detect motion regions instead of faces")
	flag.StringVar(&cascadePath, "cascade", defaultCascade, "Haar cascade file for face detection")
	flag.StringVar(&onnxModel, "onnx", "", "UltraFace ONNX model to detect faces with instead of the cascade")
	flag.StringVar(&onnxLib, "onnx-lib", "", "Path to the onnxruntime shared library")
	flag.IntVar(&blockSize, "block-size", 5, "Pixelate block edge")
	flag.IntVar(&blurRadius, "blur-radius", 10, "Blur radius")
	flag.Float64Var(&brightness, "brightness", 1.0, "Grayscale brightness multiplier")
	flag.IntVar(&redT, "red-threshold", 128, "Initial red channel threshold")
	flag.IntVar(&greenT, "green-threshold", 128, "Initial green channel threshold")
	flag.IntVar(&blueT, "blue-threshold", 128, "Initial blue channel threshold")
	flag.IntVar(&valueT, "value-threshold", 128, "Initial HSV value threshold")
	flag.IntVar(&lumaT, "luma-threshold", 128, "Initial luma threshold")
	flag.Parse()

	src, err := openSource(deviceID, videoPath, imagesDir, loop)
	if err != nil {
		log.Fatal(err)
	}
	defer src.Close()

	detector, err := openDetector(useMotion, onnxModel, onnxLib, cascadePath)
	if err != nil {
		log.Fatal(err)
	}
	defer detector.Close()

	pipe, err := buildPipeline()
	if err != nil {
		log.Fatal(err)
	}

	engine := effects.NewEngine(effects.Options{
		BlockSize:  blockSize,
		BlurRadius: blurRadius,
	})

	window := gocv.NewWindow("framefx")
	defer window.Close()

	params := initialParams(redT, greenT, blueT, valueT, lumaT, brightness)

	surfaces := pipe.Outputs()
	selected := 0
	thresholdIdx := 0
	showEffects := false

	// The effect surface: a copy of the unprocessed reference frame that
	// the on-demand effects draw into. Refreshed on every capture.
	effectView := frame.NewBuffer(frame.DefaultWidth, frame.DefaultHeight)
	var latest *frame.Region

	fmt.Printf("reading device, surfaces: %v\n", surfaces)
	for {
		buf, err := src.Read()
		if err != nil {
			log.Printf("capture stopped: %v", err)
			return
		}

		// The detector is awaited to completion before the cycle begins;
		// the region it found is then passed synchronously at trigger time.
		latest = detectRegion(detector, src)

		if err := pipe.RunCycle(buf, params); err != nil {
			log.Printf("cycle failed: %v", err)
			continue
		}
		pipe.Output("identity").CopyInto(effectView)

		view := pipe.Output(surfaces[selected])
		if showEffects {
			view = effectView
		}
		show(window, view)

		key := window.WaitKey(10)
		switch {
		case key == 27: // esc
			return
		case key >= '0' && key <= '9':
			idx := int(key - '1')
			if key == '0' {
				idx = 9
			}
			if idx >= 0 && idx < len(surfaces) {
				selected = idx
				showEffects = false
			}
		case key == 'e':
			showEffects = true
		case key == 't':
			thresholdIdx = (thresholdIdx + 1) % len(thresholdNames)
			fmt.Printf("adjusting %s threshold\n", thresholdNames[thresholdIdx])
		case key == '[':
			adjustThreshold(&params, thresholdIdx, -8)
		case key == ']':
			adjustThreshold(&params, thresholdIdx, 8)
		case key == 'g' || key == 'b' || key == 'p' || key == 'c':
			runEffect(engine, key, latest, pipe.Output("identity"), effectView)
			showEffects = true
		case key == 'i':
			fmt.Println(pipe.Stats().Report())
		}
	}
}

// openSource picks the camera, a video file, or an image directory.
func openSource(deviceID int, videoPath, imagesDir string, loop bool) (frameSource, error) {
	switch {
	case imagesDir != "":
		return capture.OpenDir(imagesDir, frame.DefaultWidth, frame.DefaultHeight, loop)
	case videoPath != "":
		return capture.OpenFile(videoPath, frame.DefaultWidth, frame.DefaultHeight)
	default:
		return capture.OpenDevice(deviceID, frame.DefaultWidth, frame.DefaultHeight)
	}
}

// openDetector picks the region backend. Motion needs no model files; the
// ONNX path expects an UltraFace 320x240 model.
func openDetector(useMotion bool, onnxModel, onnxLib, cascadePath string) (regionDetector, error) {
	switch {
	case onnxModel != "":
		d, err := detect.NewONNXDetector(detect.ONNXConfig{
			ModelPath:   onnxModel,
			LibraryPath: onnxLib,
			InputWidth:  320,
			InputHeight: 240,
		})
		if err != nil {
			return nil, err
		}
		return detect.MatDetector{ONNXDetector: d}, nil
	case useMotion:
		return detect.NewMotionDetector(detect.MotionConfig{}), nil
	default:
		return detect.NewCascadeDetector(cascadePath)
	}
}

// initialParams seeds the live filter parameters from the flag values,
// saturating each threshold at the byte range.
func initialParams(red, green, blue, value, luma int, brightness float64) filters.Params {
	return filters.Params{
		RedThreshold:   frame.ClampChannel(red),
		GreenThreshold: frame.ClampChannel(green),
		BlueThreshold:  frame.ClampChannel(blue),
		ValueThreshold: frame.ClampChannel(value),
		LumaThreshold:  frame.ClampChannel(luma),
		Brightness:     float32(brightness),
	}
}

// buildPipeline wires the full filter set: independents read the raw
// source, the two dependent thresholds read their color-space stage.
func buildPipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(frame.DefaultWidth, frame.DefaultHeight,
		pipeline.Stage{Name: "identity", Filter: filters.Identity{}},
		pipeline.Stage{Name: "grayscale", Filter: filters.Grayscale{}},
		pipeline.Stage{Name: "isolate-red", Filter: filters.ChannelIsolate{Channel: filters.Red}},
		pipeline.Stage{Name: "threshold-red", Filter: filters.ChannelThreshold{Channel: filters.Red}},
		pipeline.Stage{Name: "threshold-green", Filter: filters.ChannelThreshold{Channel: filters.Green}},
		pipeline.Stage{Name: "threshold-blue", Filter: filters.ChannelThreshold{Channel: filters.Blue}},
		pipeline.Stage{Name: "hsv", Filter: filters.HSV{}},
		pipeline.Stage{Name: "threshold-hsv", Filter: filters.HSVThreshold{}, Source: "hsv"},
		pipeline.Stage{Name: "ycbcr", Filter: filters.YCbCr{}},
		pipeline.Stage{Name: "threshold-luma", Filter: filters.LumaThreshold{}, Source: "ycbcr"},
	)
}

// detectRegion runs the detector on the raw frame and scales the best hit
// into pipeline coordinates. No detection means no region.
func detectRegion(detector regionDetector, src frameSource) *frame.Region {
	detections, err := detector.Detect(src.Mat())
	if err != nil {
		log.Printf("detector failed: %v", err)
		return nil
	}
	best := detect.Best(detections)
	if best == nil {
		return nil
	}
	rawW, rawH := src.RawSize()
	region := best.Region(rawW, rawH, frame.DefaultWidth, frame.DefaultHeight)
	return &region
}

// runEffect maps an effect key onto the engine. A missing or out-of-bounds
// region is a silent no-op, not a failure.
func runEffect(engine *effects.Engine, key int, region *frame.Region, src, dst *frame.Buffer) {
	ops := map[int]effects.Op{
		'g': effects.OpGrayscale,
		'b': effects.OpBlur,
		'p': effects.OpPixelate,
		'c': effects.OpRecode,
	}
	err := engine.Apply(ops[key], region, src, dst)
	switch err {
	case nil:
	case effects.ErrMissingRegion, effects.ErrInvalidRegion:
		// Nothing to do until the detector finds something usable.
	default:
		log.Printf("effect %q failed: %v", ops[key], err)
	}
}

// adjustThreshold moves the selected threshold by delta, saturating at the
// byte range.
func adjustThreshold(p *filters.Params, idx, delta int) {
	targets := []*uint8{
		&p.RedThreshold, &p.GreenThreshold, &p.BlueThreshold,
		&p.ValueThreshold, &p.LumaThreshold,
	}
	v := int(*targets[idx]) + delta
	*targets[idx] = frame.ClampChannel(v)
	fmt.Printf("%s threshold: %d\n", thresholdNames[idx], *targets[idx])
}

// show upscales the 160x120 surface so it is visible and pushes it to the
// window.
func show(window *gocv.Window, buf *frame.Buffer) {
	img := capture.ToImage(buf)
	mat, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		log.Printf("display conversion failed: %v", err)
		return
	}
	defer mat.Close()

	scaled := gocv.NewMat()
	defer scaled.Close()
	size := image.Pt(buf.Width*displayScale, buf.Height*displayScale)
	gocv.Resize(mat, &scaled, size, 0, 0, gocv.InterpolationNearestNeighbor)
	window.IMShow(scaled)
}
