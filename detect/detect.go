// Package detect - the region detector collaborator boundary.
//
// The pipeline core never knows how a region of interest was produced; it
// receives a frame.Region in frame coordinates. This package supplies those
// regions from real detectors: a Haar cascade backend (gocv) and an ONNX
// Runtime backend. Both are opaque to the engine and report rectangles with
// confidence.
package detect

import (
	"github.com/nvr-ai/go-framefx/frame"
)

// Detection is one detected object: a labeled, scored rectangle in the
// coordinates of the frame the detector was run on.
type Detection struct {
	Label      string
	Confidence float32
	Box        frame.Region
}

// Region returns the detection rectangle scaled from the detector's frame
// size to the pipeline's working size. Scaling may push the rectangle past
// the working bounds; consumers clip, per the frame package contract.
func (d Detection) Region(fromW, fromH, toW, toH int) frame.Region {
	if fromW <= 0 || fromH <= 0 {
		return frame.Region{}
	}
	sx := float64(toW) / float64(fromW)
	sy := float64(toH) / float64(fromH)
	return frame.Region{
		X:      int(float64(d.Box.X) * sx),
		Y:      int(float64(d.Box.Y) * sy),
		Width:  int(float64(d.Box.Width)*sx + 0.5),
		Height: int(float64(d.Box.Height)*sy + 0.5),
	}
}

// Best returns the highest-confidence detection, or nil when the slice is
// empty. Callers pass the result straight to the effect engine, which
// treats nil as "no region available".
func Best(detections []Detection) *Detection {
	if len(detections) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(detections); i++ {
		if detections[i].Confidence > detections[best].Confidence {
			best = i
		}
	}
	return &detections[best]
}

// iou computes intersection over union for the NMS pass shared by the
// backends.
func iou(a, b frame.Region) float32 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0
	}
	interArea := inter.Width * inter.Height
	union := a.Width*a.Height + b.Width*b.Height - interArea
	if union <= 0 {
		return 0
	}
	return float32(interArea) / float32(union)
}
