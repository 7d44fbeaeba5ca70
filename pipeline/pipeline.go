// Package pipeline - the orchestrator that owns every output surface and
// re-runs the configured filter set against each new source frame.
//
// One cycle is synchronous and single-threaded: independent stages run
// against the raw source, dependent stages run strictly after the stage
// whose output they consume. There are no locks because there is exactly
// one logical thread of control; ordering is the only mechanism.
package pipeline

import (
	"log"
	"time"

	"github.com/nvr-ai/go-framefx/filters"
	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
)

// SourceBuffer is the reserved source id: stages reading from it consume
// the raw frame passed to RunCycle.
const SourceBuffer = "source"

// Stage binds a filter to its input and output surfaces. Dest defaults to
// the stage name; dependent stages set Source to another stage's Dest.
type Stage struct {
	Name   string
	Filter filters.Filter
	// Source is SourceBuffer or the Dest of an earlier stage.
	Source string
	// Dest names this stage's output surface. Empty means Name.
	Dest string
}

// Pipeline holds the ordered stage list and exclusively owns all output
// buffers. Construct once, then call RunCycle per frame or parameter
// change.
type Pipeline struct {
	width   int
	height  int
	stages  []Stage
	buffers map[string]*frame.Buffer
	scratch *frame.Buffer
	logger  *log.Logger
	cycles  uint64
	timings map[string]*StageStats
}

// New validates the stage wiring and allocates one output buffer per stage.
// Validation enforces the ordering invariant: a stage's source must be the
// raw frame or the destination of a stage declared before it, so dependent
// filters always run after their upstream within a cycle.
func New(width, height int, stages ...Stage) (*Pipeline, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("pipeline: invalid dimensions %dx%d", width, height)
	}
	if len(stages) == 0 {
		return nil, errors.New("pipeline: no stages configured")
	}

	p := &Pipeline{
		width:   width,
		height:  height,
		buffers: make(map[string]*frame.Buffer, len(stages)),
		scratch: frame.NewBuffer(width, height),
		logger:  log.Default(),
		timings: make(map[string]*StageStats),
	}

	for i := range stages {
		s := stages[i]
		if s.Name == "" {
			return nil, errors.Errorf("pipeline: stage %d has no name", i)
		}
		if s.Filter == nil {
			return nil, errors.Errorf("pipeline: stage %q has no filter", s.Name)
		}
		if s.Dest == "" {
			s.Dest = s.Name
		}
		if s.Dest == SourceBuffer {
			return nil, errors.Errorf("pipeline: stage %q writes to the reserved source id", s.Name)
		}
		if _, dup := p.buffers[s.Dest]; dup {
			return nil, errors.Errorf("pipeline: duplicate destination %q", s.Dest)
		}
		if s.Source == "" {
			s.Source = SourceBuffer
		}
		if s.Source != SourceBuffer {
			if _, ok := p.buffers[s.Source]; !ok {
				return nil, errors.Errorf(
					"pipeline: stage %q reads %q before it is produced", s.Name, s.Source)
			}
		}
		p.buffers[s.Dest] = frame.NewBuffer(width, height)
		p.stages = append(p.stages, s)
	}
	return p, nil
}

// SetLogger replaces the logger used for recovered filter failures.
func (p *Pipeline) SetLogger(l *log.Logger) {
	if l != nil {
		p.logger = l
	}
}

// RunCycle runs every stage against the new source frame. A filter that
// fails (error or panic) is logged and its output buffer keeps its previous
// contents; remaining stages still run. The only hard errors are a missing
// or mis-sized source frame.
func (p *Pipeline) RunCycle(src *frame.Buffer, params filters.Params) error {
	if src == nil {
		return errors.New("pipeline: nil source frame")
	}
	if src.Width != p.width || src.Height != p.height {
		return errors.Errorf("pipeline: source frame is %dx%d, want %dx%d",
			src.Width, src.Height, p.width, p.height)
	}

	p.cycles++
	for _, s := range p.stages {
		input := src
		if s.Source != SourceBuffer {
			input = p.buffers[s.Source]
		}

		// Filters mutate a scratch copy; the visible buffer is only
		// replaced on success, so a failure leaves a stale but whole
		// surface instead of a partially overwritten one.
		input.CopyInto(p.scratch)
		start := time.Now()
		err := applyFilter(s.Filter, p.scratch, params)
		p.record(s.Name, time.Since(start), err != nil)
		if err != nil {
			p.logger.Printf("pipeline: stage %q failed, keeping previous output: %v", s.Name, err)
			continue
		}
		p.scratch.CopyInto(p.buffers[s.Dest])
	}
	return nil
}

// applyFilter invokes the filter and converts a panic into an error so a
// misbehaving filter cannot abort the rest of the cycle.
func applyFilter(f filters.Filter, buf *frame.Buffer, params filters.Params) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("filter %q panicked: %v", f.Name(), r)
		}
	}()
	return f.Apply(buf, params)
}

// Output returns the surface written by the stage with the given
// destination id, or nil if no such stage exists. The returned buffer is
// owned by the pipeline; callers wanting a stable snapshot should Clone it.
func (p *Pipeline) Output(name string) *frame.Buffer {
	return p.buffers[name]
}

// Outputs returns the destination ids in stage order.
func (p *Pipeline) Outputs() []string {
	names := make([]string, 0, len(p.stages))
	for _, s := range p.stages {
		names = append(names, s.Dest)
	}
	return names
}
