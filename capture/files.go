package capture

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nvr-ai/go-framefx/frame"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// FileSource plays a directory of still images as a frame sequence, for
// running the pipeline without a camera. Files are ordered by a trailing
// frame number in the name when present (frame-1.jpg, frame-2.jpg, ...),
// falling back to lexical order.
type FileSource struct {
	files  []imageFile
	idx    int
	mat    gocv.Mat
	width  int
	height int
	loop   bool
}

type imageFile struct {
	path string
	data []byte
	seq  int
}

// OpenDir loads every .jpg/.jpeg/.png/.bmp file in dir as a frame source.
// With loop set, the sequence restarts after the last frame instead of
// ending the stream.
func OpenDir(dir string, width, height int, loop bool) (*FileSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "capture: reading image dir %q", dir)
	}

	var files []imageFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png", ".bmp":
		default:
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, errors.Wrapf(readErr, "capture: reading %q", path)
		}
		files = append(files, imageFile{path: path, data: data, seq: seqNumber(entry.Name())})
	}
	if len(files) == 0 {
		return nil, errors.Errorf("capture: no image files in %q", dir)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].seq != files[j].seq {
			return files[i].seq < files[j].seq
		}
		return files[i].path < files[j].path
	})

	return &FileSource{
		files:  files,
		mat:    gocv.NewMat(),
		width:  width,
		height: height,
		loop:   loop,
	}, nil
}

// seqNumber extracts the trailing digits of a file name, -1 when absent.
func seqNumber(name string) int {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, err := strconv.Atoi(base[i:])
	if err != nil {
		return -1
	}
	return n
}

// Read decodes the next image in the sequence as a pipeline-sized buffer.
// The raw decoded frame stays available through Mat() until the next Read.
func (s *FileSource) Read() (*frame.Buffer, error) {
	if s.idx >= len(s.files) {
		if !s.loop {
			return nil, errors.New("capture: end of image sequence")
		}
		s.idx = 0
	}
	f := s.files[s.idx]
	s.idx++

	mat, err := gocv.IMDecode(f.data, gocv.IMReadColor)
	if err != nil {
		return nil, errors.Wrapf(err, "capture: decoding %q", f.path)
	}
	s.mat.Close()
	s.mat = mat

	img, err := s.mat.ToImage()
	if err != nil {
		return nil, errors.Wrapf(err, "capture: converting %q", f.path)
	}
	return FromImage(img, s.width, s.height), nil
}

// Mat exposes the last raw frame decoded from the sequence.
func (s *FileSource) Mat() gocv.Mat {
	return s.mat
}

// RawSize returns the resolution of the last decoded frame.
func (s *FileSource) RawSize() (width, height int) {
	if s.mat.Empty() {
		return 0, 0
	}
	return s.mat.Cols(), s.mat.Rows()
}

// Close releases the frame storage.
func (s *FileSource) Close() {
	s.mat.Close()
}
