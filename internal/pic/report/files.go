package report

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/pic.report/internal/fsutil"
	"github.com/banshee-data/pic.report/internal/monitoring"
	"github.com/banshee-data/pic.report/internal/pic/pipeline"
	"github.com/banshee-data/pic.report/internal/pic/spectrum"
	"github.com/banshee-data/pic.report/internal/security"
)

// ErrEmptyResult is returned when there is no projection to draw.
var ErrEmptyResult = errors.New("empty result")

// Files writes report files for analysis results into Dir.
type Files struct {
	FS   fsutil.FileSystem
	Dir  string
	PNG  bool
	HTML bool
}

// BaseName is the file name, without extension, used for a result's reports.
func BaseName(res *pipeline.Result) string {
	return fmt.Sprintf("%s_%s_%04d",
		security.SanitizeFilename(res.Simulation), security.SanitizeFilename(res.Species), res.Dump)
}

// Write renders the enabled reports for res and returns the paths written.
// Dir is created when it does not exist yet.
// The HTML report includes the projection spectrum when it can be computed.
func (f Files) Write(res *pipeline.Result) ([]string, error) {
	if !f.PNG && !f.HTML {
		return nil, nil
	}
	if res == nil || len(res.X1Axis) == 0 {
		return nil, ErrEmptyResult
	}
	fsys := f.FS
	if fsys == nil {
		fsys = fsutil.OSFileSystem{}
	}
	if !fsys.Exists(f.Dir) {
		if err := fsys.MkdirAll(f.Dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	base := filepath.Join(f.Dir, BaseName(res))
	var written []string
	if f.PNG {
		path := base + ".png"
		if err := create(fsys, path, func(w io.Writer) error { return WritePNG(w, res) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if f.HTML {
		var sp *spectrum.Spectrum
		if len(res.X1Axis) > 1 {
			var err error
			sp, err = spectrum.Compute(res.Projection, res.X1Axis[1]-res.X1Axis[0])
			if err != nil {
				monitoring.Warnf("report: spectrum for %s dump %d skipped: %v", res.Simulation, res.Dump, err)
				sp = nil
			}
		}
		path := base + ".html"
		if err := create(fsys, path, func(w io.Writer) error { return WriteHTML(w, res, sp) }); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func create(fsys fsutil.FileSystem, path string, render func(io.Writer) error) error {
	w, err := fsys.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := render(w); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
