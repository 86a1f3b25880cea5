// Package convert runs single conversions: detect the input format, import
// the file and export it as a 3MF package.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"

	"github.com/philipparndt/convertto3mf/pkg/detect"
	"github.com/philipparndt/convertto3mf/pkg/model"
	"github.com/philipparndt/convertto3mf/pkg/obj"
	"github.com/philipparndt/convertto3mf/pkg/openscad"
	"github.com/philipparndt/convertto3mf/pkg/stl"
	"github.com/philipparndt/convertto3mf/pkg/threemf"
)

// ErrNoRenderer is returned for OpenSCAD inputs when no renderer is configured
var ErrNoRenderer = errors.New("no OpenSCAD renderer configured")

// ErrOutputIsInput is returned when the package would overwrite its own input
var ErrOutputIsInput = errors.New("output file is the input file")

// Job describes one conversion
type Job struct {
	Input string
	// Output defaults to the input path with a .3mf extension.
	Output string
	// Format skips detection when set.
	Format *detect.Format
}

// Result summarizes a finished conversion
type Result struct {
	Input     string
	Output    string
	Format    detect.Format
	Meshes    int
	Vertices  int
	Triangles int
	Size      int64
}

// Converter executes jobs. It holds no per-job state, so one converter may
// run several jobs concurrently.
type Converter struct {
	Logger   *zap.Logger
	OpenSCAD *openscad.Renderer
}

// NewConverter creates a converter. A nil logger discards progress messages.
func NewConverter(logger *zap.Logger, renderer *openscad.Renderer) *Converter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Converter{Logger: logger, OpenSCAD: renderer}
}

// DefaultOutput replaces the extension of input with .3mf
func DefaultOutput(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".3mf"
}

// Import reads path with the importer of the given format
func Import(format detect.Format, path string) (model.Model, error) {
	switch format {
	case detect.OBJ:
		return obj.ImportFile(path)
	case detect.STLASCII:
		return stl.ImportASCIIFile(path)
	case detect.STLBinary:
		return stl.ImportBinaryFile(path)
	default:
		return model.Model{}, fmt.Errorf("%w: %s", detect.ErrUnsupportedFormat, format)
	}
}

// Run converts a single file. Once started, a conversion runs to completion;
// ctx only bounds the external OpenSCAD renderer.
func (c *Converter) Run(ctx context.Context, job Job) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	output := job.Output
	if output == "" {
		output = DefaultOutput(job.Input)
	}
	if samePath(output, job.Input) {
		return nil, fmt.Errorf("%w: %s", ErrOutputIsInput, job.Input)
	}
	log := c.Logger.With(zap.String("input", job.Input))
	log.Info("Converting", zap.String("output", output))

	source := job.Input
	if openscad.IsSource(source) {
		rendered, cleanup, err := c.render(ctx, source)
		if err != nil {
			return nil, err
		}
		defer cleanup()
		source = rendered
	}

	var format detect.Format
	if job.Format != nil {
		format = *job.Format
		log.Info("Using requested format", zap.Stringer("format", format))
	} else {
		detected, scores, err := detect.DetectFile(source)
		if err != nil {
			return nil, err
		}
		format = detected
		log.Info("Detected format", zap.Stringer("format", format))
		for _, s := range scores {
			log.Debug("Format probability", zap.Stringer("format", s.Format), zap.Float64("probability", s.Probability))
		}
	}

	log.Info("Importing", zap.Stringer("format", format))
	m, err := Import(format, source)
	if err != nil {
		return nil, err
	}

	log.Info("Exporting", zap.Int("meshes", len(m.Meshes)), zap.Int("faces", m.FaceCount()))
	doc := threemf.FromModel(m)
	size, err := doc.WriteFile(output)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Input:     job.Input,
		Output:    output,
		Format:    format,
		Meshes:    len(doc.Meshes),
		Vertices:  doc.VertexCount(),
		Triangles: doc.TriangleCount(),
		Size:      size,
	}
	log.Info("Wrote package",
		zap.String("output", output),
		zap.String("size", humanize.Bytes(uint64(size))),
		zap.Int("vertices", result.Vertices),
		zap.Int("triangles", result.Triangles))

	return result, nil
}

// samePath reports whether a and b name the same file. Paths are compared
// after cleaning, and by file identity when both exist.
func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA == nil && errB == nil && absA == absB {
		return true
	}
	infoA, errA := os.Stat(a)
	infoB, errB := os.Stat(b)
	return errA == nil && errB == nil && os.SameFile(infoA, infoB)
}

// render produces a temporary STL for an OpenSCAD source
func (c *Converter) render(ctx context.Context, source string) (string, func(), error) {
	if c.OpenSCAD == nil {
		return "", nil, ErrNoRenderer
	}

	tmpDir, err := os.MkdirTemp("", "convertto3mf-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary directory: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	rendered := filepath.Join(tmpDir, base+".stl")

	c.Logger.Info("Rendering OpenSCAD source", zap.String("input", source))
	if err := c.OpenSCAD.RenderToSTL(ctx, source, rendered); err != nil {
		cleanup()
		return "", nil, err
	}
	return rendered, cleanup, nil
}
