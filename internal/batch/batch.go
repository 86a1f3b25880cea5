// Package batch converts many files described by a YAML plan.
package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/philipparndt/convertto3mf/internal/convert"
	"github.com/philipparndt/convertto3mf/pkg/detect"
)

// Entry is one conversion in a plan file
type Entry struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Plan lists the conversions to run
type Plan struct {
	Jobs []Entry `yaml:"jobs"`
}

// Parse decodes a plan. Relative paths are resolved against baseDir.
func Parse(data []byte, baseDir string) (*Plan, error) {
	var plan Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}

	for i := range plan.Jobs {
		entry := &plan.Jobs[i]
		if entry.Input == "" {
			return nil, fmt.Errorf("job %d: input is required", i+1)
		}
		if entry.Format != "" {
			if _, err := detect.ParseFormat(entry.Format); err != nil {
				return nil, fmt.Errorf("job %d: %w", i+1, err)
			}
		}
		entry.Input = resolve(baseDir, entry.Input)
		if entry.Output != "" {
			entry.Output = resolve(baseDir, entry.Output)
		}
	}
	return &plan, nil
}

// Load reads a plan file
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

func resolve(baseDir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// ConvertJobs turns the plan entries into converter jobs
func (p *Plan) ConvertJobs() []convert.Job {
	jobs := make([]convert.Job, 0, len(p.Jobs))
	for _, entry := range p.Jobs {
		job := convert.Job{Input: entry.Input, Output: entry.Output}
		if entry.Format != "" {
			// Parse already validated the name.
			format, _ := detect.ParseFormat(entry.Format)
			job.Format = &format
		}
		jobs = append(jobs, job)
	}
	return jobs
}

// Summary collects the outcome of a batch run
type Summary struct {
	// Results is indexed like the plan jobs; failed jobs leave a nil entry.
	Results []*convert.Result
	Failed  int
}

// Run converts every job of the plan with at most workers conversions in
// flight. A failing job does not stop the others; all failures are joined
// into the returned error.
func Run(ctx context.Context, c *convert.Converter, plan *Plan, workers int) (*Summary, error) {
	if workers < 1 {
		workers = 1
	}
	jobs := plan.ConvertJobs()
	summary := &Summary{Results: make([]*convert.Result, len(jobs))}

	var (
		mu   sync.Mutex
		errs []error
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			result, err := c.Run(ctx, job)
			if err != nil {
				c.Logger.Error("Conversion failed", zap.String("input", job.Input), zap.Error(err))
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", job.Input, err))
				summary.Failed++
				mu.Unlock()
				return nil
			}
			summary.Results[i] = result
			return nil
		})
	}
	// Workers never return errors, failures are collected in errs.
	_ = g.Wait()

	return summary, errors.Join(errs...)
}
