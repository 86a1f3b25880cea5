package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/convertto3mf/internal/convert"
	"github.com/philipparndt/convertto3mf/pkg/detect"
	"github.com/philipparndt/convertto3mf/pkg/openscad"
	"github.com/philipparndt/convertto3mf/pkg/watcher"
)

var (
	watchOutput string
	watchFormat string
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Convert a file and convert it again whenever it changes",
	Long: `Convert the input once and keep watching it. For OpenSCAD sources every
file reached through use and include statements is watched as well.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "output file (default: input with .3mf extension)")
	watchCmd.Flags().StringVarP(&watchFormat, "format", "f", "", "input format (obj, stl-ascii, stl-binary), detected when empty")
}

func runWatch(cmd *cobra.Command, args []string) error {
	job := convert.Job{Input: args[0], Output: watchOutput}
	if watchFormat != "" {
		format, err := detect.ParseFormat(watchFormat)
		if err != nil {
			return err
		}
		job.Format = &format
	}

	converter, err := newConverter()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	files := []string{job.Input}
	if openscad.IsSource(job.Input) {
		files, err = converter.OpenSCAD.ResolveDependencies(job.Input)
		if err != nil {
			return err
		}
	}

	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	// Conversions are serialized so a slow render is never overlapped by
	// the next change.
	changes := make(chan string, 1)
	if err := fw.Watch(files, func(path string) {
		select {
		case changes <- path:
		default:
		}
	}); err != nil {
		return err
	}
	go fw.Run(ctx)

	reconvert(ctx, converter, job)
	logger.Info("Watching for changes", zap.Strings("files", files))

	for {
		select {
		case <-ctx.Done():
			logger.Info("Stopped watching")
			return nil
		case path := <-changes:
			logger.Info("File changed", zap.String("file", path))
			reconvert(ctx, converter, job)
		}
	}
}

// reconvert runs one conversion and only logs failures, so a broken
// intermediate save does not end the watch.
func reconvert(ctx context.Context, converter *convert.Converter, job convert.Job) {
	if _, err := converter.Run(ctx, job); err != nil && ctx.Err() == nil {
		logger.Error("Conversion failed", zap.Error(err))
	}
}
