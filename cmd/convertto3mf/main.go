package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/philipparndt/convertto3mf/internal/config"
	"github.com/philipparndt/convertto3mf/internal/convert"
	"github.com/philipparndt/convertto3mf/internal/logging"
	"github.com/philipparndt/convertto3mf/pkg/detect"
	"github.com/philipparndt/convertto3mf/pkg/openscad"
	"github.com/philipparndt/convertto3mf/version"
)

var (
	cfgFile    string
	outputFile string
	formatName string

	v      = viper.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "convertto3mf <input>",
	Short: "Convert OBJ and STL files to 3MF",
	Long: `convertto3mf converts Wavefront OBJ, ASCII STL and binary STL files into
3MF packages. The input format is detected from the file name and content
unless --format is given. OpenSCAD sources are rendered to STL first.`,
	Args:              cobra.ExactArgs(1),
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE:              runConvert,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./convertto3mf.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	_ = v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = v.BindPFlag("log.format", flags.Lookup("log-format"))

	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: input with .3mf extension)")
	rootCmd.Flags().StringVarP(&formatName, "format", "f", "", "input format (obj, stl-ascii, stl-binary), detected when empty")
}

// setup loads the configuration and builds the logger for every command
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	logger, err = logging.New(cfg.Log)
	if err != nil {
		return err
	}
	return nil
}

func newConverter() (*convert.Converter, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return convert.NewConverter(logger, openscad.NewRenderer(cfg.OpenSCAD.Binary, wd)), nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	job := convert.Job{Input: args[0], Output: outputFile}
	if formatName != "" {
		format, err := detect.ParseFormat(formatName)
		if err != nil {
			return err
		}
		job.Format = &format
	}

	converter, err := newConverter()
	if err != nil {
		return err
	}
	_, err = converter.Run(cmd.Context(), job)
	return err
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
