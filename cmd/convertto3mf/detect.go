package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/convertto3mf/pkg/detect"
)

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Show the detected format of a file",
	Long:  "Print the estimated probability of every supported format and the format that would be used for conversion.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	format, scores, err := detect.DetectFile(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n\n", args[0])
	for _, s := range scores {
		marker := " "
		if s.Format == format {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %-10s %.6f\n", marker, s.Format, s.Probability)
	}
	fmt.Fprintf(out, "\nDetected format: %s\n", format)
	return nil
}
