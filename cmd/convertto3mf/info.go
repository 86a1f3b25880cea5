package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/philipparndt/convertto3mf/internal/convert"
	"github.com/philipparndt/convertto3mf/pkg/analysis"
	"github.com/philipparndt/convertto3mf/pkg/detect"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

var infoCmd = &cobra.Command{
	Use:   "info [file]",
	Short: "Display general information about a mesh file",
	Long:  "Show the detected format, mesh and face counts, the triangles and distinct vertices a 3MF export would contain, bounding box and surface area.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// loadModel detects the format of filename and imports it
func loadModel(filename string) (model.Model, detect.Format, error) {
	format, _, err := detect.DetectFile(filename)
	if err != nil {
		return model.Model{}, 0, err
	}
	m, err := convert.Import(format, filename)
	if err != nil {
		return model.Model{}, 0, err
	}
	return m, format, nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]

	stat, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}
	m, format, err := loadModel(filename)
	if err != nil {
		return err
	}

	result := analysis.AnalyzeModel(m)
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "File Information")
	fmt.Fprintln(out, "================")
	fmt.Fprintf(out, "File: %s (%s)\n", filename, humanize.Bytes(uint64(stat.Size())))
	fmt.Fprintf(out, "Format: %s\n\n", format)

	fmt.Fprintln(out, "Model Statistics:")
	fmt.Fprintf(out, "  Meshes: %d\n", len(result.Meshes))
	fmt.Fprintf(out, "  Faces: %s\n", humanize.Comma(int64(result.FaceCount)))
	fmt.Fprintf(out, "  Degenerate faces: %d\n", result.DegenerateFaces)
	fmt.Fprintf(out, "  Triangles: %s\n", humanize.Comma(int64(result.TriangleCount)))
	fmt.Fprintf(out, "  Distinct vertices: %s\n", humanize.Comma(int64(result.DistinctVertices)))
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n\n", result.SurfaceArea)

	if result.TriangleCount == 0 {
		return nil
	}

	fmt.Fprintln(out, "Bounding Box:")
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(result.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(result.BoundingBox.Max))
	fmt.Fprintf(out, "  Center: %s\n\n", analysis.FormatVector(result.BoundingBox.Center()))

	fmt.Fprintln(out, "Dimensions:")
	fmt.Fprintf(out, "  Width (X): %.6f units\n", result.Dimensions.X)
	fmt.Fprintf(out, "  Depth (Y): %.6f units\n", result.Dimensions.Y)
	fmt.Fprintf(out, "  Height (Z): %.6f units\n", result.Dimensions.Z)
	fmt.Fprintf(out, "  Diagonal: %.6f units\n", result.BoundingBox.Diagonal())

	if len(result.Meshes) > 1 {
		fmt.Fprintln(out, "\nMeshes:")
		for i, mesh := range result.Meshes {
			name := mesh.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			fmt.Fprintf(out, "  %s: %d faces, %d triangles, %d vertices\n",
				name, mesh.FaceCount, mesh.TriangleCount, mesh.DistinctVertices)
		}
	}
	return nil
}
