package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/convertto3mf/pkg/analysis"
)

var (
	triCount    int
	triLargest  bool
	triSmallest bool
)

var trianglesCmd = &cobra.Command{
	Use:   "triangles [file]",
	Short: "Analyze the triangles a 3MF export would contain",
	Long:  "Display area and vertex positions of the triangles produced by fan triangulation of every face.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTriangles,
}

func init() {
	rootCmd.AddCommand(trianglesCmd)

	trianglesCmd.Flags().IntVarP(&triCount, "count", "n", 10, "Number of triangles to display")
	trianglesCmd.Flags().BoolVarP(&triLargest, "largest", "l", false, "Show largest triangles by area")
	trianglesCmd.Flags().BoolVarP(&triSmallest, "smallest", "s", false, "Show smallest triangles by area")
	trianglesCmd.MarkFlagsMutuallyExclusive("largest", "smallest")
}

func runTriangles(cmd *cobra.Command, args []string) error {
	m, _, err := loadModel(args[0])
	if err != nil {
		return err
	}

	result := analysis.AnalyzeModel(m)
	triangles := analysis.Triangles(m)

	var title string
	switch {
	case triLargest:
		title = fmt.Sprintf("Top %d Largest Triangles", triCount)
		triangles = analysis.LargestTriangles(triangles, triCount)
	case triSmallest:
		title = fmt.Sprintf("Top %d Smallest Triangles", triCount)
		triangles = analysis.SmallestTriangles(triangles, triCount)
	default:
		title = fmt.Sprintf("First %d Triangles", triCount)
		if triCount < len(triangles) {
			triangles = triangles[:max(triCount, 0)]
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, title)
	fmt.Fprintln(out, "====================")
	fmt.Fprintf(out, "Total triangles: %d\n", result.TriangleCount)
	fmt.Fprintf(out, "Total surface area: %.6f square units\n", result.SurfaceArea)
	fmt.Fprintf(out, "Min triangle area: %.6f square units\n", result.MinTriangleArea)
	fmt.Fprintf(out, "Max triangle area: %.6f square units\n", result.MaxTriangleArea)
	if result.TriangleCount > 0 {
		fmt.Fprintf(out, "Avg triangle area: %.6f square units\n", result.SurfaceArea/float64(result.TriangleCount))
	}
	fmt.Fprintln(out)

	for _, tri := range triangles {
		fmt.Fprintf(out, "Triangle #%d (mesh %d):\n", tri.Index, tri.Mesh)
		fmt.Fprintf(out, "  Area: %.6f square units\n", tri.Area)
		fmt.Fprintf(out, "  Perimeter: %.6f units\n", tri.Triangle.Perimeter())
		fmt.Fprintf(out, "  Vertices: %s, %s, %s\n\n",
			analysis.FormatVector(tri.Triangle.V1),
			analysis.FormatVector(tri.Triangle.V2),
			analysis.FormatVector(tri.Triangle.V3))
	}
	return nil
}
