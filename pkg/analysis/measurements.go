// Package analysis computes statistics over a model as it would be exported.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/philipparndt/convertto3mf/pkg/geometry"
	"github.com/philipparndt/convertto3mf/pkg/model"
)

// MeshStats describes one mesh
type MeshStats struct {
	Name             string
	FaceCount        int
	DegenerateFaces  int // faces the exporter drops
	TriangleCount    int
	DistinctVertices int
	SurfaceArea      float64
	BoundingBox      geometry.BoundingBox
}

// Result contains the statistics of a whole model
type Result struct {
	Meshes           []MeshStats
	FaceCount        int
	DegenerateFaces  int
	TriangleCount    int
	DistinctVertices int
	SurfaceArea      float64
	BoundingBox      geometry.BoundingBox
	Dimensions       geometry.Point
	MinTriangleArea  float64
	MaxTriangleArea  float64
}

// TriangleInfo describes one triangle of the fan triangulation
type TriangleInfo struct {
	Mesh     int
	Index    int
	Triangle geometry.Triangle
	Area     float64
}

// AnalyzeModel performs analysis on a model
func AnalyzeModel(m model.Model) *Result {
	result := &Result{
		Meshes:      make([]MeshStats, 0, len(m.Meshes)),
		BoundingBox: geometry.NewBoundingBox(),
	}

	minArea := math.MaxFloat64
	maxArea := 0.0

	for _, mesh := range m.Meshes {
		stats := MeshStats{
			Name:        mesh.Name,
			FaceCount:   len(mesh.Faces),
			BoundingBox: geometry.NewBoundingBox(),
		}
		distinct := make(map[geometry.Key]struct{})

		for _, face := range mesh.Faces {
			if !face.Exportable() {
				stats.DegenerateFaces++
				continue
			}
			for _, p := range face {
				distinct[p.Key()] = struct{}{}
				stats.BoundingBox.Extend(p)
				result.BoundingBox.Extend(p)
			}
			for _, tri := range face.Triangles() {
				area := tri.Area()
				stats.TriangleCount++
				stats.SurfaceArea += area
				minArea = math.Min(minArea, area)
				maxArea = math.Max(maxArea, area)
			}
		}
		stats.DistinctVertices = len(distinct)

		result.Meshes = append(result.Meshes, stats)
		result.FaceCount += stats.FaceCount
		result.DegenerateFaces += stats.DegenerateFaces
		result.TriangleCount += stats.TriangleCount
		result.DistinctVertices += stats.DistinctVertices
		result.SurfaceArea += stats.SurfaceArea
	}

	result.Dimensions = result.BoundingBox.Size()
	if result.TriangleCount > 0 {
		result.MinTriangleArea = minArea
		result.MaxTriangleArea = maxArea
	}

	return result
}

// Triangles returns every exported triangle in mesh and face order.
// Faces the exporter drops contribute none.
func Triangles(m model.Model) []TriangleInfo {
	var triangles []TriangleInfo
	for i, mesh := range m.Meshes {
		index := 0
		for _, face := range mesh.Faces {
			if !face.Exportable() {
				continue
			}
			for _, tri := range face.Triangles() {
				triangles = append(triangles, TriangleInfo{
					Mesh:     i,
					Index:    index,
					Triangle: tri,
					Area:     tri.Area(),
				})
				index++
			}
		}
	}
	return triangles
}

// LargestTriangles returns the count triangles with the largest area
func LargestTriangles(triangles []TriangleInfo, count int) []TriangleInfo {
	return sortedTriangles(triangles, count, func(a, b TriangleInfo) bool {
		return a.Area > b.Area
	})
}

// SmallestTriangles returns the count triangles with the smallest area
func SmallestTriangles(triangles []TriangleInfo, count int) []TriangleInfo {
	return sortedTriangles(triangles, count, func(a, b TriangleInfo) bool {
		return a.Area < b.Area
	})
}

func sortedTriangles(triangles []TriangleInfo, count int, less func(a, b TriangleInfo) bool) []TriangleInfo {
	sorted := make([]TriangleInfo, len(triangles))
	copy(sorted, triangles)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	if count > len(sorted) {
		count = len(sorted)
	}
	if count < 0 {
		count = 0
	}

	return sorted[:count]
}

// FormatVector formats a 3D point
func FormatVector(v geometry.Point) string {
	return fmt.Sprintf("(%.6f, %.6f, %.6f)", v.X, v.Y, v.Z)
}
