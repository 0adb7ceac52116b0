package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/landmarker/internal/app"
	"github.com/philipparndt/landmarker/pkg/analysis"
)

var (
	infoLandmarks string
	infoTolerance float64
)

var infoCmd = &cobra.Command{
	Use:   "info <mesh>",
	Short: "Display mesh statistics and landmark coverage",
	Long:  "Show dimensions and triangle statistics of a mesh, and how many landmarks of each group are placed and how far they are from the surface.",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoLandmarks, "landmarks", "l", "", "Landmark JSON file (defaults to the landmark store)")
	infoCmd.Flags().Float64Var(&infoTolerance, "tolerance", 1e-3, "Distance from the surface above which a landmark is reported")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	source, err := app.LoadMesh(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	model := source.Model
	stats := analysis.AnalyzeMesh(model)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Mesh")
	fmt.Fprintln(out, "====")
	fmt.Fprintf(out, "Model ID: %s\n", model.ID)
	fmt.Fprintf(out, "File: %s\n\n", args[0])
	fmt.Fprintf(out, "  Triangles: %d\n", stats.TriangleCount)
	fmt.Fprintf(out, "  Vertices: %d\n", stats.VertexCount)
	fmt.Fprintf(out, "  Surface Area: %.6f square units\n", stats.SurfaceArea)
	fmt.Fprintf(out, "  Min: %s\n", analysis.FormatVector(stats.BoundingBox.Min))
	fmt.Fprintf(out, "  Max: %s\n", analysis.FormatVector(stats.BoundingBox.Max))
	fmt.Fprintf(out, "  Bounding sphere: center %s radius %.6f\n", analysis.FormatVector(stats.Sphere.Center), stats.Sphere.Radius)
	fmt.Fprintf(out, "  Edge length: min %.6f, max %.6f, avg %.6f\n\n", stats.MinEdgeLength, stats.MaxEdgeLength, stats.AvgEdgeLength)

	set, err := loadLandmarks(cmd.Context(), infoLandmarks, args[0], model.ID)
	if err != nil {
		return err
	}
	if set == nil {
		fmt.Fprintln(out, "No landmarks stored for this mesh")
		return nil
	}

	report := analysis.AnalyzeLandmarks(set, model)
	fmt.Fprintln(out, "Landmarks")
	fmt.Fprintln(out, "=========")
	for _, g := range report.Groups {
		fmt.Fprintf(out, "  %-12s %3d / %d\n", g.Label, g.Placed, g.Total)
	}
	fmt.Fprintf(out, "  %-12s %3d / %d\n", "total", report.Placed, report.Total)

	off := report.OffSurface(infoTolerance)
	if len(off) > 0 {
		fmt.Fprintf(out, "\n%d landmark(s) off the surface:\n", len(off))
		for _, o := range off {
			fmt.Fprintf(out, "  %s %d: %.6f\n", o.Entry.Label, o.Entry.Index, o.Distance)
		}
	}
	return nil
}
