package main

import (
	"github.com/spf13/cobra"

	"github.com/philipparndt/landmarker/internal/app"
	"github.com/philipparndt/landmarker/internal/config"
)

var viewCmd = &cobra.Command{
	Use:   "view <mesh>",
	Short: "Open the landmarking window for an STL or OpenSCAD file",
	Long: `Open the interactive viewport. Landmarks stored for the mesh are loaded,
otherwise an empty template of the configured landmark type is used.
The mesh is reloaded whenever the file or its OpenSCAD dependencies change.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.Run(cmd.Context(), app.Options{
			MeshPath:      args[0],
			LandmarkType:  config.GetString("landmarkType"),
			Viewport:      config.Viewport(),
			Storage:       config.Storage(),
			Broadcast:     config.Broadcast(),
			WatchDebounce: config.WatchDebounce(),
			Logger:        logger,
		})
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
