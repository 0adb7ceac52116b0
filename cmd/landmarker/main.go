package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/logging"
	"github.com/philipparndt/landmarker/version"
)

var (
	configDir string
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "landmarker",
	Short: "Place and edit landmarks on 3D meshes",
	Long: `landmarker places named groups of landmarks on STL and OpenSCAD meshes.
It opens an interactive viewport for clicking, dragging and box-selecting
landmarks with undo and redo, and provides commands to inspect, render and
validate landmark sets.`,
	Version:      version.GetFullVersion(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(configDir); err != nil {
			return err
		}
		logger = logging.Setup(os.Stderr, config.GetString("logLevel"))
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config", ".", "Directory containing landmarker.yaml")
	flags.String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.StringP("type", "t", "ibug68", "Landmark type")

	_ = viper.BindPFlag("logLevel", flags.Lookup("log-level"))
	_ = viper.BindPFlag("landmarkType", flags.Lookup("type"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
