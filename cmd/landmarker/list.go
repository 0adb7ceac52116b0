package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/internal/storage"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List models with stored landmarks",
	Long: `List the model IDs that have a stored landmark set of the configured type.
The file backend looks in storage.dir, or the working directory when unset.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.New(config.Storage(), ".")
		if err != nil {
			return err
		}
		defer store.Close()

		landmarkType := config.GetString("landmarkType")
		ids, err := store.Models(cmd.Context(), landmarkType)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(ids) == 0 {
			fmt.Fprintf(out, "No stored %s landmark sets\n", landmarkType)
			return nil
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		logger.Debug().Int("count", len(ids)).Str("type", landmarkType).Msg("listed stored sets")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
