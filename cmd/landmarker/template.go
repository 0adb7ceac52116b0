package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/philipparndt/landmarker/internal/config"
	"github.com/philipparndt/landmarker/pkg/landmark"
)

var templateModel string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print an empty landmark set of the configured type as JSON",
	Long:  "Print an empty landmark set. Known types: " + strings.Join(landmark.TemplateTypes(), ", "),
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set, err := landmark.Template(config.GetString("landmarkType"), templateModel)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(set, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateModel, "model", "m", "", "Model ID to store in the set")
	rootCmd.AddCommand(templateCmd)
}
