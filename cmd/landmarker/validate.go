package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/landmarker/pkg/landmark"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a landmark JSON file",
	Long:  "Parse a landmark JSON file, check its version and report the groups it contains.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	set, err := landmark.FromJSON(data)
	if err != nil {
		return fmt.Errorf("%s is not a valid landmark file: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: version %d, model %q, %d group(s)\n", args[0], landmark.Version, set.ModelID(), set.NGroups())
	placed, total := 0, 0
	for _, label := range set.Labels() {
		g := set.Group(label)
		n := g.Len() - g.NEmpty()
		fmt.Fprintf(out, "  %-12s %3d / %d placed\n", label, n, g.Len())
		placed += n
		total += g.Len()
	}
	fmt.Fprintf(out, "  %-12s %3d / %d placed\n", "total", placed, total)
	return nil
}
