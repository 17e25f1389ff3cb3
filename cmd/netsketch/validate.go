package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/netsketch/pkg/sketchfile"
)

var validateCmd = &cobra.Command{
	Use:   "validate <diagram>",
	Short: "Check a diagram file for integrity problems",
	Long: `Check that every connection references existing devices, ids are
unique, boundaries have geometry, and boundary options parse.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	project, err := sketchfile.Load(args[0])
	if err != nil {
		return err
	}

	errs := sketchfile.Validate(project.Diagram)
	if len(errs) == 0 {
		fmt.Printf("%s: ok\n", args[0])
		return nil
	}

	for _, e := range errs {
		fmt.Printf("  %v\n", e)
	}
	return fmt.Errorf("%d validation errors", len(errs))
}
