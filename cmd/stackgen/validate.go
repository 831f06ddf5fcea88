package main

import (
	"fmt"

	"github.com/artpar/stackgen/internal/core/compiler"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Compile a service description without writing output",
	Long: `Validate runs the full compilation pipeline - loading, defaulting,
secret and topology planning, assembly and validation - and reports
problems without writing a manifest.`,
	RunE: runValidate,
}

func init() {
	addCompileFlags(validateCmd)
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	inputPath, _ := cmd.Flags().GetString("file")

	raw, err := readInput(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	result, err := compiler.Compile(raw, compileOptions(cmd))
	if err != nil {
		return err
	}

	for _, warning := range result.Warnings {
		logger.Warn(warning.Message, "code", warning.Code)
	}
	logger.Info("manifest is valid",
		"services", result.Document.Services.Len(),
		"networks", len(result.Document.Networks),
		"secrets", len(result.Document.Secrets),
		"volumes", len(result.Document.Volumes),
	)
	return nil
}
