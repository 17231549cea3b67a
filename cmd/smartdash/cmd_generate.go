package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shi-home/smart-dashboard/internal/generator"
)

func generateCmd() *cobra.Command {
	var (
		output   string
		template string
	)

	cmd := &cobra.Command{
		Use:   "generate [config-file]",
		Short: "Generate a dashboard from a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger()

			gen := generator.New(settings, log)
			defer gen.Close() //nolint:errcheck // Best effort cleanup

			result, err := gen.Generate(cmd.Context(), generator.Options{
				ConfigPath:   args[0],
				OutputPath:   output,
				TemplatePath: template,
			})
			if err != nil {
				return fmt.Errorf("generate: %w", err)
			}

			fmt.Printf("Wrote %s (%d views, %d cards)\n",
				result.OutputPath, result.Views, result.Cards)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "generated_dashboard.yaml",
		"output file for the generated dashboard")
	cmd.Flags().StringVar(&template, "template", "",
		"render through a custom template instead of the built-in builder")
	return cmd
}
