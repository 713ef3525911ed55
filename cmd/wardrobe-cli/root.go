package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wardrobe/backend/internal/logging"
	"github.com/wardrobe/backend/internal/usecase"
)

type cliOptions struct {
	fabricBonus float64
	jsonOutput  bool
	verbose     bool
}

func (o *cliOptions) extractor() *usecase.AttributeExtractor {
	return usecase.NewAttributeExtractor(usecase.ExtractorConfig{
		FabricBonus:        o.fabricBonus,
		EnableDebugLogging: o.verbose,
	})
}

func newRootCommand() *cobra.Command {
	opts := &cliOptions{}

	rootCmd := &cobra.Command{
		Use:           "wardrobe-cli",
		Short:         "Offline garment attribute extraction and quality scoring",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.fabricBonus <= 0 || opts.fabricBonus > 1 {
				return fmt.Errorf("--fabric-bonus must be within (0,1], got %v", opts.fabricBonus)
			}
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), level, "text"))
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().Float64Var(&opts.fabricBonus, "fabric-bonus", usecase.DefaultFabricBonus, "Confidence bonus when a fabric matches")
	rootCmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Print JSON instead of a table")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(newExtractCommand(opts))
	rootCmd.AddCommand(newQualityCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))

	return rootCmd
}
