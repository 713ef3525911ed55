package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/wardrobe/backend/internal/domain"
	"github.com/wardrobe/backend/internal/usecase"
)

func newQualityCommand(opts *cliOptions) *cobra.Command {
	var tier, authenticity string

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Derive the 0-100 quality score from a tier and authenticity confidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			var tierPtr, authPtr *string
			if cmd.Flags().Changed("tier") {
				tierPtr = &tier
			}
			if cmd.Flags().Changed("auth") {
				authPtr = &authenticity
			}

			score := usecase.DeriveQualityScore(tierPtr, authPtr)
			result := domain.QualityResult{QualityScore: score, QualityBucket: usecase.QualityBucket(score)}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, result)
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tier", "Authenticity", "Score", "Bucket"},
				[][]string{{tier, authenticity, strconv.Itoa(result.QualityScore), result.QualityBucket}},
				map[int]bool{2: true},
			))
			return nil
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "Tier reported by the vision model (e.g. luxury, mass market)")
	cmd.Flags().StringVar(&authenticity, "auth", "", "Authenticity confidence (high, medium, low)")
	return cmd
}
