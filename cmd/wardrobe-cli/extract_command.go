package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardrobe/backend/internal/domain"
)

func newExtractCommand(opts *cliOptions) *cobra.Command {
	var price float64

	cmd := &cobra.Command{
		Use:   "extract [text...]",
		Short: "Extract garment attributes from text (arguments or stdin lines)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var pricePtr *float64
			if cmd.Flags().Changed("price") {
				pricePtr = &price
			}

			inputs := []string{strings.Join(args, " ")}
			if len(args) == 0 {
				lines, err := readLines(cmd)
				if err != nil {
					return err
				}
				inputs = lines
			}

			extractor := opts.extractor()
			results := make([]*domain.AnalysisResult, 0, len(inputs))
			for _, in := range inputs {
				results = append(results, extractor.Extract(in, pricePtr))
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, results)
			}

			rows := make([][]string, 0, len(results))
			for _, r := range results {
				rows = append(rows, analysisRow(r))
			}
			fmt.Fprintln(out, renderTable(analysisHeaders, rows, map[int]bool{1: true, 6: true}))
			return nil
		},
	}

	cmd.Flags().Float64Var(&price, "price", 0, "Price attached to the analyzed text")
	return cmd
}

func readLines(cmd *cobra.Command) ([]string, error) {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	lines := make([]string, 0)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return lines, nil
}
