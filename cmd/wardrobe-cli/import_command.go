package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wardrobe/backend/internal/infrastructure/storage"
	"github.com/wardrobe/backend/internal/usecase"
)

func newImportCommand(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Parse a receipt file and analyze one garment per line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading receipt: %w", err)
			}

			service := usecase.NewWardrobeService(nil, nil, storage.NewMemoryRepository(), nil, usecase.WardrobeServiceConfig{
				FabricBonus:        opts.fabricBonus,
				EnableDebugLogging: opts.verbose,
			})
			garments, err := service.ImportReceipt(cmd.Context(), strings.Split(string(data), "\n"))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.jsonOutput {
				return writeJSON(out, garments)
			}

			rows := make([][]string, 0, len(garments))
			for _, g := range garments {
				rows = append(rows, []string{
					g.OriginalText,
					formatPrice(g.Price),
					g.Category.Name,
					joinNames(g.Colors),
					joinNames(g.Fabrics),
					fmt.Sprintf("%.2f", g.ConfidenceScore),
					yesNo(g.NeedsReview),
					strconv.Itoa(g.QualityScore),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Text", "Price", "Category", "Colors", "Fabrics", "Confidence", "Review", "Quality"},
				rows,
				map[int]bool{1: true, 5: true, 7: true},
			))
			return nil
		},
	}
}
