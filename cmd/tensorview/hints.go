package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/tensorview/internal/loader"
)

func newHintsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "hints FILE",
		Short: "Store the data range of every tensor as its value hint",
		Long: `Computes the minimum and maximum finite value of every tensor and writes
a copy of FILE with the range stored as the tensor's value hint, so that
renders with inherited bounds no longer need --auto-hints.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blocks, err := loader.OpenBlocks(args[0], loader.Options{AutoHints: true})
			if err != nil {
				return err
			}

			var data [][]string
			for _, block := range blocks {
				minValue, maxValue := block.ValueHint()
				if _, _, err := loader.ComputeValueHint(block); errors.Is(err, loader.ErrNoFiniteValues) {
					slog.Warn("no finite values, value hint left unchanged", "block", block.Name())
				}
				data = append(data, []string{
					block.Name(),
					strconv.FormatFloat(float64(minValue), 'g', 6, 32),
					strconv.FormatFloat(float64(maxValue), 'g', 6, 32),
				})
			}

			if err := loader.WriteBlocks(output, blocks); err != nil {
				return fmt.Errorf("loader: %s: %w", output, err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"NAME", "MIN", "MAX"})
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderLine(false)
			table.SetBorder(false)
			table.SetNoWhiteSpace(true)
			table.SetTablePadding("    ")
			table.AppendBulk(data)
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (may be FILE itself)")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
