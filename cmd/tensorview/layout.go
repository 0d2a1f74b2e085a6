package main

import (
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/born-ml/tensorview/internal/observer"
)

func newLayoutCmd() *cobra.Command {
	var flags observeFlags

	cmd := &cobra.Command{
		Use:   "layout FILE",
		Short: "Show the texture layout of every tensor without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.capture(cmd)

			blocks, err := flags.loadBlocks(args[0])
			if err != nil {
				return err
			}

			var data [][]string
			for _, block := range blocks {
				obs := observer.New(block)
				layout, warnings, err := flags.configure(obs)
				if err != nil {
					return fmt.Errorf("%s: %w", block.Name(), err)
				}

				tiles := "-"
				if layout.Tiled {
					tiles = fmt.Sprintf("%dx%d x%d", layout.Tile.TileWidth, layout.Tile.TileHeight, layout.Tile.TilesPerRow)
				}
				msgs := make([]string, len(warnings))
				for i, w := range warnings {
					msgs[i] = w.Message
				}

				data = append(data, []string{
					block.Name(),
					block.Shape().String(),
					block.DType().String(),
					obs.Config().Method.String(),
					obs.Invocation().Kernel.String(),
					layout.Size.String(),
					tiles,
					strings.Join(msgs, "; "),
				})
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"NAME", "SHAPE", "DTYPE", "METHOD", "KERNEL", "SIZE", "TILES", "WARNING"})
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

	flags.register(cmd)
	return cmd
}
