package cmd

import (
	"fmt"
	"strings"

	"github.com/amane-katagiri/jelatofish/internal/fish"
	"github.com/amane-katagiri/jelatofish/internal/palette"
	"github.com/spf13/cobra"
)

var palettesCmd = &cobra.Command{
	Use:   "palettes",
	Short: "List built-in palette presets",
	Long:  `List the built-in palette preset names together with their colours as hex codes.`,
	RunE:  runPalettes,
}

func init() {
	rootCmd.AddCommand(palettesCmd)
}

func runPalettes(cmd *cobra.Command, args []string) error {
	for _, name := range palette.Presets() {
		pal, ok := palette.Named(name)
		if !ok {
			continue
		}

		hexes := make([]string, 0, len(pal.Colours))
		for _, c := range pal.Colours {
			hexes = append(hexes, colourHex(c))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, strings.Join(hexes, " "))
	}
	return nil
}

func colourHex(c fish.Colour) string {
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(c.Red*255+0.5),
		uint8(c.Green*255+0.5),
		uint8(c.Blue*255+0.5),
	)
}
