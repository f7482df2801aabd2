package cmd

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/amane-katagiri/jelatofish/internal/palette"
	"github.com/amane-katagiri/jelatofish/internal/pipeline"
	"github.com/amane-katagiri/jelatofish/internal/sheet"
	"github.com/amane-katagiri/jelatofish/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Render a contact sheet of consecutive seeds",
	Long:  `Render a grid of fish thumbnails from consecutive seeds into a single PNG.`,
	RunE:  runSheet,
}

func init() {
	rootCmd.AddCommand(sheetCmd)

	sheetCmd.Flags().Int("cols", 8, "Grid columns")
	sheetCmd.Flags().Int("rows", 6, "Grid rows")
	sheetCmd.Flags().Int64("start-seed", 1, "Seed of the top-left cell")
	sheetCmd.Flags().Int("cell-size", 96, "Thumbnail edge in pixels")
	sheetCmd.Flags().Bool("labels", true, "Print each seed under its thumbnail")
	sheetCmd.Flags().StringP("output", "o", "sheet.png", "Output PNG path")

	sheetCmd.Flags().Int("size", 256, "Render size in pixels before thumbnail scaling")
	sheetCmd.Flags().Int("layers", 0, "Layer count between 2 and 6 (0 = random per fish)")
	sheetCmd.Flags().Float64("cutoff", -1, "Opacity cutoff threshold in [0,1/16] (negative = random per fish)")
	sheetCmd.Flags().String("palette", "", "Palette preset name or comma-separated hex colours")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"sheet.cols", "cols"},
		{"sheet.rows", "rows"},
		{"sheet.start_seed", "start-seed"},
		{"sheet.cell_size", "cell-size"},
		{"sheet.labels", "labels"},
		{"sheet.output", "output"},
		{"sheet.size", "size"},
		{"sheet.layers", "layers"},
		{"sheet.cutoff", "cutoff"},
		{"sheet.palette", "palette"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, sheetCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runSheet(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cols := viper.GetInt("sheet.cols")
	rows := viper.GetInt("sheet.rows")
	startSeed := viper.GetInt64("sheet.start_seed")
	cellSize := viper.GetInt("sheet.cell_size")
	labels := viper.GetBool("sheet.labels")
	output := viper.GetString("sheet.output")
	size := viper.GetInt("sheet.size")
	layers := viper.GetInt("sheet.layers")
	cutoff := viper.GetFloat64("sheet.cutoff")
	paletteSpec := viper.GetString("sheet.palette")

	pal, err := palette.Parse(paletteSpec)
	if err != nil {
		return err
	}

	gen, err := pipeline.NewGenerator(pipeline.Config{
		Size:       types.Area{Width: size, Height: size},
		LayerCount: layers,
		Cutoff:     cutoffOption(cutoff),
		Palette:    pal,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	logger.Info("Rendering contact sheet",
		"cols", cols,
		"rows", rows,
		"start_seed", startSeed,
		"cell_size", cellSize,
		"output", output,
	)

	img, err := sheet.Build(gen, sheet.Config{
		Cols:      cols,
		Rows:      rows,
		StartSeed: startSeed,
		CellSize:  cellSize,
		Labels:    labels,
	})
	if err != nil {
		return fmt.Errorf("failed to build sheet: %w", err)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output dir: %w", err)
		}
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create sheet file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode sheet: %w", err)
	}

	logger.Info("Contact sheet written", "path", output, "fish", cols*rows)
	return nil
}
