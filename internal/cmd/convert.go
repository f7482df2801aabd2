package cmd

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/amane-katagiri/jelatofish/internal/archive"
	"github.com/amane-katagiri/jelatofish/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a fish folder to an archive database",
	Long:  `Convert an existing folder of fish PNGs into a single archive database.`,
	RunE:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().String("input-dir", "./fish", "Input directory containing fish PNGs")
	convertCmd.Flags().StringP("output", "o", "", "Output archive file path (required)")
	convertCmd.Flags().String("name", "Jelatofish", "Archive name")
	convertCmd.Flags().String("description", "Procedurally generated fish images", "Archive description")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"convert.input_dir", "input-dir"},
		{"convert.output", "output"},
		{"convert.name", "name"},
		{"convert.description", "description"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, convertCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	inputDir := viper.GetString("convert.input_dir")
	outputFile := viper.GetString("convert.output")
	name := viper.GetString("convert.name")
	description := viper.GetString("convert.description")

	if logger == nil {
		initLogging()
	}

	// Validate output file
	if outputFile == "" {
		return fmt.Errorf("--output is required")
	}

	// Verify input directory exists
	if _, err := os.Stat(inputDir); os.IsNotExist(err) {
		return fmt.Errorf("input directory does not exist: %s", inputDir)
	}

	logger.Info("Converting fish folder to archive",
		"input_dir", inputDir,
		"output", outputFile,
		"name", name,
	)

	// Scan fish directory
	fishFiles, err := scanFishDirectory(inputDir)
	if err != nil {
		return fmt.Errorf("failed to scan fish directory: %w", err)
	}

	if len(fishFiles) == 0 {
		return fmt.Errorf("no fish found in %s", inputDir)
	}

	logger.Info("Found fish", "count", len(fishFiles))

	// Create archive metadata
	metadata := archive.Metadata{
		Name:        name,
		Description: description,
		Version:     "1.0",
		Size:        fishSizeFromFile(fishFiles[0].path),
	}

	// Create archive writer
	writer, err := archive.New(outputFile, metadata)
	if err != nil {
		return fmt.Errorf("failed to create archive writer: %w", err)
	}
	defer writer.Close()

	// Convert fish
	logger.Info("Converting fish...")
	for i, f := range fishFiles {
		pngData, err := os.ReadFile(f.path)
		if err != nil {
			logger.Error("Failed to read fish", "path", f.path, "error", err)
			continue
		}

		if err := writer.WriteFish(f.seed, pngData, nil); err != nil {
			logger.Error("Failed to write fish", "seed", f.seed, "error", err)
			continue
		}

		if (i+1)%100 == 0 {
			logger.Info("Progress", "converted", i+1, "total", len(fishFiles))
		}
	}

	// Flush remaining fish
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush archive: %w", err)
	}

	logger.Info("Conversion complete", "output", outputFile, "fish", len(fishFiles))
	return nil
}

type fishFile struct {
	seed int64
	path string
}

// scanFishDirectory finds fish PNGs named fish_<seed>.png. HiDPI (@2x)
// renders and per-layer debug rasters do not match the pattern and are
// skipped.
func scanFishDirectory(dir string) ([]fishFile, error) {
	pattern := regexp.MustCompile(`^fish_(-?\d+)\.png$`)

	var fishFiles []fishFile

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		matches := pattern.FindStringSubmatch(filepath.Base(path))
		if matches == nil {
			return nil
		}

		seed, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil
		}

		fishFiles = append(fishFiles, fishFile{seed: seed, path: path})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return fishFiles, nil
}

// fishSizeFromFile reads the PNG header to fill the archive metadata.
// Returns a zero area when the file cannot be decoded.
func fishSizeFromFile(path string) types.Area {
	f, err := os.Open(path)
	if err != nil {
		return types.Area{}
	}
	defer f.Close() // nolint:errcheck

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		return types.Area{}
	}
	return types.Area{Width: cfg.Width, Height: cfg.Height}
}
