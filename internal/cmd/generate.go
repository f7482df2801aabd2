package cmd

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/amane-katagiri/jelatofish/internal/archive"
	"github.com/amane-katagiri/jelatofish/internal/palette"
	"github.com/amane-katagiri/jelatofish/internal/pipeline"
	"github.com/amane-katagiri/jelatofish/internal/types"
	"github.com/amane-katagiri/jelatofish/internal/worker"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate fish images",
	Long:  `Generate procedural fish images for a single seed or a range of consecutive seeds.`,
	RunE:  runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	// Single fish flags
	generateCmd.Flags().Int64P("seed", "s", 1, "Seed for single fish mode")

	// Batch generation flags
	generateCmd.Flags().Int("count", 0, "Number of fish for batch mode (0 = single fish)")
	generateCmd.Flags().Int64("start-seed", 1, "First seed for batch mode; fish i uses start-seed+i")
	generateCmd.Flags().IntP("workers", "w", 0, "Number of parallel workers (default: number of CPUs)")
	generateCmd.Flags().Bool("progress", true, "Show progress bar during batch generation")

	// Common flags
	generateCmd.Flags().Bool("force", false, "Force regeneration even if the fish exists")
	generateCmd.Flags().Int("size", 256, "Fish size in pixels (square)")
	generateCmd.Flags().Int("oversample", 1, "Render at N times the size and downscale for smoother edges")
	generateCmd.Flags().Int("layers", 0, "Layer count between 2 and 6 (0 = random per fish)")
	generateCmd.Flags().Float64("cutoff", -1, "Opacity cutoff threshold in [0,1/16] (negative = random per fish)")
	generateCmd.Flags().String("palette", "", "Palette preset name or comma-separated hex colours (empty = random colours)")
	generateCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	generateCmd.Flags().Bool("keep-layers", false, "Keep per-layer greyscale PNGs for debugging")

	// Output format flags
	generateCmd.Flags().String("format", "folder", "Output format: folder or archive")
	generateCmd.Flags().String("output-file", "", "Output file path for archive format (e.g., fish.db)")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"generate.seed", "seed"},
		{"generate.count", "count"},
		{"generate.start_seed", "start-seed"},
		{"generate.workers", "workers"},
		{"generate.progress", "progress"},
		{"generate.force", "force"},
		{"generate.size", "size"},
		{"generate.oversample", "oversample"},
		{"generate.layers", "layers"},
		{"generate.cutoff", "cutoff"},
		{"generate.palette", "palette"},
		{"generate.png_compression", "png-compression"},
		{"generate.keep_layers", "keep-layers"},
		{"generate.format", "format"},
		{"generate.output_file", "output-file"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, generateCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	seed := viper.GetInt64("generate.seed")
	count := viper.GetInt("generate.count")
	startSeed := viper.GetInt64("generate.start_seed")
	workers := viper.GetInt("generate.workers")
	showProgress := viper.GetBool("generate.progress")
	force := viper.GetBool("generate.force")
	outputDir := viper.GetString("output-dir")
	size := viper.GetInt("generate.size")
	oversample := viper.GetInt("generate.oversample")
	layers := viper.GetInt("generate.layers")
	cutoff := viper.GetFloat64("generate.cutoff")
	paletteSpec := viper.GetString("generate.palette")
	pngCompression := viper.GetString("generate.png_compression")
	keepLayers := viper.GetBool("generate.keep_layers")
	format := viper.GetString("generate.format")
	outputFile := viper.GetString("generate.output_file")

	if logger == nil {
		initLogging()
	}

	// Validate format
	if format != "folder" && format != "archive" {
		return fmt.Errorf("invalid format %q: must be 'folder' or 'archive'", format)
	}

	// Validate archive requirements
	if format == "archive" {
		if outputFile == "" {
			return fmt.Errorf("--output-file is required when using --format=archive")
		}
		if count <= 0 {
			return fmt.Errorf("archive format requires batch generation (use --count)")
		}
	}

	pal, err := palette.Parse(paletteSpec)
	if err != nil {
		return err
	}

	level, err := pngCompressionLevel(pngCompression)
	if err != nil {
		return err
	}

	cfg := pipeline.Config{
		OutputDir:   outputDir,
		Size:        types.Area{Width: size, Height: size},
		Oversample:  oversample,
		LayerCount:  layers,
		Cutoff:      cutoffOption(cutoff),
		Palette:     pal,
		Compression: level,
		KeepLayers:  keepLayers,
		Logger:      logger,
	}

	// Determine mode: batch (count provided) or single fish
	if count > 0 {
		return runBatchGenerate(cfg, startSeed, count, workers, showProgress, force, format, outputFile, paletteSpec)
	}

	return runSingleGenerate(cfg, seed, force)
}

func runSingleGenerate(cfg pipeline.Config, seed int64, force bool) error {
	logger.Info("Starting fish generation",
		"seed", seed,
		"output_dir", cfg.OutputDir,
		"size", cfg.Size.String(),
		"oversample", cfg.Oversample,
		"force", force,
	)

	gen, err := pipeline.NewGenerator(cfg)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	path, err := gen.Generate(context.Background(), seed, force)
	if err != nil {
		return fmt.Errorf("failed to generate fish: %w", err)
	}

	logger.Info("Fish generated", "seed", seed, "path", path)
	return nil
}

func runBatchGenerate(cfg pipeline.Config, startSeed int64, count, workers int, showProgress, force bool, format, outputFile, paletteSpec string) error {
	// Default workers to CPU count
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger.Info("Starting batch fish generation",
		"start_seed", startSeed,
		"count", count,
		"workers", workers,
		"output_dir", cfg.OutputDir,
		"format", format,
	)

	// Create archive writer if needed
	var archiveWriter *archive.Writer
	if format == "archive" {
		metadata := archive.Metadata{
			Name:        "Jelatofish",
			Description: "Procedurally generated fish images",
			Palette:     paletteSpec,
			Version:     "1.0",
			Size:        cfg.Size,
		}

		var err error
		archiveWriter, err = archive.New(outputFile, metadata)
		if err != nil {
			return fmt.Errorf("failed to create archive writer: %w", err)
		}
		defer archiveWriter.Close()

		cfg.Writer = archiveWriter
		logger.Info("Archive writer created", "path", outputFile)
	}

	gen, err := pipeline.NewGenerator(cfg)
	if err != nil {
		return fmt.Errorf("failed to init generator: %w", err)
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("Received interrupt signal, cancelling...")
		cancel()
	}()

	// Build task list from consecutive seeds
	tasks := make([]worker.Task, 0, count)
	for i := 0; i < count; i++ {
		tasks = append(tasks, worker.Task{
			Seed:  startSeed + int64(i),
			Force: force,
		})
	}

	// Setup progress tracking
	progress := worker.NewProgress(len(tasks), showProgress)

	// Create worker pool
	pool := worker.New(worker.Config{
		Workers:    workers,
		Generator:  gen,
		OnProgress: progress.Callback(),
	})

	results := pool.Run(ctx, tasks)
	progress.Done()

	// Check for failures
	var failedCount int
	for _, r := range results {
		if r.Err != nil {
			failedCount++
			logger.Error("Fish generation failed", "seed", r.Task.Seed, "error", r.Err)
		}
	}

	logger.Info(progress.Summary())

	if failedCount > 0 {
		return fmt.Errorf("%d fish failed to generate", failedCount)
	}

	// Flush archive writer if used
	if archiveWriter != nil {
		logger.Info("Flushing archive...")
		if err := archiveWriter.Flush(); err != nil {
			return fmt.Errorf("failed to flush archive: %w", err)
		}
		logger.Info("Archive generation complete", "path", outputFile, "fish", count)
	}

	return nil
}

// pngCompressionLevel maps a flag value onto image/png compression levels.
func pngCompressionLevel(name string) (png.CompressionLevel, error) {
	switch name {
	case "", "default":
		return png.DefaultCompression, nil
	case "speed":
		return png.BestSpeed, nil
	case "best":
		return png.BestCompression, nil
	case "none":
		return png.NoCompression, nil
	default:
		return png.DefaultCompression, fmt.Errorf("invalid png-compression %q: must be 'default', 'speed', 'best' or 'none'", name)
	}
}

// cutoffOption turns the cutoff flag into a pipeline option. Negative
// values mean "sample one at random per fish".
func cutoffOption(v float64) *float64 {
	if v < 0 {
		return nil
	}
	return &v
}
