package cmd

import (
	"fmt"
	"strings"

	"github.com/amane-katagiri/jelatofish/internal/generators"
	"github.com/amane-katagiri/jelatofish/internal/texture"
	"github.com/amane-katagiri/jelatofish/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var texturesCmd = &cobra.Command{
	Use:   "textures",
	Short: "Generate sample greyscale textures",
	Long:  "Render each texture generator once as a seamless greyscale PNG for inspection.",
	RunE:  runTextures,
}

func init() {
	rootCmd.AddCommand(texturesCmd)

	texturesCmd.Flags().String("textures-dir", "./textures", "Output directory for generated textures")
	texturesCmd.Flags().Int("size", 256, "Texture size in pixels (square)")
	texturesCmd.Flags().Int64("seed", 1337, "Deterministic seed for texture generation")
	texturesCmd.Flags().String("kinds", "", "Comma-separated generator kinds to render (empty = all)")
	texturesCmd.Flags().Bool("force", false, "Overwrite textures that already exist")

	bindFlags := []struct {
		key  string
		flag string
	}{
		{"textures.dir", "textures-dir"},
		{"textures.size", "size"},
		{"textures.seed", "seed"},
		{"textures.kinds", "kinds"},
		{"textures.force", "force"},
	}

	for _, bf := range bindFlags {
		if err := viper.BindPFlag(bf.key, texturesCmd.Flags().Lookup(bf.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", bf.flag, err))
		}
	}
}

func runTextures(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	dir := viper.GetString("textures.dir")
	size := viper.GetInt("textures.size")
	seed := viper.GetInt64("textures.seed")
	kindsSpec := viper.GetString("textures.kinds")
	force := viper.GetBool("textures.force")

	if size <= 0 {
		return fmt.Errorf("size must be positive")
	}

	kinds, err := parseKinds(kindsSpec)
	if err != nil {
		return err
	}

	area := types.Area{Width: size, Height: size}
	result, err := texture.WriteKindTextures(dir, area, seed, kinds, force)
	if err != nil {
		return err
	}

	logger.Info("Texture generation complete",
		"dir", dir,
		"written", len(result.Written),
		"skipped", len(result.Skipped),
	)
	return nil
}

// parseKinds parses a comma-separated kind list. Empty means all kinds.
func parseKinds(spec string) ([]generators.Kind, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, nil
	}

	var kinds []generators.Kind
	for _, name := range strings.Split(spec, ",") {
		kind, err := generators.ParseKind(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
