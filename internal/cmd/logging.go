package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

var logger *slog.Logger

// initLogging builds the process-wide logger. The verbose flag switches
// on debug-level output.
func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}
