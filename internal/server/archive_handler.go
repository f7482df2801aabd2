package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/amane-katagiri/jelatofish/internal/archive"
)

// ArchiveHandler serves fish from an archive database.
type ArchiveHandler struct {
	reader       *archive.Reader
	logger       *slog.Logger
	cacheControl string
}

// ArchiveConfig configures the archive handler.
type ArchiveConfig struct {
	ArchivePath  string
	CacheControl string
}

// NewArchiveHandler creates a new archive handler.
func NewArchiveHandler(cfg ArchiveConfig, logger *slog.Logger) (*ArchiveHandler, error) {
	reader, err := archive.OpenReader(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	return &ArchiveHandler{
		reader:       reader,
		logger:       logger,
		cacheControl: cfg.CacheControl,
	}, nil
}

// Handler returns the HTTP handler function.
func (h *ArchiveHandler) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serveFish(w, r)
	}
}

// serveFish serves a single fish from the archive database. A .png path
// returns the image, a .json path returns the stored recipe.
func (h *ArchiveHandler) serveFish(w http.ResponseWriter, r *http.Request) {
	seed, ext, ok := parseArchivePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", h.cacheControl)
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if ext == ".json" {
		h.serveRecipe(w, seed)
		return
	}

	w.Header().Set("Content-Type", "image/png")

	data, err := h.reader.ReadFish(seed)
	if err != nil {
		h.log().Error("Failed to read fish", "seed", seed, "error", err)
		http.Error(w, "Fish not found", http.StatusNotFound)
		return
	}

	if _, err := w.Write(data); err != nil {
		h.log().Error("Failed to write response", "error", err)
	}
}

func (h *ArchiveHandler) serveRecipe(w http.ResponseWriter, seed int64) {
	recipe, err := h.reader.ReadRecipe(seed)
	if err != nil {
		h.log().Error("Failed to read recipe", "seed", seed, "error", err)
		http.Error(w, "Recipe not found", http.StatusNotFound)
		return
	}
	if recipe == nil {
		http.Error(w, "Recipe not stored for this fish", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(recipe); err != nil {
		h.log().Error("Failed to write response", "error", err)
	}
}

// Close closes the archive reader.
func (h *ArchiveHandler) Close() error {
	return h.reader.Close()
}

func (h *ArchiveHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}

// parseArchivePath parses a fish path like /fish/42.png or /fish/42.json.
// The @2x suffix is accepted but ignored: an archive holds one size.
func parseArchivePath(requestPath string) (int64, string, bool) {
	if !strings.HasPrefix(requestPath, "/fish/") {
		return 0, "", false
	}

	base := path.Base(requestPath)
	ext := path.Ext(base)
	if ext != ".png" && ext != ".json" {
		return 0, "", false
	}

	name := strings.TrimSuffix(base, ext)
	name = strings.TrimSuffix(name, "@2x")

	seed, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return 0, "", false
	}

	return seed, ext, true
}
