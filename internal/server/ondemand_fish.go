// Package server serves fish images over HTTP: from a directory with
// on-demand rendering of missing seeds, or straight from an archive
// database.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/amane-katagiri/jelatofish/internal/fish"
	"github.com/amane-katagiri/jelatofish/internal/pipeline"
	"github.com/amane-katagiri/jelatofish/internal/types"
)

// OnDemandFishConfig configures the on-demand fish handler.
type OnDemandFishConfig struct {
	FishDir              string
	CacheControl         string
	BaseSize             int
	LayerCount           int
	Cutoff               *float64
	Palette              fish.ColourPalette
	Compression          png.CompressionLevel
	MaxConcurrentRenders int
	RenderTimeout        time.Duration
	GenerateMissing      bool
	DisableCache         bool
}

// OnDemandFish serves fish PNGs from a directory, rendering missing seeds
// on demand behind a per-file lock and a global render semaphore.
type OnDemandFish struct {
	logger *slog.Logger
	sem    chan struct{}
	locks  sync.Map
	gens   sync.Map // render size -> *pipeline.Generator
	cfg    OnDemandFishConfig

	// Status tracking for renders
	activeRenders  atomic.Int32
	totalRendered  atomic.Int64
	totalFailed    atomic.Int64
	currentRenders sync.Map // fish file name -> start time
	queuedRenders  atomic.Int32
	queuedFish     sync.Map // fish file name -> queue time
}

// FishStatus represents the current status of the fish rendering system.
type FishStatus struct {
	Render RenderStatus `json:"render"`
}

// RenderStatus contains current render operation status.
type RenderStatus struct {
	ActiveRenders int      `json:"active_renders"`
	TotalRendered int64    `json:"total_rendered"`
	TotalFailed   int64    `json:"total_failed"`
	CurrentFish   []string `json:"current_fish"`
	MaxConcurrent int      `json:"max_concurrent"`
	QueuedRenders int      `json:"queued_renders"`
	QueuedFish    []string `json:"queued_fish"`
}

// NewOnDemandFish creates the handler and fills in config defaults.
func NewOnDemandFish(cfg OnDemandFishConfig, logger *slog.Logger) (*OnDemandFish, error) {
	if cfg.FishDir == "" {
		cfg.FishDir = "./fish"
	}
	if cfg.BaseSize <= 0 {
		cfg.BaseSize = pipeline.DefaultSize
	}
	if cfg.MaxConcurrentRenders <= 0 {
		cfg.MaxConcurrentRenders = 1
	}
	if cfg.RenderTimeout <= 0 {
		cfg.RenderTimeout = time.Minute
	}
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}

	return &OnDemandFish{
		cfg:    cfg,
		logger: logger,
		sem:    make(chan struct{}, cfg.MaxConcurrentRenders),
	}, nil
}

// Status returns the current status of the fish rendering system.
func (t *OnDemandFish) Status() FishStatus {
	var currentFish []string
	t.currentRenders.Range(func(key, _ any) bool {
		currentFish = append(currentFish, key.(string))
		return true
	})

	var queuedFish []string
	t.queuedFish.Range(func(key, _ any) bool {
		queuedFish = append(queuedFish, key.(string))
		return true
	})

	return FishStatus{
		Render: RenderStatus{
			ActiveRenders: int(t.activeRenders.Load()),
			TotalRendered: t.totalRendered.Load(),
			TotalFailed:   t.totalFailed.Load(),
			CurrentFish:   currentFish,
			MaxConcurrent: t.cfg.MaxConcurrentRenders,
			QueuedRenders: int(t.queuedRenders.Load()),
			QueuedFish:    queuedFish,
		},
	}
}

// StatusHandler returns an HTTP handler for the status endpoint (JSON).
func (t *OnDemandFish) StatusHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Cache-Control", "no-store")

		if err := json.NewEncoder(w).Encode(t.Status()); err != nil {
			t.log().Error("failed to encode status", "error", err)
			http.Error(w, "failed to encode status", http.StatusInternalServerError)
			return
		}
	})
}

// StatusStreamHandler returns an SSE handler for real-time status
// streaming. Server-Sent Events avoid browser connection limits that
// block polling while a page is loading many fish at once.
func (t *OnDemandFish) StatusStreamHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("Access-Control-Allow-Origin", "*")

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "SSE not supported", http.StatusInternalServerError)
			return
		}

		// Send status updates every 250ms
		ticker := time.NewTicker(250 * time.Millisecond)
		defer ticker.Stop()

		// Send initial status immediately
		t.sendStatusEvent(w, flusher)

		for {
			select {
			case <-r.Context().Done():
				return
			case <-ticker.C:
				t.sendStatusEvent(w, flusher)
			}
		}
	})
}

func (t *OnDemandFish) sendStatusEvent(w http.ResponseWriter, flusher http.Flusher) {
	data, err := json.Marshal(t.Status())
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}

func (t *OnDemandFish) Handler() http.Handler {
	return http.HandlerFunc(t.serveFish)
}

func (t *OnDemandFish) serveFish(w http.ResponseWriter, r *http.Request) {
	// Allow browser-based playgrounds to request fish cross-origin.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	seed, suffix, ok := parseFishPath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	filename := fishFileName(seed, suffix)
	fullPath := filepath.Join(t.cfg.FishDir, filename)

	w.Header().Set("Cache-Control", t.cfg.CacheControl)

	if !t.cfg.DisableCache {
		if fileExists(fullPath) {
			http.ServeFile(w, r, fullPath)
			return
		}
	}

	if !t.cfg.GenerateMissing {
		http.Error(w, fmt.Sprintf("fish not found: %s", filename), http.StatusNotFound)
		return
	}

	mu := t.getLock(filename)
	mu.Lock()
	defer mu.Unlock()

	if !t.cfg.DisableCache {
		if fileExists(fullPath) {
			http.ServeFile(w, r, fullPath)
			return
		}
	}

	// Track the fish as queued while it waits for the semaphore
	t.queuedRenders.Add(1)
	t.queuedFish.Store(filename, time.Now())

	select {
	case t.sem <- struct{}{}:
		t.queuedRenders.Add(-1)
		t.queuedFish.Delete(filename)
		defer func() { <-t.sem }()
	case <-r.Context().Done():
		t.queuedRenders.Add(-1)
		t.queuedFish.Delete(filename)
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), t.cfg.RenderTimeout)
	defer cancel()

	gen, err := t.getGenerator(sizeForSuffix(t.cfg.BaseSize, suffix))
	if err != nil {
		t.log().Error("failed to init generator", "error", err)
		http.Error(w, "failed to init generator", http.StatusInternalServerError)
		return
	}

	start := time.Now()
	t.activeRenders.Add(1)
	t.currentRenders.Store(filename, start)

	img, err := t.renderWithin(ctx, gen, seed)

	t.activeRenders.Add(-1)
	t.currentRenders.Delete(filename)

	if err != nil {
		t.totalFailed.Add(1)
		t.log().Error("failed to render fish", "seed", seed, "suffix", suffix, "error", err)
		http.Error(w, fmt.Sprintf("failed to render fish %d%s: %v", seed, suffix, err), http.StatusInternalServerError)
		return
	}

	if err := t.writeFish(fullPath, img); err != nil {
		t.totalFailed.Add(1)
		t.log().Error("failed to write fish", "seed", seed, "error", err)
		http.Error(w, "failed to write fish", http.StatusInternalServerError)
		return
	}
	t.totalRendered.Add(1)
	t.log().Info("fish rendered on-demand", "seed", seed, "suffix", suffix, "ms", time.Since(start).Milliseconds())

	http.ServeFile(w, r, fullPath)
}

// renderWithin runs one render and gives up when the context expires.
// An abandoned render finishes in the background and is discarded.
func (t *OnDemandFish) renderWithin(ctx context.Context, gen *pipeline.Generator, seed int64) (*image.NRGBA, error) {
	type renderResult struct {
		img *image.NRGBA
		err error
	}
	ch := make(chan renderResult, 1)
	go func() {
		img, _, err := gen.Render(seed)
		ch <- renderResult{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("render timed out: %w", ctx.Err())
	case res := <-ch:
		return res.img, res.err
	}
}

// writeFish encodes the image into the fish directory.
func (t *OnDemandFish) writeFish(fullPath string, img *image.NRGBA) error {
	if err := os.MkdirAll(t.cfg.FishDir, 0o755); err != nil {
		return fmt.Errorf("failed to create fish dir: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create fish file: %w", err)
	}
	defer file.Close() // nolint:errcheck

	enc := png.Encoder{CompressionLevel: t.cfg.Compression}
	if err := enc.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode fish: %w", err)
	}
	return nil
}

func (t *OnDemandFish) getGenerator(size int) (*pipeline.Generator, error) {
	if v, ok := t.gens.Load(size); ok {
		return v.(*pipeline.Generator), nil
	}

	g, err := pipeline.NewGenerator(pipeline.Config{
		Size:        types.Area{Width: size, Height: size},
		LayerCount:  t.cfg.LayerCount,
		Cutoff:      t.cfg.Cutoff,
		Palette:     t.cfg.Palette,
		Compression: t.cfg.Compression,
		Logger:      t.logger,
	})
	if err != nil {
		return nil, err
	}

	actual, _ := t.gens.LoadOrStore(size, g)
	return actual.(*pipeline.Generator), nil
}

func (t *OnDemandFish) getLock(key string) *sync.Mutex {
	if v, ok := t.locks.Load(key); ok {
		return v.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	actual, _ := t.locks.LoadOrStore(key, mu)
	return actual.(*sync.Mutex)
}

func (t *OnDemandFish) log() *slog.Logger {
	if t.logger != nil {
		return t.logger
	}
	return slog.Default()
}

// parseFishPath parses a fish path like /fish/42.png or /fish/42@2x.png.
// Returns the seed, suffix ("@2x" or ""), and success flag.
func parseFishPath(requestPath string) (int64, string, bool) {
	if !strings.HasPrefix(requestPath, "/fish/") {
		return 0, "", false
	}
	base := path.Base(requestPath)
	if !strings.HasSuffix(base, ".png") {
		return 0, "", false
	}
	name := strings.TrimSuffix(base, ".png")
	suffix := ""
	if strings.HasSuffix(name, "@2x") {
		suffix = "@2x"
		name = strings.TrimSuffix(name, "@2x")
	}

	seed, err := strconv.ParseInt(name, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return seed, suffix, true
}

// fishFileName names the cached file for a seed, keeping @2x renders
// separate from the base size.
func fishFileName(seed int64, suffix string) string {
	if suffix == "" {
		return pipeline.FishFileName(seed)
	}
	return fmt.Sprintf("fish_%d%s.png", seed, suffix)
}

func sizeForSuffix(base int, suffix string) int {
	if suffix == "@2x" {
		return base * 2
	}
	return base
}

func fileExists(p string) bool {
	st, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !st.IsDir()
}
