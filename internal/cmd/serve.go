package cmd

import (
	"fmt"
	"io/fs"
	"net/http"
	"runtime"
	"time"

	"github.com/amane-katagiri/jelatofish/assets"
	"github.com/amane-katagiri/jelatofish/internal/palette"
	"github.com/amane-katagiri/jelatofish/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve fish and demo UI (optionally rendering missing fish on-demand)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().String("fish-dir", "", "Directory containing fish (defaults to --output-dir)")
	serveCmd.Flags().String("demo-dir", "", "Directory for demo static files (default: embedded demo page)")
	serveCmd.Flags().String("archive", "", "Serve fish from this archive database instead of rendering")

	serveCmd.Flags().Bool("generate-missing", true, "Render missing fish on-demand and cache them to disk")
	serveCmd.Flags().Bool("disable-cache", false, "Always re-render fish (still writes to disk)")
	serveCmd.Flags().Int("max-concurrent-renders", runtime.NumCPU(), "Max concurrent fish renders (default: number of CPUs)")
	serveCmd.Flags().Duration("render-timeout", time.Minute, "Timeout per fish render")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served fish")

	serveCmd.Flags().Int("size", 256, "Base fish size in pixels (256; @2x requests render 512)")
	serveCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")
	serveCmd.Flags().Int("layers", 0, "Layer count between 2 and 6 (0 = random per fish)")
	serveCmd.Flags().Float64("cutoff", -1, "Opacity cutoff threshold in [0,1/16] (negative = random per fish)")
	serveCmd.Flags().String("palette", "", "Palette preset name or comma-separated hex colours")

	mustBind := func(key string, name string) {
		if err := viper.BindPFlag(key, serveCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBind("serve.addr", "addr")
	mustBind("serve.fish_dir", "fish-dir")
	mustBind("serve.demo_dir", "demo-dir")
	mustBind("serve.archive", "archive")
	mustBind("serve.generate_missing", "generate-missing")
	mustBind("serve.disable_cache", "disable-cache")
	mustBind("serve.max_concurrent_renders", "max-concurrent-renders")
	mustBind("serve.render_timeout", "render-timeout")
	mustBind("serve.cache_control", "cache-control")

	mustBind("serve.size", "size")
	mustBind("serve.png_compression", "png-compression")
	mustBind("serve.layers", "layers")
	mustBind("serve.cutoff", "cutoff")
	mustBind("serve.palette", "palette")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	addr := viper.GetString("serve.addr")
	fishDir := viper.GetString("serve.fish_dir")
	if fishDir == "" {
		fishDir = viper.GetString("output-dir")
	}
	demoDir := viper.GetString("serve.demo_dir")
	archivePath := viper.GetString("serve.archive")
	generateMissing := viper.GetBool("serve.generate_missing")
	disableCache := viper.GetBool("serve.disable_cache")
	maxConc := viper.GetInt("serve.max_concurrent_renders")
	renderTimeout := viper.GetDuration("serve.render_timeout")
	cacheControl := viper.GetString("serve.cache_control")

	baseSize := viper.GetInt("serve.size")
	pngCompression := viper.GetString("serve.png_compression")
	layers := viper.GetInt("serve.layers")
	cutoff := viper.GetFloat64("serve.cutoff")
	paletteSpec := viper.GetString("serve.palette")

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/demo/", http.StatusFound)
	})

	// Demo UI: a directory on disk, or the embedded playground
	var demoHandler http.Handler
	if demoDir != "" {
		demoHandler = http.FileServer(http.Dir(demoDir))
	} else {
		sub, err := fs.Sub(assets.DemoFS, "demo")
		if err != nil {
			return fmt.Errorf("failed to load embedded demo: %w", err)
		}
		demoHandler = http.FileServer(http.FS(sub))
	}
	mux.Handle("/demo/", http.StripPrefix("/demo/", demoHandler))

	// Fish source: archive database, or on-demand rendering
	if archivePath != "" {
		ah, err := server.NewArchiveHandler(server.ArchiveConfig{
			ArchivePath:  archivePath,
			CacheControl: cacheControl,
		}, logger)
		if err != nil {
			return err
		}
		defer ah.Close()

		mux.Handle("/fish/", withCORS(ah.Handler()))

		logger.Info("serving fish from archive",
			"addr", addr,
			"archive", archivePath,
		)
	} else {
		pal, err := palette.Parse(paletteSpec)
		if err != nil {
			return err
		}
		level, err := pngCompressionLevel(pngCompression)
		if err != nil {
			return err
		}

		od, err := server.NewOnDemandFish(server.OnDemandFishConfig{
			FishDir:              fishDir,
			CacheControl:         cacheControl,
			BaseSize:             baseSize,
			LayerCount:           layers,
			Cutoff:               cutoffOption(cutoff),
			Palette:              pal,
			Compression:          level,
			MaxConcurrentRenders: maxConc,
			RenderTimeout:        renderTimeout,
			GenerateMissing:      generateMissing,
			DisableCache:         disableCache,
		}, logger)
		if err != nil {
			return err
		}

		mux.Handle("/fish/", withCORS(od.Handler()))
		mux.Handle("/status", od.StatusHandler())
		mux.Handle("/status/stream", od.StatusStreamHandler())

		logger.Info("demo server listening",
			"addr", addr,
			"fish_dir", fishDir,
			"generate_missing", generateMissing,
			"max_concurrent_renders", maxConc,
		)
	}

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
