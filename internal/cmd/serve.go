package cmd

import (
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huepick/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the palette gradient and colour samples over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (host:port)")
	serveCmd.Flags().Int("max-width", 4096, "Largest width a request may ask for")
	serveCmd.Flags().Int("max-height", 4096, "Largest height a request may ask for")
	serveCmd.Flags().Int("swatch-width", 100, "Swatch image width in pixels")
	serveCmd.Flags().Int("swatch-height", 25, "Swatch image height in pixels")
	serveCmd.Flags().String("cache-control", "no-store", "Cache-Control header for served images")
	serveCmd.Flags().String("png-compression", "default", "PNG compression (default, speed, best, none)")

	mustBind(serveCmd, "serve.addr", "addr")
	mustBind(serveCmd, "serve.max_width", "max-width")
	mustBind(serveCmd, "serve.max_height", "max-height")
	mustBind(serveCmd, "serve.swatch_width", "swatch-width")
	mustBind(serveCmd, "serve.swatch_height", "swatch-height")
	mustBind(serveCmd, "serve.cache_control", "cache-control")
	mustBind(serveCmd, "serve.png_compression", "png-compression")

	addGrainFlags(serveCmd, "serve")
}

func runServe(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := paletteConfig()
	if err != nil {
		return err
	}
	cfg.Grain = grainFromViper("serve")

	preview, err := server.NewPreview(server.PreviewConfig{
		Palette:        cfg,
		MaxWidth:       viper.GetInt("serve.max_width"),
		MaxHeight:      viper.GetInt("serve.max_height"),
		SwatchWidth:    viper.GetInt("serve.swatch_width"),
		SwatchHeight:   viper.GetInt("serve.swatch_height"),
		CacheControl:   viper.GetString("serve.cache_control"),
		PNGCompression: viper.GetString("serve.png_compression"),
	}, logger)
	if err != nil {
		return err
	}

	addr := viper.GetString("serve.addr")

	logger.Info("preview server listening",
		"addr", addr,
		"width", cfg.Width,
		"height", cfg.Height,
		"invert_y", cfg.InvertY,
		"grain", cfg.Grain != nil,
	)

	srv := &http.Server{Addr: addr, Handler: preview.Handler(), ReadHeaderTimeout: 5 * time.Second}
	return srv.ListenAndServe()
}
