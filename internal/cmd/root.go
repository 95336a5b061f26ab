package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huepick/internal/palette"
)

var cfgFile string

var logger *slog.Logger

var rootCmd = &cobra.Command{
	Use:   "huepick",
	Short: "An interactive HSV colour-space picker",
	Long: `Huepick renders the HSV colour space as a 2-D gradient and reports the
colour under any coordinate.

The gradient maps the horizontal axis to hue and the vertical axis to a
saturation/value ramp. It can be explored interactively in a window, exported
to a PNG file, sampled from the command line, or served over HTTP.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().Int("width", 720, "Palette viewport width in pixels")
	rootCmd.PersistentFlags().Int("height", 200, "Palette viewport height in pixels")
	rootCmd.PersistentFlags().Bool("invert-y", false, "Use a bottom-left coordinate origin")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose logging")

	mustBindRoot := func(key, name string) {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}

	mustBindRoot("width", "width")
	mustBindRoot("height", "height")
	mustBindRoot("invert_y", "invert-y")
	mustBindRoot("verbose", "verbose")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("HUEPICK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func initLogging() {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// paletteConfig builds the viewport shared by every subcommand from the
// persistent flags.
func paletteConfig() (palette.Config, error) {
	cfg := palette.Config{
		Width:   viper.GetInt("width"),
		Height:  viper.GetInt("height"),
		InvertY: viper.GetBool("invert_y"),
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return cfg, fmt.Errorf("invalid viewport %dx%d: width and height must be positive", cfg.Width, cfg.Height)
	}
	return cfg, nil
}

func mustBind(cmd *cobra.Command, key, name string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		panic(fmt.Sprintf("failed to bind flag: %v", err))
	}
}

// addGrainFlags registers the paper-grain flag set on cmd, bound under the
// given viper prefix.
func addGrainFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().Bool("grain", false, "Apply a deterministic paper-grain overlay")
	cmd.Flags().Int64("grain-seed", 1337, "Seed for the grain noise")
	cmd.Flags().Float64("grain-scale", 64, "Grain feature size in pixels")
	cmd.Flags().Float64("grain-strength", 0.05, "Maximum value jitter applied by the grain")
	cmd.Flags().Float64("grain-blur", 1.5, "Gaussian sigma applied to the grain noise")

	mustBind(cmd, prefix+".grain", "grain")
	mustBind(cmd, prefix+".grain_seed", "grain-seed")
	mustBind(cmd, prefix+".grain_scale", "grain-scale")
	mustBind(cmd, prefix+".grain_strength", "grain-strength")
	mustBind(cmd, prefix+".grain_blur", "grain-blur")
}

// grainFromViper reads the grain settings bound under prefix, returning nil
// when grain is disabled.
func grainFromViper(prefix string) *palette.GrainConfig {
	if !viper.GetBool(prefix + ".grain") {
		return nil
	}

	return &palette.GrainConfig{
		Seed:     viper.GetInt64(prefix + ".grain_seed"),
		Scale:    viper.GetFloat64(prefix + ".grain_scale"),
		Strength: viper.GetFloat64(prefix + ".grain_strength"),
		Blur:     float32(viper.GetFloat64(prefix + ".grain_blur")),
	}
}
