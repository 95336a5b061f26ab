package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huepick/internal/picker"
)

var pickCmd = &cobra.Command{
	Use:   "pick",
	Short: "Open the interactive palette window",
	Long: `Open a window showing the gradient. Hovering reports the colour under the
cursor in the title bar and swatch; clicking prints it to stdout; Escape
closes the window.`,
	RunE: runPick,
}

func init() {
	rootCmd.AddCommand(pickCmd)

	pickCmd.Flags().String("title", "Colour Palette", "Window title")

	mustBind(pickCmd, "pick.title", "title")

	addGrainFlags(pickCmd, "pick")
}

func runPick(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := paletteConfig()
	if err != nil {
		return err
	}
	cfg.Grain = grainFromViper("pick")

	picker.Run(picker.Config{
		Palette: cfg,
		Title:   viper.GetString("pick.title"),
	}, logger)
	return nil
}
