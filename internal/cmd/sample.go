package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MeKo-Tech/huepick/internal/palette"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Report the colour under a viewport coordinate",
	Long:  `Resolve the colour the gradient shows at one coordinate and print it in every representation, the non-interactive equivalent of clicking in the picker window.`,
	RunE:  runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().IntP("x", "x", 0, "X coordinate inside the viewport")
	sampleCmd.Flags().IntP("y", "y", 0, "Y coordinate inside the viewport")

	mustBind(sampleCmd, "sample.x", "x")
	mustBind(sampleCmd, "sample.y", "y")
}

func runSample(cmd *cobra.Command, args []string) error {
	if logger == nil {
		initLogging()
	}

	cfg, err := paletteConfig()
	if err != nil {
		return err
	}

	s, err := cfg.SampleAt(viper.GetInt("sample.x"), viper.GetInt("sample.y"))
	if err != nil {
		return err
	}

	fmt.Printf("[ x: %d, y: %d ]  r: %d, g: %d, b: %d\n", s.X, s.Y, s.RGB.R, s.RGB.G, s.RGB.B)
	fmt.Println("hex:", s.RGB.Hex())
	fmt.Println("hsv:", s.HSV)
	fmt.Printf("word: %#06x\n", palette.PackWord(s.RGBf))
	return nil
}
