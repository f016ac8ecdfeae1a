package cli

import (
	"fmt"
	"io"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/setanarut/cardseg/utils"
)

// methodValue adapts utils.PaletteMethod to a pflag.Value.
type methodValue utils.PaletteMethod

var _ pflag.Value = (*methodValue)(nil)

func (m *methodValue) String() string { return utils.PaletteMethod(*m).String() }

func (m *methodValue) Set(s string) error {
	v, err := utils.ParsePaletteMethod(s)
	if err != nil {
		return err
	}
	*m = methodValue(v)
	return nil
}

func (m *methodValue) Type() string { return "method" }

type paletteFlags struct {
	colours int
	method  methodValue
	sort    string
}

func newPaletteCmd(g *globalFlags) *cobra.Command {
	f := &paletteFlags{method: methodValue(utils.PaletteMethodKMeans)}
	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Print the dominant colours of a whole image",
		Long: `Print the dominant colours of a whole image with their coverage.

Useful for picking the fallback theme before segmenting individual cards.

Examples:
  cardseg palette club-selection.png
  cardseg palette -c 5 --method dominantcolor --sort lightness club-selection.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, g, f, args[0])
		},
	}
	cmd.Flags().IntVarP(&f.colours, "colours", "c", 8, "number of colours")
	cmd.Flags().Var(&f.method, "method", "extraction method (kmeans, dominantcolor)")
	cmd.Flags().StringVar(&f.sort, "sort", "weight", "ordering (weight, lightness)")
	return cmd
}

func runPalette(cmd *cobra.Command, g *globalFlags, f *paletteFlags, imagePath string) error {
	logger := g.logger(cmd.ErrOrStderr()).Named("palette")

	var order func([]utils.Swatch)
	switch f.sort {
	case "weight":
		order = utils.SortByWeight
	case "lightness":
		order = utils.SortByLightness
	default:
		return fmt.Errorf("unknown sort order %q (valid: weight, lightness)", f.sort)
	}

	img, err := utils.ReadImage(imagePath)
	if err != nil {
		return err
	}
	method := utils.PaletteMethod(f.method)
	logger.Debug("extracting palette", "method", method, "colours", f.colours)

	palette, err := utils.ExtractPalette(img, f.colours, method)
	if err != nil {
		return fmt.Errorf("failed to extract palette: %w", err)
	}
	order(palette)

	printPalette(cmd.OutOrStdout(), palette, isTerminal(cmd.OutOrStdout()))
	return nil
}

// printPalette writes one swatch per line, prefixed by a truecolour block
// when colour is set.
func printPalette(w io.Writer, palette []utils.Swatch, colour bool) {
	for _, s := range palette {
		if colour {
			fmt.Fprintf(w, "%s  ", block(s.Color))
		}
		fmt.Fprintf(w, "%s  %5.1f%%\n", s.Hex(), s.Weight*100)
	}
}

func block(c colorful.Color) string {
	r, g, b := c.Clamped().RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm    \x1b[0m", r, g, b)
}
