package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/setanarut/cardseg"
	"github.com/setanarut/cardseg/internal/config"
	"github.com/setanarut/cardseg/internal/manifest"
	"github.com/setanarut/cardseg/utils"
)

type segmentFlags struct {
	layout     string
	output     string
	overlay    string
	k          int
	iterations int
	seed       uint64
	strictArcs bool
}

func newSegmentCmd(g *globalFlags) *cobra.Command {
	f := &segmentFlags{}
	cmd := &cobra.Command{
		Use:   "segment <image>",
		Short: "Segment card regions and write the manifest",
		Long: `Segment every card region of the reference image and write the manifest.

Without --layout the built-in shot-selection layout (driver, iron, wedge,
putter) is used. Any failing region aborts the run; no partial manifest is
written.

Examples:
  # Write the manifest to stdout
  cardseg segment club-selection.png

  # Custom layout, manifest file and a debug overlay
  cardseg segment --layout cards.yaml -o lib/manifest.json --overlay overlay.png club-selection.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegment(cmd, g, f, args[0])
		},
	}

	defaults := cardseg.DefaultOptions()
	cmd.Flags().StringVarP(&f.layout, "layout", "l", "", "region layout file (YAML or JSON)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "manifest file (default: stdout)")
	cmd.Flags().StringVar(&f.overlay, "overlay", "", "write a PNG with region outlines and fitted arcs")
	cmd.Flags().IntVar(&f.k, "k", defaults.K, "clusters per region")
	cmd.Flags().IntVar(&f.iterations, "iterations", defaults.Iterations, "k-means iterations")
	cmd.Flags().Uint64Var(&f.seed, "seed", defaults.Seed, "k-means initialisation seed")
	cmd.Flags().BoolVar(&f.strictArcs, "strict-arcs", false, "fail on closed-ring accents instead of warning")
	return cmd
}

func runSegment(cmd *cobra.Command, g *globalFlags, f *segmentFlags, imagePath string) error {
	logger := g.logger(cmd.ErrOrStderr())

	layout, err := config.Load(f.layout)
	if err != nil {
		return err
	}
	regions, err := layout.RegionList()
	if err != nil {
		return err
	}

	opt := layout.Segmentation.Apply(cardseg.DefaultOptions())
	flags := cmd.Flags()
	if flags.Changed("k") {
		opt.K = f.k
	}
	if flags.Changed("iterations") {
		opt.Iterations = f.iterations
	}
	if flags.Changed("seed") {
		opt.Seed = f.seed
	}
	if f.strictArcs {
		opt.Arc.Strict = true
	}
	opt.Logger = logger

	img, err := utils.ReadImage(imagePath)
	if err != nil {
		return err
	}
	logger.Info("loaded image", "path", imagePath, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	if !g.quiet && isTerminal(cmd.ErrOrStderr()) {
		bar := progressbar.NewOptions(len(regions),
			progressbar.OptionSetDescription("Segmenting"),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish()
		opt.Progress = func(cardseg.Region, cardseg.SegmentResult) { _ = bar.Add(1) }
	}

	results, err := cardseg.NewSegmenter(cardseg.RGBImageFrom(img), opt).Segment(regions)
	if err != nil {
		return describeFailure(err)
	}

	m, err := manifest.New(results, regions, manifest.RelativeSource(imagePath, f.output), time.Now())
	if err != nil {
		return err
	}

	if f.overlay != "" {
		if err := utils.SaveImage(utils.DrawOverlay(img, m.Clubs), f.overlay); err != nil {
			return fmt.Errorf("failed to write overlay: %w", err)
		}
		logger.Info("wrote overlay", "path", f.overlay)
	}

	if f.output == "" {
		return manifest.Encode(cmd.OutOrStdout(), m)
	}
	if err := manifest.WriteFile(f.output, m); err != nil {
		return err
	}
	if !g.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote manifest to %s\n", f.output)
	}
	return nil
}

// describeFailure names the failing region and the kind of failure.
func describeFailure(err error) error {
	re, ok := cardseg.AsRegionError(err)
	if !ok {
		return err
	}
	kind := cardseg.Kind(err)
	if kind == nil {
		kind = errors.Unwrap(err)
	}
	return fmt.Errorf("segmentation of %q failed at %s (%v): %w", re.RegionID, re.Stage, kind, re.Err)
}
