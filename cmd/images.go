package main

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	app "dlfx/internal/application"
	"dlfx/internal/container"
	"dlfx/internal/domain/entity"
	"dlfx/internal/infrastructure/plot"
)

func newNormalizeCmd(c *container.Container) *cobra.Command {
	var rounding string

	cmd := &cobra.Command{
		Use:   "normalize <input> <output.png>",
		Short: "Convert an image of any bit depth to 8-bit RGB, stretching each channel to 0..255",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			normalizer := c.Normalizer
			if rounding != "" {
				mode, err := entity.ParseRoundingMode(rounding)
				if err != nil {
					return err
				}
				normalizer = app.NewNormalizer(mode)
			}

			arr, err := c.Loader.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			img, err := normalizer.Normalize(arr)
			if err != nil {
				return err
			}
			if err := writePNG(args[1], img); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %v -> %s %dx%dx3\n", args[0], arr.Shape, args[1], img.Height, img.Width)
			return nil
		},
	}
	cmd.Flags().StringVar(&rounding, "rounding", "", "rounding mode: truncate or nearest (default from DLFX_ROUNDING)")
	return cmd
}

func newInspectCmd(c *container.Container) *cobra.Command {
	var (
		bins, width int
		normalized  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <image>",
		Short: "Print per-channel intensity statistics and histograms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			arr, err := c.Loader.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			if normalized {
				img, err := c.Normalizer.Normalize(arr)
				if err != nil {
					return err
				}
				arr = entity.ArrayFromRGB(img)
			}
			return plot.WriteHistograms(cmd.OutOrStdout(), arr, bins, width)
		},
	}
	cmd.Flags().IntVar(&bins, "bins", 16, "number of histogram buckets")
	cmd.Flags().IntVar(&width, "width", 40, "histogram bar width")
	cmd.Flags().BoolVar(&normalized, "normalized", false, "show the 8-bit RGB result instead of the source")
	return cmd
}

func newGridCmd(c *container.Container) *cobra.Command {
	var (
		req       app.GridRequest
		titles    []string
		filenames bool
	)

	cmd := &cobra.Command{
		Use:   "grid <output.png> <image>...",
		Short: "Render images as a titled grid",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.UseFilenameAsTitle = filenames
			if len(titles) > 0 {
				req.Titles = titles
			}
			img, err := c.GridService.FromPaths(cmd.Context(), args[1:], req)
			if err != nil {
				return err
			}
			return writePNG(args[0], img)
		},
	}
	cmd.Flags().IntVar(&req.Grid.Cols, "cols", 0, "number of columns (default ceil(sqrt(n)))")
	cmd.Flags().IntVar(&req.Grid.CellSize, "cell", 256, "cell size in pixels")
	cmd.Flags().StringVar(&req.Grid.Suptitle, "suptitle", "", "figure title")
	cmd.Flags().StringSliceVar(&titles, "titles", nil, "per-image titles")
	cmd.Flags().BoolVar(&filenames, "filename-titles", false, "use file names as titles")
	return cmd
}

func newDisplayCmd(c *container.Container) *cobra.Command {
	var prediction, label string
	var cellSize int

	cmd := &cobra.Command{
		Use:   "display <image> <output.png>",
		Short: "Render one image captioned with a model prediction and its label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arr, err := c.Loader.Load(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("load %s: %w", args[0], err)
			}
			img, err := c.Normalizer.Normalize(arr)
			if err != nil {
				return err
			}
			out, err := c.GridService.DisplayPrediction(img, prediction, label, entity.GridOptions{CellSize: cellSize})
			if err != nil {
				return err
			}
			return writePNG(args[1], out)
		},
	}
	cmd.Flags().StringVar(&prediction, "prediction", "", "model answer")
	cmd.Flags().StringVar(&label, "label", "", "ground truth label")
	cmd.Flags().IntVar(&cellSize, "cell", 512, "image size in pixels")
	return cmd
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
