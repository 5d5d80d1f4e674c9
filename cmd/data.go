package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"dlfx/config"
	app "dlfx/internal/application"
	"dlfx/internal/container"
	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
	"dlfx/internal/infrastructure/manifest"
	"dlfx/internal/infrastructure/render"
)

func newTagsCmd(c *container.Container) *cobra.Command {
	var (
		limit    int
		sequence string
	)

	cmd := &cobra.Command{
		Use:   "tags <file.dcm>",
		Short: "Print flattened DICOM metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := c.MetadataService.DescribeFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if sequence == "" {
				fmt.Fprintln(out, app.FormatFields(fields, limit))
				return nil
			}

			items := app.SequenceItems(fields, sequence)
			if len(items) == 0 {
				return fmt.Errorf("sequence %q not found", sequence)
			}
			indices := lo.Keys(items)
			slices.Sort(indices)
			for _, idx := range indices {
				fmt.Fprintf(out, "%s[%d]:\n%s\n", sequence, idx, app.FormatFields(items[idx], limit))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "truncate output to this many bytes (0 = no limit)")
	cmd.Flags().StringVar(&sequence, "sequence", "", "group the items of this sequence, e.g. ReferencedImageSequence")
	return cmd
}

func newBatchesCmd(c *container.Container) *cobra.Command {
	var (
		configPath string
		split      string
		gridPath   string
	)

	cmd := &cobra.Command{
		Use:   "batches <manifest.csv>",
		Short: "Build train/valid/test loaders from a manifest and walk one split",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lc, err := config.LoadLoaderConfig(configPath)
			if err != nil {
				return err
			}
			records, err := manifest.ReadRecordsFile(args[0])
			if err != nil {
				return err
			}

			loaders, err := app.BuildDataLoaders(records, c.SplitConfig(lc), c.Loader, c.Normalizer, c.Processor)
			if err != nil {
				return err
			}

			var dl *app.DataLoader
			switch split {
			case entity.SplitTrain:
				dl = loaders.Train
			case entity.SplitValid:
				dl = loaders.Valid
			case entity.SplitTest:
				dl = loaders.Test
			default:
				return fmt.Errorf("unknown split %q", split)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d samples, %d batches\n", split, dl.Dataset().Len(), dl.Len())

			return dl.Iterate(cmd.Context(), func(batch entity.Batch) error {
				fmt.Fprintf(out, "batch %d: %s\n", batch.Index, strings.Join(batch.Paths(), ", "))
				if labels := batch.Labels(); labels != nil {
					fmt.Fprintf(out, "  labels: %v\n", labels)
				}
				if gridPath == "" || batch.Index != 0 {
					return nil
				}
				return writeBatchGrid(c, gridPath, batch)
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "loader.yaml", "loader YAML config")
	cmd.Flags().StringVar(&split, "split", entity.SplitTrain, "split to iterate: Train, Valid or Test")
	cmd.Flags().StringVar(&gridPath, "grid", "", "render the first batch to this PNG")
	return cmd
}

// writeBatchGrid рисует первую пачку, подписывая изображения их метками.
func writeBatchGrid(c *container.Container, path string, batch entity.Batch) error {
	titles := make([]string, len(batch.Samples))
	if labels := batch.Labels(); labels != nil {
		titles = lo.Map(labels, func(l []float64, _ int) string { return fmt.Sprint(l) })
	}
	img, err := c.GridService.FromBatch(batch, nil, make([][]int, len(batch.Samples)), titles, entity.GridOptions{})
	if err != nil {
		return err
	}
	return writePNG(path, img)
}

func newAccuracyCmd() *cobra.Command {
	var opts app.AnalysisOptions

	cmd := &cobra.Command{
		Use:   "accuracy <predictions.csv>",
		Short: "Compute accuracy and print an error analysis report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := manifest.ReadPredictionsFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if err := app.WriteAccuracy(out, app.ComputeAccuracy(p.Predictions, p.References)); err != nil {
				return err
			}
			opts.RawOutputs = p.RawOutputs
			return app.WriteErrorReport(out, app.AnalyzeErrors(p.Predictions, p.References, opts))
		},
	}
	cmd.Flags().IntSliceVar(&opts.Groups, "groups", nil, "classes to report subgroup accuracy for")
	cmd.Flags().IntVar(&opts.MaxMistakes, "max-mistakes", 200, "incorrect items considered for mistake patterns")
	cmd.Flags().IntVar(&opts.MaxInvalidExamples, "max-invalid", 3, "invalid raw outputs to show")
	return cmd
}

func newStampCmd() *cobra.Command {
	var created, author, notebook string

	cmd := &cobra.Command{
		Use:   "stamp",
		Short: "Print a markdown session block for a notebook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return render.Stamp(cmd.OutOrStdout(), created, author, notebook)
		},
	}
	cmd.Flags().StringVar(&created, "created", "", "creation date")
	cmd.Flags().StringVar(&author, "author", "", "author name")
	cmd.Flags().StringVar(&notebook, "notebook", "", "notebook path for the Last Modified field")
	return cmd
}

func newPromptCmd(c *container.Container) *cobra.Command {
	var opts render.PromptOptions

	cmd := &cobra.Command{
		Use:   "prompt <messages.json>",
		Short: "Pretty-print a chat prompt, loading referenced images",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var messages []entity.PromptMessage
			if err := json.Unmarshal(data, &messages); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			attachImages(cmd.Context(), c.Loader, c.Normalizer, messages)
			return render.PrintPrompt(cmd.OutOrStdout(), messages, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ImageDir, "image-dir", "", "save prompt images as PNG here")
	return cmd
}

// attachImages загружает картинки по ссылкам из сообщений. Картинки, которые
// не удалось прочитать или нормализовать, остаются ссылками.
func attachImages(ctx context.Context, loader port.ImageLoader, normalizer *app.Normalizer, messages []entity.PromptMessage) {
	for i := range messages {
		for j := range messages[i].Content {
			content := &messages[i].Content[j]
			if content.Type != entity.ContentImage || content.ImagePath == "" {
				continue
			}
			arr, err := loader.Load(ctx, content.ImagePath)
			if err != nil {
				log.Printf("Warning: could not load %s: %v", content.ImagePath, err)
				continue
			}
			img, err := normalizer.Normalize(arr)
			if err != nil {
				log.Printf("Warning: could not normalize %s: %v", content.ImagePath, err)
				continue
			}
			content.Image = img
		}
	}
}
