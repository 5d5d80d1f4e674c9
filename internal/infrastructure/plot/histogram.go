package plot

import (
	"fmt"
	"io"

	"github.com/aybabtme/uniplot/histogram"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"dlfx/internal/domain/entity"
)

// ChannelStats — сводка по яркости одного канала.
type ChannelStats struct {
	Channel int
	Min     float64
	Max     float64
	Mean    float64
	StdDev  float64
}

// Stats считает min/max/среднее/СКО по каждому каналу.
func Stats(arr *entity.Array) ([]ChannelStats, error) {
	if err := arr.Validate(); err != nil {
		return nil, err
	}
	if len(arr.Data) == 0 {
		return nil, entity.ErrEmptyImage
	}
	out := make([]ChannelStats, arr.Channels())
	for c := range out {
		plane := arr.Channel(c)
		mean, std := stat.MeanStdDev(plane, nil)
		out[c] = ChannelStats{
			Channel: c,
			Min:     floats.Min(plane),
			Max:     floats.Max(plane),
			Mean:    mean,
			StdDev:  std,
		}
	}
	return out, nil
}

// WriteHistograms печатает сводку и гистограмму яркостей по каждому каналу.
func WriteHistograms(w io.Writer, arr *entity.Array, bins, width int) error {
	stats, err := Stats(arr)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "shape: %v\n", arr.Shape)
	for _, s := range stats {
		fmt.Fprintf(w, "\nchannel %d: min=%g max=%g mean=%.3f std=%.3f\n", s.Channel, s.Min, s.Max, s.Mean, s.StdDev)
		if s.Max == s.Min {
			fmt.Fprintln(w, "  constant channel")
			continue
		}
		hist := histogram.Hist(bins, arr.Channel(s.Channel))
		if err := histogram.Fprint(w, hist, histogram.Linear(width)); err != nil {
			return err
		}
	}
	return nil
}
