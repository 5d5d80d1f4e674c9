package app

import (
	"context"
	"math/rand/v2"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"dlfx/internal/domain/entity"
)

// LoaderOptions параметры пакетной загрузки.
type LoaderOptions struct {
	BatchSize int
	Shuffle   bool
	Workers   int
	Seed      uint64
}

// DataLoader нарезает датасет на пачки и загружает элементы параллельно.
type DataLoader struct {
	dataset *Dataset
	opts    LoaderOptions
	epoch   uint64
}

// NewDataLoader создаёт загрузчик. Нулевые размер пачки и число воркеров заменяются на 1.
func NewDataLoader(dataset *Dataset, opts LoaderOptions) *DataLoader {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &DataLoader{dataset: dataset, opts: opts}
}

// Dataset возвращает датасет загрузчика.
func (l *DataLoader) Dataset() *Dataset {
	return l.dataset
}

// Len возвращает число пачек за эпоху.
func (l *DataLoader) Len() int {
	n := l.dataset.Len()
	return (n + l.opts.BatchSize - 1) / l.opts.BatchSize
}

// Iterate проходит одну эпоху и вызывает fn для каждой пачки по порядку.
// Первая ошибка загрузки или fn прерывает проход.
func (l *DataLoader) Iterate(ctx context.Context, fn func(entity.Batch) error) error {
	for i, chunk := range lo.Chunk(l.order(), l.opts.BatchSize) {
		batch, err := l.loadBatch(ctx, i, chunk)
		if err != nil {
			return err
		}
		if err := fn(batch); err != nil {
			return err
		}
	}
	return nil
}

// order возвращает порядок индексов; при Shuffle каждая эпоха перемешивается заново.
func (l *DataLoader) order() []int {
	indices := lo.Range(l.dataset.Len())
	if !l.opts.Shuffle {
		return indices
	}
	rng := rand.New(rand.NewPCG(l.opts.Seed, l.epoch))
	l.epoch++
	rng.Shuffle(len(indices), func(i, j int) {
		indices[i], indices[j] = indices[j], indices[i]
	})
	return indices
}

func (l *DataLoader) loadBatch(ctx context.Context, index int, indices []int) (entity.Batch, error) {
	samples := make([]entity.Sample, len(indices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.opts.Workers)
	for pos, idx := range indices {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s, err := l.dataset.Get(gctx, idx)
			if err != nil {
				return err
			}
			samples[pos] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return entity.Batch{}, err
	}
	return entity.Batch{Index: index, Samples: samples}, nil
}
