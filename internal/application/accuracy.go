package app

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/samber/lo"

	"dlfx/internal/domain/entity"
)

const (
	defaultMaxMistakes        = 200
	defaultMaxInvalidExamples = 3
)

// AnalysisOptions параметры разбора ошибок.
type AnalysisOptions struct {
	RawOutputs         []string // сырые ответы модели, по индексу предсказания
	Groups             []int    // классы для подгрупповой точности; пусто — уникальные истинные классы
	MaxMistakes        int
	MaxInvalidExamples int
}

// ComputeAccuracy считает точность по валидным предсказаниям.
func ComputeAccuracy(predictions, references []int) entity.AccuracyMetrics {
	metrics := entity.AccuracyMetrics{TotalSamples: len(predictions)}
	for i, p := range predictions {
		if p == entity.InvalidPrediction || i >= len(references) {
			continue
		}
		metrics.ValidPredictions++
		if p == references[i] {
			metrics.CorrectPredictions++
		}
	}
	if metrics.ValidPredictions > 0 {
		metrics.Accuracy = float64(metrics.CorrectPredictions) / float64(metrics.ValidPredictions)
	}
	return metrics
}

// AnalyzeErrors раскладывает предсказания на верные, неверные и невалидные,
// собирает частые ошибки и точность по классам.
func AnalyzeErrors(predictions, references []int, opts AnalysisOptions) *entity.ErrorAnalysis {
	if opts.MaxMistakes <= 0 {
		opts.MaxMistakes = defaultMaxMistakes
	}
	if opts.MaxInvalidExamples <= 0 {
		opts.MaxInvalidExamples = defaultMaxInvalidExamples
	}

	n := min(len(predictions), len(references))
	a := &entity.ErrorAnalysis{}
	for i := 0; i < n; i++ {
		switch {
		case predictions[i] == entity.InvalidPrediction:
			a.Invalid = append(a.Invalid, i)
		case predictions[i] == references[i]:
			a.Correct = append(a.Correct, i)
		default:
			a.Incorrect = append(a.Incorrect, i)
		}
	}

	a.MistakePatterns = mistakePatterns(predictions, references, a.Incorrect, opts.MaxMistakes)

	for _, idx := range a.Invalid[:min(len(a.Invalid), opts.MaxInvalidExamples)] {
		raw := "N/A"
		if idx < len(opts.RawOutputs) {
			raw = opts.RawOutputs[idx]
		}
		a.InvalidExamples = append(a.InvalidExamples, entity.InvalidExample{
			Index:     idx,
			Reference: references[idx],
			RawOutput: raw,
		})
	}

	groups := opts.Groups
	if len(groups) == 0 {
		groups = lo.Uniq(references[:n])
	}
	a.Subgroups = subgroupAccuracy(predictions[:n], references[:n], groups)
	return a
}

func mistakePatterns(predictions, references, incorrect []int, limit int) []entity.MistakePattern {
	var patterns []entity.MistakePattern
	index := make(map[string]int)
	for _, idx := range incorrect[:min(len(incorrect), limit)] {
		key := fmt.Sprintf("%d → %d", references[idx], predictions[idx])
		if pos, ok := index[key]; ok {
			patterns[pos].Count++
			continue
		}
		index[key] = len(patterns)
		patterns = append(patterns, entity.MistakePattern{Pattern: key, Count: 1})
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].Count > patterns[j].Count
	})
	return patterns
}

func subgroupAccuracy(predictions, references, groups []int) []entity.SubgroupAccuracy {
	byClass := lo.GroupBy(lo.Range(len(references)), func(i int) int {
		return references[i]
	})
	out := make([]entity.SubgroupAccuracy, 0, len(groups))
	for _, class := range groups {
		rows := byClass[class]
		correct := lo.CountBy(rows, func(i int) bool {
			return predictions[i] == class
		})
		sub := entity.SubgroupAccuracy{Class: class}
		if correct > 0 {
			sub.Present = true
			sub.Accuracy = float64(correct) / float64(len(rows))
		}
		out = append(out, sub)
	}
	return out
}

// WriteErrorReport печатает разбор ошибок в текстовом виде.
func WriteErrorReport(w io.Writer, a *entity.ErrorAnalysis) error {
	var b strings.Builder
	rule := strings.Repeat("=", 30)

	fmt.Fprintln(&b, "🔍 Error Analysis:")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Correct predictions: %d\n", len(a.Correct))
	fmt.Fprintf(&b, "Incorrect predictions: %d\n", len(a.Incorrect))
	fmt.Fprintf(&b, "Invalid predictions: %d\n", len(a.Invalid))

	if len(a.MistakePatterns) > 0 {
		fmt.Fprintln(&b, "\n❌ Common mistakes:")
		for _, m := range a.MistakePatterns {
			fmt.Fprintf(&b, "  %s: %d times\n", m.Pattern, m.Count)
		}
	}

	if len(a.InvalidExamples) > 0 {
		fmt.Fprintln(&b, "\n⚠️ Examples of invalid predictions:")
		for _, ex := range a.InvalidExamples {
			fmt.Fprintf(&b, "  True: %d\n", ex.Reference)
			fmt.Fprintf(&b, "  Raw output: '%s'\n", ex.RawOutput)
		}
	}

	fmt.Fprintln(&b, "\n📊 Subgroup Accuracies:")
	fmt.Fprintln(&b, rule)
	for _, s := range a.Subgroups {
		if !s.Present {
			fmt.Fprintf(&b, "%d Accuracy: 0.00 (no correct predictions)\n", s.Class)
			continue
		}
		fmt.Fprintf(&b, "%d Accuracy: %.2f\n", s.Class, s.Accuracy)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteAccuracy печатает итоговые метрики.
func WriteAccuracy(w io.Writer, m entity.AccuracyMetrics) error {
	_, err := fmt.Fprintf(w, "Accuracy: %.4f (%d/%d valid, %d total)\n",
		m.Accuracy, m.CorrectPredictions, m.ValidPredictions, m.TotalSamples)
	return err
}
