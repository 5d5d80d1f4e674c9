package entity

// InvalidPrediction — маркер ответа модели, который не удалось сопоставить с классом.
const InvalidPrediction = -1

// AccuracyMetrics — итоговая точность по валидным предсказаниям.
type AccuracyMetrics struct {
	Accuracy           float64
	ValidPredictions   int
	TotalSamples       int
	CorrectPredictions int
}

// MistakePattern — тип ошибки «истинный класс → предсказанный» и число повторов.
type MistakePattern struct {
	Pattern string
	Count   int
}

// InvalidExample — пример невалидного ответа модели.
type InvalidExample struct {
	Index     int
	Reference int
	RawOutput string
}

// SubgroupAccuracy — точность внутри одного истинного класса.
type SubgroupAccuracy struct {
	Class    int
	Accuracy float64
	Present  bool // false, если для класса нет ни одного верного ответа
}

// ErrorAnalysis — результат разбора ошибок.
type ErrorAnalysis struct {
	Correct         []int
	Incorrect       []int
	Invalid         []int
	MistakePatterns []MistakePattern
	InvalidExamples []InvalidExample
	Subgroups       []SubgroupAccuracy
}
