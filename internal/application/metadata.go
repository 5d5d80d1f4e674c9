package app

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"dlfx/internal/domain/entity"
	"dlfx/internal/domain/port"
)

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// ExtractIndex возвращает первое число в квадратных скобках, например 2 для "Seq[2].Tag".
func ExtractIndex(s string) (int, bool) {
	m := indexPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// MetadataService читает метаданные DICOM и отдаёт их в плоском виде.
type MetadataService struct {
	reader port.MetadataReader
}

func NewMetadataService(reader port.MetadataReader) *MetadataService {
	return &MetadataService{reader: reader}
}

// DescribeFile возвращает плоские теги файла.
func (s *MetadataService) DescribeFile(ctx context.Context, path string) ([]entity.MetadataField, error) {
	fields, err := s.reader.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", path, err)
	}
	return fields, nil
}

// Describe возвращает плоские теги из байтов файла.
func (s *MetadataService) Describe(ctx context.Context, data []byte) ([]entity.MetadataField, error) {
	fields, err := s.reader.Read(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	return fields, nil
}

// SequenceItems группирует поля одной последовательности по номеру элемента.
func SequenceItems(fields []entity.MetadataField, sequence string) map[int][]entity.MetadataField {
	out := make(map[int][]entity.MetadataField)
	prefix := sequence + "["
	for _, f := range fields {
		if len(f.Key) <= len(prefix) || f.Key[:len(prefix)] != prefix {
			continue
		}
		if idx, ok := ExtractIndex(f.Key[len(sequence):]); ok {
			out[idx] = append(out[idx], f)
		}
	}
	return out
}
