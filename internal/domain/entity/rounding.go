package entity

import "fmt"

// RoundingMode определяет, как масштабированное значение приводится к uint8.
type RoundingMode string

const (
	RoundTruncate RoundingMode = "truncate" // отбрасывание дробной части
	RoundNearest  RoundingMode = "nearest"  // округление к ближайшему
)

// ParseRoundingMode разбирает название режима округления.
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(s) {
	case "", RoundTruncate:
		return RoundTruncate, nil
	case RoundNearest:
		return RoundNearest, nil
	default:
		return "", fmt.Errorf("unknown rounding mode %q", s)
	}
}
