package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"dlfx/internal/domain/entity"
)

type Config struct {
	TelegramToken string
	Rounding      entity.RoundingMode
	ProcessorSize int
	Workers       int
	UseGoCV       bool
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	rounding, err := entity.ParseRoundingMode(os.Getenv("DLFX_ROUNDING"))
	if err != nil {
		return nil, fmt.Errorf("DLFX_ROUNDING: %w", err)
	}
	size, err := getInt("DLFX_PROCESSOR_SIZE", 448)
	if err != nil {
		return nil, err
	}
	workers, err := getInt("DLFX_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		Rounding:      rounding,
		ProcessorSize: size,
		Workers:       workers,
		UseGoCV:       os.Getenv("DLFX_USE_GOCV") == "1",
	}

	return cfg, nil
}

func getInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
