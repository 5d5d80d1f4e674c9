package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoaderConfig описывает сборку загрузчиков из манифеста.
type LoaderConfig struct {
	ImgBasePath string   `yaml:"img_base_path"`
	Labels      []string `yaml:"labels"`
	BatchSize   int      `yaml:"batch_size"`
	NumWorkers  int      `yaml:"num_workers"`
	ShuffleSeed uint64   `yaml:"shuffle_seed"`
}

// LoadLoaderConfig читает YAML-файл с настройками загрузчиков.
func LoadLoaderConfig(path string) (*LoaderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read loader config: %w", err)
	}
	return ParseLoaderConfig(data)
}

// ParseLoaderConfig разбирает YAML и проверяет значения.
func ParseLoaderConfig(data []byte) (*LoaderConfig, error) {
	cfg := &LoaderConfig{BatchSize: 1}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse loader config: %w", err)
	}
	if cfg.BatchSize <= 0 {
		return nil, errors.New("batch_size must be positive")
	}
	if cfg.NumWorkers < 0 {
		return nil, errors.New("num_workers must not be negative")
	}
	return cfg, nil
}
