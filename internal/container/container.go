package container

import (
	"dlfx/config"
	app "dlfx/internal/application"
	"dlfx/internal/domain/port"
	"dlfx/internal/infrastructure/dicomfile"
	"dlfx/internal/infrastructure/plot"
	"dlfx/internal/infrastructure/processor"
	"dlfx/internal/infrastructure/storage"
	"dlfx/internal/infrastructure/vision"
)

type Container struct {
	Config          *config.Config
	Loader          port.ImageLoader
	Processor       port.FeatureProcessor
	Normalizer      *app.Normalizer
	UserService     *app.UserService
	MetadataService *app.MetadataService
	PreviewService  *app.PreviewService
	GridService     *app.GridService
}

func New(cfg *config.Config, userRepo port.UserRepository) *Container {
	dicomReader := dicomfile.NewReader()

	var raster port.ImageLoader = vision.NewRasterLoader()
	if cfg.UseGoCV && vision.GoCVEnabled {
		raster = vision.NewGoCVLoader()
	}
	loader := vision.NewAutoLoader(dicomReader, raster)

	normalizer := app.NewNormalizer(cfg.Rounding)
	userService := app.NewUserService(userRepo)
	metadataService := app.NewMetadataService(dicomReader)

	return &Container{
		Config:          cfg,
		Loader:          loader,
		Processor:       processor.NewSigLIP(cfg.ProcessorSize),
		Normalizer:      normalizer,
		UserService:     userService,
		MetadataService: metadataService,
		PreviewService:  app.NewPreviewService(userService, loader, metadataService, cfg.Rounding),
		GridService:     app.NewGridService(loader, normalizer, plot.NewGridRenderer()),
	}
}

// NewDefault собирает контейнер с in-memory хранилищем сессий.
func NewDefault(cfg *config.Config) *Container {
	return New(cfg, storage.NewMemoryUserRepository())
}

// SplitConfig переводит YAML-настройки в параметры загрузчиков.
func (c *Container) SplitConfig(lc *config.LoaderConfig) app.SplitConfig {
	workers := lc.NumWorkers
	if workers == 0 {
		workers = c.Config.Workers
	}
	return app.SplitConfig{
		ImgBasePath: lc.ImgBasePath,
		Labels:      lc.Labels,
		BatchSize:   lc.BatchSize,
		Workers:     workers,
		Seed:        lc.ShuffleSeed,
	}
}
