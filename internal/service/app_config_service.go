package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/YasmaniJob/beeclass/internal/models"
	appErrors "github.com/YasmaniJob/beeclass/pkg/errors"
)

type appConfigRepository interface {
	Load(ctx context.Context) (*models.AppConfig, error)
}

// AppConfigService holds the institution settings and signals when they are first available.
type AppConfigService struct {
	repo   appConfigRepository
	logger *zap.Logger

	mu    sync.RWMutex
	cfg   *models.AppConfig
	ready chan struct{}
	once  sync.Once
}

// NewAppConfigService constructs the service. Nothing is loaded until Init.
func NewAppConfigService(repo appConfigRepository, logger *zap.Logger) *AppConfigService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AppConfigService{repo: repo, logger: logger, ready: make(chan struct{})}
}

// Init loads the settings and marks the service ready. It can be called again to reload.
func (s *AppConfigService) Init(ctx context.Context) error {
	cfg, err := s.repo.Load(ctx)
	if err != nil {
		s.logger.Error("load app config", zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "la configuración de la institución no está disponible")
	}
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	s.once.Do(func() { close(s.ready) })
	s.logger.Info("app config loaded", zap.String("academic_year", cfg.AcademicYear), zap.Strings("levels", cfg.EnabledLevels))
	return nil
}

// Ready is closed once the first Init succeeds.
func (s *AppConfigService) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until the settings are ready or ctx ends.
func (s *AppConfigService) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns a copy of the loaded settings.
func (s *AppConfigService) Current() (models.AppConfig, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cfg == nil {
		return models.AppConfig{}, false
	}
	out := *s.cfg
	out.EnabledLevels = append([]string(nil), s.cfg.EnabledLevels...)
	return out, true
}
