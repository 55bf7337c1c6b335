package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type filterSource interface {
	DistinctProcesses(ctx context.Context) ([]string, error)
	DistinctLayers(ctx context.Context, process string) ([]string, error)
	DistinctOperations(ctx context.Context, process, layer string) ([]string, error)
}

// FilterService lists the process/layer/operation options of the source table.
type FilterService struct {
	source filterSource
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewFilterService constructs the service.
func NewFilterService(source filterSource, cache *CacheService, ttl time.Duration, logger *zap.Logger) *FilterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FilterService{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Processes lists every process.
func (s *FilterService) Processes(ctx context.Context) ([]string, error) {
	return s.cached(ctx, FilterKey("processes"), func() ([]string, error) {
		return s.source.DistinctProcesses(ctx)
	})
}

// Layers lists the layers of a process.
func (s *FilterService) Layers(ctx context.Context, process string) ([]string, error) {
	process = strings.TrimSpace(process)
	if process == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "process is required")
	}
	return s.cached(ctx, FilterKey("layers", process), func() ([]string, error) {
		return s.source.DistinctLayers(ctx, process)
	})
}

// Operations lists the operation lists recorded for a process and layer.
func (s *FilterService) Operations(ctx context.Context, process, layer string) ([]string, error) {
	process, layer = strings.TrimSpace(process), strings.TrimSpace(layer)
	if process == "" || layer == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "process and layer are required")
	}
	return s.cached(ctx, FilterKey("operations", process, layer), func() ([]string, error) {
		return s.source.DistinctOperations(ctx, process, layer)
	})
}

func (s *FilterService) cached(ctx context.Context, key string, load func() ([]string, error)) ([]string, error) {
	var values []string
	if s.cache.Get(ctx, key, &values) {
		return values, nil
	}
	values, err := load()
	if err != nil {
		s.logger.Error("filter lookup failed", zap.String("key", key), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStorage.Code, appErrors.ErrStorage.Status, appErrors.ErrStorage.Message)
	}
	if values == nil {
		values = []string{}
	}
	s.cache.Set(ctx, key, values, s.ttl)
	return values, nil
}
