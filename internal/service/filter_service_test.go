package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/snehn77/Editor/pkg/errors"
)

type filterSourceStub struct {
	calls int
	err   error
}

func (s *filterSourceStub) DistinctProcesses(ctx context.Context) ([]string, error) {
	s.calls++
	return []string{"P1", "P2"}, s.err
}

func (s *filterSourceStub) DistinctLayers(ctx context.Context, process string) ([]string, error) {
	s.calls++
	return []string{process + "-L1"}, s.err
}

func (s *filterSourceStub) DistinctOperations(ctx context.Context, process, layer string) ([]string, error) {
	s.calls++
	return nil, s.err
}

func TestFilterServiceCachesLookups(t *testing.T) {
	source := &filterSourceStub{}
	cache := NewCacheService(newMemoryCache(), nil, time.Minute, nil, true)
	svc := NewFilterService(source, cache, time.Minute, nil)
	ctx := context.Background()

	first, err := svc.Processes(ctx)
	require.NoError(t, err)
	second, err := svc.Processes(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"P1", "P2"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)

	layers, err := svc.Layers(ctx, " P1 ")
	require.NoError(t, err)
	assert.Equal(t, []string{"P1-L1"}, layers)

	ops, err := svc.Operations(ctx, "P1", "L1")
	require.NoError(t, err)
	assert.NotNil(t, ops)
	assert.Empty(t, ops)
}

func TestFilterServiceValidatesAndWrapsErrors(t *testing.T) {
	source := &filterSourceStub{}
	svc := NewFilterService(source, nil, time.Minute, nil)
	ctx := context.Background()

	_, err := svc.Layers(ctx, "")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	_, err = svc.Operations(ctx, "P1", " ")
	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, 0, source.calls)

	source.err = assert.AnError
	_, err = svc.Processes(ctx)
	assert.True(t, appErrors.Is(err, appErrors.ErrStorage))
}
