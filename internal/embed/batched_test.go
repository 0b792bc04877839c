package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedAllPartialFailure(t *testing.T) {
	provider := &MockProvider{
		Dim:    8,
		Device: DeviceInfo{Device: DeviceCPU},
		FailAt: map[int]bool{3: true, 7: true},
	}

	texts := make([]string, 10)
	for i := range texts {
		texts[i] = "text"
	}

	result, err := EmbedAll(context.Background(), provider, texts, nil)
	require.NoError(t, err)
	require.Equal(t, 8, len(result.SuccessIndices))
	require.Equal(t, 2, result.FailedCount)
	for _, v := range result.Vectors {
		require.Len(t, v, 8)
		require.NotEqual(t, make([]float32, 8), v)
	}
}

func TestRegistryMemoizesInit(t *testing.T) {
	calls := 0
	registry := NewRegistry(func(name Name) (Provider, error) {
		calls++
		return &MockProvider{Dim: 384, Device: DeviceInfo{Device: DeviceCPU}}, nil
	})

	ctx := context.Background()
	p1, err := registry.Get(ctx, Code, nil)
	require.NoError(t, err)
	p2, err := registry.Get(ctx, Code, nil)
	require.NoError(t, err)

	require.Same(t, p1, p2)
	require.Equal(t, 1, calls)
}

func TestRegistryRetriesAfterFailure(t *testing.T) {
	attempt := 0
	registry := NewRegistry(func(name Name) (Provider, error) {
		attempt++
		if attempt == 1 {
			return &MockProvider{InitErr: context.DeadlineExceeded}, nil
		}
		return &MockProvider{Dim: 384}, nil
	})

	ctx := context.Background()
	_, err := registry.Get(ctx, Code, nil)
	require.Error(t, err)

	p, err := registry.Get(ctx, Code, nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, 2, attempt)
}
