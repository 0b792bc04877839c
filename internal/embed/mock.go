package embed

import (
	"context"

	"github.com/cortexcore/cortexcore/internal/corerr"
)

// MockProvider is a deterministic in-memory Provider for tests: it
// "embeds" each text to a fixed-dimension vector derived from its length,
// and can be told to fail specific input indices to exercise the
// partial-failure path (spec scenario S5).
type MockProvider struct {
	Dim        int
	Device     DeviceInfo
	FailAt     map[int]bool
	InitErr    error
	initCalled int
}

func (m *MockProvider) Initialize(_ context.Context, progress ProgressFunc) error {
	m.initCalled++
	if m.InitErr != nil {
		return m.InitErr
	}
	if progress != nil {
		progress(1, 1)
	}
	return nil
}

func (m *MockProvider) EmbedBatch(_ context.Context, texts []string, progress ProgressFunc) (BatchResult, error) {
	result := BatchResult{}
	for i, t := range texts {
		if m.FailAt[i] {
			result.FailedCount++
			continue
		}
		vec := make([]float32, m.Dim)
		for j := range vec {
			vec[j] = float32((len(t) + j) % 97)
		}
		result.Vectors = append(result.Vectors, vec)
		result.SuccessIndices = append(result.SuccessIndices, i)
		if progress != nil {
			progress(i+1, len(texts))
		}
	}
	if result.FailedCount == len(texts) && len(texts) > 0 {
		return result, &corerr.ModelInitFailedError{Devices: []string{string(m.Device.Device)}}
	}
	return result, nil
}

func (m *MockProvider) Dimension() int { return m.Dim }

func (m *MockProvider) DeviceInfo() DeviceInfo { return m.Device }

func (m *MockProvider) BatchSize() int { return BatchSizeFor(m.Device.Device) }
