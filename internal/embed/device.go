package embed

import "github.com/cortexcore/cortexcore/internal/config"

// DeviceKind is the class of compute device an Embedder initialized on.
type DeviceKind string

const (
	DeviceCPU        DeviceKind = "cpu"
	DeviceGPUNative  DeviceKind = "gpu-native"
	DeviceGPUBrowser DeviceKind = "gpu-browser"
)

// DeviceInfo reports which device an Embedder actually initialized on,
// and why, if it fell back from a preferred device.
type DeviceInfo struct {
	Device         DeviceKind
	Vendor         string
	Name           string
	FallbackReason string
}

// DeviceProbe attempts to initialize each device in turn, implementing
// the Design Notes' try_primary_else_fallback pattern for GPU auto
// selection: GPU-browser, then GPU-native-Windows, then CPU.
type DeviceProbe struct {
	// TryGPUBrowser and TryGPUNative return (info, ok); ok=false signals
	// the probe failed and the next candidate should be tried. Both are
	// overridable for tests; nil means "not available on this build".
	TryGPUBrowser func() (DeviceInfo, bool)
	TryGPUNative  func() (DeviceInfo, bool)
}

// Select resolves the device to initialize on given a configured override
// (cfg.Device) or, if unset, the auto-detect order from spec §4.4.
func (p DeviceProbe) Select(cfg config.Config) DeviceInfo {
	switch cfg.Device {
	case config.DeviceCPU:
		return DeviceInfo{Device: DeviceCPU}
	case config.DeviceGPUNative:
		if p.TryGPUNative != nil {
			if info, ok := p.TryGPUNative(); ok {
				return info
			}
		}
		return DeviceInfo{Device: DeviceCPU, FallbackReason: "gpu-native init failed"}
	case config.DeviceGPUBrowser:
		if p.TryGPUBrowser != nil {
			if info, ok := p.TryGPUBrowser(); ok {
				return info
			}
		}
		return DeviceInfo{Device: DeviceCPU, FallbackReason: "gpu-browser init failed"}
	default:
		if p.TryGPUBrowser != nil {
			if info, ok := p.TryGPUBrowser(); ok {
				return info
			}
		}
		if p.TryGPUNative != nil {
			if info, ok := p.TryGPUNative(); ok {
				return info
			}
		}
		return DeviceInfo{Device: DeviceCPU, FallbackReason: "no accelerator available"}
	}
}

// BatchSizeFor returns the batch size for a device: 64 on any accelerator,
// 32 on CPU.
func BatchSizeFor(d DeviceKind) int {
	if d == DeviceCPU {
		return 32
	}
	return 64
}
