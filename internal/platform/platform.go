// Package platform centralizes OS-specific behavior that would otherwise be
// scattered as runtime.GOOS checks through the policy, watcher and cache
// packages.
package platform

import (
	"runtime"
	"time"
)

// PollingHints tells the filewatcher how aggressively to poll when native
// events are unreliable (case-insensitive volumes, some network mounts).
type PollingHints struct {
	UsePolling    bool
	TextInterval  time.Duration
	BinaryInterval time.Duration
}

// Platform exposes the capabilities Design Notes §9 asks to centralize:
// case sensitivity, polling hints and the path separator in effect.
type Platform struct {
	os string
}

// Current returns the Platform for the process's own runtime.GOOS.
func Current() Platform {
	return Platform{os: runtime.GOOS}
}

// IsCaseInsensitive reports whether the default filesystem for this OS is
// case-insensitive. Treated as a coarse default; it is not a volume probe.
func (p Platform) IsCaseInsensitive() bool {
	switch p.os {
	case "windows", "darwin":
		return true
	default:
		return false
	}
}

// PollingHints returns the watcher polling policy appropriate for this OS.
func (p Platform) PollingHints() PollingHints {
	if p.os == "windows" {
		return PollingHints{
			UsePolling:     true,
			TextInterval:   300 * time.Millisecond,
			BinaryInterval: 500 * time.Millisecond,
		}
	}
	return PollingHints{UsePolling: false}
}

// PathSeparator returns the native path separator for this OS.
func (p Platform) PathSeparator() rune {
	if p.os == "windows" {
		return '\\'
	}
	return '/'
}
