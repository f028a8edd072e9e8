package printer

import (
	"os"
	"path/filepath"
	"sort"
)

// DefaultDeviceGlob matches USB printer class device nodes.
const DefaultDeviceGlob = "/dev/usb/lp*"

// DeviceInfo describes a printer device node.
type DeviceInfo struct {
	Path     string
	Writable bool
}

// Discover lists device nodes matching glob (DefaultDeviceGlob when empty).
func Discover(glob string) ([]DeviceInfo, error) {
	if glob == "" {
		glob = DefaultDeviceGlob
	}
	matches, err := filepath.Glob(glob)
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	out := make([]DeviceInfo, 0, len(matches))
	for _, path := range matches {
		info := DeviceInfo{Path: path}
		if f, err := os.OpenFile(path, os.O_WRONLY, 0); err == nil {
			info.Writable = true
			_ = f.Close()
		}
		out = append(out, info)
	}
	return out, nil
}
