package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"labelgen/internal/config"
	"labelgen/internal/deps"
	"labelgen/internal/printer"
)

const dialTimeout = 3 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckOutputDirectory is CheckDirectoryAccess for a directory that runs
// create on demand. A missing directory passes when its nearest existing
// ancestor is writable.
func CheckOutputDirectory(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil || !os.IsNotExist(err) {
		return CheckDirectoryAccess(name, path)
	}
	ancestor := filepath.Dir(path)
	for {
		if _, err := os.Stat(ancestor); err == nil {
			break
		}
		parent := filepath.Dir(ancestor)
		if parent == ancestor {
			break
		}
		ancestor = parent
	}
	parent := CheckDirectoryAccess(name, ancestor)
	if !parent.Passed {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: cannot be created under %s)", path, ancestor)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

// CheckPrinter runs the reachability check of the configured driver.
func CheckPrinter(ctx context.Context, opts printer.Options) Result {
	name := "Printer (" + opts.Driver + ")"
	switch opts.Driver {
	case config.DriverCUPS:
		return checkCUPS(name, opts)
	case config.DriverDevice:
		return CheckDevice(name, opts.Device)
	case config.DriverNetwork:
		return CheckNetwork(ctx, name, opts.Address)
	case config.DriverFile:
		return CheckOutputDirectory(name, opts.SpoolDir)
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown driver %q", opts.Driver)}
	}
}

func checkCUPS(name string, opts printer.Options) Result {
	statuses := deps.CheckBinaries(deps.PrinterRequirements(config.DriverCUPS, printer.DefaultLPBinary))
	if missing := deps.MissingRequired(statuses); len(missing) > 0 {
		return Result{Name: name, Detail: missing[0].Detail}
	}
	queue := opts.Queue
	if queue == "" {
		queue = "system default"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("queue %s via %s", queue, statuses[0].Path)}
}

// CheckDevice verifies the printer node exists and is writable.
func CheckDevice(name, path string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "device not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: not connected)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)}
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not writable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (writable)", path)}
}

// CheckNetwork dials the printer's raw port once.
func CheckNetwork(ctx context.Context, name, address string) Result {
	if strings.TrimSpace(address) == "" {
		return Result{Name: name, Detail: "address not configured"}
	}
	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(dialCtx, "tcp", address)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: connect timed out)", address)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", address, err)}
	}
	_ = conn.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (reachable)", address)}
}
