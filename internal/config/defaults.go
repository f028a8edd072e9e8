package config

import "path/filepath"

const (
	defaultOutputDir             = "~/labels"
	defaultLogDir                = "~/.local/share/labelgen/logs"
	defaultStateDirFallback      = "~/.local/state/labelgen"
	defaultPrinterDriver         = DriverCUPS
	defaultPrinterDevice         = "/dev/usb/lp0"
	defaultPrinterPort           = "9100"
	defaultPrinterJobName        = "ZPL Label"
	defaultPrinterEncoding       = "utf-8"
	defaultPrinterTimeoutSeconds = 30
	defaultJournalKeepRuns       = 200
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
	defaultLogRetentionDays      = 30
	defaultSpoolDirName          = ".spool"
)

// Printer driver names accepted in printer.driver.
const (
	DriverCUPS    = "cups"
	DriverDevice  = "device"
	DriverNetwork = "network"
	DriverFile    = "file"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			StateDir:  defaultStateDir(),
		},
		Printer: Printer{
			Driver:         defaultPrinterDriver,
			Device:         defaultPrinterDevice,
			JobName:        defaultPrinterJobName,
			Encoding:       defaultPrinterEncoding,
			TimeoutSeconds: defaultPrinterTimeoutSeconds,
		},
		Journal: Journal{
			Enabled:  true,
			KeepRuns: defaultJournalKeepRuns,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}

// DefaultSpoolDir returns the spool directory used by dry runs for the given
// output directory. It is a hidden subdirectory so record cleanup never
// touches spooled jobs.
func DefaultSpoolDir(outputDir string) string {
	return filepath.Join(outputDir, defaultSpoolDirName)
}
