package config

import (
	"fmt"
	"net"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePrinter(); err != nil {
		return err
	}
	c.normalizeJournal()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir()
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePrinter() error {
	c.Printer.Driver = strings.ToLower(strings.TrimSpace(c.Printer.Driver))
	if c.Printer.Driver == "" {
		c.Printer.Driver = defaultPrinterDriver
	}

	c.Printer.Queue = strings.TrimSpace(c.Printer.Queue)
	if c.Printer.Queue == "" {
		if value, ok := os.LookupEnv("LABELGEN_PRINTER"); ok {
			c.Printer.Queue = strings.TrimSpace(value)
		}
	}

	c.Printer.Device = strings.TrimSpace(c.Printer.Device)
	if c.Printer.Device == "" {
		c.Printer.Device = defaultPrinterDevice
	}

	c.Printer.Address = strings.TrimSpace(c.Printer.Address)
	if c.Printer.Address != "" {
		if _, _, err := net.SplitHostPort(c.Printer.Address); err != nil {
			c.Printer.Address = net.JoinHostPort(c.Printer.Address, defaultPrinterPort)
		}
	}

	if spool := strings.TrimSpace(c.Printer.SpoolDir); spool != "" {
		expanded, err := expandPath(spool)
		if err != nil {
			return fmt.Errorf("printer.spool_dir: %w", err)
		}
		c.Printer.SpoolDir = expanded
	} else {
		c.Printer.SpoolDir = DefaultSpoolDir(c.Paths.OutputDir)
	}

	c.Printer.JobName = strings.TrimSpace(c.Printer.JobName)
	if c.Printer.JobName == "" {
		c.Printer.JobName = defaultPrinterJobName
	}

	c.Printer.Encoding = NormalizeEncoding(c.Printer.Encoding)
	if c.Printer.Encoding == "" {
		c.Printer.Encoding = defaultPrinterEncoding
	}

	if c.Printer.TimeoutSeconds == 0 {
		c.Printer.TimeoutSeconds = defaultPrinterTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeJournal() {
	if c.Journal.KeepRuns == 0 {
		c.Journal.KeepRuns = defaultJournalKeepRuns
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("LABELGEN_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

// NormalizeEncoding maps common aliases onto the canonical printer encoding
// names. Unknown values are returned lowercased so validation can reject them.
func NormalizeEncoding(value string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "utf8", "utf-8":
		return "utf-8"
	case "cp437", "ibm437":
		return "cp437"
	case "cp850", "ibm850":
		return "cp850"
	case "cp1252", "windows-1252":
		return "cp1252"
	default:
		return v
	}
}
