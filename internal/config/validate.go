package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePrinter(); err != nil {
		return err
	}
	if err := c.validateJournal(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePrinter() error {
	switch c.Printer.Driver {
	case DriverCUPS, DriverFile:
	case DriverDevice:
		if strings.TrimSpace(c.Printer.Device) == "" {
			return errors.New("printer.device must be set when printer.driver is \"device\"")
		}
	case DriverNetwork:
		if strings.TrimSpace(c.Printer.Address) == "" {
			return errors.New("printer.address must be set when printer.driver is \"network\"")
		}
	default:
		return fmt.Errorf("printer.driver: unsupported value %q (want cups, device, network, or file)", c.Printer.Driver)
	}
	switch c.Printer.Encoding {
	case "utf-8", "cp437", "cp850", "cp1252":
	default:
		return fmt.Errorf("printer.encoding: unsupported value %q (want utf-8, cp437, cp850, or cp1252)", c.Printer.Encoding)
	}
	if c.Printer.TimeoutSeconds < 0 {
		return errors.New("printer.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateJournal() error {
	if c.Journal.KeepRuns < 0 {
		return errors.New("journal.keep_runs must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout < 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	topic := c.Notifications.NtfyTopic
	if topic != "" && !strings.HasPrefix(topic, "http://") && !strings.HasPrefix(topic, "https://") {
		return fmt.Errorf("notifications.ntfy_topic must be a full URL, got %q", topic)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
