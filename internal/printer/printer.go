package printer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"labelgen/internal/config"
)

// ErrDevice marks failures reported by the printer, spooler, or transport.
var ErrDevice = errors.New("printer error")

// Job is one raw print job.
type Job struct {
	Name string
	Data []byte
}

// Sink accepts raw print jobs.
type Sink interface {
	Print(ctx context.Context, job Job) error
}

// Describer is implemented by sinks that can name their destination.
type Describer interface {
	Describe() string
}

// SinkFunc adapts a function into a Sink.
type SinkFunc func(ctx context.Context, job Job) error

// Print calls f.
func (f SinkFunc) Print(ctx context.Context, job Job) error { return f(ctx, job) }

// Options configures New.
type Options struct {
	Driver   string
	Queue    string
	Device   string
	Address  string
	SpoolDir string
	Encoding string
	Timeout  time.Duration
}

// OptionsFromConfig maps the [printer] config section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Driver:   cfg.Printer.Driver,
		Queue:    cfg.Printer.Queue,
		Device:   cfg.Printer.Device,
		Address:  cfg.Printer.Address,
		SpoolDir: cfg.Printer.SpoolDir,
		Encoding: cfg.Printer.Encoding,
		Timeout:  cfg.PrinterTimeout(),
	}
}

// New builds the sink selected by opts.Driver, wrapped so documents are
// transcoded to opts.Encoding before they reach the transport.
func New(opts Options) (Sink, error) {
	var base Sink
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case config.DriverCUPS, "":
		base = &CUPS{Queue: opts.Queue, Timeout: opts.Timeout}
	case config.DriverDevice:
		if strings.TrimSpace(opts.Device) == "" {
			return nil, errors.New("device driver requires a device path")
		}
		base = &Device{Path: opts.Device}
	case config.DriverNetwork:
		if strings.TrimSpace(opts.Address) == "" {
			return nil, errors.New("network driver requires an address")
		}
		base = &Network{Address: opts.Address, Timeout: opts.Timeout}
	case config.DriverFile:
		if strings.TrimSpace(opts.SpoolDir) == "" {
			return nil, errors.New("file driver requires a spool directory")
		}
		base = NewSpool(opts.SpoolDir)
	default:
		return nil, fmt.Errorf("unsupported printer driver %q", opts.Driver)
	}

	enc, err := NewEncoder(opts.Encoding)
	if err != nil {
		return nil, err
	}
	return &encodingSink{next: base, enc: enc}, nil
}

// Describe names a sink's destination for logs and summaries.
func Describe(s Sink) string {
	if d, ok := s.(Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("%T", s)
}

type encodingSink struct {
	next Sink
	enc  *Encoder
}

func (s *encodingSink) Print(ctx context.Context, job Job) error {
	data, err := s.enc.Encode(job.Data)
	if err != nil {
		return fmt.Errorf("%w: job %q: %w", ErrDevice, job.Name, err)
	}
	job.Data = data
	return s.next.Print(ctx, job)
}

func (s *encodingSink) Describe() string {
	desc := Describe(s.next)
	if s.enc.Name() == "utf-8" {
		return desc
	}
	return desc + " (" + s.enc.Name() + ")"
}

func deviceError(job Job, op string, err error) error {
	return fmt.Errorf("%w: job %q: %s: %w", ErrDevice, job.Name, op, err)
}
