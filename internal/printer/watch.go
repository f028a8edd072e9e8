package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"labelgen/internal/logging"
)

// HotplugEvent reports a USB printer node appearing or disappearing.
type HotplugEvent struct {
	Action string
	Device string
}

// Watcher listens for udev netlink events about USB printer class devices.
type Watcher struct {
	logger *slog.Logger
	conn   *netlink.UEventConn
}

// NewWatcher returns a watcher that logs through logger.
func NewWatcher(logger *slog.Logger) *Watcher {
	return &Watcher{logger: logging.NewComponentLogger(logger, "printer-watch")}
}

// Watch blocks until ctx is done, calling fn for every printer add or remove
// event. It fails immediately when the netlink socket cannot be opened.
func (w *Watcher) Watch(ctx context.Context, fn func(HotplugEvent)) error {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return fmt.Errorf("connect to udev netlink socket: %w", err)
	}
	w.conn = conn
	defer func() {
		_ = conn.Close()
		w.conn = nil
	}()

	queue := make(chan netlink.UEvent)
	errs := make(chan error)
	quit := conn.Monitor(queue, errs, buildMatcher())

	w.logger.Info("printer watch started",
		logging.String(logging.FieldEventType, "printer_watch_started"),
	)

	for {
		select {
		case <-ctx.Done():
			close(quit)
			w.logger.Info("printer watch stopped",
				logging.String(logging.FieldEventType, "printer_watch_stopped"),
			)
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case uevent := <-queue:
			event, ok := toHotplugEvent(uevent)
			if !ok {
				w.logger.Debug("ignoring event without device name",
					logging.String("action", string(uevent.Action)),
					logging.String("kobj", uevent.KObj),
				)
				continue
			}
			if fn != nil {
				fn(event)
			}
		case err := <-errs:
			logging.WarnWithContext(w.logger, "udev monitor error", "printer_watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check kernel netlink subsystem"),
				logging.String(logging.FieldImpact, "printer hotplug events may be missed"),
			)
		}
	}
}

// buildMatcher matches USB printer class nodes: SUBSYSTEM=usbmisc,
// DEVNAME=usb/lp<N>, ACTION=add|remove.
func buildMatcher() netlink.Matcher {
	action := "add|remove"
	rules := &netlink.RuleDefinitions{}
	rules.AddRule(netlink.RuleDefinition{
		Action: &action,
		Env: map[string]string{
			"SUBSYSTEM": "usbmisc",
			"DEVNAME":   "lp[0-9]+$",
		},
	})
	return rules
}

func toHotplugEvent(uevent netlink.UEvent) (HotplugEvent, bool) {
	device := deviceName(uevent)
	if device == "" {
		return HotplugEvent{}, false
	}
	return HotplugEvent{Action: string(uevent.Action), Device: device}, true
}

// deviceName returns the absolute device path of a uevent.
func deviceName(uevent netlink.UEvent) string {
	if devname := strings.TrimSpace(uevent.Env["DEVNAME"]); devname != "" {
		if strings.HasPrefix(devname, "/") {
			return devname
		}
		return "/dev/" + devname
	}

	devpath := uevent.Env["DEVPATH"]
	if devpath == "" {
		return ""
	}
	parts := strings.Split(devpath, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return ""
	}
	return "/dev/usb/" + last
}
