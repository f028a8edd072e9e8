package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// lockedWriter serializes writes from handler clones sharing one output.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// consoleHandler renders one line per record:
//
//	2026-03-01T10:00:00Z WARN batch · Label #6: print failed key=value ...
type consoleHandler struct {
	out       io.Writer
	level     *slog.LevelVar
	addSource bool
	prefix    string
	attrs     []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var (
		component, label string
		fields           strings.Builder
	)
	for _, attr := range h.attrs {
		h.appendAttr(&fields, "", attr, &component, &label)
	}
	record.Attrs(func(attr slog.Attr) bool {
		h.appendAttr(&fields, h.prefix, attr, &component, &label)
		return true
	})

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var line strings.Builder
	line.WriteString(ts.UTC().Format(time.RFC3339))
	line.WriteString(" " + levelLabel(record.Level) + " ")
	if subject := formatSubject(component, label); subject != "" {
		line.WriteString(subject + ": ")
	}
	if msg := strings.TrimSpace(record.Message); msg != "" {
		line.WriteString(msg)
	} else {
		line.WriteString("(no message)")
	}
	if h.addSource {
		if src := record.Source(); src != nil {
			fmt.Fprintf(&line, " [%s:%d]", filepath.Base(src.File), src.Line)
		}
	}
	line.WriteString(fields.String())
	line.WriteByte('\n')

	_, err := io.WriteString(h.out, line.String())
	return err
}

// appendAttr writes key=value pairs, flattening groups into dotted keys. The
// first component and label attrs become the line subject instead.
func (h *consoleHandler) appendAttr(b *strings.Builder, prefix string, attr slog.Attr, component, label *string) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	key := attr.Key
	if prefix != "" && key != "" {
		key = prefix + "." + key
	} else if prefix != "" {
		key = prefix
	}
	if attr.Value.Kind() == slog.KindGroup {
		for _, child := range attr.Value.Group() {
			h.appendAttr(b, key, child, component, label)
		}
		return
	}
	switch {
	case key == FieldComponent && *component == "":
		*component = valueText(attr.Value)
		return
	case key == FieldLabel && *label == "":
		*label = valueText(attr.Value)
		return
	case key == FieldComponent, key == FieldLabel, key == "":
		return
	}
	text := valueText(attr.Value)
	if needsQuotes(text) {
		text = strconv.Quote(text)
	}
	b.WriteString(" " + key + "=" + text)
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.prefix != "" {
		attrs = []slog.Attr{{Key: h.prefix, Value: slog.GroupValue(attrs...)}}
	}
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if h.prefix != "" {
		name = h.prefix + "." + name
	}
	clone.prefix = name
	return &clone
}

func valueText(v slog.Value) string {
	switch v.Kind() {
	case slog.KindTime:
		return v.Time().UTC().Format(time.RFC3339)
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
		return fmt.Sprint(v.Any())
	default:
		return v.String()
	}
}

func needsQuotes(s string) bool {
	if s == "" {
		return true
	}
	return strings.ContainsFunc(s, func(r rune) bool { return r <= ' ' || r == '=' || r == '"' })
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
