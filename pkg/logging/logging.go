// Package logging sets up the process-wide slog logger and keeps the most
// recent warnings in memory so the interactive shell can show them.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Entry is a buffered log record.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s %s", e.Time.Format(time.TimeOnly), e.Level, e.Message)
}

// Buffer is a fixed-size ring of recent entries.
type Buffer struct {
	mu    sync.RWMutex
	buf   []Entry
	head  int // next write position
	count int
}

func NewBuffer(size int) *Buffer {
	if size < 1 {
		size = 1
	}
	return &Buffer{buf: make([]Entry, size)}
}

// Add appends e, overwriting the oldest entry when full.
func (b *Buffer) Add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf[b.head] = e
	b.head = (b.head + 1) % len(b.buf)
	if b.count < len(b.buf) {
		b.count++
	}
}

// Latest returns up to n entries, newest first.
func (b *Buffer) Latest(n int) []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n = min(n, b.count)
	if n <= 0 {
		return nil
	}
	out := make([]Entry, n)
	for i := range out {
		out[i] = b.buf[(b.head-1-i+len(b.buf))%len(b.buf)]
	}
	return out
}

// Handler forwards records to a base handler and copies those at or above
// a threshold level into a Buffer.
type Handler struct {
	base      slog.Handler
	buffer    *Buffer
	threshold slog.Level
	attrs     []slog.Attr
	groups    []string
}

func NewHandler(base slog.Handler, buffer *Buffer, threshold slog.Level) *Handler {
	return &Handler{base: base, buffer: buffer, threshold: threshold}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	err := h.base.Handle(ctx, r)
	if r.Level >= h.threshold {
		h.buffer.Add(Entry{
			Time:    r.Time,
			Level:   r.Level,
			Message: formatRecord(r, h.attrs, h.groups),
		})
	}
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		base:      h.base.WithAttrs(attrs),
		buffer:    h.buffer,
		threshold: h.threshold,
		attrs:     append(append([]slog.Attr{}, h.attrs...), attrs...),
		groups:    h.groups,
	}
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{
		base:      h.base.WithGroup(name),
		buffer:    h.buffer,
		threshold: h.threshold,
		attrs:     h.attrs,
		groups:    append(append([]string{}, h.groups...), name),
	}
}

func formatRecord(r slog.Record, preAttrs []slog.Attr, groups []string) string {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range preAttrs {
		fmt.Fprintf(&b, " %s=%s", a.Key, a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if len(groups) > 0 {
			key = strings.Join(groups, ".") + "." + key
		}
		fmt.Fprintf(&b, " %s=%s", key, a.Value.String())
		return true
	})
	return b.String()
}

// Setup installs the default logger: tint on stderr, colored when stderr
// is a terminal, at debug level when debug is set. Warnings and errors are
// also kept in the returned buffer.
func Setup(debug bool) *Buffer {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logW := os.Stderr
	base := tint.NewHandler(logW, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(logW.Fd()),
	})
	buf := NewBuffer(100)
	slog.SetDefault(slog.New(NewHandler(base, buf, slog.LevelWarn)))
	return buf
}
