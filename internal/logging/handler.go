// Package logging provides the slog handler that copies warnings and errors
// into the admin activity log and, when configured, forwards errors to
// Rollbar.
package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/rollbar/rollbar-go"

	"github.com/olegiv/daf-alumni/internal/model"
)

type pathKey struct{}

// WithPath stores the request path so activity entries carry the URL.
func WithPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, pathKey{}, path)
}

// PathFromContext returns the path stored by WithPath.
func PathFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	p, _ := ctx.Value(pathKey{}).(string)
	return p
}

// ActivityWriter persists activity entries.
type ActivityWriter interface {
	CreateActivity(ctx context.Context, a model.Activity) error
}

// Reporter receives ERROR records for an external error tracker.
type Reporter func(err error, extras map[string]any)

// ActivityHandler is a slog.Handler that wraps another handler and also
// writes records at or above its level to the activity log.
type ActivityHandler struct {
	inner    slog.Handler
	writer   ActivityWriter
	level    slog.Level
	reporter Reporter
	attrs    []slog.Attr
}

// NewActivityHandler wraps inner. Records at WARN and above go to w.
func NewActivityHandler(inner slog.Handler, w ActivityWriter) *ActivityHandler {
	return &ActivityHandler{inner: inner, writer: w, level: slog.LevelWarn}
}

// WithLevel returns a copy that records entries at level and above.
func (h *ActivityHandler) WithLevel(level slog.Level) *ActivityHandler {
	c := h.clone()
	c.level = level
	return c
}

// WithReporter returns a copy that also hands ERROR records to r.
func (h *ActivityHandler) WithReporter(r Reporter) *ActivityHandler {
	c := h.clone()
	c.reporter = r
	return c
}

func (h *ActivityHandler) clone() *ActivityHandler {
	c := *h
	c.attrs = append([]slog.Attr(nil), h.attrs...)
	return &c
}

// Enabled implements slog.Handler.
func (h *ActivityHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ActivityHandler) Handle(ctx context.Context, r slog.Record) error {
	if err := h.inner.Handle(ctx, r); err != nil {
		return err
	}

	if r.Level < h.level {
		return nil
	}

	attrs := h.collect(r)
	if h.writer != nil {
		// Background context: the entry must be written even if the request
		// was cancelled. Failures are dropped to avoid logging recursion.
		_ = h.writer.CreateActivity(context.Background(), model.Activity{
			Level:     activityLevel(r.Level),
			Category:  category(r.Message, attrs),
			Message:   r.Message,
			Path:      PathFromContext(ctx),
			Metadata:  metadata(attrs),
			CreatedAt: r.Time,
		})
	}

	if h.reporter != nil && r.Level >= slog.LevelError {
		extras := make(map[string]any, len(attrs)+1)
		for _, a := range attrs {
			extras[a.Key] = a.Value.String()
		}
		if p := PathFromContext(ctx); p != "" {
			extras["path"] = p
		}
		h.reporter(errors.New(r.Message), extras)
	}
	return nil
}

// WithAttrs implements slog.Handler.
func (h *ActivityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithAttrs(attrs)
	c.attrs = append(c.attrs, attrs...)
	return c
}

// WithGroup implements slog.Handler.
func (h *ActivityHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.inner = h.inner.WithGroup(name)
	return c
}

func (h *ActivityHandler) collect(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return attrs
}

func activityLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return model.ActivityLevelError
	case level >= slog.LevelWarn:
		return model.ActivityLevelWarning
	default:
		return model.ActivityLevelInfo
	}
}

// category uses an explicit "category" attribute, else infers one from the
// message.
func category(msg string, attrs []slog.Attr) string {
	for _, a := range attrs {
		if a.Key == "category" {
			return a.Value.String()
		}
	}

	m := strings.ToLower(msg)
	switch {
	case strings.Contains(m, "login") || strings.Contains(m, "logout") || strings.Contains(m, "password") || strings.Contains(m, "auth"):
		return model.CategoryAuth
	case strings.Contains(m, "gallery") || strings.Contains(m, "slide") || strings.Contains(m, "upload") || strings.Contains(m, "image"):
		return model.CategoryMedia
	case strings.Contains(m, "message") || strings.Contains(m, "inbox"):
		return model.CategoryInbox
	case strings.Contains(m, "announcement") || strings.Contains(m, "event") || strings.Contains(m, "about") || strings.Contains(m, "contact"):
		return model.CategoryContent
	case strings.Contains(m, "user") || strings.Contains(m, "alumni") || strings.Contains(m, "registr"):
		return model.CategoryUser
	case strings.Contains(m, "config") || strings.Contains(m, "setting"):
		return model.CategoryConfig
	default:
		return model.CategorySystem
	}
}

func metadata(attrs []slog.Attr) string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.Key == "category" {
			continue
		}
		m[a.Key] = a.Value.String()
	}
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// RollbarConfig configures the Rollbar reporter.
type RollbarConfig struct {
	Token       string
	Environment string
	CodeVersion string
	ServerHost  string
}

// NewRollbarReporter configures the global Rollbar client and returns a
// Reporter for it. It returns nil when no token is set.
func NewRollbarReporter(cfg RollbarConfig) Reporter {
	if cfg.Token == "" {
		rollbar.SetEnabled(false)
		return nil
	}
	rollbar.SetToken(cfg.Token)
	rollbar.SetEnvironment(cfg.Environment)
	rollbar.SetCodeVersion(cfg.CodeVersion)
	rollbar.SetServerHost(cfg.ServerHost)
	rollbar.SetEnabled(true)

	return func(err error, extras map[string]any) {
		rollbar.Error(err, extras)
	}
}

// FlushRollbar waits for queued Rollbar items to be sent.
func FlushRollbar() {
	rollbar.Wait()
}
