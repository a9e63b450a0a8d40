package logging

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/model"
)

type memWriter struct {
	mu      sync.Mutex
	entries []model.Activity
	err     error
}

func (w *memWriter) CreateActivity(_ context.Context, a model.Activity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = append(w.entries, a)
	return w.err
}

// discardHandler is a slog.Handler that discards all logs.
type discardHandler struct{}

func (h discardHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h discardHandler) WithGroup(string) slog.Handler             { return h }

func TestActivityHandler_Levels(t *testing.T) {
	w := &memWriter{}
	logger := slog.New(NewActivityHandler(discardHandler{}, w))

	logger.Debug("debug")
	logger.Info("info")
	logger.Warn("gallery upload failed", "file", "a.jpg")
	logger.Error("storage write failed", "category", model.CategoryConfig)

	require.Len(t, w.entries, 2)
	assert.Equal(t, model.ActivityLevelWarning, w.entries[0].Level)
	assert.Equal(t, model.CategoryMedia, w.entries[0].Category)
	assert.Equal(t, model.ActivityLevelError, w.entries[1].Level)
	assert.Equal(t, model.CategoryConfig, w.entries[1].Category)
	assert.Equal(t, "{}", w.entries[1].Metadata)
}

func TestActivityHandler_MetadataAndPath(t *testing.T) {
	w := &memWriter{}
	logger := slog.New(NewActivityHandler(discardHandler{}, w)).With("actor", "admin")

	ctx := WithPath(context.Background(), "/admin/gallery/add")
	logger.WarnContext(ctx, "photo not saved", "name", `a "quoted" name`)

	require.Len(t, w.entries, 1)
	e := w.entries[0]
	assert.Equal(t, "/admin/gallery/add", e.Path)

	var meta map[string]string
	require.NoError(t, json.Unmarshal([]byte(e.Metadata), &meta))
	assert.Equal(t, "admin", meta["actor"])
	assert.Equal(t, `a "quoted" name`, meta["name"])
}

func TestActivityHandler_CustomLevel(t *testing.T) {
	w := &memWriter{}
	logger := slog.New(NewActivityHandler(discardHandler{}, w).WithLevel(slog.LevelError))

	logger.Warn("skipped")
	logger.Error("kept")

	require.Len(t, w.entries, 1)
	assert.Equal(t, "kept", w.entries[0].Message)
}

func TestActivityHandler_WriterErrorIgnored(t *testing.T) {
	w := &memWriter{err: errors.New("disk full")}
	logger := slog.New(NewActivityHandler(discardHandler{}, w))

	assert.NotPanics(t, func() { logger.Error("boom") })
}

func TestActivityHandler_Reporter(t *testing.T) {
	var reported []string
	h := NewActivityHandler(discardHandler{}, nil).WithReporter(func(err error, extras map[string]any) {
		reported = append(reported, err.Error())
		assert.Equal(t, "42", extras["id"])
	})
	logger := slog.New(h)

	logger.Warn("not reported", "id", 42)
	logger.Error("reported", "id", 42)

	assert.Equal(t, []string{"reported"}, reported)
}

func TestCategoryInference(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"admin login failed", model.CategoryAuth},
		{"hero slide not saved", model.CategoryMedia},
		{"inbox update failed", model.CategoryInbox},
		{"announcement save failed", model.CategoryContent},
		{"user delete failed", model.CategoryUser},
		{"settings save failed", model.CategoryConfig},
		{"something else", model.CategorySystem},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, category(tt.msg, nil))
		})
	}
}

func TestNewRollbarReporter_Disabled(t *testing.T) {
	assert.Nil(t, NewRollbarReporter(RollbarConfig{}))
}
