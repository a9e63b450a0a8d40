// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

// Live view refresh intervals.
const (
	CountdownInterval = time.Second
	StatsInterval     = 5 * time.Second
)

// LiveHandler streams the live views as Server-Sent Events. Each stream owns
// its ticker; the ticker stops when the client goes away or on Close.
type LiveHandler struct {
	*Base
	countdownInterval time.Duration
	statsInterval     time.Duration
	done              chan struct{}
	closeOnce         sync.Once
}

// NewLiveHandler creates the live view handler.
func NewLiveHandler(base *Base) *LiveHandler {
	return &LiveHandler{
		Base:              base,
		countdownInterval: CountdownInterval,
		statsInterval:     StatsInterval,
		done:              make(chan struct{}),
	}
}

// Close ends every open stream. Used on server shutdown.
func (h *LiveHandler) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// countdown is one event's remaining time on the events page.
type countdown struct {
	ID      string `json:"id"`
	Days    string `json:"days"`
	Hours   string `json:"hours"`
	Minutes string `json:"minutes"`
	Seconds string `json:"seconds"`
	Past    bool   `json:"past"`
}

// Countdowns handles GET /events/live.
func (h *LiveHandler) Countdowns(w http.ResponseWriter, r *http.Request) {
	sse, ok := newEventStream(w)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ticker := time.NewTicker(h.countdownInterval)
	defer ticker.Stop()

	send := func() bool {
		upcoming, past, err := h.svc.Events.Split(r.Context(), h.now())
		if err != nil {
			h.logger.Warn("live countdowns", "error", err)
			return true
		}
		out := make([]countdown, 0, len(upcoming)+len(past))
		for _, v := range append(upcoming, past...) {
			c := v.Countdown
			out = append(out, countdown{
				ID:      v.ID,
				Days:    model.Pad2(c.Days),
				Hours:   model.Pad2(c.Hours),
				Minutes: model.Pad2(c.Minutes),
				Seconds: model.Pad2(c.Seconds),
				Past:    c.Past,
			})
		}
		return sse.send("countdown", out) == nil
	}

	if !send() {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}

// Stats handles GET /stats/live. Counters are pushed on every tick and
// right after members or events change.
func (h *LiveHandler) Stats(w http.ResponseWriter, r *http.Request) {
	sse, ok := newEventStream(w)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	ticker := time.NewTicker(h.statsInterval)
	defer ticker.Stop()

	var changes <-chan string
	if feed := h.svc.Stats.Changes(); feed != nil {
		ch, cancel := feed.Subscribe()
		defer cancel()
		changes = ch
	}

	send := func(refresh bool) bool {
		live, err := h.svc.Stats.Live(r.Context())
		if refresh {
			live, err = h.svc.Stats.Refresh(r.Context())
		}
		if err != nil {
			h.logger.Warn("live stats", "error", err)
			return true
		}
		return sse.send("stats", live) == nil
	}

	if !send(false) {
		return
	}
	for {
		select {
		case <-r.Context().Done():
			return
		case <-h.done:
			return
		case <-ticker.C:
			if !send(false) {
				return
			}
		case key, open := <-changes:
			if !open {
				changes = nil
				continue
			}
			if key != store.KeyUsers && key != store.KeyEvents {
				continue
			}
			if !send(true) {
				return
			}
		}
	}
}

// eventStream writes text/event-stream frames.
type eventStream struct {
	w  http.ResponseWriter
	rc *http.ResponseController
}

func newEventStream(w http.ResponseWriter) (*eventStream, bool) {
	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return nil, false
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		return nil, false
	}
	return &eventStream{w: w, rc: rc}, true
}

func (s *eventStream) send(event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	return s.rc.Flush()
}
