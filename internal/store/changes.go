// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "sync"

// Changes fans out the key of every successful write to its subscribers.
// Slow subscribers miss notifications rather than block writers.
type Changes struct {
	mu   sync.Mutex
	subs map[chan string]struct{}
}

// NewChanges creates an empty change feed.
func NewChanges() *Changes {
	return &Changes{subs: make(map[chan string]struct{})}
}

// Subscribe registers a listener. The returned cancel func must be called
// when the listener goes away.
func (c *Changes) Subscribe() (<-chan string, func()) {
	ch := make(chan string, 8)

	c.mu.Lock()
	c.subs[ch] = struct{}{}
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, ch)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish notifies every subscriber that key changed. Safe on a nil feed.
func (c *Changes) Publish(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for ch := range c.subs {
		select {
		case ch <- key:
		default:
		}
	}
}
