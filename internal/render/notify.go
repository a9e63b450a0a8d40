// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"encoding/gob"
	"net/http"
	"strings"
	"time"
)

// Notification kinds.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Toast lifetimes.
const (
	NotificationTimeout     = 3 * time.Second
	AuthNotificationTimeout = 5 * time.Second
)

const notificationKey = "notification"

// Notification is the single pending toast of a session.
type Notification struct {
	Kind    string
	Message string
	// Timeout is filled in at render time from the page group.
	Timeout time.Duration
}

// TimeoutMillis is the toast lifetime for the client script.
func (n Notification) TimeoutMillis() int64 {
	return n.Timeout.Milliseconds()
}

func init() {
	gob.Register(Notification{})
}

// Notify stores a notification for the next rendered page. A new
// notification replaces any pending one.
func (r *Renderer) Notify(req *http.Request, kind, message string) {
	if r.sessionManager == nil || message == "" {
		return
	}
	switch kind {
	case KindSuccess, KindError, KindInfo:
	default:
		kind = KindInfo
	}
	r.sessionManager.Put(req.Context(), notificationKey, Notification{Kind: kind, Message: message})
}

// PopNotification removes and returns the pending notification, if any.
func (r *Renderer) PopNotification(req *http.Request) *Notification {
	if r.sessionManager == nil {
		return nil
	}
	n, ok := r.sessionManager.Pop(req.Context(), notificationKey).(Notification)
	if !ok {
		return nil
	}
	return &n
}

// NotificationFor builds an inline notification for the page being rendered,
// used when a form is re-rendered instead of redirected.
func NotificationFor(kind, message string) *Notification {
	if message == "" {
		return nil
	}
	return &Notification{Kind: kind, Message: message}
}

func timeoutFor(name string) time.Duration {
	if strings.HasPrefix(name, "auth/") {
		return AuthNotificationTimeout
	}
	return NotificationTimeout
}
