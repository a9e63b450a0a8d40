// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/olegiv/daf-alumni/internal/directory"
	"github.com/olegiv/daf-alumni/internal/mailer"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

// ContactSuccessMessage is shown after the public contact form is sent.
func ContactSuccessMessage(name string) string {
	return fmt.Sprintf("Thank you %s! Your message was sent successfully. We will contact you soon.", name)
}

// InboxService manages contact form messages received by the admin.
type InboxService struct {
	q    *store.Queries
	deps Deps
}

// NewInboxService creates the admin inbox service.
func NewInboxService(q *store.Queries, deps Deps) *InboxService {
	return &InboxService{q: q, deps: deps.withDefaults()}
}

// Submit validates and stores a contact form message.
func (s *InboxService) Submit(ctx context.Context, in model.ContactMessageInput) (model.ContactMessage, error) {
	m, err := model.NewContactMessage(in, s.deps.Now())
	if err != nil {
		return model.ContactMessage{}, err
	}
	err = store.UpdateCollection(ctx, s.q, store.KeyContactMessage, func(items []model.ContactMessage) ([]model.ContactMessage, error) {
		return append(items, m), nil
	})
	if err != nil {
		s.deps.Metrics.StoreError("inbox.submit")
		return model.ContactMessage{}, err
	}
	return m, nil
}

// List returns contact messages newest first, filtered by query.
func (s *InboxService) List(ctx context.Context, query string) ([]model.ContactMessage, error) {
	items, err := store.GetCollection[model.ContactMessage](ctx, s.q, store.KeyContactMessage)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SentAt.After(items[j].SentAt)
	})
	return directory.FilterContactMessages(items, query), nil
}

// UnreadCount returns the number of unread contact messages.
func (s *InboxService) UnreadCount(ctx context.Context) (int, error) {
	items, err := store.GetCollection[model.ContactMessage](ctx, s.q, store.KeyContactMessage)
	if err != nil {
		return 0, err
	}
	return directory.UnreadContactCount(items), nil
}

// MarkRead marks exactly the messages in ids as read. Messages that arrived
// after the ids were captured stay unread.
func (s *InboxService) MarkRead(ctx context.Context, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}

	marked := 0
	err := store.UpdateCollection(ctx, s.q, store.KeyContactMessage, func(items []model.ContactMessage) ([]model.ContactMessage, error) {
		for i := range items {
			if _, ok := want[items[i].ID]; ok && !items[i].Read {
				items[i].Read = true
				marked++
			}
		}
		return items, nil
	})
	if err != nil {
		return 0, err
	}
	return marked, nil
}

// Delete removes one contact message.
func (s *InboxService) Delete(ctx context.Context, id string) error {
	return store.UpdateCollection(ctx, s.q, store.KeyContactMessage, func(items []model.ContactMessage) ([]model.ContactMessage, error) {
		out, found := removeByID(items, id, func(m model.ContactMessage) string { return m.ID })
		if !found {
			return nil, ErrNotFound
		}
		return out, nil
	})
}

// Clear removes every contact message.
func (s *InboxService) Clear(ctx context.Context) error {
	return store.PutCollection(ctx, s.q, store.KeyContactMessage, []model.ContactMessage{})
}

// MessageService delivers admin messages to members.
type MessageService struct {
	q      *store.Queries
	deps   Deps
	mailer mailer.Mailer
}

// NewMessageService creates the member messaging service. m may be nil.
func NewMessageService(q *store.Queries, deps Deps, m mailer.Mailer) *MessageService {
	d := deps.withDefaults()
	if m == nil {
		m = mailer.New(mailer.Config{}, d.Logger)
	}
	return &MessageService{q: q, deps: d, mailer: m}
}

// Send stores a message for member userID and emails a copy. A failed email
// is logged; the stored message stands.
func (s *MessageService) Send(ctx context.Context, userID string, in model.UserMessageInput) (model.UserMessage, model.AlumniUser, error) {
	u, err := s.q.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.UserMessage{}, model.AlumniUser{}, ErrNotFound
	}
	if err != nil {
		return model.UserMessage{}, model.AlumniUser{}, err
	}

	in.To = u.Email
	m, err := model.NewUserMessage(in, s.deps.Now())
	if err != nil {
		return model.UserMessage{}, u, err
	}
	err = store.UpdateCollection(ctx, s.q, store.KeyUserMessages, func(items []model.UserMessage) ([]model.UserMessage, error) {
		return append(items, m), nil
	})
	if err != nil {
		s.deps.Metrics.StoreError("messages.send")
		return model.UserMessage{}, u, err
	}

	if err := s.mailer.Send(ctx, mailer.Message{
		To:      u.Email,
		ToName:  u.FullName,
		Subject: m.Subject,
		Text:    m.Body,
	}); err != nil {
		s.deps.Logger.Warn("message email not delivered", "category", model.CategoryInbox,
			"to", u.Email, "error", err)
	}
	return m, u, nil
}

// Inbox returns the messages addressed to email, newest first.
func (s *MessageService) Inbox(ctx context.Context, email string) ([]model.UserMessage, error) {
	items, err := store.GetCollection[model.UserMessage](ctx, s.q, store.KeyUserMessages)
	if err != nil {
		return nil, err
	}
	return directory.InboxFor(items, email), nil
}

// UnreadCount returns how many messages addressed to email are unread.
func (s *MessageService) UnreadCount(ctx context.Context, email string) (int, error) {
	msgs, err := s.Inbox(ctx, email)
	if err != nil {
		return 0, err
	}
	return directory.UnreadCount(msgs), nil
}

// MarkRead marks the listed messages addressed to email as read.
func (s *MessageService) MarkRead(ctx context.Context, email string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	return store.UpdateCollection(ctx, s.q, store.KeyUserMessages, func(items []model.UserMessage) ([]model.UserMessage, error) {
		for i := range items {
			if _, ok := want[items[i].ID]; ok && strings.EqualFold(items[i].To, email) {
				items[i].Read = true
			}
		}
		return items, nil
	})
}
