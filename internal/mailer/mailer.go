// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer delivers the optional email copy of messages an admin sends
// to a member. Without a SendGrid key a logging no-op mailer is used.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultHost = "https://api.sendgrid.com"
	endpoint    = "/v3/mail/send"
)

// Message is an outgoing email.
type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

// Mailer sends email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Config configures New.
type Config struct {
	APIKey        string
	From          string
	FromName      string
	SubjectPrefix string
	// Host overrides the SendGrid API host (tests).
	Host string
}

// New returns a SendGrid mailer when an API key is configured and a no-op
// mailer otherwise.
func New(cfg Config, logger *slog.Logger) Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" || cfg.From == "" {
		logger.Info("email delivery disabled")
		return Noop{logger: logger}
	}
	host := cfg.Host
	if host == "" {
		host = defaultHost
	}
	return &SendGrid{
		key:    cfg.APIKey,
		host:   host,
		from:   sgmail.NewEmail(cfg.FromName, cfg.From),
		prefix: cfg.SubjectPrefix,
	}
}

// SendGrid delivers mail through the SendGrid v3 API.
type SendGrid struct {
	key    string
	host   string
	from   *sgmail.Email
	prefix string
}

func (s *SendGrid) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = s.prefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

// Send delivers msg. Any non-2xx API response is an error.
func (s *SendGrid) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(msg))

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// Noop logs messages instead of sending them.
type Noop struct {
	logger *slog.Logger
}

// Send logs msg at debug level.
func (n Noop) Send(_ context.Context, msg Message) error {
	if n.logger != nil {
		n.logger.Debug("email not sent, delivery disabled", "to", msg.To, "subject", msg.Subject)
	}
	return nil
}
