// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// ContactMessage is a message submitted through the public contact form.
type ContactMessage struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Batch  string    `json:"batch,omitempty"`
	Body   string    `json:"msg"`
	SentAt time.Time `json:"date"`
	Read   bool      `json:"read"`
}

// ContactMessageInput is the public contact form.
type ContactMessageInput struct {
	Name  string `form:"name" validate:"required"`
	Email string `form:"email" validate:"required,contactemail"`
	Batch string `form:"batch"`
	Body  string `form:"message" validate:"required"`
}

var contactMessages = messages{
	"name":               "Please fill in all required fields.",
	"email.required":     "Please fill in all required fields.",
	"email.contactemail": "Please provide a valid email address.",
	"message":            "Please fill in all required fields.",
}

// Validate normalizes the input and checks every field rule.
func (in *ContactMessageInput) Validate() ValidationErrors {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Batch = strings.TrimSpace(in.Batch)
	in.Body = strings.TrimSpace(in.Body)
	return check(in, contactMessages)
}

// NewContactMessage builds an unread contact message from a validated form.
func NewContactMessage(in ContactMessageInput, now time.Time) (ContactMessage, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return ContactMessage{}, errs
	}
	return ContactMessage{
		ID:     NewID(),
		Name:   in.Name,
		Email:  in.Email,
		Batch:  in.Batch,
		Body:   in.Body,
		SentAt: now,
	}, nil
}

// UserMessage is a message from the admin to a single member.
type UserMessage struct {
	ID      string    `json:"id"`
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"date"`
	Read    bool      `json:"read"`
}

// UserMessageInput is the admin "send message" form.
type UserMessageInput struct {
	To      string `form:"-"`
	Subject string `form:"subject" validate:"required"`
	Body    string `form:"message" validate:"required"`
}

var userMessageMessages = messages{
	"subject": "Please enter a subject.",
	"message": "Please enter a message.",
}

// Validate normalizes the input and checks every field rule.
func (in *UserMessageInput) Validate() ValidationErrors {
	in.Subject = strings.TrimSpace(in.Subject)
	in.Body = strings.TrimSpace(in.Body)
	return check(in, userMessageMessages)
}

// NewUserMessage builds an unread message addressed to in.To.
func NewUserMessage(in UserMessageInput, now time.Time) (UserMessage, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return UserMessage{}, errs
	}
	return UserMessage{
		ID:      NewID(),
		To:      strings.TrimSpace(in.To),
		Subject: in.Subject,
		Body:    in.Body,
		SentAt:  now,
	}, nil
}
