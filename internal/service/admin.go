// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

// MsgInvalidAdminLogin is shown for a failed admin login.
const MsgInvalidAdminLogin = "Invalid username or password!"

// AdminService authenticates the administrator. There is a single admin
// account: the username comes from configuration and the password hash
// lives in the record store.
type AdminService struct {
	q        *store.Queries
	deps     Deps
	username string
}

// NewAdminService creates the admin service.
func NewAdminService(q *store.Queries, deps Deps, username string) *AdminService {
	if username == "" {
		username = "admin"
	}
	return &AdminService{q: q, deps: deps.withDefaults(), username: username}
}

// Username returns the configured admin username.
func (s *AdminService) Username() string {
	return s.username
}

// Login checks the admin credentials.
func (s *AdminService) Login(ctx context.Context, username, password string) (model.AdminUser, error) {
	if !strings.EqualFold(strings.TrimSpace(username), s.username) || password == "" {
		s.deps.Metrics.Login(metrics.ActorAdmin, metrics.ResultFailure)
		return model.AdminUser{}, ErrInvalidCredentials
	}

	hash, err := s.q.GetString(ctx, store.KeyAdminPassword)
	if err != nil {
		return model.AdminUser{}, err
	}
	ok, err := auth.CheckPassword(password, hash)
	if err != nil || !ok {
		s.deps.Metrics.Login(metrics.ActorAdmin, metrics.ResultFailure)
		return model.AdminUser{}, ErrInvalidCredentials
	}

	s.deps.Metrics.Login(metrics.ActorAdmin, metrics.ResultSuccess)
	return model.AdminUser{
		Username:   s.username,
		Name:       "Admin",
		SignedInAt: s.deps.Now(),
	}, nil
}

// ChangePassword validates and stores a new admin password.
func (s *AdminService) ChangePassword(ctx context.Context, in model.AdminPasswordInput) error {
	if errs := in.Validate(); len(errs) > 0 {
		return errs
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.q.PutString(ctx, store.KeyAdminPassword, hash); err != nil {
		s.deps.Metrics.StoreError("admin.password")
		return err
	}
	s.deps.Logger.Info("admin password changed", "category", model.CategoryAuth)
	return nil
}
