// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/olegiv/daf-alumni/internal/auth"
	"github.com/olegiv/daf-alumni/internal/imaging"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/store"
)

// User-facing messages.
const (
	MsgAlumniIDTaken       = "This Alumni ID is already registered! Each ID can only be used once."
	MsgAlumniIDTakenLive   = "This Alumni ID is already registered."
	MsgAlumniIDAvailable   = "Alumni ID available!"
	MsgAlumniIDInvalid     = "Must be exactly 8 digits (e.g. 20220001)"
	MsgEmailTaken          = "Email already registered!"
	MsgInvalidLogin        = "Invalid email or password!"
	MsgCurrentPasswordBad  = "Current password is incorrect"
	DefaultProfileMaxBytes = 2 * 1024 * 1024
	profilePictureMaxEdge  = 400
)

// Alumni ID check statuses.
const (
	IDStatusInvalid   = "invalid"
	IDStatusTaken     = "taken"
	IDStatusAvailable = "available"
)

// IDCheck is the result of the live alumni id check.
type IDCheck struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AlumniService manages member accounts.
type AlumniService struct {
	q             *store.Queries
	deps          Deps
	pictureLimit  int64
	pictureMaxDim int
}

// NewAlumniService creates the member service. pictureLimit caps profile
// picture uploads in bytes.
func NewAlumniService(q *store.Queries, deps Deps, pictureLimit int64) *AlumniService {
	if pictureLimit <= 0 {
		pictureLimit = DefaultProfileMaxBytes
	}
	return &AlumniService{
		q:             q,
		deps:          deps.withDefaults(),
		pictureLimit:  pictureLimit,
		pictureMaxDim: profilePictureMaxEdge,
	}
}

// CheckAlumniID reports whether id is well formed and still free.
func (s *AlumniService) CheckAlumniID(ctx context.Context, id string) (IDCheck, error) {
	id = strings.TrimSpace(id)
	if !model.IsValidAlumniID(id) {
		return IDCheck{Status: IDStatusInvalid, Message: MsgAlumniIDInvalid}, nil
	}
	taken, err := s.q.AlumniIDExists(ctx, id)
	if err != nil {
		return IDCheck{}, err
	}
	if taken {
		return IDCheck{Status: IDStatusTaken, Message: MsgAlumniIDTakenLive}, nil
	}
	return IDCheck{Status: IDStatusAvailable, Message: MsgAlumniIDAvailable}, nil
}

// ProcessProfilePicture converts an uploaded profile picture to a data URL.
func (s *AlumniService) ProcessProfilePicture(up Upload) (string, error) {
	img, err := processUpload(s.deps.Processor, up, s.pictureLimit, imaging.Options{MaxEdge: s.pictureMaxDim})
	if err != nil {
		s.deps.Metrics.Upload("profile", metrics.ResultFailure)
		return "", err
	}
	s.deps.Metrics.Upload("profile", metrics.ResultSuccess)
	return img.DataURL, nil
}

// Register validates the form, rejects duplicate alumni ids and emails and
// stores the new member. picture may be nil.
func (s *AlumniService) Register(ctx context.Context, in model.RegistrationInput, picture *Upload) (model.AlumniUser, error) {
	errs := in.Validate()
	if picture != nil {
		dataURL, err := s.ProcessProfilePicture(*picture)
		var uerr *UploadError
		switch {
		case errors.As(err, &uerr):
			errs.Add("profile_picture", uerr.Message)
		case err != nil:
			return model.AlumniUser{}, err
		default:
			in.ProfilePicture = dataURL
		}
	}
	if len(errs) > 0 {
		return model.AlumniUser{}, errs
	}

	if taken, err := s.q.AlumniIDExists(ctx, in.AlumniID); err != nil {
		return model.AlumniUser{}, err
	} else if taken {
		return model.AlumniUser{}, model.ValidationErrors{{Field: "alumni_id", Message: MsgAlumniIDTaken}}
	}
	if taken, err := s.q.EmailExists(ctx, in.Email); err != nil {
		return model.AlumniUser{}, err
	} else if taken {
		return model.AlumniUser{}, model.ValidationErrors{{Field: "email", Message: MsgEmailTaken}}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.AlumniUser{}, fmt.Errorf("hashing password: %w", err)
	}
	u, err := model.NewAlumniUser(in, hash, s.deps.Now())
	if err != nil {
		return model.AlumniUser{}, err
	}

	// The UNIQUE indexes catch a registration racing the checks above.
	if err := s.q.CreateUser(ctx, u); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicateAlumniID):
			return model.AlumniUser{}, model.ValidationErrors{{Field: "alumni_id", Message: MsgAlumniIDTaken}}
		case errors.Is(err, store.ErrDuplicateEmail):
			return model.AlumniUser{}, model.ValidationErrors{{Field: "email", Message: MsgEmailTaken}}
		}
		s.deps.Metrics.StoreError("users.create")
		return model.AlumniUser{}, err
	}

	s.deps.Metrics.Registration()
	s.deps.Logger.Info("alumni registered", "category", model.CategoryUser,
		"alumni_id", u.AlumniID, "batch", u.Batch)
	return u, nil
}

// Login checks an email and password and returns the member.
func (s *AlumniService) Login(ctx context.Context, email, password string) (model.AlumniUser, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		s.deps.Metrics.Login(metrics.ActorAlumni, metrics.ResultFailure)
		return model.AlumniUser{}, ErrInvalidCredentials
	}

	u, err := s.q.GetUserByEmail(ctx, email)
	if errors.Is(err, sql.ErrNoRows) {
		s.deps.Metrics.Login(metrics.ActorAlumni, metrics.ResultFailure)
		return model.AlumniUser{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.AlumniUser{}, err
	}

	ok, err := auth.CheckPassword(password, u.PasswordHash)
	if err != nil || !ok {
		s.deps.Metrics.Login(metrics.ActorAlumni, metrics.ResultFailure)
		return model.AlumniUser{}, ErrInvalidCredentials
	}

	if auth.NeedsRehash(u.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			u.PasswordHash = hash
			if err := s.q.UpdateUser(ctx, u); err != nil {
				s.deps.Logger.Warn("password rehash not saved", "category", model.CategoryAuth, "error", err)
			}
		}
	}

	s.deps.Metrics.Login(metrics.ActorAlumni, metrics.ResultSuccess)
	return u, nil
}

// Get returns one member.
func (s *AlumniService) Get(ctx context.Context, id string) (model.AlumniUser, error) {
	u, err := s.q.GetUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AlumniUser{}, ErrNotFound
	}
	return u, err
}

// List returns every member in registration order.
func (s *AlumniService) List(ctx context.Context) ([]model.AlumniUser, error) {
	return s.q.ListUsers(ctx)
}

// UpdateProfile applies a profile edit. When the optional password block is
// filled in, the current password must match. picture may be nil.
func (s *AlumniService) UpdateProfile(ctx context.Context, id string, in model.ProfileInput, picture *Upload) (model.AlumniUser, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return model.AlumniUser{}, err
	}

	errs := in.Validate()
	if picture != nil {
		dataURL, err := s.ProcessProfilePicture(*picture)
		var uerr *UploadError
		switch {
		case errors.As(err, &uerr):
			errs.Add("profile_picture", uerr.Message)
		case err != nil:
			return model.AlumniUser{}, err
		default:
			in.ProfilePicture = dataURL
		}
	}
	if len(errs) == 0 && in.WantsPasswordChange() {
		ok, err := auth.CheckPassword(in.CurrentPassword, u.PasswordHash)
		if err != nil || !ok {
			errs.Add("current_password", MsgCurrentPasswordBad)
		}
	}
	if len(errs) > 0 {
		return model.AlumniUser{}, errs
	}

	updated, err := model.ApplyProfile(u, in, s.deps.Now())
	if err != nil {
		return model.AlumniUser{}, err
	}
	if in.WantsPasswordChange() {
		hash, err := auth.HashPassword(in.NewPassword)
		if err != nil {
			return model.AlumniUser{}, fmt.Errorf("hashing password: %w", err)
		}
		updated.PasswordHash = hash
	}

	if err := s.q.UpdateUser(ctx, updated); err != nil {
		s.deps.Metrics.StoreError("users.update")
		return model.AlumniUser{}, err
	}
	return updated, nil
}

// Delete removes one member; the others are untouched.
func (s *AlumniService) Delete(ctx context.Context, id string) error {
	err := s.q.DeleteUser(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		s.deps.Metrics.StoreError("users.delete")
		return err
	}
	s.deps.Logger.Info("alumni deleted", "category", model.CategoryUser, "id", id)
	return nil
}

// DeleteAll removes every member.
func (s *AlumniService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.q.DeleteAllUsers(ctx)
	if err != nil {
		s.deps.Metrics.StoreError("users.delete_all")
		return 0, err
	}
	s.deps.Logger.Warn("all alumni deleted", "category", model.CategoryUser, "count", n)
	return n, nil
}
