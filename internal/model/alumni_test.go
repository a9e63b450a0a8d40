// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"testing"
	"time"
)

func validRegistration() RegistrationInput {
	return RegistrationInput{
		AlumniID:        "20220001",
		FullName:        "  Abdullah Al Mamun ",
		Email:           "mamun@example.com",
		Batch:           "Alim 2022",
		Profession:      "Engineer",
		Facebook:        "facebook.com/mamun",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AcceptTerms:     true,
	}
}

func TestNewAlumniUser(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	u, err := NewAlumniUser(validRegistration(), "hash", now)
	if err != nil {
		t.Fatalf("NewAlumniUser: %v", err)
	}

	if u.ID == "" {
		t.Error("ID is empty")
	}
	if u.FullName != "Abdullah Al Mamun" {
		t.Errorf("FullName = %q, want trimmed", u.FullName)
	}
	if u.Batch != BatchAlim2022 {
		t.Errorf("Batch = %q, want %q", u.Batch, BatchAlim2022)
	}
	if u.Facebook != "https://facebook.com/mamun" {
		t.Errorf("Facebook = %q, want https prefix", u.Facebook)
	}
	if u.Status != StatusActive {
		t.Errorf("Status = %q, want %q", u.Status, StatusActive)
	}
	if !u.RegisteredAt.Equal(now) {
		t.Errorf("RegisteredAt = %v, want %v", u.RegisteredAt, now)
	}
}

func TestNewAlumniUser_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RegistrationInput)
		field   string
		message string
	}{
		{
			name:    "missing alumni id",
			mutate:  func(in *RegistrationInput) { in.AlumniID = " " },
			field:   "alumni_id",
			message: "Alumni ID is required.",
		},
		{
			name:    "short alumni id",
			mutate:  func(in *RegistrationInput) { in.AlumniID = "2022001" },
			field:   "alumni_id",
			message: "Must be exactly 8 digits (e.g. 20220001)",
		},
		{
			name:    "letters in alumni id",
			mutate:  func(in *RegistrationInput) { in.AlumniID = "2022000a" },
			field:   "alumni_id",
			message: "Must be exactly 8 digits (e.g. 20220001)",
		},
		{
			name:    "short password",
			mutate:  func(in *RegistrationInput) { in.Password, in.ConfirmPassword = "abc", "abc" },
			field:   "password",
			message: "Password must be at least 6 characters long!",
		},
		{
			name:    "password mismatch",
			mutate:  func(in *RegistrationInput) { in.ConfirmPassword = "secret2" },
			field:   "confirm_password",
			message: "Passwords do not match!",
		},
		{
			name:    "terms not accepted",
			mutate:  func(in *RegistrationInput) { in.AcceptTerms = false },
			field:   "terms",
			message: "Please accept the Terms & Conditions",
		},
		{
			name:    "unknown batch",
			mutate:  func(in *RegistrationInput) { in.Batch = "Fazil 2024" },
			field:   "batch",
			message: "Please select your batch.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validRegistration()
			tt.mutate(&in)

			_, err := NewAlumniUser(in, "hash", time.Now())
			errs, ok := AsValidationErrors(err)
			if !ok {
				t.Fatalf("err = %v, want ValidationErrors", err)
			}
			if got := errs.Fields()[tt.field]; got != tt.message {
				t.Errorf("error for %s = %q, want %q (all: %v)", tt.field, got, tt.message, errs)
			}
		})
	}
}

func TestAlumniUserLocation(t *testing.T) {
	tests := []struct {
		name string
		user AlumniUser
		want string
	}{
		{"work location", AlumniUser{WorkLocation: "Chattogram", Address: "Dhaka"}, "Chattogram"},
		{"address fallback", AlumniUser{Address: "Dhaka"}, "Dhaka"},
		{"country fallback", AlumniUser{}, "Bangladesh"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.Location(); got != tt.want {
				t.Errorf("Location() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAlumniUserInitials(t *testing.T) {
	tests := map[string]string{
		"abdullah al mamun": "AA",
		"Rahim":             "R",
		"":                  "?",
	}
	for name, want := range tests {
		if got := (AlumniUser{FullName: name}).Initials(); got != want {
			t.Errorf("Initials(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestApplyProfile(t *testing.T) {
	u := AlumniUser{ID: "u1", FullName: "Old", ProfilePicture: "data:image/png;base64,AAA"}

	got, err := ApplyProfile(u, ProfileInput{FullName: " New Name ", LinkedIn: "linkedin.com/in/x"}, time.Now())
	if err != nil {
		t.Fatalf("ApplyProfile: %v", err)
	}
	if got.FullName != "New Name" {
		t.Errorf("FullName = %q", got.FullName)
	}
	if got.LinkedIn != "https://linkedin.com/in/x" {
		t.Errorf("LinkedIn = %q", got.LinkedIn)
	}
	if got.ProfilePicture != u.ProfilePicture {
		t.Error("profile picture replaced without an upload")
	}
}

func TestProfileInput_PasswordBlock(t *testing.T) {
	tests := []struct {
		name  string
		in    ProfileInput
		field string
		msg   string
	}{
		{
			name:  "new without current",
			in:    ProfileInput{FullName: "A", NewPassword: "secret1", ConfirmPassword: "secret1"},
			field: "current_password",
			msg:   "Enter your current password",
		},
		{
			name:  "new too short",
			in:    ProfileInput{FullName: "A", CurrentPassword: "old", NewPassword: "abc", ConfirmPassword: "abc"},
			field: "new_password",
			msg:   "New password must be at least 6 characters.",
		},
		{
			name:  "mismatch",
			in:    ProfileInput{FullName: "A", CurrentPassword: "old", NewPassword: "secret1", ConfirmPassword: "secret2"},
			field: "confirm_password",
			msg:   "Passwords do not match.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := tt.in.Validate()
			if got := errs.Fields()[tt.field]; got != tt.msg {
				t.Errorf("error for %s = %q, want %q", tt.field, got, tt.msg)
			}
		})
	}

	empty := ProfileInput{FullName: "A"}
	if errs := empty.Validate(); len(errs) != 0 {
		t.Errorf("empty password block: unexpected errors %v", errs)
	}
}

func TestPasswordStrength(t *testing.T) {
	tests := []struct {
		password string
		want     string
	}{
		{"Ab1!", StrengthWeak},
		{"abcdefgh", StrengthWeak},
		{"abcdefg1", StrengthMedium},
		{"Abcdefg1", StrengthStrong},
		{"abcdefg!", StrengthMedium},
		{"ABCDEFG!1", StrengthStrong},
	}
	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			if got := PasswordStrength(tt.password); got != tt.want {
				t.Errorf("PasswordStrength(%q) = %q, want %q", tt.password, got, tt.want)
			}
		})
	}
}

func TestAdminPasswordInput(t *testing.T) {
	if errs := (AdminPasswordInput{Password: "abc", ConfirmPassword: "abc"}).Validate(); errs.First().Message != "Password must be at least 6 characters." {
		t.Errorf("short: got %v", errs)
	}
	if errs := (AdminPasswordInput{Password: "abcdef", ConfirmPassword: "abcdeg"}).Validate(); errs.First().Message != "Passwords do not match." {
		t.Errorf("mismatch: got %v", errs)
	}
	if errs := (AdminPasswordInput{Password: "abcdef", ConfirmPassword: "abcdef"}).Validate(); len(errs) != 0 {
		t.Errorf("valid: got %v", errs)
	}
}

func TestBatchSlug(t *testing.T) {
	tests := map[string]string{
		"dakhil2020":  BatchDakhil2020,
		"Dakhil 2020": BatchDakhil2020,
		"ALIM-2022":   BatchAlim2022,
		"Fazil 2024":  BatchOther,
		"":            BatchOther,
	}
	for in, want := range tests {
		if got := BatchSlug(in); got != want {
			t.Errorf("BatchSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
