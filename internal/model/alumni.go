// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the alumni site's domain records and the validating
// factories that are the only way to construct them from user input.
package model

import (
	"strings"
	"time"
	"unicode"
)

// User statuses.
const (
	StatusActive = "active"
)

// MinPasswordLength is the minimum length of member and admin passwords.
const MinPasswordLength = 6

// AlumniUser is a registered member of the alumni network.
type AlumniUser struct {
	ID             string    `json:"id" db:"id"`
	AlumniID       string    `json:"alumniId" db:"alumni_id"`
	FullName       string    `json:"fullName" db:"full_name"`
	Email          string    `json:"email" db:"email"`
	Phone          string    `json:"phone" db:"phone"`
	DateOfBirth    string    `json:"dob" db:"date_of_birth"`
	Gender         string    `json:"gender" db:"gender"`
	Address        string    `json:"address" db:"address"`
	Batch          string    `json:"batch" db:"batch"`
	StudentID      string    `json:"studentId" db:"student_id"`
	PassingYear    string    `json:"passingYear" db:"passing_year"`
	Department     string    `json:"department" db:"department"`
	Profession     string    `json:"profession" db:"profession"`
	Organization   string    `json:"organization" db:"organization"`
	Designation    string    `json:"designation" db:"designation"`
	WorkLocation   string    `json:"workLocation" db:"work_location"`
	Facebook       string    `json:"facebook" db:"facebook"`
	LinkedIn       string    `json:"linkedin" db:"linkedin"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	ProfilePicture string    `json:"profilePicture,omitempty" db:"profile_picture"`
	Status         string    `json:"status" db:"status"`
	RegisteredAt   time.Time `json:"registrationDate" db:"registered_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// BatchLabel returns the display label of the member's batch.
func (u AlumniUser) BatchLabel() string {
	return BatchLabel(u.Batch)
}

// Location returns where the member is based, falling back to the address
// and finally to the country.
func (u AlumniUser) Location() string {
	switch {
	case u.WorkLocation != "":
		return u.WorkLocation
	case u.Address != "":
		return u.Address
	default:
		return "Bangladesh"
	}
}

// Initials returns up to two upper-case initials of the member's name.
func (u AlumniUser) Initials() string {
	var out []rune
	for _, part := range strings.Fields(u.FullName) {
		out = append(out, unicode.ToUpper([]rune(part)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}

// Snapshot returns a copy safe to keep in the session (no password hash).
func (u AlumniUser) Snapshot() AlumniUser {
	u.PasswordHash = ""
	return u
}

// RegistrationInput is the registration form.
type RegistrationInput struct {
	AlumniID        string `form:"alumni_id" validate:"required,alumniid"`
	FullName        string `form:"full_name" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	Phone           string `form:"phone"`
	DateOfBirth     string `form:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender          string `form:"gender"`
	Address         string `form:"address"`
	Batch           string `form:"batch" validate:"required,oneof=dakhil2020 alim2022"`
	StudentID       string `form:"student_id"`
	PassingYear     string `form:"passing_year" validate:"omitempty,numeric,len=4"`
	Department      string `form:"department"`
	Profession      string `form:"profession"`
	Organization    string `form:"organization"`
	Designation     string `form:"designation"`
	WorkLocation    string `form:"work_location"`
	Facebook        string `form:"facebook" validate:"omitempty,url"`
	LinkedIn        string `form:"linkedin" validate:"omitempty,url"`
	Password        string `form:"password" validate:"min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
	AcceptTerms     bool   `form:"terms" validate:"required"`
	ProfilePicture  string `form:"-"`
}

var registrationMessages = messages{
	"alumni_id.required": "Alumni ID is required.",
	"alumni_id.alumniid": "Must be exactly 8 digits (e.g. 20220001)",
	"full_name":          "Full name is required.",
	"email.required":     "Email is required.",
	"email.email":        "Please enter a valid email address.",
	"dob":                "Please enter a valid date of birth.",
	"batch":              "Please select your batch.",
	"passing_year":       "Passing year must be a 4-digit year.",
	"facebook":           "Please enter a valid Facebook URL.",
	"linkedin":           "Please enter a valid LinkedIn URL.",
	"password":           "Password must be at least 6 characters long!",
	"confirm_password":   "Passwords do not match!",
	"terms":              "Please accept the Terms & Conditions",
}

func (in *RegistrationInput) normalize() {
	in.AlumniID = strings.TrimSpace(in.AlumniID)
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.DateOfBirth = strings.TrimSpace(in.DateOfBirth)
	in.Gender = strings.TrimSpace(in.Gender)
	in.Address = strings.TrimSpace(in.Address)
	in.StudentID = strings.TrimSpace(in.StudentID)
	in.PassingYear = strings.TrimSpace(in.PassingYear)
	in.Department = strings.TrimSpace(in.Department)
	in.Profession = strings.TrimSpace(in.Profession)
	in.Organization = strings.TrimSpace(in.Organization)
	in.Designation = strings.TrimSpace(in.Designation)
	in.WorkLocation = strings.TrimSpace(in.WorkLocation)
	in.Facebook = NormalizeURL(in.Facebook)
	in.LinkedIn = NormalizeURL(in.LinkedIn)
	if b := strings.TrimSpace(in.Batch); b != "" {
		in.Batch = BatchSlug(b)
	}
}

// Validate normalizes the input and checks every field rule.
func (in *RegistrationInput) Validate() ValidationErrors {
	in.normalize()
	return check(in, registrationMessages)
}

// NewAlumniUser builds a member record from a validated registration.
// passwordHash is the already hashed password.
func NewAlumniUser(in RegistrationInput, passwordHash string, now time.Time) (AlumniUser, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return AlumniUser{}, errs
	}

	return AlumniUser{
		ID:             NewID(),
		AlumniID:       in.AlumniID,
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		DateOfBirth:    in.DateOfBirth,
		Gender:         in.Gender,
		Address:        in.Address,
		Batch:          in.Batch,
		StudentID:      in.StudentID,
		PassingYear:    in.PassingYear,
		Department:     in.Department,
		Profession:     in.Profession,
		Organization:   in.Organization,
		Designation:    in.Designation,
		WorkLocation:   in.WorkLocation,
		Facebook:       in.Facebook,
		LinkedIn:       in.LinkedIn,
		PasswordHash:   passwordHash,
		ProfilePicture: in.ProfilePicture,
		Status:         StatusActive,
		RegisteredAt:   now,
		UpdatedAt:      now,
	}, nil
}

// ProfileInput is the self-service profile edit form. The password block is
// optional: it is only checked when NewPassword is set.
type ProfileInput struct {
	FullName        string `form:"full_name" validate:"required"`
	Phone           string `form:"phone"`
	Address         string `form:"address"`
	Profession      string `form:"profession"`
	Organization    string `form:"organization"`
	Designation     string `form:"designation"`
	WorkLocation    string `form:"work_location"`
	Facebook        string `form:"facebook" validate:"omitempty,url"`
	LinkedIn        string `form:"linkedin" validate:"omitempty,url"`
	CurrentPassword string `form:"current_password" validate:"required_with=NewPassword"`
	NewPassword     string `form:"new_password" validate:"omitempty,min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=NewPassword"`
	ProfilePicture  string `form:"-"`
}

var profileMessages = messages{
	"full_name":        "Full name is required.",
	"facebook":         "Please enter a valid Facebook URL.",
	"linkedin":         "Please enter a valid LinkedIn URL.",
	"current_password": "Enter your current password",
	"new_password":     "New password must be at least 6 characters.",
	"confirm_password": "Passwords do not match.",
}

// Validate normalizes the input and checks every field rule.
func (in *ProfileInput) Validate() ValidationErrors {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Profession = strings.TrimSpace(in.Profession)
	in.Organization = strings.TrimSpace(in.Organization)
	in.Designation = strings.TrimSpace(in.Designation)
	in.WorkLocation = strings.TrimSpace(in.WorkLocation)
	in.Facebook = NormalizeURL(in.Facebook)
	in.LinkedIn = NormalizeURL(in.LinkedIn)
	return check(in, profileMessages)
}

// WantsPasswordChange reports whether the password block was filled in.
func (in ProfileInput) WantsPasswordChange() bool {
	return in.NewPassword != "" || in.CurrentPassword != ""
}

// ApplyProfile returns u updated with the validated profile fields.
// The picture is only replaced when a new one was uploaded.
func ApplyProfile(u AlumniUser, in ProfileInput, now time.Time) (AlumniUser, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return u, errs
	}

	u.FullName = in.FullName
	u.Phone = in.Phone
	u.Address = in.Address
	u.Profession = in.Profession
	u.Organization = in.Organization
	u.Designation = in.Designation
	u.WorkLocation = in.WorkLocation
	u.Facebook = in.Facebook
	u.LinkedIn = in.LinkedIn
	if in.ProfilePicture != "" {
		u.ProfilePicture = in.ProfilePicture
	}
	u.UpdatedAt = now
	return u, nil
}

// Password strength levels.
const (
	StrengthWeak   = "weak"
	StrengthMedium = "medium"
	StrengthStrong = "strong"
)

const passwordSpecialChars = `!@#$%^&*(),.?":{}|<>`

// PasswordStrength grades a password. Anything under 8 characters is weak;
// longer passwords are graded by how many character classes they use.
func PasswordStrength(password string) string {
	if len(password) < 8 {
		return StrengthWeak
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSpecialChars, r):
			special = true
		}
	}

	score := 0
	for _, ok := range []bool{upper, lower, digit, special} {
		if ok {
			score++
		}
	}

	switch {
	case score >= 3:
		return StrengthStrong
	case score >= 2:
		return StrengthMedium
	default:
		return StrengthWeak
	}
}

// AdminUser is the signed-in administrator.
type AdminUser struct {
	Username   string
	Name       string
	SignedInAt time.Time
}

// AdminPasswordInput is the admin password change form.
type AdminPasswordInput struct {
	Password        string `form:"password" validate:"min=6"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
}

var adminPasswordMessages = messages{
	"password":         "Password must be at least 6 characters.",
	"confirm_password": "Passwords do not match.",
}

// Validate checks the admin password rules.
func (in AdminPasswordInput) Validate() ValidationErrors {
	return check(in, adminPasswordMessages)
}
