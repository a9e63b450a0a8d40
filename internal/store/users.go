// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/olegiv/daf-alumni/internal/model"
)

// Uniqueness violations on alumni_users.
var (
	ErrDuplicateAlumniID = errors.New("alumni id already registered")
	ErrDuplicateEmail    = errors.New("email already registered")
)

const userColumns = `id, alumni_id, full_name, email, phone, date_of_birth, gender, address,
	batch, student_id, passing_year, department, profession, organization, designation,
	work_location, facebook, linkedin, password_hash, profile_picture, status,
	registered_at, updated_at`

const createUser = `INSERT INTO alumni_users (` + userColumns + `) VALUES (
	:id, :alumni_id, :full_name, :email, :phone, :date_of_birth, :gender, :address,
	:batch, :student_id, :passing_year, :department, :profession, :organization, :designation,
	:work_location, :facebook, :linkedin, :password_hash, :profile_picture, :status,
	:registered_at, :updated_at)`

const updateUser = `UPDATE alumni_users SET
	full_name = :full_name, phone = :phone, date_of_birth = :date_of_birth, gender = :gender,
	address = :address, batch = :batch, student_id = :student_id, passing_year = :passing_year,
	department = :department, profession = :profession, organization = :organization,
	designation = :designation, work_location = :work_location, facebook = :facebook,
	linkedin = :linkedin, password_hash = :password_hash, profile_picture = :profile_picture,
	status = :status, updated_at = :updated_at
WHERE id = :id`

func sqlxGet(ctx context.Context, q *Queries, dest any, query string, args ...any) error {
	return sqlx.GetContext(ctx, q.ext, dest, query, args...)
}

// mapUniqueErr turns a UNIQUE constraint failure into the matching sentinel.
func mapUniqueErr(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed: alumni_users.alumni_id"):
		return ErrDuplicateAlumniID
	case strings.Contains(msg, "UNIQUE constraint failed: alumni_users.email"):
		return ErrDuplicateEmail
	}
	return err
}

// CreateUser inserts a new member.
func (q *Queries) CreateUser(ctx context.Context, u model.AlumniUser) error {
	if _, err := sqlx.NamedExecContext(ctx, q.ext, createUser, u); err != nil {
		if mapped := mapUniqueErr(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("creating user: %w", err)
	}
	q.publish(KeyUsers)
	return nil
}

// UpdateUser saves every mutable column of u. Alumni id and email are fixed
// after registration.
func (q *Queries) UpdateUser(ctx context.Context, u model.AlumniUser) error {
	res, err := sqlx.NamedExecContext(ctx, q.ext, updateUser, u)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	q.publish(KeyUsers)
	return nil
}

// GetUser returns the member with the given record id.
func (q *Queries) GetUser(ctx context.Context, id string) (model.AlumniUser, error) {
	var u model.AlumniUser
	err := sqlxGet(ctx, q, &u, `SELECT `+userColumns+` FROM alumni_users WHERE id = ?`, id)
	return u, err
}

// GetUserByEmail looks a member up by email, ignoring case.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.AlumniUser, error) {
	var u model.AlumniUser
	err := sqlxGet(ctx, q, &u, `SELECT `+userColumns+` FROM alumni_users WHERE email = ?`, strings.TrimSpace(email))
	return u, err
}

// GetUserByAlumniID looks a member up by alumni id.
func (q *Queries) GetUserByAlumniID(ctx context.Context, alumniID string) (model.AlumniUser, error) {
	var u model.AlumniUser
	err := sqlxGet(ctx, q, &u, `SELECT `+userColumns+` FROM alumni_users WHERE alumni_id = ?`, alumniID)
	return u, err
}

// AlumniIDExists reports whether the alumni id is taken.
func (q *Queries) AlumniIDExists(ctx context.Context, alumniID string) (bool, error) {
	var n int
	if err := sqlxGet(ctx, q, &n, `SELECT COUNT(*) FROM alumni_users WHERE alumni_id = ?`, alumniID); err != nil {
		return false, fmt.Errorf("checking alumni id: %w", err)
	}
	return n > 0, nil
}

// EmailExists reports whether the email is taken, ignoring case.
func (q *Queries) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int
	if err := sqlxGet(ctx, q, &n, `SELECT COUNT(*) FROM alumni_users WHERE email = ?`, strings.TrimSpace(email)); err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return n > 0, nil
}

// ListUsers returns every member in registration order.
func (q *Queries) ListUsers(ctx context.Context) ([]model.AlumniUser, error) {
	users := []model.AlumniUser{}
	err := sqlx.SelectContext(ctx, q.ext, &users,
		`SELECT `+userColumns+` FROM alumni_users ORDER BY registered_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// CountUsers returns the number of members.
func (q *Queries) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := sqlxGet(ctx, q, &n, `SELECT COUNT(*) FROM alumni_users`); err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return n, nil
}

// DeleteUser removes one member. It returns sql.ErrNoRows when id is unknown.
func (q *Queries) DeleteUser(ctx context.Context, id string) error {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM alumni_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	q.publish(KeyUsers)
	return nil
}

// DeleteAllUsers removes every member and returns how many were removed.
func (q *Queries) DeleteAllUsers(ctx context.Context) (int64, error) {
	res, err := q.ext.ExecContext(ctx, `DELETE FROM alumni_users`)
	if err != nil {
		return 0, fmt.Errorf("deleting users: %w", err)
	}
	n, _ := res.RowsAffected()
	q.publish(KeyUsers)
	return n, nil
}
