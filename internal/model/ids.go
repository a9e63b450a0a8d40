// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import "github.com/google/uuid"

// NewID returns a new record id. Ids are UUIDv7: a millisecond timestamp
// followed by random bits, so two records created in the same millisecond
// still get distinct ids and ids sort by creation time.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
