// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/olegiv/daf-alumni/internal/cache"
	"github.com/olegiv/daf-alumni/internal/metrics"
	"github.com/olegiv/daf-alumni/internal/model"
	"github.com/olegiv/daf-alumni/internal/staging"
	"github.com/olegiv/daf-alumni/internal/store"
	"github.com/olegiv/daf-alumni/internal/testutil"
)

// fixedNow is the clock used by service tests.
var fixedNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func testDeps() Deps {
	return Deps{
		Logger:   testutil.TestLoggerSilent(),
		Metrics:  metrics.New(),
		Now:      func() time.Time { return fixedNow },
		Location: time.UTC,
	}
}

func testStager(t *testing.T) *staging.Stager {
	t.Helper()
	c := cache.NewMemoryCache(time.Hour, 0)
	t.Cleanup(func() { _ = c.Close() })
	return staging.New(c, time.Hour)
}

func upload(name string, data []byte) Upload {
	return Upload{
		Name: name,
		Size: int64(len(data)),
		Open: func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func registration(alumniID, email string) model.RegistrationInput {
	return model.RegistrationInput{
		AlumniID:        alumniID,
		FullName:        "Abdul Karim",
		Email:           email,
		Batch:           model.BatchAlim2022,
		Profession:      "Engineer",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AcceptTerms:     true,
	}
}

func mustRegister(t *testing.T, s *AlumniService, alumniID, email string) model.AlumniUser {
	t.Helper()
	u, err := s.Register(context.Background(), registration(alumniID, email), nil)
	require.NoError(t, err)
	return u
}

func newQueries(t *testing.T) *store.Queries {
	t.Helper()
	return testutil.TestQueries(t)
}
