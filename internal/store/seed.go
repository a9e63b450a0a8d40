package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/daf-alumni/internal/auth"
)

// DefaultAdminPassword is used when no initial admin password is configured.
const DefaultAdminPassword = "daf@admin"

// Seed stores the initial admin password hash unless one already exists.
func Seed(ctx context.Context, q *Queries, adminPassword string) error {
	existing, err := q.GetString(ctx, KeyAdminPassword)
	if err != nil {
		return fmt.Errorf("checking admin password: %w", err)
	}
	if existing != "" {
		slog.Info("admin password already set, skipping seed")
		return nil
	}

	if adminPassword == "" {
		adminPassword = DefaultAdminPassword
	}
	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := q.PutString(ctx, KeyAdminPassword, hash); err != nil {
		return fmt.Errorf("storing admin password: %w", err)
	}

	slog.Info("stored initial admin password", "category", "auth")
	if adminPassword == DefaultAdminPassword {
		slog.Warn("admin password is the built-in default, change it from the admin settings",
			"category", "auth")
	}
	return nil
}
