// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version describes the running build.
package version

import "fmt"

// Info is the build identity, injected via ldflags into cmd/alumni.
type Info struct {
	Version   string
	GitCommit string
	BuildTime string
}

// String renders the build for the startup log and the health report.
func (i Info) String() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	if i.GitCommit == "" || i.GitCommit == "unknown" {
		return v
	}
	return fmt.Sprintf("%s (%s)", v, i.GitCommit)
}

// IsRelease reports whether the build came from a tagged release.
func (i Info) IsRelease() bool {
	return i.Version != "" && i.Version != "dev"
}
