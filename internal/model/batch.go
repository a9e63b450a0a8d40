// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// Batch categories.
const (
	BatchDakhil2020 = "dakhil2020"
	BatchAlim2022   = "alim2022"
	BatchOther      = "other"
)

// Batches lists the batches a member can register under.
var Batches = []string{BatchDakhil2020, BatchAlim2022}

// BatchLabel returns the display label for a batch slug.
func BatchLabel(batch string) string {
	switch batch {
	case BatchDakhil2020:
		return "Dakhil 2020"
	case BatchAlim2022:
		return "Alim 2022"
	case "":
		return "—"
	default:
		return batch
	}
}

// BatchSlug maps a free-form batch label ("Dakhil 2020", "dakhil2020",
// "দাখিল ২০২০") to its slug. Unknown labels map to BatchOther.
func BatchSlug(label string) string {
	s := strings.ToLower(unidecode.Unidecode(norm.NFKC.String(label)))
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, s)

	switch {
	case strings.Contains(s, "dakhil") && strings.Contains(s, "2020"):
		return BatchDakhil2020
	case strings.Contains(s, "alim") && strings.Contains(s, "2022"):
		return BatchAlim2022
	default:
		return BatchOther
	}
}
