// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package i18n holds the display-page string tables. The locale is an
// explicit parameter on every lookup; there is no ambient language state.
package i18n

import "strings"

// Locale selects a string table.
type Locale string

const (
	NB Locale = "nb"
	EN Locale = "en"
)

var tables = map[Locale]map[string]string{
	NB: {
		"title":          "Oljefondet per innbygger",
		"per_capita":     "Din andel",
		"fund_total":     "Fondets markedsverdi",
		"population":     "Innbyggere",
		"change_15m":     "Siste kvarter",
		"change_1h":      "Siste time",
		"change_24h":     "Siste døgn",
		"unavailable":    "–",
		"fx_attribution": "Valutakurs fra Norges Bank",
		"fallback_rate":  "beregnet med reservekurs",
	},
	EN: {
		"title":          "The Oil Fund per citizen",
		"per_capita":     "Your share",
		"fund_total":     "Fund market value",
		"population":     "Population",
		"change_15m":     "Past 15 minutes",
		"change_1h":      "Past hour",
		"change_24h":     "Past 24 hours",
		"unavailable":    "–",
		"fx_attribution": "Exchange rate from Norges Bank",
		"fallback_rate":  "computed with fallback rate",
	},
}

// ParseLocale maps a user-supplied tag (query param or Accept-Language
// prefix) onto a supported locale, defaulting to Norwegian.
func ParseLocale(tag string) Locale {
	tag = strings.ToLower(strings.TrimSpace(tag))
	switch {
	case strings.HasPrefix(tag, "en"):
		return EN
	case strings.HasPrefix(tag, "nb"), strings.HasPrefix(tag, "no"), strings.HasPrefix(tag, "nn"):
		return NB
	}
	return NB
}

// T resolves a label. Unknown keys fall back to English, then to the key
// itself so a missing translation is visible instead of blank.
func T(locale Locale, key string) string {
	if table, ok := tables[locale]; ok {
		if s, ok := table[key]; ok {
			return s
		}
	}
	if s, ok := tables[EN][key]; ok {
		return s
	}
	return key
}

// Labels returns the full table for one locale, for handing to the page.
func Labels(locale Locale) map[string]string {
	src, ok := tables[locale]
	if !ok {
		src = tables[EN]
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
