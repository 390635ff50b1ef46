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

package fetch

import (
	"context"
	"regexp"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// fundNumber matches a grouped integer of at least 10 digits -- the fund's
// market value in the page markup is the only number that large.
var fundNumber = regexp.MustCompile(`[0-9][0-9 ,.\x{00a0}]{12,}[0-9]`)

// Fund reads the fund's reported market value in NOK. The live JSON
// endpoint is preferred; when it is unreachable or reshaped, the static
// page is scanned for the value as a second layer.
type Fund struct {
	LiveURL string
	PageURL string
}

func NewFund(liveURL, pageURL string) *Fund {
	return &Fund{LiveURL: liveURL, PageURL: pageURL}
}

func (f *Fund) Name() string {
	return "fund"
}

func (f *Fund) Fetch(ctx context.Context) (float64, error) {
	v, err := f.fetchLive(ctx)
	if err == nil {
		return v, nil
	}
	log.Warn().Err(err).Str("Url", f.LiveURL).Msg("live fund endpoint failed, scanning static page")

	return f.fetchPage(ctx)
}

func (f *Fund) fetchLive(ctx context.Context) (float64, error) {
	body, err := getBody(ctx, f.LiveURL)
	if err != nil {
		return 0, err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, err
	}

	v, ok := digAmount(doc, [][]string{
		{"marketValue"},
		{"market_value"},
		{"liveData", "marketValue"},
		{"value"},
	})
	if !ok {
		return 0, ErrNoValue
	}
	return v, nil
}

func (f *Fund) fetchPage(ctx context.Context) (float64, error) {
	body, err := getBody(ctx, f.PageURL)
	if err != nil {
		return 0, err
	}

	best := 0.0
	found := false
	for _, m := range fundNumber.FindAllString(string(body), -1) {
		v, err := parseNumber(m)
		if err != nil {
			continue
		}
		if v > best {
			best = v
			found = true
		}
	}
	if !found {
		return 0, ErrNoValue
	}
	return best, nil
}
