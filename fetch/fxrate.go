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
	"strings"
)

// FxRate reads the central bank's daily NOK/USD observation from its CSV
// export. The newest observation is the last data row.
type FxRate struct {
	URL string
}

func NewFxRate(url string) *FxRate {
	return &FxRate{URL: url}
}

func (f *FxRate) Name() string {
	return "fxrate"
}

func (f *FxRate) Fetch(ctx context.Context) (float64, error) {
	body, err := getBody(ctx, f.URL)
	if err != nil {
		return 0, err
	}

	lines := strings.Split(strings.ReplaceAll(string(body), "\r\n", "\n"), "\n")
	if len(lines) < 2 {
		return 0, ErrNoValue
	}

	header := splitCSV(lines[0])
	obsCol := -1
	for i, col := range header {
		if strings.EqualFold(col, "OBS_VALUE") {
			obsCol = i
		}
	}
	if obsCol < 0 {
		return 0, ErrNoValue
	}

	for i := len(lines) - 1; i > 0; i-- {
		fields := splitCSV(lines[i])
		if len(fields) <= obsCol {
			continue
		}
		rate, err := parseNumber(fields[obsCol])
		if err != nil || rate <= 0 {
			continue
		}
		return rate, nil
	}

	return 0, ErrNoValue
}

func splitCSV(line string) []string {
	fields := strings.Split(line, ";")
	for i := range fields {
		fields[i] = strings.Trim(fields[i], `" `)
	}
	return fields
}
