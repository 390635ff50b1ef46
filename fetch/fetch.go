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

// Package fetch retrieves single numbers from the upstream data sources.
// Source markup is fragile by nature, so each source is a small pluggable
// strategy behind a uniform fetch-a-number contract, kept entirely apart
// from the query layer.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

var (
	ErrNoValue = errors.New("no value found in source response")
)

// Source produces the current value of one scraped quantity.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (float64, error)
}

func getBody(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP request returned invalid status code: %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// parseNumber reads a numeric string that may carry thousands separators
// (space, NBSP, comma or period) and a decimal comma.
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	// a trailing comma group of 1-2 digits is a decimal comma, the rest
	// are separators
	if i := strings.LastIndex(s, ","); i >= 0 && len(s)-i-1 <= 2 {
		s = strings.ReplaceAll(s[:i], ",", "") + "." + s[i+1:]
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	return strconv.ParseFloat(s, 64)
}

// digAmount walks a decoded JSON document along candidate key paths and
// returns the first numeric hit.
func digAmount(doc interface{}, paths [][]string) (float64, bool) {
	for _, path := range paths {
		node := doc
		ok := true
		for _, key := range path {
			m, isMap := node.(map[string]interface{})
			if !isMap {
				ok = false
				break
			}
			node, ok = m[key]
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}

		switch v := node.(type) {
		case float64:
			return v, true
		case string:
			if f, err := parseNumber(v); err == nil {
				return f, true
			}
		case []interface{}:
			if len(v) > 0 {
				if f, isFloat := v[len(v)-1].(float64); isFloat {
					return f, true
				}
			}
		}
	}
	return 0, false
}
