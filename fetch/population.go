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

	json "github.com/goccy/go-json"
)

// Population reads the national population figure from the statistics
// bureau's JSON-stat endpoint.
type Population struct {
	URL string
}

func NewPopulation(url string) *Population {
	return &Population{URL: url}
}

func (p *Population) Name() string {
	return "population"
}

func (p *Population) Fetch(ctx context.Context) (float64, error) {
	body, err := getBody(ctx, p.URL)
	if err != nil {
		return 0, err
	}

	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return 0, err
	}

	// JSON-stat puts the figure last in dataset.value; flat documents
	// use a plain population key
	v, ok := digAmount(doc, [][]string{
		{"dataset", "value"},
		{"population"},
		{"value"},
	})
	if !ok || v <= 0 {
		return 0, ErrNoValue
	}
	return v, nil
}
