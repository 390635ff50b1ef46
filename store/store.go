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

// Package store persists the append-only value and exchange-rate series.
// Appended records must become visible to readers atomically; a reader
// never observes a half-written series. Unlike the query layer, this is
// where malformed persisted data fails loudly.
package store

import (
	"context"
	"errors"

	"github.com/wealth-meter/wm-api/series"
)

var (
	ErrMalformedSeries = errors.New("malformed series document")
)

// Store is the persistence contract consumed by the ingest job and the
// query layer. Load results carry no ordering guarantee; consumers sort.
type Store interface {
	LoadValues(ctx context.Context) ([]series.ValueRecord, error)
	LoadFx(ctx context.Context) ([]series.FxRecord, error)
	AppendValue(ctx context.Context, rec series.ValueRecord) error
	AppendFx(ctx context.Context, rec series.FxRecord) error
}
