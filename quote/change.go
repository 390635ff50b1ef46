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

package quote

import (
	"time"

	"github.com/wealth-meter/wm-api/fx"
	"github.com/wealth-meter/wm-api/series"
)

// Change is the movement of the per-capita value over a lookback window,
// expressed in the requested display currency. Produced fresh per query,
// never persisted.
type Change struct {
	AbsoluteDelta float64   `json:"absoluteDelta"`
	PercentDelta  float64   `json:"percentDelta"`
	ReferenceTime time.Time `json:"referenceTime"`
}

// ComputeChange resolves a reference point and compares it with the latest
// record. Each endpoint converts at its own timestamp, so a foreign-currency
// figure includes exchange-rate movement between the two instants alongside
// the underlying change. ok is false when no reference qualifies or the
// converted reference is zero (a percent against zero is not finite).
func ComputeChange(recs []series.ValueRecord, lookback, tolerance time.Duration, currency fx.Currency, idx *fx.Index) (Change, bool) {
	if len(recs) < 2 {
		return Change{}, false
	}

	ref, ok := FindReference(recs, lookback, tolerance)
	if !ok {
		return Change{}, false
	}

	latest := recs[len(recs)-1]

	convLatest := idx.Convert(latest.PerCapita, currency, latest.Time)
	convRef := idx.Convert(ref.PerCapita, currency, ref.Time)

	if convRef == 0 {
		return Change{}, false
	}

	abs := convLatest - convRef
	return Change{
		AbsoluteDelta: abs,
		PercentDelta:  abs / convRef * 100,
		ReferenceTime: ref.Time,
	}, true
}
