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

// Package quote answers point-in-time value and change-over-window queries
// against loaded series. Sampling is irregular, so lookback targets are
// matched within a tolerance band rather than exactly; data sparsity is a
// steady state and resolves to "unavailable", never an error.
package quote

import (
	"time"

	"github.com/wealth-meter/wm-api/series"
)

// FindReference locates the record closest to latest−lookback in an
// ascending series. The candidate is the newest record at or before the
// target instant; it is accepted only when its distance from the target is
// within tolerance. ok is false when the series has fewer than 2 records,
// no record is old enough, or the gap exceeds the tolerance.
func FindReference(recs []series.ValueRecord, lookback, tolerance time.Duration) (series.ValueRecord, bool) {
	if len(recs) < 2 {
		return series.ValueRecord{}, false
	}

	latest := recs[len(recs)-1]
	target := latest.Time.Add(-lookback)

	// scan from the end so same-instant duplicates resolve to the least
	// stale record
	for i := len(recs) - 1; i >= 0; i-- {
		if recs[i].Time.After(target) {
			continue
		}
		if target.Sub(recs[i].Time) > tolerance {
			return series.ValueRecord{}, false
		}
		return recs[i], true
	}

	return series.ValueRecord{}, false
}
