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

// Package fx converts home-currency amounts to the foreign display currency
// using point-in-time historical exchange rates. Rates are sampled once per
// day and treated as a step function: a rate is effective from its
// observation date until superseded, never interpolated and never read from
// the future.
package fx

import (
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/series"
)

// Index is an immutable, searchable view over exchange-rate observations.
// Build it once per data load; all queries are pure reads and safe for
// concurrent use.
type Index struct {
	dates    []time.Time
	rates    []float64
	lastDate string
	lastRate float64
	hasLast  bool
	fallback float64
}

// NewIndex builds an Index from an unordered exchange-rate series. Records
// with a non-positive or non-finite rate, or an unparseable date, are
// dropped. Empty input is not an error: the index degenerates to
// "always use fallback".
func NewIndex(recs []series.FxRecord, fallback float64) *Index {
	filtered := make([]series.FxRecord, 0, len(recs))
	for _, rec := range recs {
		if rec.Rate <= 0 || math.IsNaN(rec.Rate) || math.IsInf(rec.Rate, 0) {
			log.Debug().Str("Date", rec.Date).Float64("Rate", rec.Rate).Msg("dropping invalid fx rate")
			continue
		}
		if rec.Date == "" {
			continue
		}
		filtered = append(filtered, rec)
	}

	series.SortFx(filtered)

	idx := &Index{
		dates:    make([]time.Time, 0, len(filtered)),
		rates:    make([]float64, 0, len(filtered)),
		fallback: fallback,
	}

	for _, rec := range filtered {
		dt, err := time.ParseInLocation(series.DateFormat, rec.Date, time.UTC)
		if err != nil {
			log.Debug().Err(err).Str("Date", rec.Date).Msg("dropping fx record with malformed date")
			continue
		}
		idx.dates = append(idx.dates, dt)
		idx.rates = append(idx.rates, rec.Rate)
		idx.lastDate = rec.Date
		idx.lastRate = rec.Rate
		idx.hasLast = true
	}

	return idx
}

// RateAtOrBefore returns the rate effective at instant t: the observation
// with the greatest date less than or equal to t. If t predates the
// earliest observation, or the index is empty, the fallback rate is
// returned.
func (idx *Index) RateAtOrBefore(t time.Time) float64 {
	// first date strictly after t
	n := sort.Search(len(idx.dates), func(i int) bool {
		return idx.dates[i].After(t)
	})
	if n == 0 {
		return idx.fallback
	}
	return idx.rates[n-1]
}

// Convert expresses a home-currency amount in the requested display
// currency as of instant t. The home currency is an identity conversion
// and never consults the index.
func (idx *Index) Convert(amount float64, currency Currency, t time.Time) float64 {
	if currency == NOK {
		return amount
	}
	return amount / idx.RateAtOrBefore(t)
}

// LastObservation returns the most recent (date, rate) pair in the index,
// for attribution display. ok is false when the index is empty and every
// conversion uses the fallback rate.
func (idx *Index) LastObservation() (series.FxRecord, bool) {
	if !idx.hasLast {
		return series.FxRecord{}, false
	}
	return series.FxRecord{Date: idx.lastDate, Rate: idx.lastRate}, true
}

// Fallback returns the configured fallback rate.
func (idx *Index) Fallback() float64 {
	return idx.fallback
}

// Len reports the number of usable observations.
func (idx *Index) Len() int {
	return len(idx.dates)
}
