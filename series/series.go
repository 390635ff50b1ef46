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

// Package series defines the persisted time-series record types and the
// ordering helpers the query layer relies on. Persisted order is not
// guaranteed, so consumers sort on load.
package series

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the calendar-date layout used by exchange-rate records.
const DateFormat = "2006-01-02"

// ValueRecord is one observation of the fund's market value and the
// population it is divided across. FundValue is expressed in the smallest
// currency unit (øre). Records are immutable once appended.
type ValueRecord struct {
	Time       time.Time `json:"ts"`
	FundValue  int64     `json:"fundValue"`
	Population int64     `json:"population"`
	PerCapita  float64   `json:"perCapita"`
}

// FxRecord is one daily observation of the exchange rate, expressed as
// units of the home currency per 1 unit of the foreign currency
// (NOK per USD). One record per calendar date is intended; duplicates are
// tolerated and the later one wins.
type FxRecord struct {
	Date string  `json:"date"`
	Rate float64 `json:"rate"`
}

// PerCapita derives the per-capita value from a fund total and a
// population count, rounded to the nearest whole unit.
func PerCapita(fundValue, population int64) float64 {
	if population <= 0 {
		return 0
	}
	v := decimal.NewFromInt(fundValue).
		Div(decimal.NewFromInt(population)).
		Round(0)
	f, _ := v.Float64()
	return f
}

// NewValueRecord builds a record satisfying the per-capita invariant.
func NewValueRecord(ts time.Time, fundValue, population int64) ValueRecord {
	return ValueRecord{
		Time:       ts.UTC(),
		FundValue:  fundValue,
		Population: population,
		PerCapita:  PerCapita(fundValue, population),
	}
}

// SortValues orders a value series ascending by timestamp. The sort is
// stable so same-instant duplicates keep their persisted order.
func SortValues(recs []ValueRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Time.Before(recs[j].Time)
	})
}

// SortFx orders an exchange-rate series ascending by calendar date.
// Lexicographic comparison is sufficient for ISO 8601 dates.
func SortFx(recs []FxRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Date < recs[j].Date
	})
}

// Latest returns the newest record of an ascending series.
func Latest(recs []ValueRecord) (ValueRecord, bool) {
	if len(recs) == 0 {
		return ValueRecord{}, false
	}
	return recs[len(recs)-1], true
}
