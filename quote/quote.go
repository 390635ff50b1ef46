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

// Window is a named lookback with its acceptance tolerance.
type Window struct {
	Label     string
	Lookback  time.Duration
	Tolerance time.Duration
}

// DefaultWindows are the windows the display page requests.
func DefaultWindows() []Window {
	return []Window{
		{Label: "15m", Lookback: 15 * time.Minute, Tolerance: 30 * time.Minute},
		{Label: "1h", Lookback: time.Hour, Tolerance: 90 * time.Minute},
		{Label: "24h", Lookback: 24 * time.Hour, Tolerance: 6 * time.Hour},
	}
}

// ChartPoint is one plottable observation in a display currency.
type ChartPoint struct {
	Time  time.Time `json:"ts"`
	Value float64   `json:"value"`
}

// Quote owns one render's view of the loaded series: the value series
// sorted ascending and an fx index built once. It is immutable after
// construction and safe for concurrent reads.
type Quote struct {
	values  []series.ValueRecord
	idx     *fx.Index
	windows []Window
}

// New sorts a copy of the value series, builds the fx index and binds the
// change windows. A nil windows slice selects the defaults.
func New(values []series.ValueRecord, fxRecs []series.FxRecord, fallbackRate float64, windows []Window) *Quote {
	sorted := make([]series.ValueRecord, len(values))
	copy(sorted, values)
	series.SortValues(sorted)

	if windows == nil {
		windows = DefaultWindows()
	}

	return &Quote{
		values:  sorted,
		idx:     fx.NewIndex(fxRecs, fallbackRate),
		windows: windows,
	}
}

// Windows returns the configured change windows.
func (q *Quote) Windows() []Window {
	return q.windows
}

// LatestValue returns the most recent per-capita value in the requested
// currency, converted at its own timestamp.
func (q *Quote) LatestValue(currency fx.Currency) (float64, bool) {
	last, ok := series.Latest(q.values)
	if !ok {
		return 0, false
	}
	return q.idx.Convert(last.PerCapita, currency, last.Time), true
}

// LatestFundTotal returns the most recent fund market value in the
// requested currency, in the smallest currency unit.
func (q *Quote) LatestFundTotal(currency fx.Currency) (float64, bool) {
	last, ok := series.Latest(q.values)
	if !ok {
		return 0, false
	}
	return q.idx.Convert(float64(last.FundValue), currency, last.Time), true
}

// LatestPopulation returns the population figure of the newest record.
func (q *Quote) LatestPopulation() (int64, bool) {
	last, ok := series.Latest(q.values)
	if !ok {
		return 0, false
	}
	return last.Population, true
}

// LatestTime returns the timestamp of the newest record.
func (q *Quote) LatestTime() (time.Time, bool) {
	last, ok := series.Latest(q.values)
	if !ok {
		return time.Time{}, false
	}
	return last.Time, true
}

// Change computes the movement over the named window. ok is false for an
// unknown label or when the window resolves to "unavailable".
func (q *Quote) Change(label string, currency fx.Currency) (Change, bool) {
	for _, w := range q.windows {
		if w.Label == label {
			return ComputeChange(q.values, w.Lookback, w.Tolerance, currency, q.idx)
		}
	}
	return Change{}, false
}

// ChartSeries returns the full per-capita series with every point converted
// to the requested currency at its own timestamp, ready for plotting.
func (q *Quote) ChartSeries(currency fx.Currency) []ChartPoint {
	points := make([]ChartPoint, 0, len(q.values))
	for _, rec := range q.values {
		points = append(points, ChartPoint{
			Time:  rec.Time,
			Value: q.idx.Convert(rec.PerCapita, currency, rec.Time),
		})
	}
	return points
}

// LatestFxObservation exposes the (date, rate) pair behind the most recent
// conversion, for the attribution footer. ok is false when every conversion
// uses the fallback rate.
func (q *Quote) LatestFxObservation() (series.FxRecord, bool) {
	return q.idx.LastObservation()
}

// FallbackRate returns the configured fallback exchange rate.
func (q *Quote) FallbackRate() float64 {
	return q.idx.Fallback()
}
