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

package quote_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/wealth-meter/wm-api/fx"
	"github.com/wealth-meter/wm-api/quote"
	"github.com/wealth-meter/wm-api/series"
)

var _ = Describe("Change computation", func() {
	var flat *fx.Index

	BeforeEach(func() {
		flat = fx.NewIndex(nil, 10.0)
	})

	Describe("When the series moves in the home currency", func() {
		It("reports the signed delta and percent", func() {
			recs := []series.ValueRecord{
				at(0, 1000),
				at(30*time.Minute, 1100),
			}
			chg, ok := quote.ComputeChange(recs, 30*time.Minute, 30*time.Minute, fx.NOK, flat)
			Expect(ok).To(BeTrue())
			Expect(chg.AbsoluteDelta).To(Equal(100.0))
			Expect(chg.PercentDelta).To(Equal(10.0))
			Expect(chg.ReferenceTime).To(Equal(t0))
		})

		It("reports negative movement", func() {
			recs := []series.ValueRecord{
				at(0, 1000),
				at(30*time.Minute, 900),
			}
			chg, ok := quote.ComputeChange(recs, 30*time.Minute, 30*time.Minute, fx.NOK, flat)
			Expect(ok).To(BeTrue())
			Expect(chg.AbsoluteDelta).To(Equal(-100.0))
			Expect(chg.PercentDelta).To(Equal(-10.0))
		})
	})

	Describe("When the reference converts to zero", func() {
		It("is unavailable rather than non-finite", func() {
			recs := []series.ValueRecord{
				at(0, 0),
				at(30*time.Minute, 1100),
			}
			_, ok := quote.ComputeChange(recs, 30*time.Minute, 30*time.Minute, fx.NOK, flat)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("When no reference qualifies", func() {
		It("is unavailable", func() {
			recs := []series.ValueRecord{
				at(0, 1000),
				at(100*time.Minute, 1100),
			}
			_, ok := quote.ComputeChange(recs, 15*time.Minute, 30*time.Minute, fx.NOK, flat)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("When converting to the foreign currency", func() {
		It("converts each endpoint at its own timestamp", func() {
			// rate moves from 10 to 11 between the two samples, so the
			// USD change includes the fx drift
			idx := fx.NewIndex([]series.FxRecord{
				{Date: "2024-03-01", Rate: 10.0},
				{Date: "2024-03-02", Rate: 11.0},
			}, 10.0)
			recs := []series.ValueRecord{
				at(0, 1000),
				at(24*time.Hour, 1100),
			}
			chg, ok := quote.ComputeChange(recs, 24*time.Hour, 6*time.Hour, fx.USD, idx)
			Expect(ok).To(BeTrue())
			Expect(chg.AbsoluteDelta).To(BeNumerically("~", 1100.0/11.0-1000.0/10.0, 1e-9))
		})
	})
})

var _ = Describe("Quote view", func() {
	Describe("When loaded with the 24h scenario", func() {
		var q *quote.Quote

		BeforeEach(func() {
			values := []series.ValueRecord{
				{Time: t0.Add(24 * time.Hour), FundValue: 3_300_000, Population: 6, PerCapita: 550000},
				{Time: t0, FundValue: 3_000_000, Population: 6, PerCapita: 500000},
			}
			fxRecs := []series.FxRecord{{Date: "2024-03-01", Rate: 10.0}}
			q = quote.New(values, fxRecs, 10.0, nil)
		})

		It("computes the documented USD change over 24h", func() {
			chg, ok := q.Change("24h", fx.USD)
			Expect(ok).To(BeTrue())
			Expect(chg.AbsoluteDelta).To(BeNumerically("~", 5000.0, 1e-9))
			Expect(chg.PercentDelta).To(BeNumerically("~", 10.0, 1e-9))
		})

		It("reads the latest point in both currencies", func() {
			v, ok := q.LatestValue(fx.NOK)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(550000.0))

			v, ok = q.LatestValue(fx.USD)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(55000.0))

			pop, ok := q.LatestPopulation()
			Expect(ok).To(BeTrue())
			Expect(pop).To(Equal(int64(6)))

			total, ok := q.LatestFundTotal(fx.USD)
			Expect(ok).To(BeTrue())
			Expect(total).To(Equal(330_000.0))
		})

		It("sorts on load so the latest is the newest record", func() {
			ts, ok := q.LatestTime()
			Expect(ok).To(BeTrue())
			Expect(ts).To(Equal(t0.Add(24 * time.Hour)))
		})

		It("converts every chart point at its own timestamp", func() {
			points := q.ChartSeries(fx.USD)
			Expect(points).To(HaveLen(2))
			Expect(points[0].Value).To(Equal(50000.0))
			Expect(points[1].Value).To(Equal(55000.0))
			Expect(points[0].Time.Before(points[1].Time)).To(BeTrue())
		})

		It("exposes the fx attribution", func() {
			obs, ok := q.LatestFxObservation()
			Expect(ok).To(BeTrue())
			Expect(obs.Date).To(Equal("2024-03-01"))
			Expect(obs.Rate).To(Equal(10.0))
		})

		It("rejects an unknown window label", func() {
			_, ok := q.Change("7d", fx.NOK)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("When the store is empty", func() {
		It("degrades every read to unavailable", func() {
			q := quote.New(nil, nil, 10.0, nil)
			_, ok := q.LatestValue(fx.NOK)
			Expect(ok).To(BeFalse())
			_, ok = q.Change("15m", fx.NOK)
			Expect(ok).To(BeFalse())
			Expect(q.ChartSeries(fx.USD)).To(BeEmpty())
			_, ok = q.LatestFxObservation()
			Expect(ok).To(BeFalse())
		})
	})
})
