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
	"github.com/wealth-meter/wm-api/quote"
	"github.com/wealth-meter/wm-api/series"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func at(offset time.Duration, perCapita float64) series.ValueRecord {
	return series.ValueRecord{Time: t0.Add(offset), PerCapita: perCapita}
}

var _ = Describe("Reference-point resolution", func() {
	Describe("When the series is too short", func() {
		It("is unavailable for an empty series", func() {
			_, ok := quote.FindReference(nil, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeFalse())
		})

		It("is unavailable for a single record", func() {
			recs := []series.ValueRecord{at(0, 100)}
			_, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("When history has a gap larger than the tolerance", func() {
		It("is unavailable", func() {
			// latest at t=100m, target=85m; the only candidate sits at
			// t=0, 85m away from the target
			recs := []series.ValueRecord{at(0, 100), at(100*time.Minute, 110)}
			_, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeFalse())
		})
	})

	Describe("When a record falls inside the tolerance band", func() {
		It("returns it", func() {
			recs := []series.ValueRecord{
				at(0, 100),
				at(70*time.Minute, 105),
				at(100*time.Minute, 110),
			}
			ref, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeTrue())
			Expect(ref.Time).To(Equal(t0.Add(70 * time.Minute)))
		})

		It("accepts a record exactly at the tolerance boundary", func() {
			recs := []series.ValueRecord{
				at(55*time.Minute, 105),
				at(100*time.Minute, 110),
			}
			ref, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeTrue())
			Expect(ref.Time).To(Equal(t0.Add(55 * time.Minute)))
		})
	})

	Describe("When records share the target instant", func() {
		It("returns the least stale one", func() {
			recs := []series.ValueRecord{
				at(85*time.Minute, 104),
				at(85*time.Minute, 105),
				at(100*time.Minute, 110),
			}
			ref, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeTrue())
			Expect(ref.PerCapita).To(Equal(105.0))
		})
	})

	Describe("When every record is newer than the target", func() {
		It("is unavailable", func() {
			recs := []series.ValueRecord{
				at(95*time.Minute, 105),
				at(100*time.Minute, 110),
			}
			_, ok := quote.FindReference(recs, 15*time.Minute, 30*time.Minute)
			Expect(ok).To(BeFalse())
		})
	})
})
