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

package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/wealth-meter/wm-api/series"
	"github.com/wealth-meter/wm-api/store"
)

var _ = Describe("JSONFile store", func() {
	var (
		dir string
		st  *store.JSONFile
		ctx context.Context
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "wm-store")
		Expect(err).To(BeNil())
		st, err = store.NewJSONFile(dir, 0)
		Expect(err).To(BeNil())
		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(dir)
	})

	Describe("When the store is brand new", func() {
		It("loads empty series without error", func() {
			values, err := st.LoadValues(ctx)
			Expect(err).To(BeNil())
			Expect(values).To(BeEmpty())

			fxRecs, err := st.LoadFx(ctx)
			Expect(err).To(BeNil())
			Expect(fxRecs).To(BeEmpty())
		})
	})

	Describe("When appending records", func() {
		It("round-trips value records", func() {
			rec := series.NewValueRecord(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 3_000_000, 6)
			Expect(st.AppendValue(ctx, rec)).To(Succeed())
			Expect(st.AppendValue(ctx, series.NewValueRecord(rec.Time.Add(time.Hour), 3_300_000, 6))).To(Succeed())

			values, err := st.LoadValues(ctx)
			Expect(err).To(BeNil())
			Expect(values).To(HaveLen(2))
			Expect(values[0]).To(Equal(rec))
		})

		It("round-trips fx records, duplicates included", func() {
			Expect(st.AppendFx(ctx, series.FxRecord{Date: "2024-03-01", Rate: 10.0})).To(Succeed())
			Expect(st.AppendFx(ctx, series.FxRecord{Date: "2024-03-01", Rate: 10.2})).To(Succeed())

			fxRecs, err := st.LoadFx(ctx)
			Expect(err).To(BeNil())
			Expect(fxRecs).To(HaveLen(2))
			Expect(fxRecs[1].Rate).To(Equal(10.2))
		})

		It("leaves no temp file behind", func() {
			Expect(st.AppendFx(ctx, series.FxRecord{Date: "2024-03-01", Rate: 10.0})).To(Succeed())
			_, err := os.Stat(filepath.Join(dir, "fxrates.json.tmp"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("When the persisted document is corrupt", func() {
		It("fails loudly", func() {
			Expect(os.WriteFile(filepath.Join(dir, "values.json"), []byte("{nope"), 0640)).To(Succeed())
			_, err := st.LoadValues(ctx)
			Expect(errors.Is(err, store.ErrMalformedSeries)).To(BeTrue())
		})
	})

	Describe("When the live series outgrows the archive threshold", func() {
		It("rotates the oldest records into an lz4 archive", func() {
			var err error
			st, err = store.NewJSONFile(dir, 3)
			Expect(err).To(BeNil())

			t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
			for i := 0; i < 5; i++ {
				rec := series.NewValueRecord(t0.Add(time.Duration(i)*time.Hour), int64(1000+i), 4)
				Expect(st.AppendValue(ctx, rec)).To(Succeed())
			}

			values, err := st.LoadValues(ctx)
			Expect(err).To(BeNil())
			Expect(len(values)).To(BeNumerically("<=", 3))
			// the live file keeps the newest records
			Expect(values[len(values)-1].FundValue).To(Equal(int64(1004)))

			archives, err := filepath.Glob(filepath.Join(dir, "values-*.json.lz4"))
			Expect(err).To(BeNil())
			Expect(archives).ToNot(BeEmpty())
		})
	})
})
