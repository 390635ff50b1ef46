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
	"time"

	"github.com/jackc/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pashagolub/pgxmock"
	"github.com/wealth-meter/wm-api/series"
	"github.com/wealth-meter/wm-api/store"
)

var _ = Describe("Postgres store", func() {
	var (
		conn pgxmock.PgxConnIface
		st   *store.Postgres
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		conn, err = pgxmock.NewConn()
		Expect(err).To(BeNil())
		st = store.NewPostgres(conn)
		ctx = context.Background()
	})

	AfterEach(func() {
		Expect(conn.ExpectationsWereMet()).To(Succeed())
	})

	Describe("When loading the value series", func() {
		It("scans rows into records", func() {
			t0 := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
			conn.ExpectQuery("SELECT ts, fund_value, population, per_capita FROM value_series").
				WillReturnRows(pgxmock.NewRows([]string{"ts", "fund_value", "population", "per_capita"}).
					AddRow(t0, int64(3_000_000), int64(6), 500000.0).
					AddRow(t0.Add(time.Hour), int64(3_300_000), int64(6), 550000.0))

			recs, err := st.LoadValues(ctx)
			Expect(err).To(BeNil())
			Expect(recs).To(HaveLen(2))
			Expect(recs[0].PerCapita).To(Equal(500000.0))
			Expect(recs[1].Time).To(Equal(t0.Add(time.Hour)))
		})
	})

	Describe("When loading the fx series", func() {
		It("scans rows into records", func() {
			conn.ExpectQuery("SELECT rate_date, rate FROM fx_series").
				WillReturnRows(pgxmock.NewRows([]string{"rate_date", "rate"}).
					AddRow("2024-03-01", 10.0))

			recs, err := st.LoadFx(ctx)
			Expect(err).To(BeNil())
			Expect(recs).To(HaveLen(1))
			Expect(recs[0].Date).To(Equal("2024-03-01"))
		})
	})

	Describe("When appending records", func() {
		It("inserts a value row", func() {
			rec := series.NewValueRecord(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC), 3_000_000, 6)
			conn.ExpectExec("INSERT INTO value_series").
				WithArgs(rec.Time, rec.FundValue, rec.Population, rec.PerCapita).
				WillReturnResult(pgconn.CommandTag("INSERT 0 1"))

			Expect(st.AppendValue(ctx, rec)).To(Succeed())
		})

		It("upserts an fx row so the latest rate wins", func() {
			conn.ExpectExec("INSERT INTO fx_series").
				WithArgs("2024-03-01", 10.2).
				WillReturnResult(pgconn.CommandTag("INSERT 0 1"))

			Expect(st.AppendFx(ctx, series.FxRecord{Date: "2024-03-01", Rate: 10.2})).To(Succeed())
		})
	})

	Describe("When ensuring the schema", func() {
		It("creates both tables", func() {
			conn.ExpectExec("CREATE TABLE IF NOT EXISTS value_series").
				WillReturnResult(pgconn.CommandTag("CREATE TABLE"))
			conn.ExpectExec("CREATE TABLE IF NOT EXISTS fx_series").
				WillReturnResult(pgconn.CommandTag("CREATE TABLE"))

			Expect(st.EnsureSchema(ctx)).To(Succeed())
		})
	})
})
