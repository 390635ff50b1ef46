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

package store

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/series"
)

// PgxIface is the slice of pgx used by the store; narrow so tests can
// substitute a pgxmock connection.
type PgxIface interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// Postgres persists both series in a database instead of flat files; row
// inserts are transactional, which covers the atomic-visibility contract.
type Postgres struct {
	pool PgxIface
}

// NewPostgres wraps an existing connection or pool.
func NewPostgres(pool PgxIface) *Postgres {
	return &Postgres{pool: pool}
}

// ConnectPostgres opens a pgx pool and ensures the schema exists.
func ConnectPostgres(ctx context.Context, url string) (*Postgres, error) {
	pool, err := pgxpool.Connect(ctx, url)
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not connect to database")
		return nil, err
	}

	st := NewPostgres(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

// EnsureSchema creates the series tables when missing.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS value_series (
			ts TIMESTAMPTZ NOT NULL,
			fund_value BIGINT NOT NULL,
			population BIGINT NOT NULL,
			per_capita DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS fx_series (
			rate_date TEXT PRIMARY KEY,
			rate DOUBLE PRECISION NOT NULL
		)`,
	}
	for _, sql := range ddl {
		if _, err := s.pool.Exec(ctx, sql); err != nil {
			log.Error().Stack().Err(err).Str("Query", sql).Msg("could not create table")
			return err
		}
	}
	return nil
}

func (s *Postgres) LoadValues(ctx context.Context) ([]series.ValueRecord, error) {
	rows, err := s.pool.Query(ctx, "SELECT ts, fund_value, population, per_capita FROM value_series ORDER BY ts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]series.ValueRecord, 0, 256)
	for rows.Next() {
		var rec series.ValueRecord
		if err := rows.Scan(&rec.Time, &rec.FundValue, &rec.Population, &rec.PerCapita); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Postgres) LoadFx(ctx context.Context) ([]series.FxRecord, error) {
	rows, err := s.pool.Query(ctx, "SELECT rate_date, rate FROM fx_series ORDER BY rate_date")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := make([]series.FxRecord, 0, 256)
	for rows.Next() {
		var rec series.FxRecord
		if err := rows.Scan(&rec.Date, &rec.Rate); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *Postgres) AppendValue(ctx context.Context, rec series.ValueRecord) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO value_series (ts, fund_value, population, per_capita) VALUES ($1, $2, $3, $4)",
		rec.Time, rec.FundValue, rec.Population, rec.PerCapita)
	return err
}

// AppendFx upserts so a repeated calendar date keeps the latest rate.
func (s *Postgres) AppendFx(ctx context.Context, rec series.FxRecord) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO fx_series (rate_date, rate) VALUES ($1, $2) ON CONFLICT (rate_date) DO UPDATE SET rate = EXCLUDED.rate",
		rec.Date, rec.Rate)
	return err
}
