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

// Package ingest runs one scrape cycle: fetch the fund value, population
// and exchange rate, derive the per-capita figure and append to the store.
// A failed source skips its series and leaves the rest of the cycle alone;
// sparse history is the query layer's problem, not ours.
package ingest

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/fetch"
	"github.com/wealth-meter/wm-api/series"
	"github.com/wealth-meter/wm-api/store"
)

var ErrAllSourcesFailed = errors.New("every source failed; nothing ingested")

// Job wires the three sources to a store.
type Job struct {
	Store      store.Store
	Fund       fetch.Source
	Population fetch.Source
	FxRate     fetch.Source

	// Now is the clock used to stamp records; tests override it.
	Now func() time.Time
}

func NewJob(st store.Store, fund, population, fxRate fetch.Source) *Job {
	return &Job{
		Store:      st,
		Fund:       fund,
		Population: population,
		FxRate:     fxRate,
		Now:        time.Now,
	}
}

// Run executes one cycle. The value record is appended only when both the
// fund and population fetches succeed; the fx record is independent.
func (j *Job) Run(ctx context.Context) error {
	runLog := log.With().Str("RunID", uuid.New().String()).Logger()
	now := j.Now().UTC()

	appended := 0

	fund, fundErr := j.Fund.Fetch(ctx)
	if fundErr != nil {
		runLog.Warn().Err(fundErr).Str("Source", j.Fund.Name()).Msg("source fetch failed")
	}

	population, popErr := j.Population.Fetch(ctx)
	if popErr != nil {
		runLog.Warn().Err(popErr).Str("Source", j.Population.Name()).Msg("source fetch failed")
	}

	if fundErr == nil && popErr == nil {
		if fund < 0 || population < 1 || math.IsNaN(fund) || math.IsNaN(population) {
			runLog.Warn().Float64("Fund", fund).Float64("Population", population).Msg("implausible sample, skipping value record")
		} else {
			rec := series.NewValueRecord(now, int64(math.Round(fund)), int64(math.Round(population)))
			if err := j.Store.AppendValue(ctx, rec); err != nil {
				runLog.Error().Stack().Err(err).Msg("could not append value record")
			} else {
				appended++
				runLog.Info().Int64("FundValue", rec.FundValue).Int64("Population", rec.Population).
					Float64("PerCapita", rec.PerCapita).Msg("appended value record")
			}
		}
	}

	rate, fxErr := j.FxRate.Fetch(ctx)
	switch {
	case fxErr != nil:
		runLog.Warn().Err(fxErr).Str("Source", j.FxRate.Name()).Msg("source fetch failed")
	case rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0):
		runLog.Warn().Float64("Rate", rate).Msg("implausible rate, skipping fx record")
	default:
		rec := series.FxRecord{Date: now.Format(series.DateFormat), Rate: rate}
		if err := j.Store.AppendFx(ctx, rec); err != nil {
			runLog.Error().Stack().Err(err).Msg("could not append fx record")
		} else {
			appended++
			runLog.Info().Str("Date", rec.Date).Float64("Rate", rec.Rate).Msg("appended fx record")
		}
	}

	if appended == 0 {
		return ErrAllSourcesFailed
	}
	return nil
}
