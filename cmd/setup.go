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

package cmd

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"github.com/wealth-meter/wm-api/fetch"
	"github.com/wealth-meter/wm-api/fx"
	"github.com/wealth-meter/wm-api/handler"
	"github.com/wealth-meter/wm-api/ingest"
	"github.com/wealth-meter/wm-api/quote"
	"github.com/wealth-meter/wm-api/store"
)

// openStore builds the configured store backend.
func openStore(ctx context.Context) store.Store {
	switch viper.GetString("store.driver") {
	case "postgres":
		st, err := store.ConnectPostgres(ctx, viper.GetString("store.database_url"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not open postgres store")
		}
		return st
	case "jsonfile", "":
		st, err := store.NewJSONFile(viper.GetString("store.path"), viper.GetInt("store.archive_after"))
		if err != nil {
			log.Fatal().Err(err).Msg("could not open jsonfile store")
		}
		return st
	default:
		log.Fatal().Str("Driver", viper.GetString("store.driver")).Msg("unknown store driver")
		return nil
	}
}

func newIngestJob(st store.Store) *ingest.Job {
	return ingest.NewJob(st,
		fetch.NewFund(viper.GetString("sources.fund_live_url"), viper.GetString("sources.fund_page_url")),
		fetch.NewPopulation(viper.GetString("sources.population_url")),
		fetch.NewFxRate(viper.GetString("sources.fx_url")),
	)
}

type windowConfig struct {
	Label     string `mapstructure:"label"`
	Lookback  string `mapstructure:"lookback"`
	Tolerance string `mapstructure:"tolerance"`
}

func loadWindows() []quote.Window {
	var cfgs []windowConfig
	if err := viper.UnmarshalKey("windows", &cfgs); err != nil {
		log.Fatal().Err(err).Msg("could not parse change windows")
	}
	if len(cfgs) == 0 {
		return quote.DefaultWindows()
	}

	windows := make([]quote.Window, 0, len(cfgs))
	for _, cfg := range cfgs {
		lookback, err := time.ParseDuration(cfg.Lookback)
		if err != nil {
			log.Fatal().Err(err).Str("Window", cfg.Label).Msg("could not parse lookback duration")
		}
		tolerance, err := time.ParseDuration(cfg.Tolerance)
		if err != nil {
			log.Fatal().Err(err).Str("Window", cfg.Label).Msg("could not parse tolerance duration")
		}
		windows = append(windows, quote.Window{Label: cfg.Label, Lookback: lookback, Tolerance: tolerance})
	}
	return windows
}

// handlerConfig validates the query-layer settings. A non-positive
// fallback rate would let a conversion divide by zero, so it stops the
// process here.
func handlerConfig() handler.Config {
	fallback := viper.GetFloat64("fx.fallback_rate")
	if fallback <= 0 {
		log.Fatal().Float64("FallbackRate", fallback).Msg("fx.fallback_rate must be positive")
	}

	ccy, err := fx.ParseCurrency(viper.GetString("display.currency"))
	if err != nil {
		log.Fatal().Err(err).Str("Currency", viper.GetString("display.currency")).Msg("unknown display currency")
	}

	return handler.Config{
		FallbackRate:    fallback,
		Windows:         loadWindows(),
		DefaultCurrency: ccy,
	}
}
