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
	"fmt"
	"os"

	"github.com/wealth-meter/wm-api/common"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Logging configuration
	viper.BindEnv("log.level", "WM_LOG_LEVEL")
	rootCmd.PersistentFlags().String("log-level", "info", "Logging level")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	viper.BindEnv("log.report_caller", "WM_LOG_REPORT_CALLER")
	rootCmd.PersistentFlags().Bool("log-report-caller", false, "Log function name that called log statement")
	viper.BindPFlag("log.report_caller", rootCmd.PersistentFlags().Lookup("log-report-caller"))

	viper.BindEnv("log.output", "WM_LOG_OUTPUT")
	rootCmd.PersistentFlags().String("log-output", "stdout", "Write logs to specified output one of: file path, `stdout`, or `stderr`")
	viper.BindPFlag("log.output", rootCmd.PersistentFlags().Lookup("log-output"))

	rootCmd.PersistentFlags().Bool("log-pretty", false, "Print console-formatted log messages")
	viper.BindPFlag("log.pretty", rootCmd.PersistentFlags().Lookup("log-pretty"))

	// Store
	viper.BindEnv("store.driver", "WM_STORE_DRIVER")
	rootCmd.PersistentFlags().String("store-driver", "jsonfile", "Series store driver: jsonfile or postgres")
	viper.BindPFlag("store.driver", rootCmd.PersistentFlags().Lookup("store-driver"))

	viper.BindEnv("store.path", "WM_STORE_PATH")
	rootCmd.PersistentFlags().String("store-path", "./data", "Directory holding the JSON series documents")
	viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("store-path"))

	viper.BindEnv("store.database_url", "DATABASE_URL")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	viper.BindPFlag("store.database_url", rootCmd.PersistentFlags().Lookup("database-url"))

	viper.SetDefault("store.archive_after", 100000)

	// Display
	viper.BindEnv("fx.fallback_rate", "WM_FX_FALLBACK_RATE")
	rootCmd.PersistentFlags().Float64("fx-fallback-rate", 10.0, "Exchange rate used when no fx history qualifies (NOK per USD)")
	viper.BindPFlag("fx.fallback_rate", rootCmd.PersistentFlags().Lookup("fx-fallback-rate"))

	viper.BindEnv("display.currency", "WM_DISPLAY_CURRENCY")
	rootCmd.PersistentFlags().String("display-currency", "NOK", "Default display currency")
	viper.BindPFlag("display.currency", rootCmd.PersistentFlags().Lookup("display-currency"))

	// Sources
	viper.SetDefault("sources.fund_live_url", "https://www.nbim.no/api/live/marketvalue")
	viper.SetDefault("sources.fund_page_url", "https://www.nbim.no/en/")
	viper.SetDefault("sources.population_url", "https://data.ssb.no/api/v0/dataset/1104.json")
	viper.SetDefault("sources.fx_url", "https://data.norges-bank.no/api/data/EXR/B.USD.NOK.SP?format=csv&lastNObservations=1")

	// Change windows; tolerances widen with the lookback because the
	// scrape cadence is irregular
	viper.SetDefault("windows", []map[string]interface{}{
		{"label": "15m", "lookback": "15m", "tolerance": "30m"},
		{"label": "1h", "lookback": "1h", "tolerance": "90m"},
		{"label": "24h", "lookback": "24h", "tolerance": "6h"},
	})
}

var rootCmd = &cobra.Command{
	Use:     "wmapi",
	Version: common.CurrentVersion.String(),
	Short:   "Wealth Meter tracks a sovereign wealth fund's per-capita value",
	Long: `Wealth Meter periodically scrapes a sovereign wealth fund's market value,
the national population figure and the NOK/USD exchange rate, derives the
per-capita value and serves it as a chart with live currency conversion.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
