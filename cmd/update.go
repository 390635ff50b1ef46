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
	"github.com/spf13/cobra"
	"github.com/wealth-meter/wm-api/common"
)

var updateTimeout time.Duration

func init() {
	updateCmd.Flags().DurationVar(&updateTimeout, "timeout", 2*time.Minute, "Abort the scrape cycle after this long")
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run one scrape cycle and append to the series store",
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		log.Info().Msg("initialized logging")

		ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
		defer cancel()

		st := openStore(ctx)
		// validate the query-layer config even though this command never
		// serves; a broken fallback rate should fail in CI, not at render
		handlerConfig()

		if err := newIngestJob(st).Run(ctx); err != nil {
			log.Fatal().Err(err).Msg("scrape cycle failed")
		}
	},
}
