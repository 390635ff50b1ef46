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
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/go-co-op/gocron"
	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wealth-meter/wm-api/common"
	"github.com/wealth-meter/wm-api/handler"
	"github.com/wealth-meter/wm-api/middleware"
	"github.com/wealth-meter/wm-api/router"
)

func init() {
	viper.BindEnv("server.port", "PORT")
	serveCmd.Flags().IntP("port", "p", 3000, "Port to run application server on")
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))

	viper.SetDefault("server.cors_origins", "*")

	viper.BindEnv("schedule.every_minutes", "WM_SCHEDULE_EVERY_MINUTES")
	serveCmd.Flags().Int("scrape-every", 10, "Minutes between scrape cycles; 0 disables the scheduler")
	viper.BindPFlag("schedule.every_minutes", serveCmd.Flags().Lookup("scrape-every"))

	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the wm-api server",
	Long:  `Run the HTTP server that serves the per-capita value page and keeps the series updated`,
	Run: func(cmd *cobra.Command, args []string) {
		common.SetupLogging()
		common.SetupCache()
		log.Info().Msg("initialized logging")

		ctx := context.Background()
		st := openStore(ctx)
		h := handler.New(st, handlerConfig())

		// Create new Fiber instance
		app := fiber.New(fiber.Config{
			JSONEncoder: json.Marshal,
			JSONDecoder: json.Unmarshal,
		})

		// shutdown cleanly on interrupt
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt)
		go func() {
			sig := <-c // block until signal is read
			fmt.Printf("Received signal: '%s'; shutting down...\n", sig.String())
			if err := app.Shutdown(); err != nil {
				log.Fatal().Err(err).Msg("server shutdown failed")
			}
		}()

		// Configure CORS
		app.Use(cors.New(cors.Config{
			AllowOrigins: viper.GetString("server.cors_origins"),
			AllowHeaders: "*",
			AllowMethods: "GET,HEAD",
		}))

		// Setup logging middleware
		app.Use(middleware.NewLogger())

		// Setup routes
		router.SetupRoutes(app, h)

		// scrape on a fixed cadence; the first run primes an empty store
		if every := viper.GetInt("schedule.every_minutes"); every > 0 {
			job := newIngestJob(st)
			scheduler := gocron.NewScheduler(time.UTC)
			scheduler.Every(every).Minutes().Do(func() {
				if err := job.Run(ctx); err != nil {
					log.Warn().Err(err).Msg("scrape cycle failed")
				}
			})
			scheduler.StartAsync()
		}

		err := app.Listen(fmt.Sprintf(":%s", viper.GetString("server.port")))
		if err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}
