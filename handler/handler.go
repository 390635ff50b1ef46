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

package handler

import (
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/fx"
	"github.com/wealth-meter/wm-api/i18n"
	"github.com/wealth-meter/wm-api/quote"
	"github.com/wealth-meter/wm-api/store"
)

// Config carries the query-layer settings resolved once at startup.
type Config struct {
	FallbackRate    float64
	Windows         []quote.Window
	DefaultCurrency fx.Currency
}

// Handler serves the display page's API. Each request loads the persisted
// series and builds a fresh immutable quote view; the store guarantees a
// reader never sees a half-written series.
type Handler struct {
	store store.Store
	cfg   Config
}

func New(st store.Store, cfg Config) *Handler {
	return &Handler{store: st, cfg: cfg}
}

func (h *Handler) loadQuote(c *fiber.Ctx) (*quote.Quote, error) {
	values, err := h.store.LoadValues(c.Context())
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not load value series")
		return nil, fiber.ErrInternalServerError
	}

	fxRecs, err := h.store.LoadFx(c.Context())
	if err != nil {
		log.Error().Stack().Err(err).Msg("could not load fx series")
		return nil, fiber.ErrInternalServerError
	}

	return quote.New(values, fxRecs, h.cfg.FallbackRate, h.cfg.Windows), nil
}

// displayCurrency resolves the currency for a request: explicit query
// param first, then a usd.-prefixed deployment host, then the configured
// default.
func (h *Handler) displayCurrency(c *fiber.Ctx) (fx.Currency, error) {
	if arg := c.Query("currency"); arg != "" {
		ccy, err := fx.ParseCurrency(arg)
		if err != nil {
			return ccy, fiber.NewError(fiber.StatusBadRequest, "unknown currency")
		}
		return ccy, nil
	}

	if strings.HasPrefix(strings.ToLower(c.Hostname()), "usd.") {
		return fx.USD, nil
	}

	return h.cfg.DefaultCurrency, nil
}

func locale(c *fiber.Ctx) i18n.Locale {
	if arg := c.Query("lang"); arg != "" {
		return i18n.ParseLocale(arg)
	}
	return i18n.ParseLocale(c.Get(fiber.HeaderAcceptLanguage))
}

// formatAmount renders a smallest-unit amount as a display string.
func formatAmount(v float64, currency fx.Currency) string {
	return money.New(int64(v), string(currency)).Display()
}

type PingResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"API is alive"`
	Time    string `json:"time" example:"2025-04-19T08:09:10.115924-05:00"`
}

func Ping(c *fiber.Ctx) error {
	now, _ := time.Now().MarshalText()
	return c.JSON(PingResponse{
		Status:  "success",
		Message: "API is alive",
		Time:    string(now),
	})
}
