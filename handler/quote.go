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
	"encoding/hex"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/common"
	"github.com/wealth-meter/wm-api/fx"
	"github.com/wealth-meter/wm-api/i18n"
	"github.com/wealth-meter/wm-api/quote"
	"github.com/zeebo/blake3"
	"gonum.org/v1/gonum/stat"
)

type LatestResponse struct {
	Currency   string    `json:"currency"`
	PerCapita  float64   `json:"perCapita"`
	Formatted  string    `json:"formatted"`
	FundTotal  float64   `json:"fundTotal"`
	Population int64     `json:"population"`
	AsOf       time.Time `json:"asOf"`
}

type ChangeResponse struct {
	Window    string        `json:"window"`
	Currency  string        `json:"currency"`
	Available bool          `json:"available"`
	Change    *quote.Change `json:"change,omitempty"`
}

type ChartSummary struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mean float64 `json:"mean"`
}

type ChartResponse struct {
	Currency string             `json:"currency"`
	Points   []quote.ChartPoint `json:"points"`
	Summary  *ChartSummary      `json:"summary,omitempty"`
	Labels   map[string]string  `json:"labels"`
}

// Latest returns the newest per-capita observation in the requested
// currency. 404s when the store is still empty.
func (h *Handler) Latest(c *fiber.Ctx) error {
	ccy, err := h.displayCurrency(c)
	if err != nil {
		return err
	}

	q, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	value, ok := q.LatestValue(ccy)
	if !ok {
		return fiber.ErrNotFound
	}
	fundTotal, _ := q.LatestFundTotal(ccy)
	population, _ := q.LatestPopulation()
	asOf, _ := q.LatestTime()

	return c.JSON(LatestResponse{
		Currency:   string(ccy),
		PerCapita:  value,
		Formatted:  formatAmount(value, ccy),
		FundTotal:  fundTotal,
		Population: population,
		AsOf:       asOf,
	})
}

// Change returns the movement over one named window, or over every
// configured window when the window param is omitted. An unavailable
// window is a normal response, not an error.
func (h *Handler) Change(c *fiber.Ctx) error {
	ccy, err := h.displayCurrency(c)
	if err != nil {
		return err
	}

	q, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	if label := c.Query("window"); label != "" {
		if !knownWindow(q, label) {
			return fiber.NewError(fiber.StatusBadRequest, "unknown change window")
		}
		return c.JSON(changeResponse(q, label, ccy))
	}

	resp := make([]ChangeResponse, 0, len(q.Windows()))
	for _, w := range q.Windows() {
		resp = append(resp, changeResponse(q, w.Label, ccy))
	}
	return c.JSON(resp)
}

func knownWindow(q *quote.Quote, label string) bool {
	for _, w := range q.Windows() {
		if w.Label == label {
			return true
		}
	}
	return false
}

func changeResponse(q *quote.Quote, label string, ccy fx.Currency) ChangeResponse {
	chg, ok := q.Change(label, ccy)
	resp := ChangeResponse{
		Window:    label,
		Currency:  string(ccy),
		Available: ok,
	}
	if ok {
		resp.Change = &chg
	}
	return resp
}

// Chart returns the full converted series plus summary statistics.
// Responses are cached per (currency, locale, latest timestamp) and served
// with a strong ETag.
func (h *Handler) Chart(c *fiber.Ctx) error {
	ccy, err := h.displayCurrency(c)
	if err != nil {
		return err
	}
	loc := locale(c)

	q, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	asOf, _ := q.LatestTime()
	key := fmt.Sprintf("chart:%s:%s:%d", ccy, loc, asOf.UnixNano())

	payload, err := common.CacheGet(key)
	if err != nil {
		resp := ChartResponse{
			Currency: string(ccy),
			Points:   q.ChartSeries(ccy),
			Labels:   i18n.Labels(loc),
		}

		if len(resp.Points) > 0 {
			values := make([]float64, len(resp.Points))
			min, max := resp.Points[0].Value, resp.Points[0].Value
			for i, p := range resp.Points {
				values[i] = p.Value
				if p.Value < min {
					min = p.Value
				}
				if p.Value > max {
					max = p.Value
				}
			}
			resp.Summary = &ChartSummary{
				Min:  min,
				Max:  max,
				Mean: stat.Mean(values, nil),
			}
		}

		payload, err = json.Marshal(resp)
		if err != nil {
			log.Error().Stack().Err(err).Msg("could not marshal chart response")
			return fiber.ErrInternalServerError
		}

		if err := common.CacheSet(key, payload); err != nil {
			log.Warn().Err(err).Str("Key", key).Msg("could not cache chart response")
		}
	}

	sum := blake3.Sum256(payload)
	etag := `"` + hex.EncodeToString(sum[:16]) + `"`
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	c.Set(fiber.HeaderETag, etag)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}
