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
	"github.com/gofiber/fiber/v2"
)

type FxLatestResponse struct {
	Date          string  `json:"date,omitempty"`
	Rate          float64 `json:"rate"`
	UsingFallback bool    `json:"usingFallback"`
}

// FxLatest reports the (date, rate) pair behind the most recent
// conversion, for the attribution footer. With no fx history yet it
// reports the fallback rate instead.
func (h *Handler) FxLatest(c *fiber.Ctx) error {
	q, err := h.loadQuote(c)
	if err != nil {
		return err
	}

	obs, ok := q.LatestFxObservation()
	if !ok {
		return c.JSON(FxLatestResponse{
			Rate:          q.FallbackRate(),
			UsingFallback: true,
		})
	}

	return c.JSON(FxLatestResponse{
		Date: obs.Date,
		Rate: obs.Rate,
	})
}
