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

package fx

import (
	"errors"
	"strings"
)

// Currency is a display currency. Series are always stored in the home
// currency; the foreign currency requires conversion through an Index.
type Currency string

const (
	// NOK is the home currency all series are denominated in.
	NOK Currency = "NOK"
	// USD is the foreign display currency.
	USD Currency = "USD"
)

var ErrUnknownCurrency = errors.New("unknown currency")

// ParseCurrency converts a user-supplied currency code. The empty string
// defaults to the home currency.
func ParseCurrency(s string) (Currency, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(NOK):
		return NOK, nil
	case string(USD):
		return USD, nil
	}
	return NOK, ErrUnknownCurrency
}
