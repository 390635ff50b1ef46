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

package common

import (
	"errors"
	"os"

	lru "github.com/hashicorp/golang-lru"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

var ErrCacheMiss = errors.New("cache miss")

var cache *lru.Cache

// SetupCache initializes the process-local response cache. Entries are
// stored lz4-compressed.
func SetupCache() {
	size := viper.GetInt("cache.local_size")
	if size <= 0 {
		size = 64
	}

	var err error
	cache, err = lru.New(size)
	if err != nil {
		log.Error().Err(err).Msg("could not create LRU cache")
		os.Exit(1)
	}
}

func CacheSet(key string, val []byte) error {
	if cache == nil {
		return nil
	}
	b2, err := Compress(val)
	if err != nil {
		return err
	}
	cache.Add(key, b2)
	return nil
}

func CacheGet(key string) ([]byte, error) {
	if cache == nil {
		return nil, ErrCacheMiss
	}
	v, ok := cache.Get(key)
	if !ok {
		return nil, ErrCacheMiss
	}
	return Decompress(v.([]byte))
}

func CachePurge() {
	if cache != nil {
		cache.Purge()
	}
}
