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

package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/wealth-meter/wm-api/common"
	"github.com/wealth-meter/wm-api/series"
)

const (
	valuesFile = "values.json"
	fxFile     = "fxrates.json"
)

// JSONFile stores each series as a single JSON document in a directory.
// Appends rewrite the document through a temp file and rename, so readers
// always see a complete series. When the live value series outgrows
// archiveAfter records, the oldest records rotate into an lz4-compressed
// archive next to the live file.
type JSONFile struct {
	dir          string
	archiveAfter int

	mu sync.Mutex
}

// NewJSONFile creates the directory if needed. archiveAfter <= 0 disables
// archive rotation.
func NewJSONFile(dir string, archiveAfter int) (*JSONFile, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("could not create store directory %s: %w", dir, err)
	}
	return &JSONFile{dir: dir, archiveAfter: archiveAfter}, nil
}

func (s *JSONFile) LoadValues(_ context.Context) ([]series.ValueRecord, error) {
	var recs []series.ValueRecord
	if err := s.readDoc(valuesFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *JSONFile) LoadFx(_ context.Context) ([]series.FxRecord, error) {
	var recs []series.FxRecord
	if err := s.readDoc(fxFile, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (s *JSONFile) AppendValue(ctx context.Context, rec series.ValueRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.LoadValues(ctx)
	if err != nil {
		return err
	}
	recs = append(recs, rec)

	if s.archiveAfter > 0 && len(recs) > s.archiveAfter {
		recs, err = s.rotateValues(recs)
		if err != nil {
			return err
		}
	}

	return s.writeDoc(valuesFile, recs)
}

func (s *JSONFile) AppendFx(ctx context.Context, rec series.FxRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recs, err := s.LoadFx(ctx)
	if err != nil {
		return err
	}
	recs = append(recs, rec)
	return s.writeDoc(fxFile, recs)
}

func (s *JSONFile) readDoc(name string, out interface{}) error {
	raw, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			// first run; the series simply doesn't exist yet
			return nil
		}
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrMalformedSeries, name, err)
	}
	return nil
}

func (s *JSONFile) writeDoc(name string, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0640); err != nil {
		return err
	}
	// rename is atomic; readers see the old or the new document, never a mix
	return os.Rename(tmp, path)
}

// rotateValues moves everything but the newest archiveAfter records into a
// compressed archive and returns the surviving live records. The input is
// sorted first so the archive holds the oldest samples.
func (s *JSONFile) rotateValues(recs []series.ValueRecord) ([]series.ValueRecord, error) {
	series.SortValues(recs)

	cut := len(recs) - s.archiveAfter
	aged := recs[:cut]

	raw, err := json.Marshal(aged)
	if err != nil {
		return nil, err
	}
	packed, err := common.Compress(raw)
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("values-%s.json.lz4", aged[len(aged)-1].Time.UTC().Format("20060102T150405Z"))
	if err := os.WriteFile(filepath.Join(s.dir, name), packed, 0640); err != nil {
		return nil, err
	}

	log.Info().Int("Archived", len(aged)).Str("Archive", name).Msg("rotated value series")
	return recs[cut:], nil
}
