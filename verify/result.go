/*
Copyright © 2020 Marvin

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package verify

import (
	"go.uber.org/atomic"

	"github.com/dbvet/dbvet/utils/structure"
)

// Stage names of the per-table state machine.
const (
	StageExistence = "existence"
	StageSchema    = "schema"
	StageIndex     = "index"
	StageRowCount  = "row-count"
	StageContent   = "content"
)

// StageError records one failed comparison stage of one table. Stage errors
// never propagate past the table boundary, the affected dimension stays unset.
type StageError struct {
	TableName string `json:"tableName"`
	Stage     string `json:"stage"`
	Error     string `json:"error"`
}

// ChunkMismatch localizes one diverging key range with both fingerprints.
type ChunkMismatch struct {
	Range  structure.Range       `json:"range"`
	Source structure.Fingerprint `json:"source"`
	Target structure.Fingerprint `json:"target"`
}

// SampleDetail carries the sample-mode fingerprints of both sides.
type SampleDetail struct {
	Limit  int64  `json:"limit"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// ChunkDetail carries the chunked-mode outcome: the key used, the partition
// shape and every diverging range.
type ChunkDetail struct {
	KeyColumn  string          `json:"keyColumn"`
	ChunkSize  int64           `json:"chunkSize"`
	RangeCount int             `json:"rangeCount"`
	EmptyTable bool            `json:"emptyTable"`
	SourceMin  int64           `json:"sourceMin"`
	SourceMax  int64           `json:"sourceMax"`
	TargetMin  int64           `json:"targetMin"`
	TargetMax  int64           `json:"targetMax"`
	Mismatches []ChunkMismatch `json:"mismatches"`
}

// TableResult is the comparison outcome of one table. Match flags are
// tri-state: nil means the dimension was never decided, either because the
// stage errored or was skipped, which is distinct from an explicit mismatch.
type TableResult struct {
	TableName   string        `json:"tableName"`
	TargetExist bool          `json:"targetExist"`
	SchemaMatch *bool         `json:"schemaMatch"`
	DDLCharsS   *int          `json:"ddlCharsSource"`
	DDLCharsT   *int          `json:"ddlCharsTarget"`
	IndexMatch  *bool         `json:"indexMatch"`
	CountMatch  *bool         `json:"rowCountMatch"`
	RowCountS   *int64        `json:"rowCountSource"`
	RowCountT   *int64        `json:"rowCountTarget"`
	HashMode    string        `json:"hashMode"`
	HashMatch   *bool         `json:"hashMatch"`
	Sample      *SampleDetail `json:"sample,omitempty"`
	Chunk       *ChunkDetail  `json:"chunk,omitempty"`
	Notes       []string      `json:"notes"`
	Errors      []StageError  `json:"errors"`
}

func (r *TableResult) addNote(note string) {
	r.Notes = append(r.Notes, note)
}

// Mismatched reports whether any decided dimension found a difference.
func (r *TableResult) Mismatched() bool {
	for _, m := range []*bool{r.SchemaMatch, r.IndexMatch, r.CountMatch, r.HashMatch} {
		if m != nil && !*m {
			return true
		}
	}
	return false
}

// RunSummary aggregates the whole run. The counters are atomics so table
// comparisons may run in parallel while the summary stays a single exclusively
// owned value.
type RunSummary struct {
	TablesSource     int           `json:"tablesSource"`
	TablesTarget     int           `json:"tablesTarget"`
	MissingOnTarget  []string      `json:"missingOnTarget"`
	SchemaMismatch   *atomic.Int64 `json:"schemaMismatchTables"`
	IndexMismatch    *atomic.Int64 `json:"indexMismatchTables"`
	RowCountMismatch *atomic.Int64 `json:"rowCountMismatchTables"`
	HashMismatch     *atomic.Int64 `json:"hashMismatchTables"`
	StageErrors      *atomic.Int64 `json:"stageErrors"`
}

func NewRunSummary() *RunSummary {
	return &RunSummary{
		MissingOnTarget:  []string{},
		SchemaMismatch:   atomic.NewInt64(0),
		IndexMismatch:    atomic.NewInt64(0),
		RowCountMismatch: atomic.NewInt64(0),
		HashMismatch:     atomic.NewInt64(0),
		StageErrors:      atomic.NewInt64(0),
	}
}

// Mismatched reports whether the run found any substantive difference,
// a missing table included. Stage errors alone do not count.
func (s *RunSummary) Mismatched() bool {
	return len(s.MissingOnTarget) > 0 ||
		s.SchemaMismatch.Load() > 0 ||
		s.IndexMismatch.Load() > 0 ||
		s.RowCountMismatch.Load() > 0 ||
		s.HashMismatch.Load() > 0
}
