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
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/database"
	"github.com/dbvet/dbvet/logger"
	"github.com/dbvet/dbvet/utils/structure"
)

// Comparator drives the per-table comparison state machine:
// existence -> schema -> index -> row count -> content. A failing stage
// records a StageError and leaves its dimension undecided, the remaining
// stages still run, and no table failure ever aborts a sibling table.
type Comparator struct {
	Source database.IDatabase
	Target database.IDatabase

	HashMode    string
	SampleLimit int64
	HashKey     string
	ChunkSize   int64
	ChunkThread int

	Summary *RunSummary
}

// CompareTable runs every stage against one table and returns the filled
// result. existsOnTarget comes from the run-level catalog diff, a table
// missing on the target short-circuits to an all-mismatch result.
func (c *Comparator) CompareTable(tableName string, existsOnTarget bool) *TableResult {
	result := &TableResult{
		TableName:   tableName,
		TargetExist: existsOnTarget,
		HashMode:    c.HashMode,
		Notes:       []string{},
		Errors:      []StageError{},
	}

	if !existsOnTarget {
		falseVal := false
		result.SchemaMatch = &falseVal
		result.IndexMatch = &falseVal
		result.CountMatch = &falseVal
		result.HashMatch = &falseVal
		result.addNote(fmt.Sprintf("table [%s] does not exist on the target side", tableName))
		c.tally(result)
		return result
	}

	c.compareSchema(result)
	c.compareIndexes(result)
	c.compareRowCount(result)
	c.compareContent(result)

	c.tally(result)

	logger.Info("table compare finished",
		zap.String("table", tableName),
		zap.Bool("mismatched", result.Mismatched()),
		zap.Int("stage_errors", len(result.Errors)))
	return result
}

func (c *Comparator) tally(r *TableResult) {
	if c.Summary == nil {
		return
	}
	if r.SchemaMatch != nil && !*r.SchemaMatch {
		c.Summary.SchemaMismatch.Inc()
	}
	if r.IndexMatch != nil && !*r.IndexMatch {
		c.Summary.IndexMismatch.Inc()
	}
	if r.CountMatch != nil && !*r.CountMatch {
		c.Summary.RowCountMismatch.Inc()
	}
	if r.HashMatch != nil && !*r.HashMatch {
		c.Summary.HashMismatch.Inc()
	}
	c.Summary.StageErrors.Add(int64(len(r.Errors)))
}

func (r *TableResult) stageError(stage string, err error) {
	r.Errors = append(r.Errors, StageError{TableName: r.TableName, Stage: stage, Error: err.Error()})
}

func (c *Comparator) compareSchema(r *TableResult) {
	ddlS, err := c.Source.GetDatabaseTableDDL(r.TableName)
	if err != nil {
		r.stageError(StageSchema, err)
		return
	}
	ddlT, err := c.Target.GetDatabaseTableDDL(r.TableName)
	if err != nil {
		r.stageError(StageSchema, err)
		return
	}

	normS := normalizeDDL(ddlS)
	normT := normalizeDDL(ddlT)
	lenS, lenT := len(normS), len(normT)
	r.DDLCharsS = &lenS
	r.DDLCharsT = &lenT

	match := normS == normT
	r.SchemaMatch = &match
}

func (c *Comparator) compareIndexes(r *TableResult) {
	idxS, err := c.Source.GetDatabaseTableIndexes(r.TableName)
	if err != nil {
		r.stageError(StageIndex, err)
		return
	}
	idxT, err := c.Target.GetDatabaseTableIndexes(r.TableName)
	if err != nil {
		r.stageError(StageIndex, err)
		return
	}

	match := structure.EqualIndexDescriptors(idxS, idxT)
	r.IndexMatch = &match
}

func (c *Comparator) compareRowCount(r *TableResult) {
	countS, err := c.Source.GetDatabaseTableRowCount(r.TableName)
	if err != nil {
		r.stageError(StageRowCount, err)
		return
	}
	countT, err := c.Target.GetDatabaseTableRowCount(r.TableName)
	if err != nil {
		r.stageError(StageRowCount, err)
		return
	}

	r.RowCountS = &countS
	r.RowCountT = &countT
	match := countS == countT
	r.CountMatch = &match
}

func (c *Comparator) compareContent(r *TableResult) {
	switch c.HashMode {
	case config.HashModeOff:
		r.addNote("content verification disabled")
	case config.HashModeSample:
		c.compareSample(r)
	case config.HashModePKRange:
		c.compareChunked(r)
	}
}

// compareSample fingerprints the first SampleLimit rows of both sides under
// the resolved deterministic ordering. The ordering is a catalog-driven
// heuristic: without a key whose order both engines agree on, the sampled
// window is not guaranteed to cover the same rows.
func (c *Comparator) compareSample(r *TableResult) {
	metaS, err := c.loadTableMeta(c.Source, r.TableName)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}
	metaT, err := c.loadTableMeta(c.Target, r.TableName)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}

	fpS, err := c.Source.GetDatabaseTableFingerprint(&structure.FingerprintRequest{
		TableName: r.TableName,
		RowExpr:   BuildRowExpr(metaS.Columns),
		OrderKeys: metaS.OrderKeys(),
		Limit:     c.SampleLimit,
	})
	if err != nil {
		r.stageError(StageContent, err)
		return
	}
	fpT, err := c.Target.GetDatabaseTableFingerprint(&structure.FingerprintRequest{
		TableName: r.TableName,
		RowExpr:   BuildRowExpr(metaT.Columns),
		OrderKeys: metaT.OrderKeys(),
		Limit:     c.SampleLimit,
	})
	if err != nil {
		r.stageError(StageContent, err)
		return
	}

	match := fpS.Equal(*fpT)
	r.HashMatch = &match
	r.Sample = &SampleDetail{Limit: c.SampleLimit, Source: fpS.String(), Target: fpT.String()}
}

// compareChunked partitions the integer key domain into closed ranges and
// fingerprints each range on both sides, localizing any difference to the
// diverging ranges. It requires a single-column key: the configured override
// when set, the table's single-column primary key otherwise.
func (c *Comparator) compareChunked(r *TableResult) {
	keyColumn := c.HashKey
	if keyColumn == "" {
		metaS, err := c.loadTableMeta(c.Source, r.TableName)
		if err != nil {
			r.stageError(StageContent, err)
			return
		}
		pk, ok := metaS.SingleColumnPrimaryKey()
		if !ok {
			r.addNote("pk-range skipped: no single-column primary key")
			return
		}
		keyColumn = pk
	}

	columnsS, err := c.Source.GetDatabaseTableColumns(r.TableName)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}
	columnsT, err := c.Target.GetDatabaseTableColumns(r.TableName)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}

	minS, maxS, okS, err := c.Source.GetDatabaseTableKeyRange(r.TableName, keyColumn)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}
	minT, maxT, okT, err := c.Target.GetDatabaseTableKeyRange(r.TableName, keyColumn)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}

	detail := &ChunkDetail{
		KeyColumn:  keyColumn,
		ChunkSize:  c.ChunkSize,
		SourceMin:  minS,
		SourceMax:  maxS,
		TargetMin:  minT,
		TargetMax:  maxT,
		Mismatches: []ChunkMismatch{},
	}
	r.Chunk = detail

	// both sides empty, nothing to fingerprint
	if !okS && !okT {
		detail.EmptyTable = true
		match := true
		r.HashMatch = &match
		return
	}

	// key domains disagree, the tables cannot hold the same rows
	if okS != okT || minS != minT || maxS != maxT {
		match := false
		r.HashMatch = &match
		r.addNote(fmt.Sprintf("key [%s] range differs: source [%d,%d] target [%d,%d]", keyColumn, minS, maxS, minT, maxT))
		return
	}

	ranges, err := structure.PartitionRanges(minS, maxS, c.ChunkSize)
	if err != nil {
		r.stageError(StageContent, err)
		return
	}
	detail.RangeCount = len(ranges)

	rowExprS := BuildRowExpr(columnsS)
	rowExprT := BuildRowExpr(columnsT)

	var (
		mu         sync.Mutex
		mismatches []ChunkMismatch
		chunkErrs  []error
	)
	g := &errgroup.Group{}
	g.SetLimit(c.chunkParallel())
	for _, rng := range ranges {
		rng := rng
		g.Go(func() error {
			fpS, errS := c.Source.GetDatabaseTableFingerprint(&structure.FingerprintRequest{
				TableName: r.TableName,
				RowExpr:   rowExprS,
				KeyColumn: keyColumn,
				Range:     &rng,
			})
			if errS != nil {
				mu.Lock()
				chunkErrs = append(chunkErrs, errS)
				mu.Unlock()
				return nil
			}
			fpT, errT := c.Target.GetDatabaseTableFingerprint(&structure.FingerprintRequest{
				TableName: r.TableName,
				RowExpr:   rowExprT,
				KeyColumn: keyColumn,
				Range:     &rng,
			})
			if errT != nil {
				mu.Lock()
				chunkErrs = append(chunkErrs, errT)
				mu.Unlock()
				return nil
			}
			if !fpS.Equal(*fpT) {
				mu.Lock()
				mismatches = append(mismatches, ChunkMismatch{Range: rng, Source: *fpS, Target: *fpT})
				mu.Unlock()
			}
			return nil
		})
	}
	// goroutines never return errors, Wait only synchronizes
	_ = g.Wait()

	for _, e := range chunkErrs {
		r.stageError(StageContent, e)
	}
	detail.Mismatches = mismatches

	switch {
	case len(mismatches) > 0:
		// mismatch evidence stands even when other chunks errored
		match := false
		r.HashMatch = &match
	case len(chunkErrs) > 0:
		// undecided, some chunks could not be fingerprinted
	default:
		match := true
		r.HashMatch = &match
	}
}

func (c *Comparator) chunkParallel() int {
	if c.ChunkThread > 0 {
		return c.ChunkThread
	}
	return 1
}

func (c *Comparator) loadTableMeta(db database.IDatabase, tableName string) (*structure.TableMeta, error) {
	columns, err := db.GetDatabaseTableColumns(tableName)
	if err != nil {
		return nil, err
	}
	pk, err := db.GetDatabaseTablePrimaryKey(tableName)
	if err != nil {
		return nil, err
	}
	indexes, err := db.GetDatabaseTableIndexes(tableName)
	if err != nil {
		return nil, err
	}
	return &structure.TableMeta{
		SchemaName: db.SchemaName(),
		TableName:  tableName,
		Columns:    columns,
		PrimaryKey: pk,
		Indexes:    indexes,
	}, nil
}

// normalizeDDL strips trailing whitespace per line and surrounding whitespace,
// so formatting-only differences between server versions do not register as
// schema mismatches while any token difference still does.
func normalizeDDL(ddl string) string {
	lines := strings.Split(ddl, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
