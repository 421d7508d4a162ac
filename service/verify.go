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
package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/database"
	"github.com/dbvet/dbvet/errconcurrent"
	"github.com/dbvet/dbvet/logger"
	"github.com/dbvet/dbvet/report"
	"github.com/dbvet/dbvet/verify"
)

// Exit signals of one verification run.
const (
	SignalClean    = 0
	SignalMismatch = 1
	SignalFatal    = 2
)

// RunVerify executes one whole verification run and returns the exit signal.
// Fatal conditions, the run cannot compare anything at all, come back with
// SignalFatal and the error. Per-table failures never surface here, they are
// recorded in the report as stage errors.
func RunVerify(ctx context.Context, cfg *config.Config) (int, error) {
	startTime := time.Now()

	sourceDB, err := database.OpenDatabase(ctx, cfg.Source, cfg.VerifyParam.CallTimeout)
	if err != nil {
		return SignalFatal, fmt.Errorf("connect source database failed: %v", err)
	}
	defer sourceDB.Close()

	targetDB, err := database.OpenDatabase(ctx, cfg.Target, cfg.VerifyParam.CallTimeout)
	if err != nil {
		return SignalFatal, fmt.Errorf("connect target database failed: %v", err)
	}
	defer targetDB.Close()

	tables := cfg.VerifyParam.Tables
	if len(tables) == 0 {
		tables, err = sourceDB.GetDatabaseTables()
		if err != nil {
			return SignalFatal, fmt.Errorf("list source tables failed: %v", err)
		}
	}
	targetTables, err := targetDB.GetDatabaseTables()
	if err != nil {
		return SignalFatal, fmt.Errorf("list target tables failed: %v", err)
	}

	targetSet := make(map[string]struct{}, len(targetTables))
	for _, t := range targetTables {
		targetSet[t] = struct{}{}
	}

	summary := verify.NewRunSummary()
	summary.TablesSource = len(tables)
	summary.TablesTarget = len(targetTables)
	for _, t := range tables {
		if _, ok := targetSet[t]; !ok {
			summary.MissingOnTarget = append(summary.MissingOnTarget, t)
		}
	}

	logger.Info("verify run starting",
		zap.String("source", report.EndpointLabel(cfg.Source)),
		zap.String("target", report.EndpointLabel(cfg.Target)),
		zap.String("hash_mode", cfg.VerifyParam.HashMode),
		zap.Int("tables", len(tables)),
		zap.Strings("missing_on_target", summary.MissingOnTarget))

	comparator := &verify.Comparator{
		Source:      sourceDB,
		Target:      targetDB,
		HashMode:    cfg.VerifyParam.HashMode,
		SampleLimit: cfg.VerifyParam.SampleLimit,
		HashKey:     cfg.VerifyParam.HashKey,
		ChunkSize:   cfg.VerifyParam.ChunkSize,
		ChunkThread: cfg.VerifyParam.ChunkThread,
		Summary:     summary,
	}

	results := make([]*verify.TableResult, len(tables))
	g := errconcurrent.NewGroup()
	g.SetLimit(cfg.VerifyParam.TableThread)
	for i, t := range tables {
		i := i
		g.Go(t, func(t string) error {
			_, exists := targetSet[t]
			results[i] = comparator.CompareTable(t, exists)
			return nil
		})
	}
	for _, r := range g.Wait() {
		logger.Info("table task finished", zap.String("table", r.Table), zap.Duration("duration", r.Duration))
	}

	finishTime := time.Now()
	doc := report.NewDocument(report.Meta{
		StartTime:  startTime.Format("2006-01-02 15:04:05"),
		FinishTime: finishTime.Format("2006-01-02 15:04:05"),
		Duration:   finishTime.Sub(startTime).String(),
		Source:     report.EndpointLabel(cfg.Source),
		Target:     report.EndpointLabel(cfg.Target),
		HashMode:   cfg.VerifyParam.HashMode,
	}, summary, results)

	if err := doc.Write(cfg.VerifyParam.Output); err != nil {
		return SignalFatal, err
	}
	doc.Print(cfg.VerifyParam.Output)

	logger.Info("verify run finished",
		zap.Bool("mismatched", summary.Mismatched()),
		zap.Int64("stage_errors", summary.StageErrors.Load()),
		zap.Duration("duration", finishTime.Sub(startTime)))

	if summary.Mismatched() {
		return SignalMismatch, nil
	}
	return SignalClean, nil
}
