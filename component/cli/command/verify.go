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
package command

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dbvet/dbvet/component"
	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/logger"
	"github.com/dbvet/dbvet/service"
	"github.com/dbvet/dbvet/signal"
	"github.com/dbvet/dbvet/utils/stringutil"
	"github.com/dbvet/dbvet/version"
)

type AppVerify struct {
	*App
	tables   string
	hashMode string
	output   string
}

func (a *App) AppVerify() component.Cmder {
	return &AppVerify{App: a}
}

func (a *AppVerify) Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:              "verify",
		Short:            "verify schema and data consistency between source and target",
		Long:             `verify schema and data consistency between source and target`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	cmd.Flags().StringVarP(&a.tables, "tables", "t", "", "comma separated table names, default verifies every source table")
	cmd.Flags().StringVarP(&a.hashMode, "hash-mode", "m", "", "content check mode, optional values: off, sample, pk-range")
	cmd.Flags().StringVarP(&a.output, "output", "o", "", "report output file path")
	return cmd
}

func (a *AppVerify) RunE(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	if err := cfg.Parse(a.ConfigFile); err != nil {
		a.ExitSignal = service.SignalFatal
		return err
	}

	// flag overrides over the config file
	if !strings.EqualFold(a.tables, "") {
		cfg.VerifyParam.Tables = stringutil.StringSplit(a.tables, ",")
	}
	if !strings.EqualFold(a.hashMode, "") {
		cfg.VerifyParam.HashMode = a.hashMode
	}
	if !strings.EqualFold(a.output, "") {
		cfg.VerifyParam.Output = a.output
	}
	if err := cfg.Validate(); err != nil {
		a.ExitSignal = service.SignalFatal
		return err
	}

	logger.NewRootLogger(cfg.LogConfig)
	version.RecordAppVersion("dbvet", cfg.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	signal.SetupSignalHandler(func() {
		cancel()
	})

	sig, err := service.RunVerify(ctx, cfg)
	a.ExitSignal = sig
	if err != nil {
		logger.Error("verify run failed", zap.Error(err))
		return err
	}
	return nil
}
