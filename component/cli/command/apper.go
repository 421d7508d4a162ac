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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dbvet/dbvet/version"
)

type App struct {
	ConfigFile string
	Version    bool

	// ExitSignal is the process exit code of the last executed run:
	// 0 clean, 1 mismatch found, 2 fatal.
	ExitSignal int
}

func (a *App) Cmd() *cobra.Command {
	c := &cobra.Command{
		Use:              "dbvet",
		Short:            "CLI dbvet app for mysql migration verification",
		Long:             `dbvet verifies that two MySQL schemas hold the same tables, structures and data after a migration`,
		RunE:             a.RunE,
		TraverseChildren: true,
		SilenceUsage:     true,
	}
	c.PersistentFlags().StringVarP(&a.ConfigFile, "config", "c", "config.toml", "config file path")
	c.Flags().BoolVarP(&a.Version, "version", "v", false, "version for app client")
	return c
}

func (a *App) RunE(cmd *cobra.Command, args []string) error {
	if a.Version {
		fmt.Println(version.GetRawVersionInfo())
		return nil
	}
	if err := cmd.Help(); err != nil {
		return err
	}
	return nil
}
