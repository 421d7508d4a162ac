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
package main

import (
	"os"

	"github.com/dbvet/dbvet/component/cli/command"
	"github.com/dbvet/dbvet/logger"
	"github.com/dbvet/dbvet/service"
)

func main() {
	app := &command.App{}

	rootCmd := app.Cmd()
	rootCmd.AddCommand(app.AppVerify().Cmd())

	if err := rootCmd.Execute(); err != nil {
		_ = logger.Sync()
		if app.ExitSignal == service.SignalFatal || app.ExitSignal == service.SignalClean {
			os.Exit(service.SignalFatal)
		}
		os.Exit(app.ExitSignal)
	}

	_ = logger.Sync()
	os.Exit(app.ExitSignal)
}
