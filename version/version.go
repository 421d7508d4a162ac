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
package version

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dbvet/dbvet/logger"
)

// Version information, overridden at build time via -ldflags.
var (
	Version   = "None"
	GitCommit = "None"
	BuildTS   = "None"
	GoVersion = "None"
)

// GetRawVersionInfo do what its name tells
func GetRawVersionInfo() string {
	return fmt.Sprintf("Release Version: %s\nGit Commit: %s\nUTC Build Time: %s\nGo Version: %s", Version, GitCommit, BuildTS, GoVersion)
}

// RecordAppVersion logs the app version and the effective configuration.
func RecordAppVersion(app string, config string) {
	logger.Info("Welcome to "+app,
		zap.String("Release Version", Version),
		zap.String("Git Commit", GitCommit),
		zap.String("UTC Build Time", BuildTS),
		zap.String("Go Version", GoVersion))
	logger.Info(app+" config", zap.String("config", config))
}
