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
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/dbvet/dbvet/logger"
	"github.com/dbvet/dbvet/utils/stringutil"
)

const (
	// HashModeOff disables the content check
	HashModeOff = "off"
	// HashModeSample fingerprints a bounded, ordered row sample per table
	HashModeSample = "sample"
	// HashModePKRange fingerprints the full key domain in bounded chunks
	HashModePKRange = "pk-range"
)

var hashModes = []string{HashModeOff, HashModeSample, HashModePKRange}

// Endpoint is one side of the verification, a read-only MySQL connection target.
type Endpoint struct {
	Host           string `toml:"host" json:"host"`
	Port           int    `toml:"port" json:"port"`
	Username       string `toml:"username" json:"username"`
	Password       string `toml:"password" json:"-"`
	Schema         string `toml:"schema" json:"schema"`
	ConnectCharset string `toml:"connect-charset" json:"connectCharset"`
	ConnectParams  string `toml:"connect-params" json:"connectParams"`
}

// VerifyParam controls what gets compared and how.
type VerifyParam struct {
	Tables      []string `toml:"tables" json:"tables"`
	HashMode    string   `toml:"hash-mode" json:"hashMode"`
	SampleLimit int64    `toml:"sample-limit" json:"sampleLimit"`
	HashKey     string   `toml:"hash-key" json:"hashKey"`
	ChunkSize   int64    `toml:"chunk-size" json:"chunkSize"`
	TableThread int      `toml:"table-thread" json:"tableThread"`
	ChunkThread int      `toml:"chunk-thread" json:"chunkThread"`
	CallTimeout int      `toml:"call-timeout" json:"callTimeout"`
	Output      string   `toml:"output" json:"output"`
}

// Config is the configuration for dbvet
type Config struct {
	Source      *Endpoint      `toml:"source" json:"source"`
	Target      *Endpoint      `toml:"target" json:"target"`
	VerifyParam *VerifyParam   `toml:"verify" json:"verify"`
	LogConfig   *logger.Config `toml:"log" json:"log"`
}

func NewConfig() *Config {
	return &Config{
		Source: &Endpoint{Port: 3306},
		Target: &Endpoint{Port: 3306},
		VerifyParam: &VerifyParam{
			HashMode:    HashModeOff,
			SampleLimit: 1000,
			ChunkSize:   200000,
			TableThread: 1,
			ChunkThread: 1,
			Output:      "migration_report.json",
		},
		LogConfig: &logger.Config{
			LogLevel:   "info",
			MaxSize:    128,
			MaxDays:    7,
			MaxBackups: 30,
		},
	}
}

// Parse loads config from file over the defaults and validates the result.
func (c *Config) Parse(file string) error {
	if _, err := toml.DecodeFile(file, c); err != nil {
		return fmt.Errorf("failed decode toml config file %s: %v", file, err)
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	for name, e := range map[string]*Endpoint{"source": c.Source, "target": c.Target} {
		if strings.EqualFold(e.Host, "") {
			return fmt.Errorf("config [%s] parameter [host] is requirement, can not null", name)
		}
		if strings.EqualFold(e.Username, "") {
			return fmt.Errorf("config [%s] parameter [username] is requirement, can not null", name)
		}
		if strings.EqualFold(e.Schema, "") {
			return fmt.Errorf("config [%s] parameter [schema] is requirement, can not null", name)
		}
		if e.Port <= 0 || e.Port > 65535 {
			return fmt.Errorf("config [%s] parameter [port] value [%d] is invalid", name, e.Port)
		}
	}

	v := c.VerifyParam
	if !stringutil.IsContainedString(hashModes, v.HashMode) {
		return fmt.Errorf("config [verify] parameter [hash-mode] value [%s] is invalid, optional values: %v", v.HashMode, hashModes)
	}
	if v.SampleLimit <= 0 {
		return fmt.Errorf("config [verify] parameter [sample-limit] value [%d] is invalid, require > 0", v.SampleLimit)
	}
	if v.ChunkSize <= 0 {
		return fmt.Errorf("config [verify] parameter [chunk-size] value [%d] is invalid, require > 0", v.ChunkSize)
	}
	if v.TableThread <= 0 || v.ChunkThread <= 0 {
		return fmt.Errorf("config [verify] parameter [table-thread] and [chunk-thread] require > 0")
	}
	if v.CallTimeout < 0 {
		return fmt.Errorf("config [verify] parameter [call-timeout] value [%d] is invalid, require >= 0", v.CallTimeout)
	}
	if strings.EqualFold(v.Output, "") {
		return fmt.Errorf("config [verify] parameter [output] is requirement, can not null")
	}
	return nil
}

func (c *Config) String() string {
	jsonStr, _ := stringutil.MarshalJSON(c)
	return jsonStr
}
