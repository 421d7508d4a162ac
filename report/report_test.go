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
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/verify"
)

func sampleDocument() *Document {
	matched, mismatched := true, false
	summary := verify.NewRunSummary()
	summary.TablesSource = 2
	summary.TablesTarget = 2
	summary.HashMismatch.Inc()

	tables := []*verify.TableResult{
		{
			TableName:   "users",
			TargetExist: true,
			SchemaMatch: &matched,
			IndexMatch:  &matched,
			CountMatch:  &matched,
			HashMatch:   &mismatched,
			HashMode:    config.HashModePKRange,
			Notes:       []string{},
			Errors:      []verify.StageError{},
		},
		{
			TableName:   "accounts",
			TargetExist: true,
			SchemaMatch: &matched,
			IndexMatch:  &matched,
			CountMatch:  &matched,
			HashMatch:   &matched,
			HashMode:    config.HashModePKRange,
			Notes:       []string{},
			Errors:      []verify.StageError{},
		},
	}

	return NewDocument(Meta{
		StartTime:  "2024-01-01 00:00:00",
		FinishTime: "2024-01-01 00:01:00",
		Duration:   "1m0s",
		Source:     "10.0.0.1:3306/app",
		Target:     "10.0.0.2:3306/app",
		HashMode:   config.HashModePKRange,
	}, summary, tables)
}

func TestNewDocumentOrdersTables(t *testing.T) {
	doc := sampleDocument()
	if doc.Tables[0].TableName != "accounts" || doc.Tables[1].TableName != "users" {
		t.Errorf("tables not in name order: %s, %s", doc.Tables[0].TableName, doc.Tables[1].TableName)
	}
}

func TestRender(t *testing.T) {
	color.NoColor = true
	doc := sampleDocument()

	out := doc.Render()
	for _, want := range []string{"TABLE", "users", "accounts", "MISMATCH", "MATCH"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered summary missing %q:\n%s", want, out)
		}
	}
}

func TestWrite(t *testing.T) {
	doc := sampleDocument()
	path := filepath.Join(t.TempDir(), "report.json")

	if err := doc.Write(path); err != nil {
		t.Fatalf("Write() = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("report is not valid JSON: %v", err)
	}
	for _, key := range []string{"meta", "summary", "tables", "errors"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("report missing key %q", key)
		}
	}
}

func TestEndpointLabelOmitsCredentials(t *testing.T) {
	label := EndpointLabel(&config.Endpoint{
		Host: "db1", Port: 3306, Username: "root", Password: "secret", Schema: "app",
	})
	if label != "root@db1:3306/app" {
		t.Errorf("EndpointLabel() = %s, want root@db1:3306/app", label)
	}
	if strings.Contains(label, "secret") {
		t.Error("endpoint label leaks the password")
	}
}
