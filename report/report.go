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
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/utils/stringutil"
	"github.com/dbvet/dbvet/verify"
)

// Meta identifies one verification run. Connection secrets never enter the
// report, the endpoints appear in host:port/schema form only.
type Meta struct {
	StartTime  string `json:"startTime"`
	FinishTime string `json:"finishTime"`
	Duration   string `json:"duration"`
	Source     string `json:"source"`
	Target     string `json:"target"`
	HashMode   string `json:"hashMode"`
}

// Document is the machine-readable result of a whole verification run.
type Document struct {
	Meta    Meta                  `json:"meta"`
	Summary *verify.RunSummary    `json:"summary"`
	Tables  []*verify.TableResult `json:"tables"`
	Errors  []verify.StageError   `json:"errors"`
}

func EndpointLabel(e *config.Endpoint) string {
	return fmt.Sprintf("%s@%s:%d/%s", e.Username, e.Host, e.Port, e.Schema)
}

// NewDocument assembles the document with tables in name order and the
// run-wide error log collected from every table.
func NewDocument(meta Meta, summary *verify.RunSummary, tables []*verify.TableResult) *Document {
	sorted := make([]*verify.TableResult, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].TableName < sorted[j].TableName })

	errs := []verify.StageError{}
	for _, r := range sorted {
		errs = append(errs, r.Errors...)
	}
	return &Document{Meta: meta, Summary: summary, Tables: sorted, Errors: errs}
}

// Write persists the document as indented JSON.
func (d *Document) Write(path string) error {
	jsonStr, err := stringutil.MarshalIndentJSON(d)
	if err != nil {
		return fmt.Errorf("the report document marshal failed: [%v]", err)
	}
	if err := os.WriteFile(path, []byte(jsonStr), 0o644); err != nil {
		return fmt.Errorf("the report document write file [%s] failed: [%v]", path, err)
	}
	return nil
}

// Render returns the per-table console summary.
func (d *Document) Render() string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"TABLE", "EXIST", "SCHEMA", "INDEX", "ROW COUNT", "CONTENT", "RESULT"})
	for _, r := range d.Tables {
		tw.AppendRow(table.Row{
			r.TableName,
			existCell(r.TargetExist),
			matchCell(r.SchemaMatch),
			matchCell(r.IndexMatch),
			matchCell(r.CountMatch),
			matchCell(r.HashMatch),
			resultCell(r),
		})
	}
	return tw.Render()
}

// Print writes the console summary and the run verdict to stdout.
func (d *Document) Print(outputPath string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("Verify Summary\n")
	fmt.Printf("Source:       %s\n", d.Meta.Source)
	fmt.Printf("Target:       %s\n", d.Meta.Target)
	fmt.Printf("Hash Mode:    %s\n", d.Meta.HashMode)
	fmt.Printf("Duration:     %s\n", d.Meta.Duration)
	fmt.Printf("%s\n", d.Render())

	if len(d.Summary.MissingOnTarget) > 0 {
		fmt.Printf("Missing On Target: %s\n", color.RedString("%v", d.Summary.MissingOnTarget))
	}
	if d.Summary.StageErrors.Load() > 0 {
		fmt.Printf("Stage Errors: %s\n", color.YellowString("%d", d.Summary.StageErrors.Load()))
	}
	if d.Summary.Mismatched() {
		fmt.Printf("Result:       %s\n", color.RedString("MISMATCH"))
	} else {
		fmt.Printf("Result:       %s\n", color.GreenString("MATCH"))
	}
	fmt.Printf("Report:       %s\n", outputPath)
}

func existCell(exist bool) string {
	if exist {
		return "yes"
	}
	return color.RedString("no")
}

func matchCell(m *bool) string {
	if m == nil {
		return "-"
	}
	if *m {
		return color.GreenString("match")
	}
	return color.RedString("mismatch")
}

func resultCell(r *verify.TableResult) string {
	switch {
	case r.Mismatched():
		return color.RedString("MISMATCH")
	case len(r.Errors) > 0:
		return color.YellowString("ERROR")
	default:
		return color.GreenString("MATCH")
	}
}
