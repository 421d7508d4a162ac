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
package structure

import (
	"sort"
	"strings"

	"github.com/dbvet/dbvet/utils/stringutil"
)

// IndexDescriptor represents one column position of one index, the shape of an
// information_schema.statistics row.
type IndexDescriptor struct {
	IndexName  string `json:"indexName"`
	NonUnique  int    `json:"nonUnique"`
	SeqInIndex int    `json:"seqInIndex"`
	ColumnName string `json:"columnName"`
	Collation  string `json:"collation"`
	SubPart    string `json:"subPart"`
	// Nullable is "YES" when the indexed column may contain NULL. It participates
	// in order-key resolution, not in index equality.
	Nullable string `json:"nullable"`
}

// SortIndexDescriptors sorts by (index name, seq in index), the canonical order
// for index set comparison. The catalog query already orders this way, the sort
// is kept explicit so equality never depends on server-side ordering.
type SortIndexDescriptors []IndexDescriptor

func (s SortIndexDescriptors) Len() int {
	return len(s)
}

func (s SortIndexDescriptors) Swap(i, j int) {
	s[i], s[j] = s[j], s[i]
}

func (s SortIndexDescriptors) Less(i, j int) bool {
	if s[i].IndexName != s[j].IndexName {
		return s[i].IndexName < s[j].IndexName
	}
	return s[i].SeqInIndex < s[j].SeqInIndex
}

// EqualDescriptor reports whether two descriptors agree on the six compared
// fields (name, uniqueness, position, column, collation, prefix length).
func (d IndexDescriptor) EqualDescriptor(o IndexDescriptor) bool {
	return d.IndexName == o.IndexName &&
		d.NonUnique == o.NonUnique &&
		d.SeqInIndex == o.SeqInIndex &&
		d.ColumnName == o.ColumnName &&
		d.Collation == o.Collation &&
		d.SubPart == o.SubPart
}

func (d IndexDescriptor) String() string {
	jsonStr, _ := stringutil.MarshalJSON(d)
	return jsonStr
}

// TableMeta carries the catalog metadata of one table used by the verification
// engine: column names in ordinal order, primary key columns in key-position
// order, and the full ordered index descriptor sequence.
type TableMeta struct {
	SchemaName string            `json:"schemaName"`
	TableName  string            `json:"tableName"`
	Columns    []string          `json:"columns"`
	PrimaryKey []string          `json:"primaryKey"`
	Indexes    []IndexDescriptor `json:"indexes"`
}

// SingleColumnPrimaryKey returns the primary key column when the table has
// exactly one, the supported key shape for range-chunked verification.
// Composite primary keys are reported as no key.
func (m *TableMeta) SingleColumnPrimaryKey() (string, bool) {
	if len(m.PrimaryKey) == 1 {
		return m.PrimaryKey[0], true
	}
	return "", false
}

// OrderKeys resolves the columns used to impose a deterministic row ordering.
// Priority: primary key columns in key-position order, then the columns of the
// first (by index name) unique index whose columns are all non-nullable, then
// the first column in natural order. A table without columns resolves to nil.
// The resolution only consults catalog metadata, never live data, so two
// catalogs that agree resolve to the same key.
func (m *TableMeta) OrderKeys() []string {
	if len(m.PrimaryKey) > 0 {
		return m.PrimaryKey
	}

	for _, name := range m.uniqueIndexNames() {
		var (
			columns  []string
			nullable bool
		)
		for _, d := range m.Indexes {
			if d.IndexName != name {
				continue
			}
			if strings.EqualFold(d.Nullable, "YES") {
				nullable = true
				break
			}
			columns = append(columns, d.ColumnName)
		}
		if !nullable && len(columns) > 0 {
			return columns
		}
	}

	if len(m.Columns) > 0 {
		return m.Columns[:1]
	}
	return nil
}

// EqualIndexDescriptors reports whether two index sets are element-wise equal
// after both are explicitly sorted into canonical (index name, seq) order. Any
// difference, including a pure ordering difference of equal-length prefixes,
// is a mismatch.
func EqualIndexDescriptors(source, target []IndexDescriptor) bool {
	if len(source) != len(target) {
		return false
	}
	sortS := make(SortIndexDescriptors, len(source))
	sortT := make(SortIndexDescriptors, len(target))
	copy(sortS, source)
	copy(sortT, target)
	sort.Sort(sortS)
	sort.Sort(sortT)

	for i := range sortS {
		if !sortS[i].EqualDescriptor(sortT[i]) {
			return false
		}
	}
	return true
}

// uniqueIndexNames returns the names of unique indexes in ascending name order,
// relying on the Indexes sequence being sorted by (index name, seq in index).
func (m *TableMeta) uniqueIndexNames() []string {
	var names []string
	for _, d := range m.Indexes {
		if d.NonUnique != 0 {
			continue
		}
		if !stringutil.IsContainedString(names, d.IndexName) {
			names = append(names, d.IndexName)
		}
	}
	return names
}
