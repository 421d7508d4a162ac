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
	"database/sql"
	"hash/crc32"

	"github.com/dbvet/dbvet/utils/stringutil"
)

const (
	// NullToken is the sentinel for SQL NULL inside a serialized row. It cannot
	// arise from a CAST value, so NULL and the literal empty string serialize
	// differently.
	NullToken = "<<NULL>>"
	// ColumnDelimiter joins the column tokens of one row.
	ColumnDelimiter = "#"
)

// BuildRowExpr renders the canonical row serialization as a MySQL expression,
// so serialization and hashing both run inside the engine and raw row data
// never reaches the client. Two rows with identical values in identical column
// order serialize identically, any value difference, NULL included, changes
// the string. A table without columns serializes to the empty string.
func BuildRowExpr(columns []string) string {
	if len(columns) == 0 {
		return "''"
	}
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, stringutil.StringBuilder("IFNULL(CAST(`", c, "` AS CHAR), '", NullToken, "')"))
	}
	return stringutil.StringBuilder("CONCAT_WS('", ColumnDelimiter, "', ", stringutil.StringJoin(parts, ", "), ")")
}

// SerializeRow is the client-side definition of the same serialization,
// the reference BuildRowExpr mirrors into SQL.
func SerializeRow(values []sql.NullString) string {
	if len(values) == 0 {
		return ""
	}
	tokens := make([]string, 0, len(values))
	for _, v := range values {
		if v.Valid {
			tokens = append(tokens, v.String)
		} else {
			tokens = append(tokens, NullToken)
		}
	}
	return stringutil.StringJoin(tokens, ColumnDelimiter)
}

// RowChecksum hashes one serialized row, the same function on both sides of a
// comparison.
func RowChecksum(rowStr string) uint32 {
	return crc32.ChecksumIEEE([]byte(rowStr))
}
