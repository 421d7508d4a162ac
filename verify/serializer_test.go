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
	"testing"
)

func TestBuildRowExpr(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    string
	}{
		{
			"no columns",
			nil,
			"''",
		},
		{
			"single column",
			[]string{"id"},
			"CONCAT_WS('#', IFNULL(CAST(`id` AS CHAR), '<<NULL>>'))",
		},
		{
			"multiple columns",
			[]string{"id", "name", "ts"},
			"CONCAT_WS('#', IFNULL(CAST(`id` AS CHAR), '<<NULL>>'), IFNULL(CAST(`name` AS CHAR), '<<NULL>>'), IFNULL(CAST(`ts` AS CHAR), '<<NULL>>'))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildRowExpr(tt.columns); got != tt.want {
				t.Errorf("BuildRowExpr(%v) = %s, want %s", tt.columns, got, tt.want)
			}
		})
	}
}

func TestSerializeRow(t *testing.T) {
	tests := []struct {
		name   string
		values []sql.NullString
		want   string
	}{
		{
			"no values",
			nil,
			"",
		},
		{
			"plain values",
			[]sql.NullString{{String: "1", Valid: true}, {String: "alice", Valid: true}},
			"1#alice",
		},
		{
			"null sentinel",
			[]sql.NullString{{String: "1", Valid: true}, {Valid: false}},
			"1#<<NULL>>",
		},
		{
			"empty string is not null",
			[]sql.NullString{{String: "", Valid: true}},
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeRow(tt.values); got != tt.want {
				t.Errorf("SerializeRow() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSerializeRowDistinguishesNullFromEmpty(t *testing.T) {
	withNull := SerializeRow([]sql.NullString{{String: "1", Valid: true}, {Valid: false}})
	withEmpty := SerializeRow([]sql.NullString{{String: "1", Valid: true}, {String: "", Valid: true}})
	if withNull == withEmpty {
		t.Errorf("NULL and empty string serialized identically: %q", withNull)
	}
	if RowChecksum(withNull) == RowChecksum(withEmpty) {
		t.Errorf("NULL and empty string row checksums collide: %d", RowChecksum(withNull))
	}
}
