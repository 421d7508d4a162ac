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
package mysql

import (
	"testing"

	"github.com/dbvet/dbvet/utils/structure"
)

func TestBuildFingerprintQuery(t *testing.T) {
	tests := []struct {
		name string
		req  *structure.FingerprintRequest
		want string
	}{
		{
			"whole table",
			&structure.FingerprintRequest{TableName: "t1", RowExpr: "CONCAT_WS('#', IFNULL(CAST(`c1` AS CHAR), '<<NULL>>'))"},
			"SELECT COUNT(*) AS ROW_COUNT, COALESCE(SUM(CRC32(ROW_STR)), 0) AS CRC_SUM, COALESCE(BIT_XOR(CRC32(ROW_STR)), 0) AS CRC_XOR FROM (SELECT CONCAT_WS('#', IFNULL(CAST(`c1` AS CHAR), '<<NULL>>')) AS ROW_STR FROM `t1` t) x",
		},
		{
			"key range chunk",
			&structure.FingerprintRequest{
				TableName: "t1",
				RowExpr:   "''",
				KeyColumn: "id",
				Range:     &structure.Range{Start: 3, End: 4},
			},
			"SELECT COUNT(*) AS ROW_COUNT, COALESCE(SUM(CRC32(ROW_STR)), 0) AS CRC_SUM, COALESCE(BIT_XOR(CRC32(ROW_STR)), 0) AS CRC_XOR FROM (SELECT '' AS ROW_STR FROM `t1` t WHERE `id` BETWEEN 3 AND 4) x",
		},
		{
			"ordered sample",
			&structure.FingerprintRequest{
				TableName: "t1",
				RowExpr:   "''",
				OrderKeys: []string{"id", "ts"},
				Limit:     1000,
			},
			"SELECT COUNT(*) AS ROW_COUNT, COALESCE(SUM(CRC32(ROW_STR)), 0) AS CRC_SUM, COALESCE(BIT_XOR(CRC32(ROW_STR)), 0) AS CRC_XOR FROM (SELECT '' AS ROW_STR FROM `t1` t ORDER BY `id`, `ts` LIMIT 1000) x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := buildFingerprintQuery(tt.req); got != tt.want {
				t.Errorf("buildFingerprintQuery() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
