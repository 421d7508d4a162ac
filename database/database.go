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
package database

import (
	"context"

	"github.com/dbvet/dbvet/config"
	"github.com/dbvet/dbvet/database/mysql"
	"github.com/dbvet/dbvet/utils/structure"
)

// IDatabase is the read-only surface the verification engine consumes:
// a catalog reader plus an aggregating row source over one schema.
type IDatabase interface {
	// SchemaName returns the schema this session verifies.
	SchemaName() string
	// GetDatabaseTables returns the base table names of the schema in name order.
	GetDatabaseTables() ([]string, error)
	// GetDatabaseTableColumns returns column names in ordinal order.
	GetDatabaseTableColumns(tableName string) ([]string, error)
	// GetDatabaseTableIndexes returns the full index descriptor rows ordered by
	// (index name, seq in index).
	GetDatabaseTableIndexes(tableName string) ([]structure.IndexDescriptor, error)
	// GetDatabaseTablePrimaryKey returns primary key column names in key-position order.
	GetDatabaseTablePrimaryKey(tableName string) ([]string, error)
	// GetDatabaseTableDDL returns the verbatim structural definition of the table.
	GetDatabaseTableDDL(tableName string) (string, error)
	// GetDatabaseTableRowCount returns the exact row count.
	GetDatabaseTableRowCount(tableName string) (int64, error)
	// GetDatabaseTableKeyRange returns the min/max value of an integer key column.
	// ok is false when the table holds no rows.
	GetDatabaseTableKeyRange(tableName, keyColumn string) (min int64, max int64, ok bool, err error)
	// GetDatabaseTableFingerprint computes the content fingerprint of the
	// requested row source inside the database engine. Only pre-hashed aggregate
	// statistics ever leave the engine, never raw row data.
	GetDatabaseTableFingerprint(req *structure.FingerprintRequest) (*structure.Fingerprint, error)
	Close() error
}

// OpenDatabase creates a live session for the endpoint. The caller owns teardown.
func OpenDatabase(ctx context.Context, endpoint *config.Endpoint, callTimeout int) (IDatabase, error) {
	return mysql.NewDatabase(ctx, endpoint, callTimeout)
}
