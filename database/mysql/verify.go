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
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dbvet/dbvet/utils/stringutil"
	"github.com/dbvet/dbvet/utils/structure"
)

func (d *Database) GetDatabaseTables() ([]string, error) {
	_, res, err := d.GeneralQuery(`SELECT
		TABLE_NAME
	FROM
		INFORMATION_SCHEMA.TABLES
	WHERE
		TABLE_SCHEMA = ?
		AND TABLE_TYPE = 'BASE TABLE'
	ORDER BY TABLE_NAME`, d.schemaName)
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] get tables failed: [%v]", d.schemaName, err)
	}
	var tables []string
	for _, r := range res {
		tables = append(tables, r["TABLE_NAME"])
	}
	return tables, nil
}

func (d *Database) GetDatabaseTableColumns(tableName string) ([]string, error) {
	_, res, err := d.GeneralQuery(`SELECT
		COLUMN_NAME
	FROM
		INFORMATION_SCHEMA.COLUMNS
	WHERE
		TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
	ORDER BY ORDINAL_POSITION`, d.schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] get columns failed: [%v]", d.schemaName, tableName, err)
	}
	var columns []string
	for _, r := range res {
		columns = append(columns, r["COLUMN_NAME"])
	}
	return columns, nil
}

func (d *Database) GetDatabaseTableIndexes(tableName string) ([]structure.IndexDescriptor, error) {
	rows, err := d.QueryContext(`SELECT
		INDEX_NAME,
		NON_UNIQUE,
		SEQ_IN_INDEX,
		COLUMN_NAME,
		COLLATION,
		SUB_PART,
		NULLABLE
	FROM
		INFORMATION_SCHEMA.STATISTICS
	WHERE
		TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
	ORDER BY INDEX_NAME, SEQ_IN_INDEX`, d.schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] get indexes failed: [%v]", d.schemaName, tableName, err)
	}
	defer rows.Close()

	var descriptors []structure.IndexDescriptor
	for rows.Next() {
		var (
			desc      structure.IndexDescriptor
			collation sql.NullString
			subPart   sql.NullString
			nullable  sql.NullString
		)
		if err := rows.Scan(&desc.IndexName, &desc.NonUnique, &desc.SeqInIndex, &desc.ColumnName, &collation, &subPart, &nullable); err != nil {
			return nil, fmt.Errorf("the database schema [%s] table [%s] scan indexes failed: [%v]", d.schemaName, tableName, err)
		}
		desc.Collation = collation.String
		desc.SubPart = subPart.String
		desc.Nullable = nullable.String
		descriptors = append(descriptors, desc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] iterate indexes failed: [%v]", d.schemaName, tableName, err)
	}
	return descriptors, nil
}

func (d *Database) GetDatabaseTablePrimaryKey(tableName string) ([]string, error) {
	_, res, err := d.GeneralQuery(`SELECT
		COLUMN_NAME
	FROM
		INFORMATION_SCHEMA.KEY_COLUMN_USAGE
	WHERE
		TABLE_SCHEMA = ?
		AND TABLE_NAME = ?
		AND CONSTRAINT_NAME = 'PRIMARY'
	ORDER BY ORDINAL_POSITION`, d.schemaName, tableName)
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] get primary key failed: [%v]", d.schemaName, tableName, err)
	}
	var pkColumns []string
	for _, r := range res {
		pkColumns = append(pkColumns, r["COLUMN_NAME"])
	}
	return pkColumns, nil
}

func (d *Database) GetDatabaseTableDDL(tableName string) (string, error) {
	rows, err := d.QueryContext(stringutil.StringBuilder("SHOW CREATE TABLE `", tableName, "`"))
	if err != nil {
		return "", fmt.Errorf("the database schema [%s] table [%s] show create table failed: [%v]", d.schemaName, tableName, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("the database schema [%s] table [%s] show create table failed: [%v]", d.schemaName, tableName, err)
		}
		return "", fmt.Errorf("the database schema [%s] table [%s] show create table returned no row", d.schemaName, tableName)
	}
	// row = (Table, Create Table)
	var name, ddl string
	if err := rows.Scan(&name, &ddl); err != nil {
		return "", fmt.Errorf("the database schema [%s] table [%s] scan create table failed: [%v]", d.schemaName, tableName, err)
	}
	return ddl, nil
}

func (d *Database) GetDatabaseTableRowCount(tableName string) (int64, error) {
	var rowCount int64
	err := d.DBConn.QueryRowContext(d.Ctx, stringutil.StringBuilder("SELECT COUNT(*) FROM `", tableName, "`")).Scan(&rowCount)
	if err != nil {
		return 0, fmt.Errorf("the database schema [%s] table [%s] count rows failed: [%v]", d.schemaName, tableName, err)
	}
	return rowCount, nil
}

func (d *Database) GetDatabaseTableKeyRange(tableName, keyColumn string) (int64, int64, bool, error) {
	var minVal, maxVal sql.NullInt64
	query := stringutil.StringBuilder("SELECT MIN(`", keyColumn, "`), MAX(`", keyColumn, "`) FROM `", tableName, "`")
	err := d.DBConn.QueryRowContext(d.Ctx, query).Scan(&minVal, &maxVal)
	if err != nil {
		return 0, 0, false, fmt.Errorf("the database schema [%s] table [%s] get key [%s] range failed: [%v]", d.schemaName, tableName, keyColumn, err)
	}
	if !minVal.Valid || !maxVal.Valid {
		// empty table
		return 0, 0, false, nil
	}
	return minVal.Int64, maxVal.Int64, true, nil
}

// GetDatabaseTableFingerprint pushes the row serialization and the checksum
// aggregation into the MySQL engine. The inner select materializes nothing on
// the client, only the (count, crc sum, crc xor) aggregate row comes back.
func (d *Database) GetDatabaseTableFingerprint(req *structure.FingerprintRequest) (*structure.Fingerprint, error) {
	querySQL := buildFingerprintQuery(req)

	ctx := d.Ctx
	if d.callTimeout > 0 {
		deadline := time.Now().Add(time.Duration(d.callTimeout) * time.Second)
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(d.Ctx, deadline)
		defer cancel()
	}

	var (
		rowCount int64
		crcSum   []byte
		crcXor   []byte
	)
	if err := d.DBConn.QueryRowContext(ctx, querySQL).Scan(&rowCount, &crcSum, &crcXor); err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] fingerprint query failed, sql: [%v], error: [%v]", d.schemaName, req.TableName, querySQL, err)
	}

	fp := &structure.Fingerprint{RowCount: rowCount}

	// SUM over CRC32 values exceeds 32 bits, MySQL returns it as a DECIMAL.
	// Reduce mod 2^32 so both sides store the same uint32 additive hash.
	sumDec, err := decimal.NewFromString(stringutil.BytesToString(crcSum))
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] fingerprint crc sum [%s] parse failed: [%v]", d.schemaName, req.TableName, crcSum, err)
	}
	fp.CrcSum = uint32(sumDec.Mod(decimal.NewFromInt(1 << 32)).BigInt().Uint64())

	xorVal, err := strconv.ParseUint(stringutil.BytesToString(crcXor), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("the database schema [%s] table [%s] fingerprint crc xor [%s] parse failed: [%v]", d.schemaName, req.TableName, crcXor, err)
	}
	fp.CrcXor = uint32(xorVal)

	return fp, nil
}

func buildFingerprintQuery(req *structure.FingerprintRequest) string {
	var (
		whereSQL string
		orderSQL string
		limitSQL string
	)
	if req.Range != nil {
		whereSQL = stringutil.StringBuilder(" WHERE ", req.Range.Condition(req.KeyColumn))
	}
	if len(req.OrderKeys) > 0 {
		quoted := make([]string, 0, len(req.OrderKeys))
		for _, c := range req.OrderKeys {
			quoted = append(quoted, stringutil.StringBuilder("`", c, "`"))
		}
		orderSQL = stringutil.StringBuilder(" ORDER BY ", stringutil.StringJoin(quoted, ", "))
	}
	if req.Limit > 0 {
		limitSQL = stringutil.StringBuilder(" LIMIT ", strconv.FormatInt(req.Limit, 10))
	}

	return stringutil.StringBuilder(
		"SELECT COUNT(*) AS ROW_COUNT, COALESCE(SUM(CRC32(ROW_STR)), 0) AS CRC_SUM, COALESCE(BIT_XOR(CRC32(ROW_STR)), 0) AS CRC_XOR FROM (SELECT ",
		req.RowExpr, " AS ROW_STR FROM `", req.TableName, "` t", whereSQL, orderSQL, limitSQL, ") x")
}
