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
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/dbvet/dbvet/config"
)

const (
	MYSQLDatabaseMaxIdleConn     = 8
	MYSQLDatabaseMaxConn         = 32
	MYSQLDatabaseConnMaxLifeTime = 300 * time.Second
	MYSQLDatabaseConnMaxIdleTime = 200 * time.Second
)

type Database struct {
	Ctx         context.Context
	DBConn      *sql.DB
	schemaName  string
	callTimeout int // seconds per fingerprint query, 0 disables the deadline
}

func NewDatabase(ctx context.Context, endpoint *config.Endpoint, callTimeout int) (*Database, error) {
	connParams := endpoint.ConnectParams
	if !strings.EqualFold(endpoint.ConnectCharset, "") {
		connParams = fmt.Sprintf("charset=%s&%s", strings.ToLower(endpoint.ConnectCharset), connParams)
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		endpoint.Username, endpoint.Password, endpoint.Host, endpoint.Port, endpoint.Schema, connParams)

	mysqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error on open mysql database connection [%s:%d]: %v", endpoint.Host, endpoint.Port, err)
	}

	mysqlDB.SetMaxIdleConns(MYSQLDatabaseMaxIdleConn)
	mysqlDB.SetMaxOpenConns(MYSQLDatabaseMaxConn)
	mysqlDB.SetConnMaxLifetime(MYSQLDatabaseConnMaxLifeTime)
	mysqlDB.SetConnMaxIdleTime(MYSQLDatabaseConnMaxIdleTime)

	if err = mysqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("error on ping mysql database connection [%s:%d]: %v", endpoint.Host, endpoint.Port, err)
	}
	return &Database{Ctx: ctx, DBConn: mysqlDB, schemaName: endpoint.Schema, callTimeout: callTimeout}, nil
}

func (d *Database) SchemaName() string {
	return d.schemaName
}

func (d *Database) QueryContext(query string, args ...any) (*sql.Rows, error) {
	return d.DBConn.QueryContext(d.Ctx, query, args...)
}

// GeneralQuery runs the query and returns every row as a column name -> string
// value map. SQL NULL values surface as the NULLABLE sentinel so callers can
// distinguish NULL from the empty string.
func (d *Database) GeneralQuery(query string, args ...any) ([]string, []map[string]string, error) {
	var (
		columns []string
		results []map[string]string
	)
	rows, err := d.QueryContext(query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("query failed, sql: [%v], error: [%v]", query, err)
	}
	defer rows.Close()

	// general query, automatic get column name
	columns, err = rows.Columns()
	if err != nil {
		return columns, results, fmt.Errorf("query rows.Columns failed, sql: [%v], error: [%v]", query, err)
	}

	values := make([][]byte, len(columns))
	scans := make([]interface{}, len(columns))
	for i := range values {
		scans[i] = &values[i]
	}

	for rows.Next() {
		err = rows.Scan(scans...)
		if err != nil {
			return columns, results, fmt.Errorf("query rows.Scan failed, sql: [%v], error: [%v]", query, err)
		}

		row := make(map[string]string)
		for k, v := range values {
			if v == nil {
				row[columns[k]] = "NULLABLE"
			} else {
				// Handling empty string and other values, the return value output string
				row[columns[k]] = string(v)
			}
		}
		results = append(results, row)
	}

	if err = rows.Err(); err != nil {
		return columns, results, fmt.Errorf("query rows.Next failed, sql: [%v], error: [%v]", query, err.Error())
	}
	return columns, results, nil
}

func (d *Database) Close() error {
	return d.DBConn.Close()
}
