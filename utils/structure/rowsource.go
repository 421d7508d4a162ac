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

// FingerprintRequest describes one fingerprint aggregation pushed into a
// database engine: the serialized-row expression plus the optional key-range
// filter, order-by columns and row limit of the row source.
type FingerprintRequest struct {
	TableName string
	// RowExpr is the SQL expression producing the canonical serialized row string.
	RowExpr string
	// KeyColumn and Range filter rows to `key BETWEEN start AND end` when Range is set.
	KeyColumn string
	Range     *Range
	// OrderKeys imposes a deterministic ordering. A row Limit without an order
	// over a total key is a heuristic, both sides must apply the identical
	// order and limit for the sample fingerprint to be comparable.
	OrderKeys []string
	// Limit bounds the row source, 0 means unlimited.
	Limit int64
}
