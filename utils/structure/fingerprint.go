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
	"fmt"
)

// Fingerprint is the (row count, additive crc32 sum mod 2^32, crc32 xor) triple
// summarizing the content of a row set. The additive sum and the xor are both
// insensitive to the order rows are accumulated, the count catches cardinality
// drift. The triple detects accidental divergence, it is not a cryptographic
// digest.
type Fingerprint struct {
	RowCount int64  `json:"rowCount"`
	CrcSum   uint32 `json:"crcSum"`
	CrcXor   uint32 `json:"crcXor"`
}

// Accumulate folds one row checksum into the fingerprint. The additive sum
// wraps mod 2^32 by uint32 arithmetic.
func (f *Fingerprint) Accumulate(rowChecksum uint32) {
	f.RowCount++
	f.CrcSum += rowChecksum
	f.CrcXor ^= rowChecksum
}

// Equal reports whether all three statistics match.
func (f Fingerprint) Equal(o Fingerprint) bool {
	return f.RowCount == o.RowCount && f.CrcSum == o.CrcSum && f.CrcXor == o.CrcXor
}

// String renders the fingerprint in count:sum:xor form, used for log and report.
func (f Fingerprint) String() string {
	return fmt.Sprintf("%d:%d:%d", f.RowCount, f.CrcSum, f.CrcXor)
}
