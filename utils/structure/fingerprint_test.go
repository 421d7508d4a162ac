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
	"hash/crc32"
	"testing"
)

func TestFingerprintEmpty(t *testing.T) {
	var f Fingerprint
	if !f.Equal(Fingerprint{RowCount: 0, CrcSum: 0, CrcXor: 0}) {
		t.Errorf("fingerprint over empty row set = %v, want 0:0:0", f)
	}
}

func TestFingerprintOrderIndependence(t *testing.T) {
	rows := []string{"1#a", "2#b", "3#<<NULL>>", "4#d", "4#d"}

	var forward, backward Fingerprint
	for _, r := range rows {
		forward.Accumulate(crc32.ChecksumIEEE([]byte(r)))
	}
	for i := len(rows) - 1; i >= 0; i-- {
		backward.Accumulate(crc32.ChecksumIEEE([]byte(rows[i])))
	}

	if !forward.Equal(backward) {
		t.Errorf("fingerprint depends on accumulation order: %v != %v", forward, backward)
	}
	if forward.RowCount != int64(len(rows)) {
		t.Errorf("row count = %d, want %d", forward.RowCount, len(rows))
	}
}

func TestFingerprintEqual(t *testing.T) {
	tests := []struct {
		name string
		a    Fingerprint
		b    Fingerprint
		want bool
	}{
		{"identical", Fingerprint{5, 100, 7}, Fingerprint{5, 100, 7}, true},
		{"count differs", Fingerprint{5, 100, 7}, Fingerprint{6, 100, 7}, false},
		{"sum differs", Fingerprint{5, 100, 7}, Fingerprint{5, 101, 7}, false},
		{"xor differs", Fingerprint{5, 100, 7}, Fingerprint{5, 100, 8}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestFingerprintSumWraps(t *testing.T) {
	var f Fingerprint
	f.Accumulate(4294967295)
	f.Accumulate(2)
	if f.CrcSum != 1 {
		t.Errorf("additive hash should wrap mod 2^32, got %d", f.CrcSum)
	}
}

func TestFingerprintString(t *testing.T) {
	f := Fingerprint{RowCount: 3, CrcSum: 17, CrcXor: 9}
	if got := f.String(); got != "3:17:9" {
		t.Errorf("String() = %q, want %q", got, "3:17:9")
	}
}
