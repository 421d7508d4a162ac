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
	"reflect"
	"testing"
)

func TestPartitionRanges(t *testing.T) {
	tests := []struct {
		name      string
		min       int64
		max       int64
		chunkSize int64
		want      []Range
	}{
		{"single value domain", 7, 7, 100, []Range{{7, 7}}},
		{"chunk covers whole domain", 1, 10, 10, []Range{{1, 10}}},
		{"chunk wider than domain", 1, 10, 1000, []Range{{1, 10}}},
		{"exact multiple", 1, 6, 2, []Range{{1, 2}, {3, 4}, {5, 6}}},
		{"narrow last range", 1, 5, 2, []Range{{1, 2}, {3, 4}, {5, 5}}},
		{"negative domain", -5, 3, 4, []Range{{-5, -2}, {-1, 2}, {3, 3}}},
		{"width one chunks", 1, 3, 1, []Range{{1, 1}, {2, 2}, {3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PartitionRanges(tt.min, tt.max, tt.chunkSize)
			if err != nil {
				t.Fatalf("PartitionRanges(%d, %d, %d) error = %v", tt.min, tt.max, tt.chunkSize, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PartitionRanges(%d, %d, %d) = %v, want %v", tt.min, tt.max, tt.chunkSize, got, tt.want)
			}
		})
	}
}

func TestPartitionRangesInvariants(t *testing.T) {
	tests := []struct {
		min       int64
		max       int64
		chunkSize int64
	}{
		{1, 5, 2},
		{0, 199999, 200000},
		{0, 200000, 200000},
		{-100, 100, 7},
		{1, 1000000, 3},
	}

	for _, tt := range tests {
		ranges, err := PartitionRanges(tt.min, tt.max, tt.chunkSize)
		if err != nil {
			t.Fatalf("PartitionRanges(%d, %d, %d) error = %v", tt.min, tt.max, tt.chunkSize, err)
		}
		if ranges[0].Start != tt.min {
			t.Errorf("first range starts at %d, want %d", ranges[0].Start, tt.min)
		}
		if ranges[len(ranges)-1].End != tt.max {
			t.Errorf("last range ends at %d, want %d", ranges[len(ranges)-1].End, tt.max)
		}
		for i, rg := range ranges {
			if rg.Start > rg.End {
				t.Errorf("range %d is inverted: %v", i, rg)
			}
			if rg.Width() > tt.chunkSize {
				t.Errorf("range %d width %d exceeds chunk size %d", i, rg.Width(), tt.chunkSize)
			}
			if i > 0 && ranges[i-1].End+1 != rg.Start {
				t.Errorf("gap or overlap between range %d and %d: %v %v", i-1, i, ranges[i-1], rg)
			}
		}
	}
}

func TestPartitionRangesInvalid(t *testing.T) {
	if _, err := PartitionRanges(1, 10, 0); err == nil {
		t.Errorf("PartitionRanges with chunk size 0 should fail")
	}
	if _, err := PartitionRanges(1, 10, -5); err == nil {
		t.Errorf("PartitionRanges with negative chunk size should fail")
	}
	if _, err := PartitionRanges(10, 1, 5); err == nil {
		t.Errorf("PartitionRanges with min > max should fail")
	}
}

func TestRangeCondition(t *testing.T) {
	rg := Range{Start: 3, End: 4}
	want := "`id` BETWEEN 3 AND 4"
	if got := rg.Condition("id"); got != want {
		t.Errorf("Condition() = %q, want %q", got, want)
	}
}
