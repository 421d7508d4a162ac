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
	"strconv"

	"github.com/dbvet/dbvet/utils/stringutil"
)

// Range represents a closed interval [Start, End] over an integer key domain.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Width returns the number of key values covered by the range.
func (rg Range) Width() int64 {
	return rg.End - rg.Start + 1
}

// Condition renders the range as a SQL filter on the given key column.
func (rg Range) Condition(keyColumn string) string {
	return stringutil.StringBuilder("`", keyColumn, "` BETWEEN ", strconv.FormatInt(rg.Start, 10), " AND ", strconv.FormatInt(rg.End, 10))
}

// String returns the string of Range, used for log and report.
func (rg Range) String() string {
	return fmt.Sprintf("[%d,%d]", rg.Start, rg.End)
}

// PartitionRanges divides the key domain [min, max] into contiguous, non-overlapping,
// gap-free closed ranges. Every range covers at most chunkSize key values, only the
// last range may be narrower. The caller is required to treat an empty domain
// (no min/max value) as its own state instead of calling the partitioner.
func PartitionRanges(min, max, chunkSize int64) ([]Range, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("the chunk size [%d] is invalid, require chunk size > 0", chunkSize)
	}
	if min > max {
		return nil, fmt.Errorf("the chunk domain is invalid, require min [%d] <= max [%d]", min, max)
	}

	var ranges []Range
	for cur := min; ; {
		end := cur + chunkSize - 1
		// guard against int64 wrap on domains close to the upper bound
		if end > max || end < cur {
			end = max
		}
		ranges = append(ranges, Range{Start: cur, End: end})
		if end == max {
			break
		}
		cur = end + 1
	}
	return ranges, nil
}
