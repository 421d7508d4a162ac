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
package errconcurrent

import (
	"fmt"
	"sync/atomic"
	"testing"
)

func TestGroupCollectsEveryResult(t *testing.T) {
	g := NewGroup()
	g.SetLimit(2)

	for i := 0; i < 5; i++ {
		table := fmt.Sprintf("t%d", i)
		g.Go(table, func(table string) error {
			if table == "t3" {
				return fmt.Errorf("table [%s] failed", table)
			}
			return nil
		})
	}

	results := g.Wait()
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}

	var failed []string
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Table)
		}
	}
	if len(failed) != 1 || failed[0] != "t3" {
		t.Errorf("failed tasks = %v, want [t3]", failed)
	}
}

func TestGroupHonorsLimit(t *testing.T) {
	g := NewGroup()
	g.SetLimit(2)

	var active, peak int64
	for i := 0; i < 8; i++ {
		g.Go(fmt.Sprintf("t%d", i), func(string) error {
			cur := atomic.AddInt64(&active, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
					break
				}
			}
			atomic.AddInt64(&active, -1)
			return nil
		})
	}
	g.Wait()

	if p := atomic.LoadInt64(&peak); p > 2 {
		t.Errorf("peak active goroutines = %d, want <= 2", p)
	}
}

func TestGroupUnbounded(t *testing.T) {
	g := NewGroup()
	g.Go("t0", func(string) error { return nil })
	if results := g.Wait(); len(results) != 1 {
		t.Errorf("results = %d, want 1", len(results))
	}
}
