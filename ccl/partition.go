// Copyright 2025 go-sparseccl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ccl

// Validate checks the CellSoA sort-order precondition: cells grouped by
// ModuleID, and within a module sorted by Channel1 ascending with ties
// broken by Channel0 ascending. Callers that trust their input (the common
// case once a pipeline is stable) can skip this O(N) pass; orchestrator
// exposes it behind a Config option.
func Validate(soa *CellSoA) error {
	n := soa.Len()
	for i := 1; i < n; i++ {
		if soa.ModuleID[i] != soa.ModuleID[i-1] {
			continue
		}
		if soa.Channel1[i] < soa.Channel1[i-1] {
			return &InputNotSortedError{ModuleID: soa.ModuleID[i], Index: i}
		}
		if soa.Channel1[i] == soa.Channel1[i-1] && soa.Channel0[i] < soa.Channel0[i-1] {
			return &InputNotSortedError{ModuleID: soa.ModuleID[i], Index: i}
		}
	}
	return nil
}

// BuildPartitions slices soa into an ordered list of partitions covering
// every cell exactly once. A split point is declared between cell i-1 and
// cell i iff (a) i starts a new module, or (b) Channel1[i] jumps by more
// than one past the previous cell's Channel1 AND the current partition
// already holds at least 2*ThreadsPerBlock cells. Condition (a) is
// mandatory for correctness; condition (b) is safe because no cell left of
// such a gap can be 8-adjacent to any cell right of it, and the size
// threshold avoids over-splitting small runs.
//
// If an uninterrupted run (no usable gap) within one module would exceed
// MaxCellsPerPartition, BuildPartitions returns a *PartitionTooLargeError
// instead of silently forcing a split, since an arbitrary forced split
// could cut a cluster in two.
func BuildPartitions(soa *CellSoA) ([]Partition, error) {
	n := soa.Len()
	if n == 0 {
		return nil, nil
	}

	var partitions []Partition
	start := 0
	size := 0
	var lastChannel1 int32

	for i := 0; i < n; i++ {
		newModule := i == 0 || soa.ModuleID[i] != soa.ModuleID[i-1]

		if newModule {
			if size > 0 {
				partitions = append(partitions, Partition{Start: start, Size: size})
			}
			start = i
			size = 0
		} else if soa.Channel1[i] > lastChannel1+1 && size >= 2*ThreadsPerBlock {
			partitions = append(partitions, Partition{Start: start, Size: size})
			start = i
			size = 0
		}

		size++
		if size > MaxCellsPerPartition {
			return nil, &PartitionTooLargeError{ModuleID: soa.ModuleID[i], RunStart: start, RunSize: size}
		}

		lastChannel1 = soa.Channel1[i]
	}

	if size > 0 {
		partitions = append(partitions, Partition{Start: start, Size: size})
	}

	return partitions, nil
}
