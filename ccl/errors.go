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

import "fmt"

// PartitionTooLargeError reports a module whose uninterrupted run of cells
// (no Channel1 gap large enough to force a split) exceeds
// MaxCellsPerPartition. It is fatal: the caller must either raise the cap or
// pre-split the offending module, per spec.
type PartitionTooLargeError struct {
	ModuleID uint64
	RunStart int
	RunSize  int
}

func (e *PartitionTooLargeError) Error() string {
	return fmt.Sprintf("ccl: module %d: run starting at cell %d has size %d, exceeds MaxCellsPerPartition=%d with no channel1 gap to split on",
		e.ModuleID, e.RunStart, e.RunSize, MaxCellsPerPartition)
}

// InputNotSortedError reports a violation of the CellSoA sort-order
// precondition (grouped by module, then Channel1 ascending, ties broken by
// Channel0 ascending), detected by Validate.
type InputNotSortedError struct {
	ModuleID uint64
	Index    int
}

func (e *InputNotSortedError) Error() string {
	return fmt.Sprintf("ccl: module %d: cell at index %d violates the (channel1, channel0) sort order", e.ModuleID, e.Index)
}

// ExecutorFailureError wraps any error encountered while dispatching or
// running a partition's work (the Go analogue of an executor/launch
// failure). It is fatal and surfaced unchanged; there is no retry, since the
// computation is deterministic given fixed inputs.
type ExecutorFailureError struct {
	PartitionIndex int
	Err            error
}

func (e *ExecutorFailureError) Error() string {
	return fmt.Sprintf("ccl: partition %d: executor failure: %v", e.PartitionIndex, e.Err)
}

func (e *ExecutorFailureError) Unwrap() error {
	return e.Err
}
